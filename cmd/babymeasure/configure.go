// ABOUTME: CLI command for interactive configuration.
// ABOUTME: Prompts for database and bot settings, writes the config file.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/antarcticrainforest/babymeasure/internal/config"
)

var configureCmd = &cobra.Command{
	Use:     "configure",
	Aliases: []string{"config"},
	Short:   "Configure the database connection",
	Long: `Interactively configure the storage backend and Telegram bot.

Environment variables (MYSQL_ROOT_HOST, MYSQL_PORT, MYSQL_DATABASE,
MYSQL_USER, MYSQL_PASSWORD) take precedence over prompts, so the
command can also run unattended in a container entrypoint.

The config file is written with mode 0600 since it contains the
database password.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			cfg = config.Default()
		}
		fillDefaults(cfg)

		in := bufio.NewReader(cmd.InOrStdin())

		cfg.Backend = prompt(in, "Storage backend (mysql|sqlite)", cfg.GetBackend())
		if cfg.Backend == "mysql" {
			cfg.DBHost = envOrPrompt(in, "MYSQL_ROOT_HOST", "DB server", cfg.DBHost)
			cfg.DBPort = envOrPrompt(in, "MYSQL_PORT", "DB port", cfg.DBPort)
			cfg.DBName = envOrPrompt(in, "MYSQL_DATABASE", "DB name", cfg.DBName)
			cfg.DBUser = envOrPrompt(in, "MYSQL_USER", "DB user name", cfg.DBUser)
			cfg.DBPasswd = envOrPrompt(in, "MYSQL_PASSWORD", "DB passwd", cfg.DBPasswd)
		}
		cfg.Subject = prompt(in, "Default subject", cfg.GetSubject())

		useBot := prompt(in, "Use a Telegram chatbot to log and query entries? [y|N]", "n")
		if strings.HasPrefix(strings.ToLower(useBot), "y") {
			cfg.TelegramToken = prompt(in, "Telegram API token", cfg.TelegramToken)
			cfg.TelegramSecret = prompt(in, "Secret sentence you give to users for authorisation", cfg.TelegramSecret)
			if cfg.TelegramSecret == "" {
				return fmt.Errorf("a secret sentence is required for the bot")
			}
		}

		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		color.Green("✓ Configuration saved to %s", config.GetConfigPath())

		s, err := cfg.OpenStore()
		if err != nil {
			color.Yellow("Warning: could not reach the database: %v", err)
			return nil
		}
		defer s.Close()
		if err := s.Ping(cmd.Context()); err != nil {
			color.Yellow("Warning: could not reach the database: %v", err)
			return nil
		}
		color.Green("✓ Database connection OK")
		return nil
	},
}

// fillDefaults seeds empty fields so prompts show sensible defaults.
func fillDefaults(c *config.Config) {
	def := config.Default()
	if c.Backend == "" {
		c.Backend = def.Backend
	}
	if c.DBHost == "" {
		c.DBHost = def.DBHost
	}
	if c.DBPort == "" {
		c.DBPort = def.DBPort
	}
	if c.DBName == "" {
		c.DBName = def.DBName
	}
	if c.DBUser == "" {
		c.DBUser = def.DBUser
	}
	if c.Subject == "" {
		c.Subject = def.Subject
	}
}

// prompt reads one answer, falling back to def on empty input.
func prompt(in *bufio.Reader, label, def string) string {
	if def != "" {
		fmt.Printf("%s [%s]: ", label, def)
	} else {
		fmt.Printf("%s: ", label)
	}
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return def
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return def
	}
	return line
}

// envOrPrompt prefers the environment variable and only asks when unset.
func envOrPrompt(in *bufio.Reader, envVar, label, def string) string {
	if v := os.Getenv(envVar); v != "" {
		return v
	}
	return prompt(in, label, def)
}

func init() {
	rootCmd.AddCommand(configureCmd)
}
