// ABOUTME: Configuration file handling with environment overrides.
// ABOUTME: JSON file at the XDG config path, MYSQL_* variables win over it.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v6"

	"github.com/antarcticrainforest/babymeasure/internal/storage"
)

// Config stores the babymeasure settings. The JSON field names match the
// config file the original deployment shipped, so an existing
// db_config.json keeps working.
type Config struct {
	// Backend selects the storage backend: "mysql" (default) or "sqlite".
	Backend string `json:"backend,omitempty"`

	DBHost   string `json:"db_host,omitempty"`
	DBPort   string `json:"db_port,omitempty"`
	DBName   string `json:"db_name,omitempty"`
	DBUser   string `json:"db_user,omitempty"`
	DBPasswd string `json:"db_passwd,omitempty"`

	// Subject is the default child entries are recorded for.
	Subject string `json:"subject,omitempty"`

	// Listen is the HTTP API address, e.g. ":5080".
	Listen string `json:"listen,omitempty"`

	// DataDir holds the sqlite database and the read cache.
	// Supports ~ expansion. Defaults to ~/.local/share/babymeasure.
	DataDir string `json:"data_dir,omitempty"`

	TelegramToken  string `json:"tg_token,omitempty"`
	TelegramSecret string `json:"tg_secret,omitempty"`
}

// overrides mirrors the environment the container images declare.
type overrides struct {
	DBHost     string `env:"MYSQL_ROOT_HOST"`
	DBPort     string `env:"MYSQL_PORT"`
	DBName     string `env:"MYSQL_DATABASE"`
	DBUser     string `env:"MYSQL_USER"`
	DBPasswd   string `env:"MYSQL_PASSWORD"`
	RootPasswd string `env:"MYSQL_ROOT_PASSWORD"`
	Listen     string `env:"BM_LISTEN"`
	Subject    string `env:"BM_SUBJECT"`
	TgToken    string `env:"TELEGRAM_TOKEN"`
	TgSecret   string `env:"TELEGRAM_SECRET"`
}

// Defaults matching the original deployment.
const (
	DefaultDBHost  = "localhost"
	DefaultDBPort  = "3306"
	DefaultDBName  = "baby_measure"
	DefaultDBUser  = "baby"
	DefaultListen  = ":5080"
	DefaultSubject = "baby"
)

// Default returns a config populated with the deployment defaults.
func Default() *Config {
	return &Config{
		Backend: "mysql",
		DBHost:  DefaultDBHost,
		DBPort:  DefaultDBPort,
		DBName:  DefaultDBName,
		DBUser:  DefaultDBUser,
		Listen:  DefaultListen,
		Subject: DefaultSubject,
	}
}

// GetBackend returns the configured backend, defaulting to "mysql".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return "mysql"
	}
	return c.Backend
}

// GetSubject returns the default subject for new entries.
func (c *Config) GetSubject() string {
	if c.Subject == "" {
		return DefaultSubject
	}
	return c.Subject
}

// GetListen returns the HTTP listen address.
func (c *Config) GetListen() string {
	if c.Listen == "" {
		return DefaultListen
	}
	return c.Listen
}

// GetDataDir returns the data directory with ~ expanded.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return DataDir()
	}
	return ExpandPath(c.DataDir)
}

// DataDir returns the default data directory following the XDG spec.
func DataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "babymeasure")
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// DSN builds the MySQL connection string from the configured settings.
func (c *Config) DSN() string {
	host := c.DBHost
	if host == "" {
		host = DefaultDBHost
	}
	port := c.DBPort
	if port == "" {
		port = DefaultDBPort
	}
	name := c.DBName
	if name == "" {
		name = DefaultDBName
	}
	user := c.DBUser
	if user == "" {
		user = DefaultDBUser
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=false", user, c.DBPasswd, host, port, name)
}

// OpenStore creates a Store implementation for the configured backend.
func (c *Config) OpenStore() (storage.Store, error) {
	switch c.GetBackend() {
	case "mysql":
		return storage.OpenMySQL(c.DSN())
	case "sqlite":
		dbPath := filepath.Join(c.GetDataDir(), "babymeasure.db")
		return storage.OpenSQLite(dbPath)
	default:
		return nil, fmt.Errorf("unknown backend: %q", c.Backend)
	}
}

// GetConfigPath returns the config file path. BABY_CONFIG_FILE or
// CONFIG_FILE point at a file, CONFIG_DIR at a directory holding
// config.json; otherwise the XDG config directory is used.
func GetConfigPath() string {
	for _, key := range []string{"BABY_CONFIG_FILE", "CONFIG_FILE"} {
		if path := os.Getenv(key); path != "" {
			return ExpandPath(path)
		}
	}
	if dir := os.Getenv("CONFIG_DIR"); dir != "" {
		return filepath.Join(ExpandPath(dir), "config.json")
	}
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "babymeasure", "config.json")
}

// Load reads the config file and applies environment overrides.
// A missing file yields a config with defaults only.
func Load() (*Config, error) {
	cfg := &Config{}
	path := GetConfigPath()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// defaults only
	default:
		return nil, err
	}

	var ov overrides
	if err := env.Parse(&ov); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	cfg.applyOverrides(ov)
	return cfg, nil
}

func (c *Config) applyOverrides(ov overrides) {
	if ov.DBHost != "" {
		c.DBHost = ov.DBHost
	}
	if ov.DBPort != "" {
		c.DBPort = ov.DBPort
	}
	if ov.DBName != "" {
		c.DBName = ov.DBName
	}
	if ov.DBUser != "" {
		c.DBUser = ov.DBUser
	}
	if ov.DBPasswd != "" {
		c.DBPasswd = ov.DBPasswd
	} else if c.DBPasswd == "" && ov.RootPasswd != "" {
		c.DBPasswd = ov.RootPasswd
	}
	if ov.Listen != "" {
		c.Listen = ov.Listen
	}
	if ov.Subject != "" {
		c.Subject = ov.Subject
	}
	if ov.TgToken != "" {
		c.TelegramToken = ov.TgToken
	}
	if ov.TgSecret != "" {
		c.TelegramSecret = ov.TgSecret
	}
}

// Save writes the config to disk with restrictive permissions, the
// file carries the database password.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
