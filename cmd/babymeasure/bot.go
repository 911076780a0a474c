// ABOUTME: CLI command that runs the Telegram bot.
// ABOUTME: Long-polls Telegram and answers chatbot messages.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/antarcticrainforest/babymeasure/internal/chatbot"
	"github.com/antarcticrainforest/babymeasure/internal/logging"
	"github.com/antarcticrainforest/babymeasure/internal/telegram"
)

var botDebug bool

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the Telegram bot",
	Long: `Run the Telegram bot with long polling.

The bot answers the same keyword commands as the /api/bot endpoint.
New users must send the configured secret phrase before the bot will
talk to them; three wrong attempts and the user is ignored for good.

Requires telegram_token and telegram_secret in the config file, or the
TELEGRAM_TOKEN and TELEGRAM_SECRET environment variables.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.TelegramToken == "" {
			return fmt.Errorf("no telegram token configured, run 'babymeasure configure' or set TELEGRAM_TOKEN")
		}

		log := logging.New(botDebug)
		responder := chatbot.NewResponder(store, cfg.GetSubject())

		bot, err := telegram.New(cfg.TelegramToken, cfg.TelegramSecret, store, responder, log)
		if err != nil {
			return fmt.Errorf("failed to start bot: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return bot.Run(ctx)
	},
}

func init() {
	botCmd.Flags().BoolVar(&botDebug, "debug", false, "enable debug logging")
	rootCmd.AddCommand(botCmd)
}
