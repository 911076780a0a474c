// ABOUTME: CLI command that runs the HTTP API server.
// ABOUTME: Wires the record store, read cache and chi router together.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/antarcticrainforest/babymeasure/internal/cache"
	"github.com/antarcticrainforest/babymeasure/internal/logging"
	"github.com/antarcticrainforest/babymeasure/internal/server"
)

var (
	serveListen string
	serveDebug  bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Run the JSON API on the configured listen address (default :5080).

The server exposes measurement CRUD, per-subject views, daily totals,
the chatbot endpoint, Prometheus metrics at /metrics and /healthz.
Responses to read endpoints are cached for five minutes and invalidated
on writes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logging.New(serveDebug)

		c, err := cache.Open(filepath.Join(cfg.GetDataDir(), "cache"))
		if err != nil {
			log.Warn("falling back to in-memory cache", "error", err)
			c, err = cache.OpenInMemory()
			if err != nil {
				return fmt.Errorf("failed to open cache: %w", err)
			}
		}
		defer c.Close()

		addr := serveListen
		if addr == "" {
			addr = cfg.GetListen()
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := server.New(store, c, log, cfg.GetSubject())
		return srv.Run(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "listen address (overrides config)")
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "enable debug logging")
	rootCmd.AddCommand(serveCmd)
}
