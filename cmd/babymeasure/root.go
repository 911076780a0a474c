// ABOUTME: Root Cobra command for the babymeasure CLI.
// ABOUTME: Loads config and opens the record store in PersistentPre/PostRunE.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/antarcticrainforest/babymeasure/internal/config"
	"github.com/antarcticrainforest/babymeasure/internal/storage"
)

var (
	cfg   *config.Config
	store storage.Store
)

var rootCmd = &cobra.Command{
	Use:   "babymeasure",
	Short: "Baby growth and feeding tracker",
	Long: `Babymeasure keeps a record of measurements for your baby.

WHAT IT TRACKS:

  Body     weight, height, head
  Feeding  formula, breastmilk (amounts), breastfeeding (duration)
  Nappy    pee, poop

QUICK START:

  $ babymeasure add weight 4.2            # Log a weight
  $ babymeasure add formula 120           # 120 ml of formula
  $ babymeasure add poop                  # Nappy event, no value needed
  $ babymeasure add body 4.2 54 37.5      # Weight, height and head at once
  $ babymeasure list                      # Recent entries
  $ babymeasure list --metric weight      # Filter by metric
  $ babymeasure stats formula             # Daily totals with a chart

SERVER:

  $ babymeasure serve                     # JSON API on :5080
  $ babymeasure bot                       # Telegram bot
  $ babymeasure mcp                       # MCP server for AI assistants

DATA STORAGE:

  Entries live in the configured MySQL database (schema baby_measure),
  or in a local SQLite file when the sqlite backend is selected.
  Run 'babymeasure configure' to set up the connection.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch cmd.Name() {
		case "help", "completion", "configure":
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		store, err = cfg.OpenStore()
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if store != nil {
			return store.Close()
		}
		return nil
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}
