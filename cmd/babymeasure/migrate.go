// ABOUTME: CLI command for copying data between storage backends.
// ABOUTME: Typically used to move a local SQLite database into MySQL.
package main

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/antarcticrainforest/babymeasure/internal/storage"
)

var (
	migrateTo     string
	migrateDryRun bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy data to another backend",
	Long: `Copy every record from the configured backend into another one.

The source is whatever backend the config selects; the target is named
with --to. Records that already exist in the target cause errors, the
migration never overwrites.

USAGE:

  babymeasure migrate --to mysql --dry-run  # Preview
  babymeasure migrate --to mysql            # Push local sqlite data to MySQL
  babymeasure migrate --to sqlite           # Pull MySQL data to a local file`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if migrateTo == cfg.GetBackend() {
			return fmt.Errorf("source and target backend are both %q", migrateTo)
		}

		data, err := store.GetAllData(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to read source data: %w", err)
		}

		if migrateDryRun {
			color.Yellow("Dry run mode - no changes will be made")
			fmt.Printf("Would migrate %d measurements and %d bot users to %s\n",
				len(data.Measurements), len(data.TelegramUsers), migrateTo)
			return nil
		}

		var target storage.Store
		switch migrateTo {
		case "mysql":
			target, err = storage.OpenMySQL(cfg.DSN())
		case "sqlite":
			target, err = storage.OpenSQLite(filepath.Join(cfg.GetDataDir(), "babymeasure.db"))
		default:
			return fmt.Errorf("unknown backend %q (want mysql or sqlite)", migrateTo)
		}
		if err != nil {
			return fmt.Errorf("failed to open target backend: %w", err)
		}
		defer target.Close()

		if err := target.ImportData(cmd.Context(), data); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		color.Green("✓ Migrated %d measurements and %d bot users to %s",
			len(data.Measurements), len(data.TelegramUsers), migrateTo)
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrateTo, "to", "mysql", "target backend: mysql or sqlite")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "preview migration without making changes")
	rootCmd.AddCommand(migrateCmd)
}
