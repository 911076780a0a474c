// ABOUTME: CLI commands for exporting and importing the record store.
// ABOUTME: JSON or YAML backup envelopes, written to a file or stdout.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/antarcticrainforest/babymeasure/internal/storage"
)

var (
	exportOutput string
	exportFormat string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all data",
	Long: `Export every measurement and bot user as a backup envelope.

EXAMPLES:

  babymeasure export                        # JSON to stdout
  babymeasure export -o backup.json         # JSON to a file
  babymeasure export --format yaml -o b.yml # YAML backup`,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := store.GetAllData(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to export: %w", err)
		}

		raw, err := storage.MarshalExport(data, exportFormat)
		if err != nil {
			return err
		}

		if exportOutput == "" {
			fmt.Println(string(raw))
			return nil
		}
		if err := os.WriteFile(exportOutput, raw, 0600); err != nil {
			return fmt.Errorf("failed to write %s: %w", exportOutput, err)
		}
		color.Green("✓ Exported %d measurements to %s", len(data.Measurements), exportOutput)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a backup",
	Long: `Import a backup envelope created by 'babymeasure export'.
Existing IDs cause errors; the import never overwrites.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		data, err := storage.UnmarshalExport(raw)
		if err != nil {
			return err
		}

		if err := store.ImportData(cmd.Context(), data); err != nil {
			return fmt.Errorf("failed to import: %w", err)
		}
		color.Green("✓ Imported %d measurements", len(data.Measurements))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default stdout)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "export format: json or yaml")
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
