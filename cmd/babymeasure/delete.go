// ABOUTME: CLI commands for deleting and editing measurements.
// ABOUTME: Both accept a full ID or a unique ID prefix.
package main

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a measurement",
	Long: `Delete a measurement by its ID or ID prefix.

The ID prefix is shown in the first column of 'babymeasure list' output.
If the prefix matches multiple entries, an error is returned.

This permanently deletes the entry. There is no undo.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		idOrPrefix := args[0]

		m, err := store.GetMeasurement(cmd.Context(), idOrPrefix)
		if err != nil {
			return fmt.Errorf("entry not found: %s", idOrPrefix)
		}
		if err := store.DeleteMeasurement(cmd.Context(), idOrPrefix); err != nil {
			return fmt.Errorf("failed to delete entry: %w", err)
		}

		color.Yellow("✗ Deleted %s", m.Metric)
		fmt.Printf("  %s %.2f %s\n",
			color.New(color.Faint).Sprint(m.ID.String()[:8]),
			m.Value, m.Unit)
		return nil
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <id> <value>",
	Short: "Change a measurement's value",
	Long: `Change the value of an existing entry, keeping its timestamp.

EXAMPLES:

  babymeasure edit abc12345 4.35    # Correct a mistyped weight`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid value: %s", args[1])
		}

		m, err := store.UpdateMeasurementValue(cmd.Context(), args[0], value)
		if err != nil {
			return fmt.Errorf("failed to edit entry: %w", err)
		}

		color.Green("✓ Updated %s", m.Metric)
		fmt.Printf("  %s %.2f %s\n",
			color.New(color.Faint).Sprint(m.ID.String()[:8]),
			m.Value, m.Unit)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(editCmd)
}
