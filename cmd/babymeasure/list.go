// ABOUTME: CLI commands for listing measurements and showing latest values.
// ABOUTME: Supports filtering by subject and metric and limiting results.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/antarcticrainforest/babymeasure/internal/models"
	"github.com/antarcticrainforest/babymeasure/internal/storage"
)

var (
	listMetric  string
	listSubject string
	listLimit   int
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List measurements",
	Long: `List recent measurements, most recent first.

Each line shows: ID  TIMESTAMP  METRIC  VALUE  UNIT  (NOTES)
The ID is an 8-character prefix usable with delete and edit.

EXAMPLES:

  babymeasure list                     # Last 20 entries (all metrics)
  babymeasure list --metric weight     # Only weight entries
  babymeasure list -m formula -n 50    # Last 50 bottle feeds
  babymeasure list --subject emma      # A specific child`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := storage.Filter{Subject: listSubject, Limit: listLimit}
		if listMetric != "" {
			if !models.IsValidMetric(listMetric) {
				return fmt.Errorf("unknown metric: %s", listMetric)
			}
			m := models.Metric(listMetric)
			f.Metric = &m
		}

		measurements, err := store.ListMeasurements(cmd.Context(), f)
		if err != nil {
			return fmt.Errorf("failed to list measurements: %w", err)
		}
		if len(measurements) == 0 {
			fmt.Println("No entries found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, m := range measurements {
			notes := ""
			if m.Notes != nil && *m.Notes != "" {
				notes = faint.Sprintf(" (%s)", truncate(*m.Notes, 30))
			}
			value := fmt.Sprintf("%.2f %s", m.Value, m.Unit)
			if m.Metric.IsEvent() {
				value = "-"
			}
			fmt.Printf("%s %s %s %s %s%s\n",
				faint.Sprint(m.ID.String()[:8]),
				faint.Sprint(m.RecordedAt.Format("2006-01-02 15:04")),
				padRight(string(m.Metric), 14),
				padRight(m.Subject, 8),
				value,
				notes)
		}
		return nil
	},
}

var latestCmd = &cobra.Command{
	Use:   "latest [metric]",
	Short: "Show the most recent value per metric",
	Long: `Show the most recent entry for one metric, or for every metric when
none is given. This matches the "Last: ..." labels of the entry form.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		subject := subjectOrDefault(listSubject)

		metrics := models.AllMetrics
		if len(args) == 1 {
			if !models.IsValidMetric(args[0]) {
				return fmt.Errorf("unknown metric: %s", args[0])
			}
			metrics = []models.Metric{models.Metric(args[0])}
		}

		faint := color.New(color.Faint)
		found := false
		for _, metric := range metrics {
			m, err := store.LatestMeasurement(cmd.Context(), subject, metric)
			if err != nil {
				continue
			}
			found = true
			value := fmt.Sprintf("%.2f %s", m.Value, m.Unit)
			if m.Metric.IsEvent() {
				value = ""
			}
			fmt.Printf("%s %s %s\n",
				padRight(string(metric), 14),
				padRight(value, 12),
				faint.Sprintf("at %s", m.RecordedAt.Format("Mon 2006-01-02 15:04")))
		}
		if !found {
			fmt.Println("No entries yet.")
		}
		return nil
	},
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

func init() {
	listCmd.Flags().StringVarP(&listMetric, "metric", "m", "", "filter by metric")
	listCmd.Flags().StringVar(&listSubject, "subject", "", "filter by child")
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 20, "max number of results")
	latestCmd.Flags().StringVar(&listSubject, "subject", "", "child to show")
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(latestCmd)
}
