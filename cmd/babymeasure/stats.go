// ABOUTME: CLI command for daily aggregates with an ASCII chart.
// ABOUTME: The terminal rendition of the original analytics tab.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/antarcticrainforest/babymeasure/internal/models"
)

var (
	statsDays    int
	statsSubject string
	statsNoChart bool
)

var statsCmd = &cobra.Command{
	Use:   "stats <metric>",
	Short: "Daily totals for one metric",
	Long: `Aggregate one metric per calendar day and render the series as an
ASCII chart. Amount metrics (formula, breastmilk) sum per day, event
metrics (pee, poop) count per day.

EXAMPLES:

  babymeasure stats formula            # Bottle ml per day, last 10 days
  babymeasure stats poop --days 30     # Nappy counts over a month
  babymeasure stats weight --no-chart  # Table only`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		metric := args[0]
		if !models.IsValidMetric(metric) {
			return fmt.Errorf("unknown metric: %s", metric)
		}
		subject := subjectOrDefault(statsSubject)

		totals, err := store.DailyTotals(cmd.Context(), subject, models.Metric(metric), statsDays)
		if err != nil {
			return fmt.Errorf("failed to aggregate: %w", err)
		}
		if len(totals) == 0 {
			fmt.Println("No entries in the window.")
			return nil
		}

		unit := models.MetricUnits[models.Metric(metric)]
		faint := color.New(color.Faint)
		var series []float64
		for _, t := range totals {
			value := t.Total
			if models.Metric(metric).IsEvent() {
				value = float64(t.Count)
			}
			series = append(series, value)
			fmt.Printf("%s  %8.2f %s  %s\n",
				t.Day, value, unit, faint.Sprintf("(%d entries)", t.Count))
		}

		if !statsNoChart && len(series) > 1 {
			fmt.Println()
			fmt.Println(asciigraph.Plot(series,
				asciigraph.Height(10),
				asciigraph.Caption(fmt.Sprintf("%s per day [%s]", metric, unit))))
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().IntVar(&statsDays, "days", 10, "window size in days")
	statsCmd.Flags().StringVar(&statsSubject, "subject", "", "child to aggregate")
	statsCmd.Flags().BoolVar(&statsNoChart, "no-chart", false, "suppress the ASCII chart")
	rootCmd.AddCommand(statsCmd)
}
