// ABOUTME: CLI command for adding measurements.
// ABOUTME: Handles single metrics, nappy events and the body triple.
package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/antarcticrainforest/babymeasure/internal/models"
)

var (
	addAt      string
	addNotes   string
	addSubject string
)

var addCmd = &cobra.Command{
	Use:     "add <metric> [value...]",
	Aliases: []string{"a", "log"},
	Short:   "Add a measurement",
	Long: `Add a measurement. Nappy events (pee, poop) need no value, and
'body' logs weight, height and head circumference in one go.

Examples:
  babymeasure add weight 4.2
  babymeasure add formula 120 --at "2026-08-14 07:00"
  babymeasure add breastfeeding 15 --notes "left side"
  babymeasure add poop
  babymeasure add body 4.2 54 37.5`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		metric := args[0]

		if metric == "body" {
			return addBody(cmd, args[1:])
		}
		if !models.IsValidMetric(metric) {
			return fmt.Errorf("unknown metric: %s\nValid metrics: weight, height, head, formula, breastmilk, breastfeeding, pee, poop", metric)
		}

		mt := models.Metric(metric)
		value := 1.0
		if !mt.IsEvent() {
			if len(args) < 2 {
				return fmt.Errorf("%s requires a value", metric)
			}
			var err error
			value, err = strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid value: %s", args[1])
			}
		}

		m := models.NewMeasurement(subjectOrDefault(addSubject), mt, value)
		if addAt != "" {
			t, err := parseTime(addAt)
			if err != nil {
				return fmt.Errorf("invalid timestamp: %s", addAt)
			}
			m.WithRecordedAt(t)
		}
		if addNotes != "" {
			m.WithNotes(addNotes)
		}

		if err := store.AddMeasurement(cmd.Context(), m); err != nil {
			return fmt.Errorf("failed to add measurement: %w", err)
		}

		color.Green("✓ Added %s for %s", metric, m.Subject)
		if mt.IsEvent() {
			fmt.Printf("  %s %s\n",
				color.New(color.Faint).Sprint(m.ID.String()[:8]),
				m.RecordedAt.Format("2006-01-02 15:04"))
		} else {
			fmt.Printf("  %s %.2f %s\n",
				color.New(color.Faint).Sprint(m.ID.String()[:8]),
				m.Value, m.Unit)
		}
		return nil
	},
}

// addBody logs the weight/height/head triple with a shared timestamp,
// the way the original entry form submitted them together.
func addBody(cmd *cobra.Command, values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("body requires at least a weight, e.g.: add body 4.2 54 37.5")
	}
	metrics := []models.Metric{models.MetricWeight, models.MetricHeight, models.MetricHead}
	if len(values) > len(metrics) {
		return fmt.Errorf("body takes at most three values: weight, height, head")
	}

	recordedAt := time.Now()
	if addAt != "" {
		var err error
		recordedAt, err = parseTime(addAt)
		if err != nil {
			return fmt.Errorf("invalid timestamp: %s", addAt)
		}
	}

	subject := subjectOrDefault(addSubject)
	var added []*models.Measurement
	for i, raw := range values {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("invalid value: %s", raw)
		}
		m := models.NewMeasurement(subject, metrics[i], value).WithRecordedAt(recordedAt)
		if addNotes != "" {
			m.WithNotes(addNotes)
		}
		if err := store.AddMeasurement(cmd.Context(), m); err != nil {
			return fmt.Errorf("failed to add %s: %w", metrics[i], err)
		}
		added = append(added, m)
	}

	color.Green("✓ Added body measurements for %s", subject)
	for _, m := range added {
		fmt.Printf("  %s %-7s %.2f %s\n",
			color.New(color.Faint).Sprint(m.ID.String()[:8]),
			m.Metric, m.Value, m.Unit)
	}
	return nil
}

func subjectOrDefault(subject string) string {
	if subject != "" {
		return subject
	}
	return cfg.GetSubject()
}

func parseTime(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02 15:04",
		"2006-01-02T15:04",
		"2006-01-02",
		time.RFC3339,
	}
	for _, f := range formats {
		if t, err := time.ParseInLocation(f, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time format")
}

func init() {
	addCmd.Flags().StringVar(&addAt, "at", "", "timestamp (YYYY-MM-DD HH:MM)")
	addCmd.Flags().StringVar(&addNotes, "notes", "", "notes for the entry")
	addCmd.Flags().StringVar(&addSubject, "subject", "", "child the entry belongs to")
	rootCmd.AddCommand(addCmd)
}
