// ABOUTME: Measurement model and Metric enum for baby growth data.
// ABOUTME: Covers body measures, bottle/breast feeding and nappy events.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Metric represents the kind of measurement being recorded.
type Metric string

const (
	// Body
	MetricWeight Metric = "weight"
	MetricHeight Metric = "height"
	MetricHead   Metric = "head"

	// Feeding
	MetricFormula       Metric = "formula"
	MetricBreastMilk    Metric = "breastmilk"
	MetricBreastFeeding Metric = "breastfeeding"

	// Nappy
	MetricPee  Metric = "pee"
	MetricPoop Metric = "poop"
)

// MetricUnits maps metrics to their display units.
var MetricUnits = map[Metric]string{
	MetricWeight:        "kg",
	MetricHeight:        "cm",
	MetricHead:          "cm",
	MetricFormula:       "ml",
	MetricBreastMilk:    "ml",
	MetricBreastFeeding: "min",
	MetricPee:           "count",
	MetricPoop:          "count",
}

// AllMetrics returns all valid metrics in display order.
var AllMetrics = []Metric{
	MetricWeight, MetricHeight, MetricHead,
	MetricFormula, MetricBreastMilk, MetricBreastFeeding,
	MetricPee, MetricPoop,
}

// IsValidMetric checks if a string is a valid metric name.
func IsValidMetric(s string) bool {
	for _, m := range AllMetrics {
		if string(m) == s {
			return true
		}
	}
	return false
}

// IsEvent reports whether the metric is a counted event rather than a
// measured quantity. Event metrics always carry the value 1.
func (m Metric) IsEvent() bool {
	return m == MetricPee || m == MetricPoop
}

// DefaultSubject is used when no subject was configured or given.
const DefaultSubject = "baby"

// Measurement represents a single recorded entry for one subject.
type Measurement struct {
	ID         uuid.UUID `json:"id" yaml:"id"`
	Subject    string    `json:"subject" yaml:"subject"`
	Metric     Metric    `json:"metric" yaml:"metric"`
	Value      float64   `json:"value" yaml:"value"`
	Unit       string    `json:"unit" yaml:"unit"`
	RecordedAt time.Time `json:"recorded_at" yaml:"recorded_at"`
	Notes      *string   `json:"notes,omitempty" yaml:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
}

// NewMeasurement creates a Measurement with a generated UUID and the
// current timestamp. Event metrics get their value forced to 1.
func NewMeasurement(subject string, metric Metric, value float64) *Measurement {
	if subject == "" {
		subject = DefaultSubject
	}
	if metric.IsEvent() {
		value = 1
	}
	now := time.Now()
	return &Measurement{
		ID:         uuid.New(),
		Subject:    subject,
		Metric:     metric,
		Value:      value,
		Unit:       MetricUnits[metric],
		RecordedAt: now,
		CreatedAt:  now,
	}
}

// WithRecordedAt sets a custom recorded_at timestamp.
func (m *Measurement) WithRecordedAt(t time.Time) *Measurement {
	m.RecordedAt = t
	return m
}

// WithNotes sets notes on the measurement.
func (m *Measurement) WithNotes(notes string) *Measurement {
	m.Notes = &notes
	return m
}
