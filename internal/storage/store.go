// ABOUTME: Store interface for the baby measurement record store.
// ABOUTME: Defines the contract shared by the MySQL and SQLite backends.
package storage

import (
	"context"
	"iter"
	"time"

	"github.com/antarcticrainforest/babymeasure/internal/models"
)

// Filter narrows ListMeasurements results.
type Filter struct {
	// Subject restricts results to one child. Empty means all.
	Subject string
	// Metric restricts results to one metric type.
	Metric *models.Metric
	// Limit caps the number of results. Zero means no limit.
	Limit int
}

// DailyTotal is one day's aggregate for a single metric.
type DailyTotal struct {
	Day   string  `json:"day"`
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

// ExportData is the full backup envelope for a record store.
type ExportData struct {
	Version       string                 `json:"version" yaml:"version"`
	ExportedAt    time.Time              `json:"exported_at" yaml:"exported_at"`
	Tool          string                 `json:"tool" yaml:"tool"`
	Measurements  []*models.Measurement  `json:"measurements" yaml:"measurements"`
	TelegramUsers []*models.TelegramUser `json:"telegram_users,omitempty" yaml:"telegram_users,omitempty"`
}

// Store defines the persistence contract for measurement data.
// Implementations report unreachable backends by wrapping
// babyerr.ErrUnavailable and bad input by wrapping babyerr.ErrValidation.
type Store interface {
	// Measurement operations
	AddMeasurement(ctx context.Context, m *models.Measurement) error
	GetMeasurement(ctx context.Context, idOrPrefix string) (*models.Measurement, error)
	ListMeasurements(ctx context.Context, f Filter) ([]*models.Measurement, error)
	UpdateMeasurementValue(ctx context.Context, idOrPrefix string, value float64) (*models.Measurement, error)
	DeleteMeasurement(ctx context.Context, idOrPrefix string) error
	LatestMeasurement(ctx context.Context, subject string, metric models.Metric) (*models.Measurement, error)

	// Entries returns a lazy sequence of one subject's measurements
	// ordered by date ascending. Ranging over it again restarts the
	// underlying query.
	Entries(ctx context.Context, subject string) iter.Seq2[*models.Measurement, error]

	// DailyTotals aggregates one metric per calendar day over the last
	// `days` days, oldest first.
	DailyTotals(ctx context.Context, subject string, metric models.Metric, days int) ([]DailyTotal, error)

	// Telegram bot users
	GetTelegramUser(ctx context.Context, userID int64) (*models.TelegramUser, error)
	SaveTelegramUser(ctx context.Context, u *models.TelegramUser) error

	// Export/Import
	GetAllData(ctx context.Context) (*ExportData, error)
	ImportData(ctx context.Context, data *ExportData) error

	// Lifecycle
	Ping(ctx context.Context) error
	Close() error
}
