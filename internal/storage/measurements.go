// ABOUTME: Measurement CRUD and query operations shared by both backends.
// ABOUTME: Implements add, prefix lookup, list, lazy entries, totals.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/antarcticrainforest/babymeasure/internal/babyerr"
	"github.com/antarcticrainforest/babymeasure/internal/models"
)

const measurementColumns = "id, subject, metric, value, unit, recorded_at, notes, created_at"

// AddMeasurement validates and stores a new measurement.
func (d *DB) AddMeasurement(ctx context.Context, m *models.Measurement) error {
	if err := validate(m); err != nil {
		return err
	}

	query := `
		INSERT INTO measurements (id, subject, metric, value, unit, recorded_at, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := d.db.ExecContext(ctx, query,
		m.ID.String(),
		m.Subject,
		string(m.Metric),
		m.Value,
		m.Unit,
		m.RecordedAt.UTC().Format(time.RFC3339),
		m.Notes,
		m.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("add measurement: %w", classify(err))
	}
	return nil
}

// validate checks the record store invariants before touching the backend.
func validate(m *models.Measurement) error {
	switch {
	case m == nil:
		return fmt.Errorf("%w: nil measurement", babyerr.ErrValidation)
	case m.ID == uuid.Nil:
		return fmt.Errorf("%w: missing id", babyerr.ErrValidation)
	case m.Subject == "":
		return fmt.Errorf("%w: missing subject", babyerr.ErrValidation)
	case !models.IsValidMetric(string(m.Metric)):
		return fmt.Errorf("%w: unknown metric %q", babyerr.ErrValidation, m.Metric)
	case m.RecordedAt.IsZero():
		return fmt.Errorf("%w: missing date", babyerr.ErrValidation)
	case math.IsNaN(m.Value) || math.IsInf(m.Value, 0):
		return fmt.Errorf("%w: value is not a number", babyerr.ErrValidation)
	case m.Value < 0:
		return fmt.Errorf("%w: negative value %v", babyerr.ErrValidation, m.Value)
	case m.Metric.IsEvent() && m.Value != 1:
		return fmt.Errorf("%w: %s entries must have value 1", babyerr.ErrValidation, m.Metric)
	}
	return nil
}

// GetMeasurement retrieves a measurement by ID or unique ID prefix.
func (d *DB) GetMeasurement(ctx context.Context, idOrPrefix string) (*models.Measurement, error) {
	id, err := d.resolveID(ctx, idOrPrefix)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + measurementColumns + ` FROM measurements WHERE id = ?`
	m, err := scanMeasurement(d.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", babyerr.ErrNotFound, idOrPrefix)
		}
		return nil, classify(err)
	}
	return m, nil
}

// ListMeasurements retrieves measurements matching the filter, most
// recent first.
func (d *DB) ListMeasurements(ctx context.Context, f Filter) ([]*models.Measurement, error) {
	query := `SELECT ` + measurementColumns + ` FROM measurements`
	var conds []string
	var args []any

	if f.Subject != "" {
		conds = append(conds, "subject = ?")
		args = append(args, f.Subject)
	}
	if f.Metric != nil {
		conds = append(conds, "metric = ?")
		args = append(args, string(*f.Metric))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY recorded_at DESC, created_at DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list measurements: %w", classify(err))
	}
	defer rows.Close()

	return scanMeasurements(rows)
}

// Entries returns the subject's full history ordered by date ascending.
// The sequence is lazy; every range over it re-runs the query.
func (d *DB) Entries(ctx context.Context, subject string) iter.Seq2[*models.Measurement, error] {
	query := `SELECT ` + measurementColumns + `
		FROM measurements WHERE subject = ?
		ORDER BY recorded_at ASC, created_at ASC`

	return func(yield func(*models.Measurement, error) bool) {
		rows, err := d.db.QueryContext(ctx, query, subject)
		if err != nil {
			yield(nil, fmt.Errorf("entries: %w", classify(err)))
			return
		}
		defer rows.Close()

		for rows.Next() {
			m, err := scanMeasurementRows(rows)
			if !yield(m, err) {
				return
			}
			if err != nil {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(nil, fmt.Errorf("entries: %w", classify(err)))
		}
	}
}

// UpdateMeasurementValue changes the value of an existing entry and
// returns the updated record.
func (d *DB) UpdateMeasurementValue(ctx context.Context, idOrPrefix string, value float64) (*models.Measurement, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return nil, fmt.Errorf("%w: bad value %v", babyerr.ErrValidation, value)
	}
	id, err := d.resolveID(ctx, idOrPrefix)
	if err != nil {
		return nil, err
	}

	_, err = d.db.ExecContext(ctx, "UPDATE measurements SET value = ? WHERE id = ?", value, id)
	if err != nil {
		return nil, fmt.Errorf("update measurement: %w", classify(err))
	}
	return d.GetMeasurement(ctx, id)
}

// DeleteMeasurement removes a measurement by ID or unique prefix.
func (d *DB) DeleteMeasurement(ctx context.Context, idOrPrefix string) error {
	id, err := d.resolveID(ctx, idOrPrefix)
	if err != nil {
		return err
	}

	result, err := d.db.ExecContext(ctx, "DELETE FROM measurements WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete measurement: %w", classify(err))
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete measurement: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", babyerr.ErrNotFound, idOrPrefix)
	}
	return nil
}

// LatestMeasurement returns the most recent entry of one metric for a
// subject, backing the "Last: ..." labels.
func (d *DB) LatestMeasurement(ctx context.Context, subject string, metric models.Metric) (*models.Measurement, error) {
	query := `SELECT ` + measurementColumns + `
		FROM measurements WHERE subject = ? AND metric = ?
		ORDER BY recorded_at DESC, created_at DESC LIMIT 1`

	m, err := scanMeasurement(d.db.QueryRowContext(ctx, query, subject, string(metric)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: no %s entries for %s", babyerr.ErrNotFound, metric, subject)
		}
		return nil, classify(err)
	}
	return m, nil
}

// DailyTotals aggregates one metric per calendar day over the last
// `days` days, oldest day first. Timestamps are stored as RFC3339 UTC
// text, so the date is the first ten characters.
func (d *DB) DailyTotals(ctx context.Context, subject string, metric models.Metric, days int) ([]DailyTotal, error) {
	if days <= 0 {
		days = 10
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -days).Format(time.RFC3339)

	query := `
		SELECT substr(recorded_at, 1, 10) AS day, SUM(value), COUNT(*)
		FROM measurements
		WHERE subject = ? AND metric = ? AND recorded_at >= ?
		GROUP BY day
		ORDER BY day ASC
	`
	rows, err := d.db.QueryContext(ctx, query, subject, string(metric), cutoff)
	if err != nil {
		return nil, fmt.Errorf("daily totals: %w", classify(err))
	}
	defer rows.Close()

	var totals []DailyTotal
	for rows.Next() {
		var t DailyTotal
		if err := rows.Scan(&t.Day, &t.Total, &t.Count); err != nil {
			return nil, fmt.Errorf("scan daily total: %w", err)
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

// resolveID finds the full ID from a prefix.
func (d *DB) resolveID(ctx context.Context, idOrPrefix string) (string, error) {
	if len(idOrPrefix) == 36 && strings.Count(idOrPrefix, "-") == 4 {
		return idOrPrefix, nil
	}

	rows, err := d.db.QueryContext(ctx,
		"SELECT id FROM measurements WHERE id LIKE ?", idOrPrefix+"%")
	if err != nil {
		return "", fmt.Errorf("resolve id: %w", classify(err))
	}
	defer rows.Close()

	var matches []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("scan id: %w", err)
		}
		matches = append(matches, id)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", babyerr.ErrNotFound, idOrPrefix)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w: %s matches %d records", babyerr.ErrAmbiguous, idOrPrefix, len(matches))
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInto(s rowScanner) (*models.Measurement, error) {
	var m models.Measurement
	var idStr, metric, recordedAt, createdAt string
	var notes sql.NullString

	err := s.Scan(&idStr, &m.Subject, &metric, &m.Value, &m.Unit, &recordedAt, &notes, &createdAt)
	if err != nil {
		return nil, err
	}

	m.ID, _ = uuid.Parse(idStr)
	m.Metric = models.Metric(metric)
	m.RecordedAt, _ = time.Parse(time.RFC3339, recordedAt)
	m.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	if notes.Valid {
		m.Notes = &notes.String
	}
	return &m, nil
}

func scanMeasurement(row *sql.Row) (*models.Measurement, error) {
	m, err := scanInto(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan measurement: %w", err)
	}
	return m, nil
}

func scanMeasurementRows(rows *sql.Rows) (*models.Measurement, error) {
	m, err := scanInto(rows)
	if err != nil {
		return nil, fmt.Errorf("scan measurement: %w", err)
	}
	return m, nil
}

func scanMeasurements(rows *sql.Rows) ([]*models.Measurement, error) {
	var measurements []*models.Measurement
	for rows.Next() {
		m, err := scanMeasurementRows(rows)
		if err != nil {
			return nil, err
		}
		measurements = append(measurements, m)
	}
	return measurements, rows.Err()
}
