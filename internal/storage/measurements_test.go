// ABOUTME: Tests for measurement CRUD and query operations.
// ABOUTME: Runs against a throwaway SQLite database per test.
package storage

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/antarcticrainforest/babymeasure/internal/babyerr"
	"github.com/antarcticrainforest/babymeasure/internal/models"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestAddAndGetMeasurement(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	m := models.NewMeasurement("emma", models.MetricWeight, 4.2).
		WithNotes("after bath")
	if err := db.AddMeasurement(ctx, m); err != nil {
		t.Fatalf("AddMeasurement failed: %v", err)
	}

	got, err := db.GetMeasurement(ctx, m.ID.String())
	if err != nil {
		t.Fatalf("GetMeasurement failed: %v", err)
	}

	if got.ID != m.ID {
		t.Errorf("ID mismatch: got %v, want %v", got.ID, m.ID)
	}
	if got.Metric != models.MetricWeight {
		t.Errorf("Metric mismatch: got %v", got.Metric)
	}
	if got.Value != 4.2 {
		t.Errorf("Value mismatch: got %v", got.Value)
	}
	if got.Unit != "kg" {
		t.Errorf("Unit mismatch: got %q", got.Unit)
	}
	if got.Notes == nil || *got.Notes != "after bath" {
		t.Errorf("Notes mismatch: got %v", got.Notes)
	}
	// Timestamps survive the RFC3339 round trip at second precision.
	if got.RecordedAt.Unix() != m.RecordedAt.Unix() {
		t.Errorf("RecordedAt mismatch: got %v, want %v", got.RecordedAt, m.RecordedAt)
	}
}

func TestAddMeasurementValidation(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	cases := []struct {
		name string
		m    *models.Measurement
	}{
		{"nil", nil},
		{"missing id", &models.Measurement{Subject: "baby", Metric: models.MetricWeight, Value: 4, RecordedAt: time.Now()}},
		{"missing subject", &models.Measurement{ID: uuid.New(), Metric: models.MetricWeight, Value: 4, RecordedAt: time.Now()}},
		{"unknown metric", &models.Measurement{ID: uuid.New(), Subject: "baby", Metric: "temperature", Value: 37, RecordedAt: time.Now()}},
		{"zero date", &models.Measurement{ID: uuid.New(), Subject: "baby", Metric: models.MetricWeight, Value: 4}},
		{"NaN value", &models.Measurement{ID: uuid.New(), Subject: "baby", Metric: models.MetricWeight, Value: math.NaN(), RecordedAt: time.Now()}},
		{"negative value", &models.Measurement{ID: uuid.New(), Subject: "baby", Metric: models.MetricWeight, Value: -1, RecordedAt: time.Now()}},
		{"event value", &models.Measurement{ID: uuid.New(), Subject: "baby", Metric: models.MetricPee, Value: 2, RecordedAt: time.Now()}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := db.AddMeasurement(ctx, tc.m)
			if !errors.Is(err, babyerr.ErrValidation) {
				t.Errorf("Expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestGetMeasurementByPrefix(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	m := models.NewMeasurement("baby", models.MetricFormula, 120)
	if err := db.AddMeasurement(ctx, m); err != nil {
		t.Fatalf("AddMeasurement failed: %v", err)
	}

	got, err := db.GetMeasurement(ctx, m.ID.String()[:8])
	if err != nil {
		t.Fatalf("GetMeasurement by prefix failed: %v", err)
	}
	if got.ID != m.ID {
		t.Errorf("ID mismatch: got %v, want %v", got.ID, m.ID)
	}

	_, err = db.GetMeasurement(ctx, "ffffffff")
	if !errors.Is(err, babyerr.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestGetMeasurementAmbiguousPrefix(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	// Force two IDs sharing a prefix.
	base := uuid.New().String()
	for _, suffix := range []string{"1", "2"} {
		id, err := uuid.Parse(base[:35] + suffix)
		if err != nil {
			t.Fatalf("parse uuid: %v", err)
		}
		m := models.NewMeasurement("baby", models.MetricWeight, 4)
		m.ID = id
		if err := db.AddMeasurement(ctx, m); err != nil {
			t.Fatalf("AddMeasurement failed: %v", err)
		}
	}

	_, err := db.GetMeasurement(ctx, base[:8])
	if !errors.Is(err, babyerr.ErrAmbiguous) {
		t.Errorf("Expected ErrAmbiguous, got %v", err)
	}
}

func TestListMeasurements(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	now := time.Now()
	m1 := models.NewMeasurement("emma", models.MetricWeight, 4.0).WithRecordedAt(now.Add(-2 * time.Hour))
	m2 := models.NewMeasurement("emma", models.MetricWeight, 4.1).WithRecordedAt(now.Add(-1 * time.Hour))
	m3 := models.NewMeasurement("emma", models.MetricFormula, 120).WithRecordedAt(now)
	m4 := models.NewMeasurement("noah", models.MetricWeight, 5.0).WithRecordedAt(now)

	for _, m := range []*models.Measurement{m1, m2, m3, m4} {
		if err := db.AddMeasurement(ctx, m); err != nil {
			t.Fatalf("AddMeasurement failed: %v", err)
		}
	}

	all, err := db.ListMeasurements(ctx, Filter{})
	if err != nil {
		t.Fatalf("ListMeasurements failed: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("Expected 4 measurements, got %d", len(all))
	}

	// Most recent first.
	bySubject, err := db.ListMeasurements(ctx, Filter{Subject: "emma"})
	if err != nil {
		t.Fatalf("ListMeasurements failed: %v", err)
	}
	if len(bySubject) != 3 {
		t.Fatalf("Expected 3 entries for emma, got %d", len(bySubject))
	}
	if bySubject[0].ID != m3.ID {
		t.Errorf("Expected most recent first, got %v", bySubject[0].ID)
	}

	weight := models.MetricWeight
	byMetric, err := db.ListMeasurements(ctx, Filter{Subject: "emma", Metric: &weight})
	if err != nil {
		t.Fatalf("ListMeasurements failed: %v", err)
	}
	if len(byMetric) != 2 {
		t.Fatalf("Expected 2 weight entries, got %d", len(byMetric))
	}

	limited, err := db.ListMeasurements(ctx, Filter{Limit: 2})
	if err != nil {
		t.Fatalf("ListMeasurements failed: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("Expected limit of 2, got %d", len(limited))
	}
}

func TestEntriesAscendingAndRestartable(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	now := time.Now()
	var want []uuid.UUID
	for i := 3; i >= 1; i-- {
		m := models.NewMeasurement("emma", models.MetricWeight, float64(i)).
			WithRecordedAt(now.Add(time.Duration(-i) * time.Hour))
		if err := db.AddMeasurement(ctx, m); err != nil {
			t.Fatalf("AddMeasurement failed: %v", err)
		}
		want = append(want, m.ID)
	}

	seq := db.Entries(ctx, "emma")

	collect := func() []uuid.UUID {
		var ids []uuid.UUID
		for m, err := range seq {
			if err != nil {
				t.Fatalf("Entries yielded error: %v", err)
			}
			ids = append(ids, m.ID)
		}
		return ids
	}

	first := collect()
	if len(first) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(first))
	}
	for i, id := range want {
		if first[i] != id {
			t.Errorf("Entry %d: got %v, want %v (ascending order)", i, first[i], id)
		}
	}

	// Ranging a second time re-runs the query.
	second := collect()
	if len(second) != len(first) {
		t.Errorf("Second pass yielded %d entries, want %d", len(second), len(first))
	}

	// Early break must not poison later passes.
	for range seq {
		break
	}
	if got := collect(); len(got) != 3 {
		t.Errorf("Pass after early break yielded %d entries, want 3", len(got))
	}
}

func TestEntriesEmptySubject(t *testing.T) {
	db := setupTestDB(t)

	count := 0
	for _, err := range db.Entries(context.Background(), "nobody") {
		if err != nil {
			t.Fatalf("Entries yielded error: %v", err)
		}
		count++
	}
	if count != 0 {
		t.Errorf("Expected empty sequence, got %d entries", count)
	}
}

func TestUpdateMeasurementValue(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	m := models.NewMeasurement("baby", models.MetricFormula, 120)
	if err := db.AddMeasurement(ctx, m); err != nil {
		t.Fatalf("AddMeasurement failed: %v", err)
	}

	updated, err := db.UpdateMeasurementValue(ctx, m.ID.String()[:8], 150)
	if err != nil {
		t.Fatalf("UpdateMeasurementValue failed: %v", err)
	}
	if updated.Value != 150 {
		t.Errorf("Value = %v, want 150", updated.Value)
	}

	if _, err := db.UpdateMeasurementValue(ctx, m.ID.String(), -5); !errors.Is(err, babyerr.ErrValidation) {
		t.Errorf("Expected ErrValidation for negative value, got %v", err)
	}
}

func TestDeleteMeasurement(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	m := models.NewMeasurement("baby", models.MetricPoop, 1)
	if err := db.AddMeasurement(ctx, m); err != nil {
		t.Fatalf("AddMeasurement failed: %v", err)
	}

	if err := db.DeleteMeasurement(ctx, m.ID.String()[:8]); err != nil {
		t.Fatalf("DeleteMeasurement failed: %v", err)
	}
	if _, err := db.GetMeasurement(ctx, m.ID.String()); !errors.Is(err, babyerr.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
	if err := db.DeleteMeasurement(ctx, m.ID.String()); !errors.Is(err, babyerr.ErrNotFound) {
		t.Errorf("Expected ErrNotFound on double delete, got %v", err)
	}
}

func TestLatestMeasurement(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	now := time.Now()
	old := models.NewMeasurement("emma", models.MetricWeight, 4.0).WithRecordedAt(now.Add(-24 * time.Hour))
	latest := models.NewMeasurement("emma", models.MetricWeight, 4.3).WithRecordedAt(now)
	for _, m := range []*models.Measurement{old, latest} {
		if err := db.AddMeasurement(ctx, m); err != nil {
			t.Fatalf("AddMeasurement failed: %v", err)
		}
	}

	got, err := db.LatestMeasurement(ctx, "emma", models.MetricWeight)
	if err != nil {
		t.Fatalf("LatestMeasurement failed: %v", err)
	}
	if got.ID != latest.ID {
		t.Errorf("Expected most recent entry, got %v", got.ID)
	}

	if _, err := db.LatestMeasurement(ctx, "emma", models.MetricHead); !errors.Is(err, babyerr.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unmeasured metric, got %v", err)
	}
}

func TestDailyTotals(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	today := time.Now().UTC()
	yesterday := today.AddDate(0, 0, -1)

	entries := []*models.Measurement{
		models.NewMeasurement("emma", models.MetricFormula, 100).WithRecordedAt(yesterday),
		models.NewMeasurement("emma", models.MetricFormula, 50).WithRecordedAt(yesterday.Add(time.Minute)),
		models.NewMeasurement("emma", models.MetricFormula, 120).WithRecordedAt(today),
		models.NewMeasurement("emma", models.MetricWeight, 4.2).WithRecordedAt(today),
	}
	for _, m := range entries {
		if err := db.AddMeasurement(ctx, m); err != nil {
			t.Fatalf("AddMeasurement failed: %v", err)
		}
	}

	totals, err := db.DailyTotals(ctx, "emma", models.MetricFormula, 7)
	if err != nil {
		t.Fatalf("DailyTotals failed: %v", err)
	}
	if len(totals) != 2 {
		t.Fatalf("Expected 2 days, got %d", len(totals))
	}

	// Oldest day first.
	if totals[0].Day != yesterday.Format("2006-01-02") {
		t.Errorf("Day[0] = %q, want %q", totals[0].Day, yesterday.Format("2006-01-02"))
	}
	if totals[0].Total != 150 || totals[0].Count != 2 {
		t.Errorf("Day[0] total/count = %v/%d, want 150/2", totals[0].Total, totals[0].Count)
	}
	if totals[1].Total != 120 || totals[1].Count != 1 {
		t.Errorf("Day[1] total/count = %v/%d, want 120/1", totals[1].Total, totals[1].Count)
	}
}
