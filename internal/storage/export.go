// ABOUTME: Export and import of the full record store content.
// ABOUTME: Backs the backup commands and backend-to-backend migration.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ExportVersion identifies the backup envelope layout.
const ExportVersion = "1.0"

// GetAllData retrieves every record for export, measurements oldest first.
func (d *DB) GetAllData(ctx context.Context) (*ExportData, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT `+measurementColumns+`
		FROM measurements ORDER BY recorded_at ASC, created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("export measurements: %w", classify(err))
	}
	defer rows.Close()

	measurements, err := scanMeasurements(rows)
	if err != nil {
		return nil, err
	}

	users, err := d.listTelegramUsers(ctx)
	if err != nil {
		return nil, err
	}

	return &ExportData{
		Version:       ExportVersion,
		ExportedAt:    time.Now(),
		Tool:          "babymeasure",
		Measurements:  measurements,
		TelegramUsers: users,
	}, nil
}

// ImportData loads a backup into the store. Existing IDs cause errors,
// the import does not overwrite.
func (d *DB) ImportData(ctx context.Context, data *ExportData) error {
	for _, m := range data.Measurements {
		if err := d.AddMeasurement(ctx, m); err != nil {
			return fmt.Errorf("import measurement %s: %w", m.ID, err)
		}
	}
	for _, u := range data.TelegramUsers {
		if err := d.SaveTelegramUser(ctx, u); err != nil {
			return fmt.Errorf("import telegram user %d: %w", u.UserID, err)
		}
	}
	return nil
}

// MarshalExport encodes a backup envelope as "json" or "yaml".
func MarshalExport(data *ExportData, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "json", "":
		return json.MarshalIndent(data, "", "  ")
	case "yaml", "yml":
		return yaml.Marshal(data)
	default:
		return nil, fmt.Errorf("unknown export format: %q", format)
	}
}

// UnmarshalExport decodes a backup envelope, trying JSON then YAML.
func UnmarshalExport(raw []byte) (*ExportData, error) {
	var data ExportData
	if err := json.Unmarshal(raw, &data); err == nil {
		return &data, nil
	}
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse export: %w", err)
	}
	return &data, nil
}
