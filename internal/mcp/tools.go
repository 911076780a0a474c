// ABOUTME: MCP tool implementations for measurements.
// ABOUTME: Add, list, delete, latest and daily total operations.
package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/antarcticrainforest/babymeasure/internal/models"
	"github.com/antarcticrainforest/babymeasure/internal/storage"
)

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_measurement",
		Description: "Record a measurement (weight, height, feeding, nappy, ...)",
	}, s.handleAddMeasurement)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_measurements",
		Description: "List recent measurements, optionally filtered by metric",
	}, s.handleListMeasurements)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_measurement",
		Description: "Delete a measurement by ID or ID prefix",
	}, s.handleDeleteMeasurement)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_latest",
		Description: "Get the most recent value for one or more metrics",
	}, s.handleGetLatest)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "daily_totals",
		Description: "Aggregate one metric per day over the last days",
	}, s.handleDailyTotals)
}

// Tool input/output types

type addMeasurementInput struct {
	Subject    string  `json:"subject,omitempty" jsonschema:"Child the entry belongs to, defaults to the configured subject"`
	Metric     string  `json:"metric" jsonschema:"Metric (weight, height, head, formula, breastmilk, breastfeeding, pee, poop)"`
	Value      float64 `json:"value,omitempty" jsonschema:"The value; pee/poop entries do not need one"`
	RecordedAt string  `json:"recorded_at,omitempty" jsonschema:"Timestamp (ISO 8601), defaults to now"`
	Notes      string  `json:"notes,omitempty" jsonschema:"Optional notes"`
}

type measurementOutput struct {
	ID      string  `json:"id"`
	Subject string  `json:"subject"`
	Metric  string  `json:"metric"`
	Value   float64 `json:"value"`
	Unit    string  `json:"unit"`
	Message string  `json:"message"`
}

type listMeasurementsInput struct {
	Subject string `json:"subject,omitempty" jsonschema:"Filter by child"`
	Metric  string `json:"metric,omitempty" jsonschema:"Filter by metric"`
	Limit   int    `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
}

type deleteMeasurementInput struct {
	ID string `json:"id" jsonschema:"Measurement ID or prefix"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

type getLatestInput struct {
	Subject string   `json:"subject,omitempty" jsonschema:"Child, defaults to the configured subject"`
	Metrics []string `json:"metrics,omitempty" jsonschema:"Metrics to get latest values for, default all"`
}

type dailyTotalsInput struct {
	Subject string `json:"subject,omitempty" jsonschema:"Child, defaults to the configured subject"`
	Metric  string `json:"metric" jsonschema:"Metric to aggregate"`
	Days    int    `json:"days,omitempty" jsonschema:"Window size in days (default 10)"`
}

// Tool handlers

func (s *Server) handleAddMeasurement(ctx context.Context, req *mcp.CallToolRequest, input addMeasurementInput) (*mcp.CallToolResult, measurementOutput, error) {
	if !models.IsValidMetric(input.Metric) {
		return nil, measurementOutput{}, fmt.Errorf("unknown metric: %s", input.Metric)
	}

	subject := input.Subject
	if subject == "" {
		subject = s.subject
	}
	m := models.NewMeasurement(subject, models.Metric(input.Metric), input.Value)

	if input.RecordedAt != "" {
		t, err := time.Parse(time.RFC3339, input.RecordedAt)
		if err != nil {
			t, err = time.Parse("2006-01-02 15:04", input.RecordedAt)
		}
		if err != nil {
			return nil, measurementOutput{}, fmt.Errorf("invalid recorded_at timestamp: %s", input.RecordedAt)
		}
		m.WithRecordedAt(t)
	}
	if input.Notes != "" {
		m.WithNotes(input.Notes)
	}

	if err := s.store.AddMeasurement(ctx, m); err != nil {
		return nil, measurementOutput{}, fmt.Errorf("failed to add measurement: %w", err)
	}

	return nil, measurementOutput{
		ID:      m.ID.String()[:8],
		Subject: m.Subject,
		Metric:  input.Metric,
		Value:   m.Value,
		Unit:    m.Unit,
		Message: fmt.Sprintf("Added %s for %s: %.2f %s (ID: %s)",
			input.Metric, m.Subject, m.Value, m.Unit, m.ID.String()[:8]),
	}, nil
}

func (s *Server) handleListMeasurements(ctx context.Context, req *mcp.CallToolRequest, input listMeasurementsInput) (*mcp.CallToolResult, any, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	f := storage.Filter{Subject: input.Subject, Limit: input.Limit}
	if input.Metric != "" {
		m := models.Metric(input.Metric)
		f.Metric = &m
	}

	measurements, err := s.store.ListMeasurements(ctx, f)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list measurements: %w", err)
	}
	if len(measurements) == 0 {
		return nil, map[string]interface{}{"message": "No measurements found."}, nil
	}
	return nil, measurements, nil
}

func (s *Server) handleDeleteMeasurement(ctx context.Context, req *mcp.CallToolRequest, input deleteMeasurementInput) (*mcp.CallToolResult, simpleOutput, error) {
	if err := s.store.DeleteMeasurement(ctx, input.ID); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete measurement: %w", err)
	}
	return nil, simpleOutput{
		Message: fmt.Sprintf("Deleted measurement: %s", input.ID),
	}, nil
}

func (s *Server) handleGetLatest(ctx context.Context, req *mcp.CallToolRequest, input getLatestInput) (*mcp.CallToolResult, any, error) {
	subject := input.Subject
	if subject == "" {
		subject = s.subject
	}
	metrics := input.Metrics
	if len(metrics) == 0 {
		for _, m := range models.AllMetrics {
			metrics = append(metrics, string(m))
		}
	}

	latest := map[string]*models.Measurement{}
	for _, name := range metrics {
		if !models.IsValidMetric(name) {
			return nil, nil, fmt.Errorf("unknown metric: %s", name)
		}
		m, err := s.store.LatestMeasurement(ctx, subject, models.Metric(name))
		if err != nil {
			continue // no entries of this metric yet
		}
		latest[name] = m
	}

	if len(latest) == 0 {
		return nil, map[string]interface{}{"message": "No measurements found."}, nil
	}
	return nil, latest, nil
}

func (s *Server) handleDailyTotals(ctx context.Context, req *mcp.CallToolRequest, input dailyTotalsInput) (*mcp.CallToolResult, any, error) {
	if !models.IsValidMetric(input.Metric) {
		return nil, nil, fmt.Errorf("unknown metric: %s", input.Metric)
	}
	subject := input.Subject
	if subject == "" {
		subject = s.subject
	}

	totals, err := s.store.DailyTotals(ctx, subject, models.Metric(input.Metric), input.Days)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to aggregate: %w", err)
	}
	if len(totals) == 0 {
		return nil, map[string]interface{}{"message": "No entries in the window."}, nil
	}
	return nil, totals, nil
}
