// ABOUTME: MCP resource implementations for the measurement store.
// ABOUTME: babymeasure://recent, babymeasure://today and babymeasure://summary.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/antarcticrainforest/babymeasure/internal/models"
	"github.com/antarcticrainforest/babymeasure/internal/storage"
)

func (s *Server) registerResources() {
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "babymeasure://recent",
		Name:        "Recent Entries",
		Description: "Last 10 measurements across all metrics",
		MIMEType:    "application/json",
	}, s.handleRecentResource)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "babymeasure://today",
		Name:        "Today's Entries",
		Description: "All measurements recorded today",
		MIMEType:    "application/json",
	}, s.handleTodayResource)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "babymeasure://summary",
		Name:        "Measurement Summary",
		Description: "Latest value for each metric for the default subject",
		MIMEType:    "application/json",
	}, s.handleSummaryResource)
}

func (s *Server) resourceResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

func (s *Server) handleRecentResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	measurements, err := s.store.ListMeasurements(ctx, storage.Filter{Limit: 10})
	if err != nil {
		return nil, fmt.Errorf("failed to list measurements: %w", err)
	}
	return s.resourceResult("babymeasure://recent", map[string]interface{}{
		"measurements": measurements,
	})
}

func (s *Server) handleTodayResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	measurements, err := s.store.ListMeasurements(ctx, storage.Filter{Subject: s.subject})
	if err != nil {
		return nil, fmt.Errorf("failed to list measurements: %w", err)
	}

	var today []*models.Measurement
	for _, m := range measurements {
		if !m.RecordedAt.Before(todayStart) {
			today = append(today, m)
		}
	}
	return s.resourceResult("babymeasure://today", map[string]interface{}{
		"subject":      s.subject,
		"measurements": today,
	})
}

func (s *Server) handleSummaryResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	summary := map[string]*models.Measurement{}
	for _, metric := range models.AllMetrics {
		m, err := s.store.LatestMeasurement(ctx, s.subject, metric)
		if err != nil {
			continue
		}
		summary[string(metric)] = m
	}
	return s.resourceResult("babymeasure://summary", map[string]interface{}{
		"subject": s.subject,
		"latest":  summary,
	})
}
