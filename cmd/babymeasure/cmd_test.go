// ABOUTME: Tests for CLI helper functions.
// ABOUTME: Covers parseTime, truncate, padRight and subject defaulting.
package main

import (
	"testing"

	"github.com/antarcticrainforest/babymeasure/internal/config"
)

func TestParseTime(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"date and time with space", "2025-01-31 08:30", false},
		{"date and time with T", "2025-01-31T08:30", false},
		{"date only", "2025-01-31", false},
		{"RFC3339", "2025-01-31T08:30:00Z", false},
		{"RFC3339 with offset", "2025-01-31T08:30:00+05:00", false},
		{"invalid format", "31-01-2025", true},
		{"random string", "not a date", true},
		{"empty string", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTime(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("parseTime(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseTime(%q) failed: %v", tt.input, err)
			}
			if got.IsZero() {
				t.Errorf("parseTime(%q) returned zero time", tt.input)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate = %q, want short", got)
	}
	if got := truncate("a very long note indeed", 10); got != "a very ..." {
		t.Errorf("truncate = %q, want 'a very ...'", got)
	}
	if got := truncate("exactly-10", 10); got != "exactly-10" {
		t.Errorf("truncate = %q, want exactly-10", got)
	}
}

func TestPadRight(t *testing.T) {
	if got := padRight("ab", 5); got != "ab   " {
		t.Errorf("padRight = %q", got)
	}
	if got := padRight("abcdef", 5); got != "abcdef" {
		t.Errorf("padRight = %q", got)
	}
}

func TestSubjectOrDefault(t *testing.T) {
	old := cfg
	cfg = &config.Config{Subject: "emma"}
	defer func() { cfg = old }()

	if got := subjectOrDefault(""); got != "emma" {
		t.Errorf("subjectOrDefault(\"\") = %q, want emma", got)
	}
	if got := subjectOrDefault("noah"); got != "noah" {
		t.Errorf("subjectOrDefault(noah) = %q, want noah", got)
	}
}
