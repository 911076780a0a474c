// ABOUTME: Structured logging setup for the server-side commands.
// ABOUTME: slog JSON handler writing to stderr, debug flag adds source info.
package logging

import (
	"log/slog"
	"os"
	"time"
)

// New builds the application logger. The CLI keeps plain colored
// output; the serve and bot commands log structured JSON through this.
func New(debug bool) *slog.Logger {
	level := slog.LevelInfo
	addSource := false
	if debug {
		level = slog.LevelDebug
		addSource = true
	}

	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: addSource,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && a.Value.Kind() == slog.KindTime {
				a.Value = slog.StringValue(a.Value.Time().UTC().Format(time.RFC3339Nano))
			}
			return a
		},
	})
	return slog.New(handler)
}
