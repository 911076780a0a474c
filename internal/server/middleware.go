// ABOUTME: HTTP middleware: request logging and Prometheus instrumentation.
// ABOUTME: Wraps the response writer to capture the final status code.
package server

import (
	"log/slog"
	"net/http"
	"time"
)

// statusRecorder captures the response status code for logs and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// instrument records request metrics and an access log line.
func instrument(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()

			next.ServeHTTP(recorder, r)

			duration := time.Since(start)
			httpRequestsTotal.Inc()
			httpRequestDuration.Observe(duration.Seconds())
			if recorder.status >= http.StatusBadRequest {
				httpRequestErrorsTotal.Inc()
			}

			log.Info("http.request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", recorder.status,
				"duration_ms", duration.Milliseconds(),
			)
		})
	}
}
