// ABOUTME: HTTP handlers for the measurement API.
// ABOUTME: JSON in/out, domain errors mapped to HTTP status codes.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/antarcticrainforest/babymeasure/internal/babyerr"
	"github.com/antarcticrainforest/babymeasure/internal/cache"
	"github.com/antarcticrainforest/babymeasure/internal/models"
	"github.com/antarcticrainforest/babymeasure/internal/storage"
)

type addMeasurementRequest struct {
	Subject    string  `json:"subject,omitempty"`
	Metric     string  `json:"metric"`
	Value      float64 `json:"value"`
	RecordedAt string  `json:"recorded_at,omitempty"`
	Notes      string  `json:"notes,omitempty"`
}

type updateMeasurementRequest struct {
	Value float64 `json:"value"`
}

type botRequest struct {
	Text string `json:"text"`
}

type botResponse struct {
	Text string `json:"text"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

func (s *Server) handleAddMeasurement(w http.ResponseWriter, r *http.Request) {
	var req addMeasurementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	subject := req.Subject
	if subject == "" {
		subject = s.subject
	}
	m := models.NewMeasurement(subject, models.Metric(req.Metric), req.Value)
	if req.RecordedAt != "" {
		t, err := parseTimestamp(req.RecordedAt)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid recorded_at timestamp")
			return
		}
		m.WithRecordedAt(t)
	}
	if req.Notes != "" {
		m.WithNotes(req.Notes)
	}

	if err := s.store.AddMeasurement(r.Context(), m); err != nil {
		s.respondStoreError(w, err)
		return
	}
	measurementsLoggedTotal.WithLabelValues(string(m.Metric)).Inc()
	s.invalidate(m.Subject)

	s.writeJSON(w, http.StatusCreated, m)
}

func (s *Server) handleListMeasurements(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	f := storage.Filter{Subject: params.Get("subject"), Limit: 20}
	if v := params.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			s.writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		f.Limit = limit
	}
	if v := params.Get("metric"); v != "" {
		if !models.IsValidMetric(v) {
			s.writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown metric: %s", v))
			return
		}
		m := models.Metric(v)
		f.Metric = &m
	}

	key := cacheKey(f)
	if body, ok := s.cached(f.Subject, key); ok {
		s.writeRaw(w, http.StatusOK, body)
		return
	}

	measurements, err := s.store.ListMeasurements(r.Context(), f)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	if measurements == nil {
		measurements = []*models.Measurement{}
	}
	s.writeCachedJSON(w, f.Subject, key, measurements)
}

func (s *Server) handleGetMeasurement(w http.ResponseWriter, r *http.Request) {
	m, err := s.store.GetMeasurement(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleUpdateMeasurement(w http.ResponseWriter, r *http.Request) {
	var req updateMeasurementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	m, err := s.store.UpdateMeasurementValue(r.Context(), chi.URLParam(r, "id"), req.Value)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.invalidate(m.Subject)
	s.writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleDeleteMeasurement(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	m, err := s.store.GetMeasurement(r.Context(), id)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	if err := s.store.DeleteMeasurement(r.Context(), id); err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.invalidate(m.Subject)
	w.WriteHeader(http.StatusNoContent)
}

// handleEntries streams a subject's full history, date ascending.
func (s *Server) handleEntries(w http.ResponseWriter, r *http.Request) {
	subject := chi.URLParam(r, "subject")

	var measurements []*models.Measurement
	for m, err := range s.store.Entries(r.Context(), subject) {
		if err != nil {
			s.respondStoreError(w, err)
			return
		}
		measurements = append(measurements, m)
	}
	if measurements == nil {
		measurements = []*models.Measurement{}
	}
	s.writeJSON(w, http.StatusOK, measurements)
}

func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	subject := chi.URLParam(r, "subject")
	metric := r.URL.Query().Get("metric")
	if !models.IsValidMetric(metric) {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown metric: %s", metric))
		return
	}

	key := cache.Key(subject, "latest", metric)
	if body, ok := s.cached(subject, key); ok {
		s.writeRaw(w, http.StatusOK, body)
		return
	}

	m, err := s.store.LatestMeasurement(r.Context(), subject, models.Metric(metric))
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.writeCachedJSON(w, subject, key, m)
}

func (s *Server) handleDailyTotals(w http.ResponseWriter, r *http.Request) {
	subject := chi.URLParam(r, "subject")
	params := r.URL.Query()

	metric := params.Get("metric")
	if !models.IsValidMetric(metric) {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown metric: %s", metric))
		return
	}
	days := 10
	if v := params.Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.writeError(w, http.StatusBadRequest, "invalid days")
			return
		}
		days = n
	}

	key := cache.Key(subject, "daily", metric, strconv.Itoa(days))
	if body, ok := s.cached(subject, key); ok {
		s.writeRaw(w, http.StatusOK, body)
		return
	}

	totals, err := s.store.DailyTotals(r.Context(), subject, models.Metric(metric), days)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	if totals == nil {
		totals = []storage.DailyTotal{}
	}
	s.writeCachedJSON(w, subject, key, totals)
}

func (s *Server) handleBot(w http.ResponseWriter, r *http.Request) {
	var req botRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	reply := s.bot.Reply(r.Context(), req.Text)
	s.writeJSON(w, http.StatusOK, botResponse{Text: reply})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		s.writeError(w, http.StatusServiceUnavailable, "database unreachable")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Response helpers

func (s *Server) respondStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, babyerr.ErrValidation):
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, babyerr.ErrNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, babyerr.ErrAmbiguous):
		s.writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, babyerr.ErrUnavailable):
		s.writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		s.log.Error("http.internal_error", "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("http.encode_response", "error", err)
	}
}

func (s *Server) writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg, Code: status})
}

// Cache helpers

func cacheKey(f storage.Filter) []byte {
	metric := ""
	if f.Metric != nil {
		metric = string(*f.Metric)
	}
	return cache.Key(f.Subject, "list", metric, strconv.Itoa(f.Limit))
}

// cached returns a fresh cached body for subject-scoped reads.
func (s *Server) cached(subject string, key []byte) ([]byte, bool) {
	if s.cache == nil || subject == "" {
		return nil, false
	}
	body, ok := s.cache.Get(key)
	if ok {
		cacheHitsTotal.Inc()
	} else {
		cacheMissesTotal.Inc()
	}
	return body, ok
}

func (s *Server) writeCachedJSON(w http.ResponseWriter, subject string, key []byte, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		s.log.Error("http.encode_response", "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	body = append(body, '\n')
	if s.cache != nil && subject != "" {
		if err := s.cache.Set(key, body); err != nil {
			s.log.Warn("cache.set", "error", err)
		}
	}
	s.writeRaw(w, http.StatusOK, body)
}

func (s *Server) invalidate(subject string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateSubject(subject); err != nil {
		s.log.Warn("cache.invalidate", "error", err)
	}
}

func parseTimestamp(v string) (time.Time, error) {
	formats := []string{
		time.RFC3339,
		"2006-01-02T15:04",
		"2006-01-02 15:04",
		"2006-01-02",
	}
	for _, f := range formats {
		if t, err := time.ParseInLocation(f, v, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time format: %s", v)
}
