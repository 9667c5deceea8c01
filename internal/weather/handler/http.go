// Package handler exposes the weather-log HTTP endpoints.
package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"gdash/backend/internal/server/httpx"
	"gdash/backend/internal/weather/domain"
	"gdash/backend/internal/weather/service"
)

// Handler serves /api/weather/*. Ingest is public: the collector chain posts
// without credentials. That is a deliberate policy for the external producer,
// not an oversight; the read endpoints stay behind the gate.
type Handler struct {
	svc *service.Service
}

// New returns a Handler over the weather service.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

type ingestRequest struct {
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	Temperature   float64 `json:"temperature"`
	Humidity      float64 `json:"humidity"`
	IsDay         int     `json:"is_day"`
	Precipitation float64 `json:"precipitation"`
	Timestamp     string  `json:"timestamp"`
}

// Ingest handles POST /api/weather/logs.
func (h *Handler) Ingest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if !httpx.DecodeJSON(w, r, &req) {
		return
	}
	l := &domain.Log{
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		Temperature:   req.Temperature,
		Humidity:      req.Humidity,
		IsDay:         req.IsDay,
		Precipitation: req.Precipitation,
	}
	if req.Timestamp != "" {
		ts, err := parseTimestamp(req.Timestamp)
		if err != nil {
			httpx.Error(w, http.StatusBadRequest, "timestamp must be ISO 8601")
			return
		}
		l.ReadingAt = ts
	}
	if err := h.svc.Ingest(r.Context(), l); err != nil {
		if errors.Is(err, service.ErrInvalidReading) {
			httpx.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		httpx.Internal(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, l)
}

// isoNoOffset is the collector's timestamp format: Python isoformat() without a
// UTC offset, fractional seconds optional.
const isoNoOffset = "2006-01-02T15:04:05.999999999"

// parseTimestamp accepts RFC 3339 or an offset-less ISO 8601 timestamp. The
// offset-less form is interpreted as UTC.
func parseTimestamp(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts.UTC(), nil
	}
	ts, err := time.Parse(isoNoOffset, s)
	if err != nil {
		return time.Time{}, err
	}
	return ts.UTC(), nil
}

// List handles GET /api/weather/logs?limit=n.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if q := r.URL.Query().Get("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 0 {
			httpx.Error(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	logs, err := h.svc.List(r.Context(), limit)
	if err != nil {
		httpx.Internal(w, err)
		return
	}
	if logs == nil {
		logs = []*domain.Log{}
	}
	httpx.WriteJSON(w, http.StatusOK, logs)
}

// Insights handles GET /api/weather/insights.
func (h *Handler) Insights(w http.ResponseWriter, r *http.Request) {
	ins, err := h.svc.Insights(r.Context())
	if err != nil {
		httpx.Internal(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, ins)
}

// ExportCSV handles GET /api/weather/export/csv as a file download.
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="gdash_weather_%d.csv"`, time.Now().Unix()))
	if err := h.svc.WriteCSV(r.Context(), w); err != nil {
		// Headers may already be out; nothing safe to write but the log.
		log.Printf("weather: csv export: %v", err)
	}
}
