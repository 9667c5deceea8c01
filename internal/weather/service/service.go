package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"gdash/backend/internal/weather/domain"
	"gdash/backend/internal/weather/repository"
)

// ErrInvalidReading wraps validation failures so the handler can map them to a
// bad-request response without leaking storage errors.
var ErrInvalidReading = errors.New("invalid reading")

// insightsWindow is how many recent readings feed the rules engine.
const insightsWindow = 20

// Alert thresholds for the insights rules.
const (
	heatThresholdC    = 30.0
	coldThresholdC    = 15.0
	humidityThreshold = 80.0
	instabilityDeltaC = 5.0
)

// Service is the weather-log plumbing: store it, filter it, format it.
type Service struct {
	logs repository.Repository
}

// NewService returns a Service backed by the given repository.
func NewService(logs repository.Repository) *Service {
	return &Service{logs: logs}
}

// Ingest validates and persists one reading. Missing reading time defaults to now.
func (s *Service) Ingest(ctx context.Context, l *domain.Log) error {
	if err := l.Validate(); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidReading, err)
	}
	now := time.Now().UTC()
	if l.ReadingAt.IsZero() {
		l.ReadingAt = now
	}
	l.CreatedAt = now
	return s.logs.Create(ctx, l)
}

// List returns readings newest first. limit <= 0 returns all.
func (s *Service) List(ctx context.Context, limit int) ([]*domain.Log, error) {
	return s.logs.List(ctx, limit)
}

// WriteCSV streams all readings as CSV, newest first, ISO-8601 timestamps.
func (s *Service) WriteCSV(ctx context.Context, w io.Writer) error {
	logs, err := s.logs.List(ctx, 0)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"DateTime", "Temperature(C)", "Humidity(%)", "Precipitation(mm)", "Latitude", "Longitude"}); err != nil {
		return err
	}
	for _, l := range logs {
		rec := []string{
			l.ReadingAt.UTC().Format(time.RFC3339),
			strconv.FormatFloat(l.Temperature, 'f', -1, 64),
			strconv.FormatFloat(l.Humidity, 'f', -1, 64),
			strconv.FormatFloat(l.Precipitation, 'f', -1, 64),
			strconv.FormatFloat(l.Latitude, 'f', -1, 64),
			strconv.FormatFloat(l.Longitude, 'f', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Insights runs the threshold rules over the most recent readings.
func (s *Service) Insights(ctx context.Context) (*domain.Insights, error) {
	logs, err := s.logs.List(ctx, insightsWindow)
	if err != nil {
		return nil, err
	}
	if len(logs) == 0 {
		return &domain.Insights{
			Summary: "Waiting for data for analysis...",
			Alerts:  []string{},
		}, nil
	}

	current := logs[0]
	var alerts []string

	total := 0.0
	for _, l := range logs {
		total += l.Temperature
	}
	avg := total / float64(len(logs))

	switch {
	case current.Temperature > heatThresholdC:
		alerts = append(alerts, fmt.Sprintf("Heat alert: temperature above %.0f C. Panel efficiency may decrease.", heatThresholdC))
	case current.Temperature < coldThresholdC:
		alerts = append(alerts, "Cold alert: low temperature detected.")
	}

	if current.Humidity > humidityThreshold || current.Precipitation > 0 {
		alerts = append(alerts, "Rain/humidity risk: check external electrical insulation.")
	}

	stability := "The weather remains stable relative to the recent average."
	if math.Abs(current.Temperature-avg) > instabilityDeltaC {
		stability = "The weather is unstable, with abrupt variations."
	}

	if len(alerts) == 0 {
		alerts = []string{"Everything operating within normality."}
	}
	return &domain.Insights{
		Summary: fmt.Sprintf("In the last few hours, the average temperature was %.1f C. %s", avg, stability),
		Alerts:  alerts,
	}, nil
}
