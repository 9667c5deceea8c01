package domain

import (
	"errors"
	"time"
)

// Log is one weather reading as delivered by the collector chain.
type Log struct {
	ID            int64     `json:"id"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	Temperature   float64   `json:"temperature"`
	Humidity      float64   `json:"humidity"`
	IsDay         int       `json:"is_day"`
	Precipitation float64   `json:"precipitation"`
	ReadingAt     time.Time `json:"timestamp"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Validate checks the reading's physical ranges before persistence.
func (l *Log) Validate() error {
	if l.Latitude < -90 || l.Latitude > 90 {
		return errors.New("latitude out of range")
	}
	if l.Longitude < -180 || l.Longitude > 180 {
		return errors.New("longitude out of range")
	}
	if l.Humidity < 0 || l.Humidity > 100 {
		return errors.New("humidity out of range")
	}
	if l.IsDay != 0 && l.IsDay != 1 {
		return errors.New("is_day must be 0 or 1")
	}
	if l.Precipitation < 0 {
		return errors.New("precipitation must not be negative")
	}
	return nil
}

// Insights is the threshold-based summary served to the dashboard.
type Insights struct {
	Summary string   `json:"summary"`
	Alerts  []string `json:"alerts"`
}
