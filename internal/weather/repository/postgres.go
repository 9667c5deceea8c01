package repository

import (
	"context"
	"database/sql"

	"gdash/backend/internal/weather/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a weather log repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create persists the reading and fills in its assigned ID.
func (r *PostgresRepository) Create(ctx context.Context, l *domain.Log) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO weather_logs (latitude, longitude, temperature, humidity, is_day, precipitation, reading_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, l.Latitude, l.Longitude, l.Temperature, l.Humidity, l.IsDay, l.Precipitation, l.ReadingAt, l.CreatedAt).Scan(&l.ID)
}

// List returns logs newest first. limit <= 0 returns all rows.
func (r *PostgresRepository) List(ctx context.Context, limit int) ([]*domain.Log, error) {
	q := `
		SELECT id, latitude, longitude, temperature, humidity, is_day, precipitation, reading_at, created_at
		FROM weather_logs ORDER BY created_at DESC`
	var (
		rows *sql.Rows
		err  error
	)
	if limit > 0 {
		rows, err = r.db.QueryContext(ctx, q+` LIMIT $1`, limit)
	} else {
		rows, err = r.db.QueryContext(ctx, q)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Log
	for rows.Next() {
		var l domain.Log
		if err := rows.Scan(&l.ID, &l.Latitude, &l.Longitude, &l.Temperature, &l.Humidity, &l.IsDay, &l.Precipitation, &l.ReadingAt, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}
