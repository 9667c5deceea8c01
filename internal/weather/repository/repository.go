package repository

import (
	"context"

	"gdash/backend/internal/weather/domain"
)

// Repository defines persistence for weather logs.
type Repository interface {
	Create(ctx context.Context, l *domain.Log) error
	// List returns logs newest first. limit <= 0 means no limit.
	List(ctx context.Context, limit int) ([]*domain.Log, error)
}
