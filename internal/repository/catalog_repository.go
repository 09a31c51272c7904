package repository

import (
	"context"
	"event-catalog/internal/domain"
)

// CatalogRepository supplies the read-only event catalog. List returns the
// events in catalog order; callers never write back.
type CatalogRepository interface {
	List(ctx context.Context) ([]domain.Event, error)
	// Name identifies the source in logs and health output.
	Name() string
}
