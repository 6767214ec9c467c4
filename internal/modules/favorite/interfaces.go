package favorite

import (
	"context"

	"oficina/internal/domain"
)

type FavoriteRepository interface {
	Add(ctx context.Context, userID, entryID int64) (*domain.Favorite, error)
	Remove(ctx context.Context, userID, entryID int64) error
	Exists(ctx context.Context, userID, entryID int64) (bool, error)
	ListActiveByUser(ctx context.Context, userID int64) ([]domain.Favorite, error)
}

type CatalogRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.CatalogEntry, error)
}
