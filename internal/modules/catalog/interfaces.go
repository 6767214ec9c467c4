package catalog

import (
	"context"

	"oficina/internal/domain"
	"oficina/internal/repository"
)

type CatalogRepository interface {
	Create(ctx context.Context, e *domain.CatalogEntry) error
	GetByID(ctx context.Context, id int64) (*domain.CatalogEntry, error)
	Update(ctx context.Context, e *domain.CatalogEntry) error
	SetActive(ctx context.Context, id int64, active bool) error
	List(ctx context.Context, f repository.CatalogFilter) ([]domain.CatalogEntry, int64, error)
	Categories(ctx context.Context) ([]string, error)
	TopTags(ctx context.Context, limit int) ([]domain.TagCount, error)
}

type FavoriteRepository interface {
	Exists(ctx context.Context, userID, entryID int64) (bool, error)
	EntryIDs(ctx context.Context, userID int64) (map[int64]bool, error)
}

type ReviewRepository interface {
	ListApprovedByEntry(ctx context.Context, entryID int64) ([]domain.Review, error)
}

// Invalidator drops cached public responses after an admin write.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}
