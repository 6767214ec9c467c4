package review

import (
	"context"

	"oficina/internal/domain"
)

type ReviewRepository interface {
	Create(ctx context.Context, rv *domain.Review) error
	GetByID(ctx context.Context, id int64) (*domain.Review, error)
	ExistsForUser(ctx context.Context, userID, entryID int64) (bool, error)
	UpdateContent(ctx context.Context, id int64, rating int, comment string) (*domain.Review, error)
	Approve(ctx context.Context, id int64) (*domain.Review, error)
	Delete(ctx context.Context, id int64) error
	ListByUser(ctx context.Context, userID int64) ([]domain.Review, error)
	ListPending(ctx context.Context) ([]domain.Review, error)
}

type CatalogRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.CatalogEntry, error)
}

// CatalogCache drops cached catalog pages, whose details embed approved reviews.
type CatalogCache interface {
	Invalidate(ctx context.Context) error
}
