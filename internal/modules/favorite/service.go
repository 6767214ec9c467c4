package favorite

import (
	"context"
	"errors"

	"oficina/internal/domain"
	"oficina/internal/pkg/validator"
	"oficina/internal/repository"

	"gorm.io/gorm"
)

type Service struct {
	favorites FavoriteRepository
	entries   CatalogRepository
}

func NewService(favorites FavoriteRepository, entries CatalogRepository) *Service {
	return &Service{favorites: favorites, entries: entries}
}

// Add favorites an active entry. The unique index on (user, entry) backs
// the pre-check when two adds race.
func (s *Service) Add(ctx context.Context, caller domain.Caller, req AddFavoriteRequest) (*domain.Favorite, error) {
	if verr := validator.Validate(req); verr != nil {
		return nil, verr
	}

	e, err := s.entries.GetByID(ctx, req.CatalogEntryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	if !e.IsActive {
		return nil, ErrEntryNotFound
	}

	exists, err := s.favorites.Exists(ctx, caller.ID, e.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyFavorite
	}

	fav, err := s.favorites.Add(ctx, caller.ID, e.ID)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyFavorite
		}
		return nil, err
	}
	return fav, nil
}

func (s *Service) Remove(ctx context.Context, caller domain.Caller, entryID int64) error {
	if err := s.favorites.Remove(ctx, caller.ID, entryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFavoriteNotFound
		}
		return err
	}
	return nil
}

// List returns the caller's favorites that are still active, newest first.
func (s *Service) List(ctx context.Context, caller domain.Caller) ([]Item, error) {
	favs, err := s.favorites.ListActiveByUser(ctx, caller.ID)
	if err != nil {
		return nil, err
	}

	out := make([]Item, 0, len(favs))
	for _, f := range favs {
		if f.Entry == nil {
			continue
		}
		out = append(out, Item{CatalogEntry: *f.Entry, IsFavorito: true, DataFavorito: f.CreatedAt})
	}
	return out, nil
}
