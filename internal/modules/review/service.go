package review

import (
	"context"
	"errors"
	"strings"

	"oficina/internal/domain"
	"oficina/internal/pkg/validator"
	"oficina/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	reviews ReviewRepository
	entries CatalogRepository
	cache   CatalogCache
	log     *zap.Logger
}

func NewService(reviews ReviewRepository, entries CatalogRepository, cache CatalogCache, log *zap.Logger) *Service {
	return &Service{reviews: reviews, entries: entries, cache: cache, log: log}
}

// Create stores one review per (user, entry). New reviews wait for moderation.
func (s *Service) Create(ctx context.Context, caller domain.Caller, req CreateReviewRequest) (*domain.Review, error) {
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

	exists, err := s.reviews.ExistsForUser(ctx, caller.ID, e.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyReviewed
	}

	rv := &domain.Review{
		UserID:         caller.ID,
		CatalogEntryID: e.ID,
		BookingID:      req.BookingID,
		Rating:         req.Rating,
		Comment:        strings.TrimSpace(req.Comment),
	}
	if err := s.reviews.Create(ctx, rv); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyReviewed
		}
		return nil, err
	}
	s.invalidate(ctx)
	return rv, nil
}

// Update edits the caller's own review and always sends it back to moderation.
func (s *Service) Update(ctx context.Context, caller domain.Caller, id int64, req UpdateReviewRequest) (*domain.Review, error) {
	if verr := validator.Validate(req); verr != nil {
		return nil, verr
	}

	rv, err := s.own(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	rating, comment := rv.Rating, rv.Comment
	if req.Rating != nil {
		rating = *req.Rating
	}
	if req.Comment != nil {
		comment = strings.TrimSpace(*req.Comment)
	}

	updated, err := s.reviews.UpdateContent(ctx, id, rating, comment)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	s.invalidate(ctx)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, caller domain.Caller, id int64) error {
	if _, err := s.own(ctx, caller, id); err != nil {
		return err
	}
	if err := s.reviews.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) Mine(ctx context.Context, caller domain.Caller) ([]domain.Review, error) {
	return s.reviews.ListByUser(ctx, caller.ID)
}

func (s *Service) Approve(ctx context.Context, id int64) (*domain.Review, error) {
	rv, err := s.reviews.Approve(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	s.log.Info("review approved", zap.Int64("review_id", id))
	s.invalidate(ctx)
	return rv, nil
}

// Pending is the moderation queue, oldest first.
func (s *Service) Pending(ctx context.Context) ([]domain.Review, error) {
	return s.reviews.ListPending(ctx)
}

// own hides reviews of other users behind NotFound.
func (s *Service) own(ctx context.Context, caller domain.Caller, id int64) (*domain.Review, error) {
	rv, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	if rv.UserID != caller.ID {
		return nil, ErrReviewNotFound
	}
	return rv, nil
}

func (s *Service) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(context.WithoutCancel(ctx)); err != nil {
		s.log.Warn("catalog cache invalidation failed", zap.Error(err))
	}
}
