package catalog

import (
	"context"
	"errors"
	"math"
	"strings"

	"oficina/internal/domain"
	"oficina/internal/pkg/apperror"
	"oficina/internal/pkg/utils"
	"oficina/internal/pkg/validator"
	"oficina/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	publicLimit = 12
	adminLimit  = 20
	maxLimit    = 100
	topTags     = 20
)

var sorts = map[string]repository.CatalogSort{
	"price_asc":  repository.CatalogSortPriceAsc,
	"price_desc": repository.CatalogSortPriceDesc,
	"name_asc":   repository.CatalogSortNameAsc,
	"name_desc":  repository.CatalogSortNameDesc,
	"newest":     repository.CatalogSortNewest,
}

type Service struct {
	entries   CatalogRepository
	favorites FavoriteRepository
	reviews   ReviewRepository
	cache     Invalidator
	log       *zap.Logger
}

func NewService(entries CatalogRepository, favorites FavoriteRepository, reviews ReviewRepository, cache Invalidator, log *zap.Logger) *Service {
	return &Service{
		entries:   entries,
		favorites: favorites,
		reviews:   reviews,
		cache:     cache,
		log:       log,
	}
}

// List is the public catalog: active entries only, every filter ANDed.
func (s *Service) List(ctx context.Context, caller domain.Caller, q ListQuery) (*Page, error) {
	if q.MinPrice != nil && q.MaxPrice != nil && *q.MaxPrice < *q.MinPrice {
		verr := apperror.NewValidation()
		verr.Add("maxPrice", "must not be lower than minPrice")
		return nil, verr
	}

	page, limit := utils.NormalizePage(q.Page, q.Limit, publicLimit, maxLimit)
	f := repository.CatalogFilter{
		ActiveOnly: true,
		Search:     strings.TrimSpace(q.Search),
		Tags:       utils.SplitCSV(q.Tags),
		MinPrice:   q.MinPrice,
		MaxPrice:   q.MaxPrice,
		Sort:       sorts[q.Sort],
		Limit:      limit,
		Offset:     utils.Offset(page, limit),
	}
	if c := strings.TrimSpace(q.Category); c != "all" {
		f.Category = c
	}

	entries, total, err := s.entries.List(ctx, f)
	if err != nil {
		return nil, err
	}

	var favs map[int64]bool
	if caller.ID != 0 {
		if favs, err = s.favorites.EntryIDs(ctx, caller.ID); err != nil {
			return nil, err
		}
	}

	items := make([]Item, 0, len(entries))
	for _, e := range entries {
		item := Item{CatalogEntry: e}
		if favs != nil {
			fav := favs[e.ID]
			item.IsFavorito = &fav
		}
		items = append(items, item)
	}
	return newPage(items, page, limit, total), nil
}

func newPage(items []Item, page, limit int, total int64) *Page {
	pages := utils.TotalPages(total, limit)
	return &Page{
		Servicos:    items,
		CurrentPage: page,
		TotalPages:  pages,
		TotalItems:  total,
		HasNext:     page < pages,
		HasPrev:     page > 1,
	}
}

// Details shows an active entry with its approved reviews.
func (s *Service) Details(ctx context.Context, caller domain.Caller, id int64) (*Details, error) {
	e, err := s.entries.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	if !e.IsActive {
		return nil, ErrEntryNotFound
	}

	reviews, err := s.reviews.ListApprovedByEntry(ctx, id)
	if err != nil {
		return nil, err
	}

	out := &Details{
		CatalogEntry:    *e,
		Avaliacoes:      reviews,
		MediaAvaliacoes: averageRating(reviews),
		TotalAvaliacoes: len(reviews),
	}
	if caller.ID != 0 {
		if out.IsFavorito, err = s.favorites.Exists(ctx, caller.ID, id); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// averageRating is rounded to one decimal, zero without reviews.
func averageRating(reviews []domain.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return math.Round(float64(sum)/float64(len(reviews))*10) / 10
}

func (s *Service) Categories(ctx context.Context) ([]string, error) {
	return s.entries.Categories(ctx)
}

func (s *Service) Tags(ctx context.Context) ([]domain.TagCount, error) {
	return s.entries.TopTags(ctx, topTags)
}

// ListAll is the admin view: inactive entries included, newest first.
func (s *Service) ListAll(ctx context.Context, q AdminListQuery) (*Page, error) {
	page, limit := utils.NormalizePage(q.Page, q.Limit, adminLimit, maxLimit)
	entries, total, err := s.entries.List(ctx, repository.CatalogFilter{
		Search: strings.TrimSpace(q.Search),
		Sort:   repository.CatalogSortNewest,
		Limit:  limit,
		Offset: utils.Offset(page, limit),
	})
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(entries))
	for _, e := range entries {
		items = append(items, Item{CatalogEntry: e})
	}
	return newPage(items, page, limit, total), nil
}

func (s *Service) Create(ctx context.Context, req EntryRequest) (*domain.CatalogEntry, error) {
	if verr := validator.Validate(req); verr != nil {
		return nil, verr
	}

	e := &domain.CatalogEntry{IsActive: true}
	apply(e, req)
	if err := s.entries.Create(ctx, e); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	s.log.Info("catalog entry created", zap.Int64("entry_id", e.ID))
	return e, nil
}

func (s *Service) Update(ctx context.Context, id int64, req EntryRequest) (*domain.CatalogEntry, error) {
	if verr := validator.Validate(req); verr != nil {
		return nil, verr
	}

	e, err := s.entries.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}

	apply(e, req)
	if err := s.entries.Update(ctx, e); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}

	s.invalidate(ctx)
	return e, nil
}

// Deactivate hides an entry. Entries are never deleted so bookings and
// reviews keep resolving them.
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	if err := s.entries.SetActive(ctx, id, false); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEntryNotFound
		}
		return err
	}

	s.invalidate(ctx)
	s.log.Info("catalog entry deactivated", zap.Int64("entry_id", id))
	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(context.WithoutCancel(ctx)); err != nil {
		s.log.Warn("catalog cache invalidation failed", zap.Error(err))
	}
}

func apply(e *domain.CatalogEntry, req EntryRequest) {
	e.Name = strings.TrimSpace(req.Name)
	e.Description = strings.TrimSpace(req.Description)
	e.Category = strings.TrimSpace(req.Category)
	e.BasePrice = req.BasePrice
	e.EstimatedDuration = strings.TrimSpace(req.EstimatedDuration)
	e.Tags = cleanList(req.Tags)
	e.Image = strings.TrimSpace(req.Image)
	e.Difficulty = req.Difficulty
	if e.Difficulty == "" {
		e.Difficulty = domain.DifficultyMedium
	}
	e.RequiredParts = cleanList(req.RequiredParts)
	e.Warranty = strings.TrimSpace(req.Warranty)
	if req.IsActive != nil {
		e.IsActive = *req.IsActive
	}
}

// cleanList trims values and drops blanks and repeats.
func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
