package repository

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"oficina/internal/domain"
	"oficina/internal/pkg/utils"

	"gorm.io/gorm"
)

type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

type catalogModel struct {
	ID                int64     `gorm:"column:id;primaryKey"`
	Name              string    `gorm:"column:name;not null"`
	Description       string    `gorm:"column:description;not null"`
	Category          string    `gorm:"column:category;not null;index"`
	BasePrice         float64   `gorm:"column:base_price;not null;index"`
	EstimatedDuration string    `gorm:"column:estimated_duration;not null"`
	Tags              string    `gorm:"column:tags;type:text;not null"`
	Image             *string   `gorm:"column:image"`
	IsActive          bool      `gorm:"column:is_active;not null"`
	Difficulty        string    `gorm:"column:difficulty;not null"`
	RequiredParts     string    `gorm:"column:required_parts;type:text;not null"`
	Warranty          *string   `gorm:"column:warranty"`
	CreatedAt         time.Time `gorm:"column:created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at"`
}

func (catalogModel) TableName() string { return "catalog_entries" }

func toDomainCatalog(m catalogModel) *domain.CatalogEntry {
	return &domain.CatalogEntry{
		ID:                m.ID,
		Name:              m.Name,
		Description:       m.Description,
		Category:          m.Category,
		BasePrice:         m.BasePrice,
		EstimatedDuration: m.EstimatedDuration,
		Tags:              utils.JSONToStrings(m.Tags),
		Image:             deref(m.Image),
		IsActive:          m.IsActive,
		Difficulty:        domain.Difficulty(m.Difficulty),
		RequiredParts:     utils.JSONToStrings(m.RequiredParts),
		Warranty:          deref(m.Warranty),
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func toCatalogModel(e *domain.CatalogEntry) catalogModel {
	return catalogModel{
		ID:                e.ID,
		Name:              e.Name,
		Description:       e.Description,
		Category:          e.Category,
		BasePrice:         e.BasePrice,
		EstimatedDuration: e.EstimatedDuration,
		Tags:              utils.StringsToJSON(e.Tags),
		Image:             optional(e.Image),
		IsActive:          e.IsActive,
		Difficulty:        string(e.Difficulty),
		RequiredParts:     utils.StringsToJSON(e.RequiredParts),
		Warranty:          optional(e.Warranty),
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}
}

func catalogRef(m *catalogModel) *domain.CatalogRef {
	if m == nil {
		return nil
	}
	return &domain.CatalogRef{ID: m.ID, Name: m.Name, Category: m.Category, BasePrice: m.BasePrice}
}

type CatalogSort string

const (
	CatalogSortPriceAsc  CatalogSort = "price_asc"
	CatalogSortPriceDesc CatalogSort = "price_desc"
	CatalogSortNameAsc   CatalogSort = "name_asc"
	CatalogSortNameDesc  CatalogSort = "name_desc"
	CatalogSortNewest    CatalogSort = "newest"
)

func (s CatalogSort) orderClause() string {
	switch s {
	case CatalogSortPriceAsc:
		return "base_price ASC, id ASC"
	case CatalogSortPriceDesc:
		return "base_price DESC, id ASC"
	case CatalogSortNameDesc:
		return "name DESC, id ASC"
	case CatalogSortNewest:
		return "created_at DESC, id DESC"
	default:
		return "name ASC, id ASC"
	}
}

// CatalogFilter combines every dimension with AND; Tags match with OR.
type CatalogFilter struct {
	ActiveOnly bool
	Search     string
	Category   string
	Tags       []string
	MinPrice   *float64
	MaxPrice   *float64
	Sort       CatalogSort
	Limit      int
	Offset     int
}

func (f CatalogFilter) apply(q *gorm.DB) *gorm.DB {
	if f.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}
	if f.Search != "" {
		p := likePattern(f.Search)
		q = q.Where(`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\' OR LOWER(tags) LIKE ? ESCAPE '\')`, p, p, p)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if len(f.Tags) > 0 {
		clauses := make([]string, 0, len(f.Tags))
		args := make([]any, 0, len(f.Tags))
		for _, tag := range f.Tags {
			clauses = append(clauses, `tags LIKE ? ESCAPE '\'`)
			args = append(args, tagPattern(tag))
		}
		q = q.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
	if f.MinPrice != nil {
		q = q.Where("base_price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("base_price <= ?", *f.MaxPrice)
	}
	return q
}

// tagPattern matches one element of the JSON encoded tags column.
func tagPattern(tag string) string {
	quoted, _ := json.Marshal(tag)
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(string(quoted)) + "%"
}

func (r *CatalogRepository) Create(ctx context.Context, e *domain.CatalogEntry) error {
	m := toCatalogModel(e)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return translate(err)
	}
	*e = *toDomainCatalog(m)
	return nil
}

func (r *CatalogRepository) GetByID(ctx context.Context, id int64) (*domain.CatalogEntry, error) {
	var m catalogModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return toDomainCatalog(m), nil
}

// Update overwrites the editable fields of an entry.
func (r *CatalogRepository) Update(ctx context.Context, e *domain.CatalogEntry) error {
	m := toCatalogModel(e)
	tx := r.db.WithContext(ctx).
		Model(&catalogModel{ID: e.ID}).
		Select("*").
		Omit("id", "created_at").
		Updates(&m)
	if tx.Error != nil {
		return translate(tx.Error)
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *CatalogRepository) SetActive(ctx context.Context, id int64, active bool) error {
	tx := r.db.WithContext(ctx).
		Model(&catalogModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_active": active, "updated_at": time.Now().UTC()})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *CatalogRepository) List(ctx context.Context, f CatalogFilter) ([]domain.CatalogEntry, int64, error) {
	base := func() *gorm.DB { return f.apply(r.db.WithContext(ctx).Model(&catalogModel{})) }

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []catalogModel
	if err := base().Order(f.Sort.orderClause()).Limit(f.Limit).Offset(f.Offset).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]domain.CatalogEntry, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainCatalog(m))
	}
	return out, total, nil
}

// Categories returns the distinct categories of active entries.
func (r *CatalogRepository) Categories(ctx context.Context) ([]string, error) {
	out := []string{}
	err := r.db.WithContext(ctx).
		Model(&catalogModel{}).
		Where("is_active = ?", true).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &out).Error
	return out, err
}

// TopTags counts tags across active entries and returns the most used first.
func (r *CatalogRepository) TopTags(ctx context.Context, limit int) ([]domain.TagCount, error) {
	var raw []string
	err := r.db.WithContext(ctx).
		Model(&catalogModel{}).
		Where("is_active = ?", true).
		Pluck("tags", &raw).Error
	if err != nil {
		return nil, err
	}

	counts := map[string]int64{}
	for _, s := range raw {
		for _, tag := range utils.JSONToStrings(s) {
			counts[tag]++
		}
	}

	out := make([]domain.TagCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, domain.TagCount{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
