package repository

import (
	"context"
	"time"

	"oficina/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FavoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

type favoriteModel struct {
	ID             int64     `gorm:"column:id;primaryKey"`
	UserID         int64     `gorm:"column:user_id;not null;uniqueIndex:idx_favorites_user_entry,priority:1"`
	CatalogEntryID int64     `gorm:"column:catalog_entry_id;not null;uniqueIndex:idx_favorites_user_entry,priority:2"`
	CreatedAt      time.Time `gorm:"column:created_at"`

	Entry *catalogModel `gorm:"foreignKey:CatalogEntryID"`
}

func (favoriteModel) TableName() string { return "favorites" }

func toDomainFavorite(m favoriteModel) *domain.Favorite {
	f := &domain.Favorite{
		ID:             m.ID,
		UserID:         m.UserID,
		CatalogEntryID: m.CatalogEntryID,
		CreatedAt:      m.CreatedAt,
	}
	if m.Entry != nil {
		f.Entry = toDomainCatalog(*m.Entry)
	}
	return f
}

// Add stores the pair. A second add of the same pair returns ErrDuplicate.
func (r *FavoriteRepository) Add(ctx context.Context, userID, entryID int64) (*domain.Favorite, error) {
	m := favoriteModel{UserID: userID, CatalogEntryID: entryID}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&m).Error; err != nil {
		return nil, translate(err)
	}
	return toDomainFavorite(m), nil
}

func (r *FavoriteRepository) Remove(ctx context.Context, userID, entryID int64) error {
	tx := r.db.WithContext(ctx).
		Where("user_id = ? AND catalog_entry_id = ?", userID, entryID).
		Delete(&favoriteModel{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *FavoriteRepository) Exists(ctx context.Context, userID, entryID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&favoriteModel{}).
		Where("user_id = ? AND catalog_entry_id = ?", userID, entryID).
		Count(&count).Error
	return count > 0, err
}

// ListActiveByUser returns the user's favorites whose entry is still active, newest first.
func (r *FavoriteRepository) ListActiveByUser(ctx context.Context, userID int64) ([]domain.Favorite, error) {
	var rows []favoriteModel
	err := r.db.WithContext(ctx).
		Select("favorites.*").
		Joins("JOIN catalog_entries ON catalog_entries.id = favorites.catalog_entry_id AND catalog_entries.is_active = ?", true).
		Where("favorites.user_id = ?", userID).
		Preload("Entry").
		Order("favorites.created_at DESC, favorites.id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.Favorite, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainFavorite(m))
	}
	return out, nil
}

// EntryIDs returns the set of catalog entries the user has favorited.
func (r *FavoriteRepository) EntryIDs(ctx context.Context, userID int64) (map[int64]bool, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&favoriteModel{}).
		Where("user_id = ?", userID).
		Pluck("catalog_entry_id", &ids).Error
	if err != nil {
		return nil, err
	}

	out := make(map[int64]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}
