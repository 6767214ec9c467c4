package repository

import (
	"context"
	"time"

	"oficina/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

type reviewModel struct {
	ID             int64     `gorm:"column:id;primaryKey"`
	UserID         int64     `gorm:"column:user_id;not null;uniqueIndex:idx_reviews_user_entry,priority:1"`
	CatalogEntryID int64     `gorm:"column:catalog_entry_id;not null;uniqueIndex:idx_reviews_user_entry,priority:2"`
	BookingID      *int64    `gorm:"column:booking_id"`
	Rating         int       `gorm:"column:rating;not null"`
	Comment        *string   `gorm:"column:comment"`
	IsApproved     bool      `gorm:"column:is_approved;not null"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`

	User  *userModel    `gorm:"foreignKey:UserID"`
	Entry *catalogModel `gorm:"foreignKey:CatalogEntryID"`
}

func (reviewModel) TableName() string { return "reviews" }

func toDomainReview(m reviewModel) *domain.Review {
	rv := &domain.Review{
		ID:             m.ID,
		UserID:         m.UserID,
		CatalogEntryID: m.CatalogEntryID,
		BookingID:      m.BookingID,
		Rating:         m.Rating,
		Comment:        deref(m.Comment),
		IsApproved:     m.IsApproved,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
		Entry:          catalogRef(m.Entry),
	}
	if m.User != nil {
		rv.User = &domain.UserRef{ID: m.User.ID, Name: m.User.Name}
	}
	return rv
}

func withEntryName(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "category", "base_price")
}

func withReviewerName(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name")
}

func (r *ReviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	m := reviewModel{
		UserID:         rv.UserID,
		CatalogEntryID: rv.CatalogEntryID,
		BookingID:      rv.BookingID,
		Rating:         rv.Rating,
		Comment:        optional(rv.Comment),
		IsApproved:     rv.IsApproved,
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&m).Error; err != nil {
		return translate(err)
	}
	*rv = *toDomainReview(m)
	return nil
}

func (r *ReviewRepository) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	var m reviewModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return toDomainReview(m), nil
}

func (r *ReviewRepository) ExistsForUser(ctx context.Context, userID, entryID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&reviewModel{}).
		Where("user_id = ? AND catalog_entry_id = ?", userID, entryID).
		Count(&count).Error
	return count > 0, err
}

// UpdateContent rewrites rating and comment and sends the review back to moderation.
func (r *ReviewRepository) UpdateContent(ctx context.Context, id int64, rating int, comment string) (*domain.Review, error) {
	tx := r.db.WithContext(ctx).
		Model(&reviewModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"rating":      rating,
			"comment":     optional(comment),
			"is_approved": false,
			"updated_at":  time.Now().UTC(),
		})
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *ReviewRepository) Approve(ctx context.Context, id int64) (*domain.Review, error) {
	tx := r.db.WithContext(ctx).
		Model(&reviewModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_approved": true, "updated_at": time.Now().UTC()})
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *ReviewRepository) Delete(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).Delete(&reviewModel{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ReviewRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Review, error) {
	var rows []reviewModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Entry", withEntryName).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	return toDomainReviews(rows), err
}

// ListApprovedByEntry returns the public reviews of an entry, newest first.
func (r *ReviewRepository) ListApprovedByEntry(ctx context.Context, entryID int64) ([]domain.Review, error) {
	var rows []reviewModel
	err := r.db.WithContext(ctx).
		Where("catalog_entry_id = ? AND is_approved = ?", entryID, true).
		Preload("User", withReviewerName).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	return toDomainReviews(rows), err
}

func (r *ReviewRepository) ListPending(ctx context.Context) ([]domain.Review, error) {
	var rows []reviewModel
	err := r.db.WithContext(ctx).
		Where("is_approved = ?", false).
		Preload("User", withReviewerName).
		Preload("Entry", withEntryName).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	return toDomainReviews(rows), err
}

func toDomainReviews(rows []reviewModel) []domain.Review {
	out := make([]domain.Review, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainReview(m))
	}
	return out
}
