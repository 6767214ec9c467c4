package repository

import (
	"context"
	"strings"
	"time"

	"oficina/internal/domain"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

type userModel struct {
	ID                   int64      `gorm:"column:id;primaryKey"`
	Name                 string     `gorm:"column:name;not null"`
	Email                string     `gorm:"column:email;not null;uniqueIndex:idx_users_email"`
	PasswordHash         string     `gorm:"column:password_hash;not null"`
	Phone                *string    `gorm:"column:phone"`
	Role                 string     `gorm:"column:role;not null;default:client;index"`
	IsActive             bool       `gorm:"column:is_active;not null"`
	ResetPasswordToken   *string    `gorm:"column:reset_password_token"`
	ResetPasswordExpires *time.Time `gorm:"column:reset_password_expires"`
	CreatedAt            time.Time  `gorm:"column:created_at"`
	UpdatedAt            time.Time  `gorm:"column:updated_at"`
}

func (userModel) TableName() string { return "users" }

func toDomainUser(m userModel) *domain.User {
	return &domain.User{
		ID:                   m.ID,
		Name:                 m.Name,
		Email:                m.Email,
		PasswordHash:         m.PasswordHash,
		Phone:                deref(m.Phone),
		Role:                 domain.UserRole(m.Role),
		IsActive:             m.IsActive,
		ResetPasswordToken:   deref(m.ResetPasswordToken),
		ResetPasswordExpires: m.ResetPasswordExpires,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}

func toUserModel(u *domain.User) userModel {
	return userModel{
		ID:                   u.ID,
		Name:                 u.Name,
		Email:                strings.TrimSpace(strings.ToLower(u.Email)),
		PasswordHash:         u.PasswordHash,
		Phone:                optional(u.Phone),
		Role:                 string(u.Role),
		IsActive:             u.IsActive,
		ResetPasswordToken:   optional(u.ResetPasswordToken),
		ResetPasswordExpires: u.ResetPasswordExpires,
		CreatedAt:            u.CreatedAt,
		UpdatedAt:            u.UpdatedAt,
	}
}

func userRef(m *userModel) *domain.UserRef {
	if m == nil {
		return nil
	}
	return &domain.UserRef{ID: m.ID, Name: m.Name, Email: m.Email}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	m := toUserModel(u)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return translate(err)
	}
	*u = *toDomainUser(m)
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var m userModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var m userModel
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&count).Error
	return count > 0, err
}

// GetByResetToken finds the user holding tokenHash while it is still valid at now.
func (r *UserRepository) GetByResetToken(ctx context.Context, tokenHash string, now time.Time) (*domain.User, error) {
	var m userModel
	err := r.db.WithContext(ctx).
		Where("reset_password_token = ? AND reset_password_expires > ?", tokenHash, now.UTC()).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return toDomainUser(m), nil
}

// Update overwrites every column of the user.
func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	m := toUserModel(u)
	tx := r.db.WithContext(ctx).
		Model(&userModel{ID: u.ID}).
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

type UserFilter struct {
	Search string
	Role   domain.UserRole
	Limit  int
	Offset int
}

func (r *UserRepository) List(ctx context.Context, f UserFilter) ([]domain.User, int64, error) {
	base := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&userModel{})
		if f.Search != "" {
			p := likePattern(f.Search)
			q = q.Where(`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\')`, p, p)
		}
		if f.Role != "" {
			q = q.Where("role = ?", string(f.Role))
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []userModel
	if err := base().Order("created_at DESC, id DESC").Limit(f.Limit).Offset(f.Offset).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]domain.User, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainUser(m))
	}
	return out, total, nil
}

// ClearExpiredResetTokens drops password reset tokens that expired before now.
func (r *UserRepository) ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error) {
	tx := r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("reset_password_token IS NOT NULL AND reset_password_expires < ?", now.UTC()).
		Updates(map[string]any{
			"reset_password_token":   nil,
			"reset_password_expires": nil,
		})
	return tx.RowsAffected, tx.Error
}
