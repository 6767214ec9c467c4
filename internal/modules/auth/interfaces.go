package auth

import (
	"context"
	"time"

	"oficina/internal/domain"
	"oficina/internal/repository"
)

// UserRepository lists only the methods the auth service uses.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	GetByResetToken(ctx context.Context, tokenHash string, now time.Time) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	List(ctx context.Context, f repository.UserFilter) ([]domain.User, int64, error)
}

type TokenIssuer interface {
	GenerateToken(userID int64, role, email string) (string, error)
}

type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}
