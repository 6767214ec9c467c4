package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"oficina/internal/domain"
	"oficina/internal/notification"
	"oficina/internal/pkg/utils"
	"oficina/internal/pkg/validator"
	"oficina/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Options struct {
	ResetTokenTTL time.Duration
	FrontendURL   string
}

// Service contains all business logic for accounts and sessions
type Service struct {
	users  UserRepository
	tokens TokenIssuer
	mailer Mailer
	log    *zap.Logger
	opts   Options
	now    func() time.Time
}

func NewService(users UserRepository, tokens TokenIssuer, mailer Mailer, log *zap.Logger, opts Options) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
		mailer: mailer,
		log:    log,
		opts:   opts,
		now:    time.Now,
	}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	if verr := validator.Validate(req); verr != nil {
		return nil, verr
	}

	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        normalizeEmail(req.Email),
		PasswordHash: hash,
		Phone:        strings.TrimSpace(req.Phone),
		Role:         domain.RoleClient,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	msg := notification.Welcome(user.Name)
	if err := s.mailer.Send(ctx, user.Email, msg.Subject, msg.Body); err != nil {
		s.log.Warn("welcome email failed", zap.Int64("user_id", user.ID), zap.Error(err))
	}

	return s.issue(user)
}

// Login checks the password before the account status.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	if verr := validator.Validate(req); verr != nil {
		return nil, verr
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !checkPassword(user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	return s.issue(user)
}

func (s *Service) Profile(ctx context.Context, userID int64) (*domain.User, error) {
	return s.getUser(ctx, userID)
}

func (s *Service) UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (*domain.User, error) {
	if verr := validator.Validate(req); verr != nil {
		return nil, verr
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Name = strings.TrimSpace(req.Name)
	user.Phone = strings.TrimSpace(req.Phone)

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) ChangePassword(ctx context.Context, userID int64, req ChangePasswordRequest) error {
	if verr := validator.Validate(req); verr != nil {
		return verr
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	if !checkPassword(user.PasswordHash, req.CurrentPassword) {
		return ErrWrongPassword
	}

	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	return s.users.Update(ctx, user)
}

// ForgotPassword never reveals whether the email is registered. Only the
// sha256 of the emailed token is stored.
func (s *Service) ForgotPassword(ctx context.Context, req ForgotPasswordRequest) error {
	if verr := validator.Validate(req); verr != nil {
		return verr
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	raw, err := randomToken()
	if err != nil {
		return err
	}
	expires := s.now().Add(s.opts.ResetTokenTTL)
	user.ResetPasswordToken = hashToken(raw)
	user.ResetPasswordExpires = &expires
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	link := s.opts.FrontendURL + "/reset-password/" + raw
	msg := notification.PasswordReset(link, int(s.opts.ResetTokenTTL.Minutes()))
	if err := s.mailer.Send(ctx, user.Email, msg.Subject, msg.Body); err != nil {
		s.log.Warn("password reset email failed", zap.Int64("user_id", user.ID), zap.Error(err))
	}
	return nil
}

func (s *Service) ResetPassword(ctx context.Context, token string, req ResetPasswordRequest) error {
	if verr := validator.Validate(req); verr != nil {
		return verr
	}
	if strings.TrimSpace(token) == "" {
		return ErrInvalidResetToken
	}

	user, err := s.users.GetByResetToken(ctx, hashToken(token), s.now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}

	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	user.ResetPasswordToken = ""
	user.ResetPasswordExpires = nil
	return s.users.Update(ctx, user)
}

// VerifyToken confirms the token still belongs to an active account.
func (s *Service) VerifyToken(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInvalidToken
	}
	return user, nil
}

func (s *Service) ListUsers(ctx context.Context, q ListUsersQuery) (*UserList, error) {
	page, limit := utils.NormalizePage(q.Page, q.Limit, 10, 100)

	users, total, err := s.users.List(ctx, repository.UserFilter{
		Search: strings.TrimSpace(q.Search),
		Role:   domain.UserRole(q.Role),
		Limit:  limit,
		Offset: utils.Offset(page, limit),
	})
	if err != nil {
		return nil, err
	}
	return &UserList{Users: users, Pagination: utils.NewPagination(page, limit, total)}, nil
}

func (s *Service) UpdateUser(ctx context.Context, id int64, req AdminUpdateUserRequest) (*domain.User, error) {
	if verr := validator.Validate(req); verr != nil {
		return nil, verr
	}

	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Name = strings.TrimSpace(req.Name)
	user.Email = normalizeEmail(req.Email)
	user.Phone = strings.TrimSpace(req.Phone)
	user.Role = req.Role
	user.IsActive = *req.IsActive

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}
	return user, nil
}

func (s *Service) DeactivateUser(ctx context.Context, caller domain.Caller, id int64) (*domain.User, error) {
	if caller.ID == id {
		return nil, ErrCannotDeactivateSelf
	}

	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	user.IsActive = false
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) getUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *Service) issue(user *domain.User) (*AuthResult, error) {
	token, err := s.tokens.GenerateToken(user.ID, string(user.Role), user.Email)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
