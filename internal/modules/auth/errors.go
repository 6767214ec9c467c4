package auth

import "oficina/internal/pkg/apperror"

var (
	ErrInvalidCredentials   = apperror.New(apperror.ErrUnauthorized, "invalid email or password")
	ErrEmailAlreadyExists   = apperror.New(apperror.ErrAlreadyExists, "email already registered")
	ErrAccountDisabled      = apperror.New(apperror.ErrInvalidState, "account disabled, contact support")
	ErrUserNotFound         = apperror.New(apperror.ErrNotFound, "user not found")
	ErrWrongPassword        = apperror.New(apperror.ErrValidation, "current password is incorrect")
	ErrInvalidResetToken    = apperror.New(apperror.ErrValidation, "reset token is invalid or expired")
	ErrCannotDeactivateSelf = apperror.New(apperror.ErrInvalidState, "admins cannot deactivate their own account")
	ErrInvalidToken         = apperror.New(apperror.ErrUnauthorized, "invalid token")
)
