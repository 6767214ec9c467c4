package auth

import (
	"oficina/internal/domain"
	"oficina/internal/pkg/utils"
)

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone" validate:"omitempty,min=10,max=15"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=100"`
	Phone string `json:"phone" validate:"omitempty,min=10,max=15"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

// AdminUpdateUserRequest overwrites every listed field of the target user.
type AdminUpdateUserRequest struct {
	Name     string          `json:"name" validate:"required,min=2,max=100"`
	Email    string          `json:"email" validate:"required,email"`
	Phone    string          `json:"phone" validate:"omitempty,min=10,max=15"`
	Role     domain.UserRole `json:"role" validate:"required,oneof=client admin"`
	IsActive *bool           `json:"isActive" validate:"required"`
}

type ListUsersQuery struct {
	Search string `form:"search"`
	Role   string `form:"role"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

type AuthResult struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

type UserList struct {
	Users      []domain.User    `json:"users"`
	Pagination utils.Pagination `json:"pagination"`
}
