package domain

import "time"

type UserRole string

const (
	RoleClient UserRole = "client"
	RoleAdmin  UserRole = "admin"
)

func (r UserRole) Valid() bool {
	return r == RoleClient || r == RoleAdmin
}

type User struct {
	ID                   int64      `json:"id"`
	Name                 string     `json:"name"`
	Email                string     `json:"email"`
	PasswordHash         string     `json:"-"`
	Phone                string     `json:"phone,omitempty"`
	Role                 UserRole   `json:"role"`
	IsActive             bool       `json:"isActive"`
	ResetPasswordToken   string     `json:"-"`
	ResetPasswordExpires *time.Time `json:"-"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}

// UserRef is the read-side projection of a user embedded in other entities.
type UserRef struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Caller is the authenticated identity behind a request.
type Caller struct {
	ID    int64
	Role  UserRole
	Email string
}

func (c Caller) IsAdmin() bool { return c.Role == RoleAdmin }

// CanAccess reports whether the caller may act on a resource owned by ownerID.
func (c Caller) CanAccess(ownerID int64) bool {
	return c.IsAdmin() || c.ID == ownerID
}
