package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	//tygo:emit export type UserRole = typeof RoleAdmin | typeof RoleEditor;
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:u" tstype:"-"`

	ID           int       `bun:",pk,nullzero" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Username     string    `bun:",nullzero" json:"username"`
	Email        *string   `json:"email,omitempty"`
	PasswordHash string    `json:"-"` // Never expose password hash
	Role         string    `bun:",nullzero" json:"role" tstype:"UserRole"`
	IsActive     bool      `json:"is_active"`
}

// IsAdmin reports whether the user can manage site-wide settings.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanEdit reports whether the user can write content (courses, posts, events,
// testimonials).
func (u *User) CanEdit() bool {
	return u.Role == RoleAdmin || u.Role == RoleEditor
}
