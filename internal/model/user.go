package model

import "time"

// Role is the capability tag stored on a user.  Only the values declared
// below are valid; anything else read from storage is treated as RoleUser.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole maps a stored role string onto the closed set of roles.
func ParseRole(s string) Role {
	if Role(s) == RoleAdmin {
		return RoleAdmin
	}
	return RoleUser
}

// User represents an application user record as stored in the
// `users` table.  PasswordHash is never serialized; handlers can return
// a User directly without leaking credentials.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Name         – display name.
//  Email        – unique, lower-cased email address.
//  PasswordHash – bcrypt hashed password.
//  Role         – user or admin.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    `json:"id"`        // users.id
	Name         string    `json:"name"`      // users.name
	Email        string    `json:"email"`     // users.email
	PasswordHash string    `json:"-"`         // users.password_hash
	Role         Role      `json:"role"`      // users.role
	CreatedAt    time.Time `json:"createdAt"` // users.created_at
	UpdatedAt    time.Time `json:"updatedAt"` // users.updated_at
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }
