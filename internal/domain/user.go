package domain

import "time"

// Role is the authorization tier of an account.
type Role string

const (
	RoleClient Role = "Cliente"
	RoleStaff  Role = "Staff"
	RoleAdmin  Role = "Admin"
)

// ParseRole validates a stored or requested role name.
func ParseRole(raw string) (Role, bool) {
	switch r := Role(raw); r {
	case RoleClient, RoleStaff, RoleAdmin:
		return r, true
	default:
		return "", false
	}
}

// User is the domain model for registered accounts.
type User struct {
	ID           int64
	FullName     string
	Email        string
	Phone        *string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}
