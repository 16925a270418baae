package domain

import "time"

// User mirrors the persisted representation in the users table.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Surname      string
	Phone        *string
	RoleID       int
	Active       bool
	RegisteredAt time.Time
	LastAccessAt *time.Time
}

// Sanitized returns a copy of the user with credential material stripped.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	return u
}

// Role is a named authorization group referenced by users via RoleID.
type Role struct {
	ID          int
	Name        string
	Description *string
}
