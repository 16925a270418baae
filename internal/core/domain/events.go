package domain

import "time"

// UserRegisteredEvent is emitted after a new account has been created.
type UserRegisteredEvent struct {
	EventID      string
	UserID       string
	Email        string
	RoleID       int
	RegisteredAt time.Time
}

// UserLoggedInEvent is emitted after a successful authentication.
type UserLoggedInEvent struct {
	EventID    string
	UserID     string
	Email      string
	Role       string
	IP         string
	LoggedInAt time.Time
}
