package domain

import "time"

// User is an authenticated account. The first registered user becomes the
// admin and may trigger syncs and flip catalog activation.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	DisplayName  string
	Admin        bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin reports whether the user may perform admin operations.
func (u *User) IsAdmin() bool {
	return u.Admin
}

// Session is a refresh-token session. The token itself is never stored;
// only its hash is persisted.
type Session struct {
	ID               string
	UserID           string
	RefreshTokenHash string
	ExpiresAt        time.Time
	CreatedAt        time.Time
	LastUsedAt       time.Time
}

// Expired reports whether the session's refresh token has expired.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
