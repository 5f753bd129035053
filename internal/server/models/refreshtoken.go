package models

import "time"

// RefreshToken is one row of refresh_tokens. Each token is single-use:
// RefreshToken in the user service deletes it and issues a successor.
// CreatedAt is not read back by the repository.
type RefreshToken struct {
	ID        string
	UserID    string
	Token     string
	Expires   time.Time
	CreatedAt time.Time
}

// Expired reports whether the token can no longer be exchanged at now.
// DeleteExpired in the repository uses the same strict comparison.
func (t *RefreshToken) Expired(now time.Time) bool {
	return t.Expires.Before(now)
}
