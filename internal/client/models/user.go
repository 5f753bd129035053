package models

import "time"

// User is an authenticated account.
type User struct {
	ID        string
	Email     string
	CreatedAt time.Time
}

// Session is the signed-in context. A nil *Session means signed out.
type Session struct {
	User  User
	Token string
}

// UserID returns the session's user id, or "" for a nil session.
func (s *Session) UserID() string {
	if s == nil {
		return ""
	}
	return s.User.ID
}
