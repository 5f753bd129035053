// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is a registered account. Verifier is the argon2id hash of the
// password under Salt.
type User struct {
	ID        string
	Email     string
	Salt      []byte
	Verifier  []byte
	CreatedAt time.Time
}
