// Package refreshtokens declares the server-side repository contract for
// managing refresh tokens in persistent storage.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/mymoment/internal/server/models"
)

// Repository defines operations for issuing, retrieving, and revoking refresh tokens.
type Repository interface {
	// Create stores a new refresh token for userID that stops working at expires.
	Create(ctx context.Context, userID string, token string, expires time.Time) error

	// Find looks up a refresh token by its opaque token string.
	// It returns common.ErrNotFound when the token is absent.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// Delete consumes a token. It returns common.ErrNotFound when the token
	// was already consumed, so one token rotates at most once.
	Delete(ctx context.Context, token string) error

	// DeleteExpired drops every token that expired before now.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
