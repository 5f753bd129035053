// Package documents stores diary documents in the local SQLite database,
// one row per document, scoped by user id.
package documents

import "context"

// Record is one stored document. Timestamp is unix milliseconds; Latitude
// and Longitude are either both set or both nil.
type Record struct {
	ID           string
	UserID       string
	Title        string
	Content      string
	Timestamp    int64
	Latitude     *float64
	Longitude    *float64
	Weather      string
	Temperature  *float64
	LocationName string
}

type Repository interface {
	Insert(ctx context.Context, r *Record) error
	// Update replaces the document fields of (userID, id). ErrNotFound when
	// no such row.
	Update(ctx context.Context, r *Record) error
	Delete(ctx context.Context, userID, id string) error
	// ListByUser returns the user's documents newest first, ties by id.
	ListByUser(ctx context.Context, userID string) ([]Record, error)
}
