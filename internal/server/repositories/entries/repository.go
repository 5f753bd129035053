package entries

import (
	"context"

	"github.com/dmitrijs2005/mymoment/internal/server/models"
)

// Repository stores diary entries. Every call is scoped to one user; rows of
// other users behave as if they did not exist.
type Repository interface {
	Create(ctx context.Context, entry *models.Entry) error
	Update(ctx context.Context, entry *models.Entry) error
	Delete(ctx context.Context, userID, id string) error
	ListByUser(ctx context.Context, userID string) ([]*models.Entry, error)
}
