// Package entries provides the PostgreSQL-backed repository for diary
// entries.
package entries

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/mymoment/internal/common"
	"github.com/dmitrijs2005/mymoment/internal/dbx"
	"github.com/dmitrijs2005/mymoment/internal/server/models"
)

// PostgresRepository implements entry storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts entry. The caller assigns the ID.
func (r *PostgresRepository) Create(ctx context.Context, entry *models.Entry) error {
	query := `
		INSERT INTO entries (id, user_id, title, content, ts, latitude, longitude, weather, temperature, location_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.UserID, entry.Title, entry.Content, entry.Timestamp,
		entry.Latitude, entry.Longitude, entry.Weather, entry.Temperature, entry.LocationName)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Update replaces every field of an existing entry of the same user.
// It returns common.ErrNotFound when no such entry exists.
func (r *PostgresRepository) Update(ctx context.Context, entry *models.Entry) error {
	query := `
		UPDATE entries SET
			title = $3, content = $4, ts = $5, latitude = $6, longitude = $7,
			weather = $8, temperature = $9, location_name = $10, updated_at = now()
		WHERE id = $1 AND user_id = $2
	`
	res, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.UserID, entry.Title, entry.Content, entry.Timestamp,
		entry.Latitude, entry.Longitude, entry.Weather, entry.Temperature, entry.LocationName)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.AffectedOne(res, common.ErrNotFound)
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	query := `DELETE FROM entries WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.AffectedOne(res, common.ErrNotFound)
}

// ListByUser returns the user's entries newest first; equal timestamps go by ID.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.Entry, error) {
	query := `
		SELECT id, title, content, ts, latitude, longitude, weather, temperature, location_name, updated_at
		FROM entries
		WHERE user_id = $1
		ORDER BY ts DESC, id ASC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select entries: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Entry, 0)
	for rows.Next() {
		item := models.Entry{UserID: userID}
		if err := rows.Scan(
			&item.ID, &item.Title, &item.Content, &item.Timestamp,
			&item.Latitude, &item.Longitude, &item.Weather, &item.Temperature,
			&item.LocationName, &item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
