package documents

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/mymoment/internal/common"
	"github.com/dmitrijs2005/mymoment/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Insert(ctx context.Context, rec *Record) error {
	query := `INSERT INTO documents
		(id, user_id, title, content, timestamp, latitude, longitude, weather, temperature, location_name)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, rec.ID, rec.UserID, rec.Title, rec.Content, rec.Timestamp,
		rec.Latitude, rec.Longitude, rec.Weather, rec.Temperature, rec.LocationName)
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Update(ctx context.Context, rec *Record) error {
	query := `UPDATE documents SET
		title = ?, content = ?, timestamp = ?, latitude = ?, longitude = ?,
		weather = ?, temperature = ?, location_name = ?
		WHERE user_id = ? AND id = ?`

	res, err := r.db.ExecContext(ctx, query, rec.Title, rec.Content, rec.Timestamp, rec.Latitude, rec.Longitude,
		rec.Weather, rec.Temperature, rec.LocationName, rec.UserID, rec.ID)
	if err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}
	return dbx.AffectedOne(res, common.ErrNotFound)
}

func (r *SQLiteRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return dbx.AffectedOne(res, common.ErrNotFound)
}

func (r *SQLiteRepository) ListByUser(ctx context.Context, userID string) ([]Record, error) {
	query := `SELECT id, user_id, title, content, timestamp, latitude, longitude, weather, temperature, location_name
		FROM documents WHERE user_id = ? ORDER BY timestamp DESC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select documents: %w", err)
	}
	defer rows.Close()

	result := make([]Record, 0)
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Title, &rec.Content, &rec.Timestamp,
			&rec.Latitude, &rec.Longitude, &rec.Weather, &rec.Temperature, &rec.LocationName); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
	}
	return result, nil
}
