package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/mymoment/internal/common"
	"github.com/dmitrijs2005/mymoment/internal/logging"
	"github.com/dmitrijs2005/mymoment/internal/server/events"
	"github.com/dmitrijs2005/mymoment/internal/server/models"
	"github.com/dmitrijs2005/mymoment/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// ChangePublisher announces committed entry changes to watchers.
type ChangePublisher interface {
	Publish(ctx context.Context, c events.Change) error
}

// EntryService stores the diary entries of signed-in users. Every successful
// write is published so the user's watch streams can send a new snapshot.
type EntryService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	publisher   ChangePublisher
	logger      logging.Logger
	newID       func() string
}

func NewEntryService(db *sql.DB, m repomanager.RepositoryManager, publisher ChangePublisher, logger logging.Logger) *EntryService {
	return &EntryService{
		db:          db,
		repomanager: m,
		publisher:   publisher,
		logger:      logger.With("module", "entries"),
		newID:       uuid.NewString,
	}
}

func validateEntry(e *models.Entry) error {
	if strings.TrimSpace(e.Title) == "" && strings.TrimSpace(e.Content) == "" {
		return fmt.Errorf("%w: title or content cannot be empty", common.ErrValidation)
	}
	if (e.Latitude == nil) != (e.Longitude == nil) {
		return fmt.Errorf("%w: location needs latitude and longitude", common.ErrValidation)
	}
	if e.Latitude != nil && (*e.Latitude < -90 || *e.Latitude > 90 || *e.Longitude < -180 || *e.Longitude > 180) {
		return fmt.Errorf("%w: location out of range", common.ErrValidation)
	}
	return nil
}

// validID rejects IDs that cannot name a stored entry.
func validID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return common.ErrNotFound
	}
	return nil
}

func (s *EntryService) publish(ctx context.Context, userID, entryID, kind string) {
	if err := s.publisher.Publish(ctx, events.Change{UserID: userID, EntryID: entryID, Kind: kind}); err != nil {
		s.logger.Warn(ctx, "change not published", "user", userID, "entry", entryID, "error", err)
	}
}

// Add stores e for userID under a new ID and returns the ID.
func (s *EntryService) Add(ctx context.Context, userID string, e *models.Entry) (string, error) {
	if err := validateEntry(e); err != nil {
		return "", err
	}
	e.ID = s.newID()
	e.UserID = userID
	if err := s.repomanager.Entries(s.db).Create(ctx, e); err != nil {
		return "", fmt.Errorf("add entry: %w", err)
	}
	s.publish(ctx, userID, e.ID, events.Added)
	return e.ID, nil
}

// Update replaces the entry e.ID of userID. Entries of other users are
// reported as common.ErrNotFound.
func (s *EntryService) Update(ctx context.Context, userID string, e *models.Entry) error {
	if err := validID(e.ID); err != nil {
		return err
	}
	if err := validateEntry(e); err != nil {
		return err
	}
	e.UserID = userID
	if err := s.repomanager.Entries(s.db).Update(ctx, e); err != nil {
		return fmt.Errorf("update entry: %w", err)
	}
	s.publish(ctx, userID, e.ID, events.Updated)
	return nil
}

func (s *EntryService) Delete(ctx context.Context, userID, id string) error {
	if err := validID(id); err != nil {
		return err
	}
	if err := s.repomanager.Entries(s.db).Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	s.publish(ctx, userID, id, events.Deleted)
	return nil
}

// List returns the entries of userID newest first.
func (s *EntryService) List(ctx context.Context, userID string) ([]*models.Entry, error) {
	list, err := s.repomanager.Entries(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return list, nil
}
