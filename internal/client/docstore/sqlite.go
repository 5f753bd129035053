package docstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/mymoment/internal/client/models"
	"github.com/dmitrijs2005/mymoment/internal/client/repositories/documents"
	"github.com/google/uuid"
)

// SQLiteStore persists documents through the documents repository. The
// live feed re-reads the user's rows after every committed write.
type SQLiteStore struct {
	repo     documents.Repository
	notifyMu sync.Mutex
	hub      hub
}

func NewSQLiteStore(repo documents.Repository) *SQLiteStore {
	return &SQLiteStore{repo: repo}
}

func toRecord(userID, id string, doc Document) *documents.Record {
	rec := &documents.Record{
		ID:           id,
		UserID:       userID,
		Title:        doc.Title,
		Content:      doc.Content,
		Timestamp:    doc.Timestamp,
		Weather:      doc.Weather,
		Temperature:  doc.Temperature,
		LocationName: doc.LocationName,
	}
	if doc.Location != nil {
		lat, lng := doc.Location.Latitude, doc.Location.Longitude
		rec.Latitude, rec.Longitude = &lat, &lng
	}
	return rec
}

func fromRecord(rec documents.Record) Document {
	doc := Document{
		ID:           rec.ID,
		Title:        rec.Title,
		Content:      rec.Content,
		Timestamp:    rec.Timestamp,
		Weather:      rec.Weather,
		Temperature:  rec.Temperature,
		LocationName: rec.LocationName,
	}
	if rec.Latitude != nil && rec.Longitude != nil {
		doc.Location = &models.Location{Latitude: *rec.Latitude, Longitude: *rec.Longitude}
	}
	return doc
}

func (s *SQLiteStore) snapshot(ctx context.Context, userID string) ([]Document, error) {
	recs, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	docs := make([]Document, 0, len(recs))
	for _, rec := range recs {
		docs = append(docs, fromRecord(rec))
	}
	SortDocuments(docs)
	return docs, nil
}

// write runs fn and, once it succeeded, pushes a fresh snapshot. A failed
// re-read is reported to the listeners, not to the writer: the write itself
// is committed.
func (s *SQLiteStore) write(ctx context.Context, userID string, fn func() error) error {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	if err := fn(); err != nil {
		return err
	}

	ls := s.hub.of(userID)
	if len(ls) == 0 {
		return nil
	}
	snap, err := s.snapshot(context.WithoutCancel(ctx), userID)
	if err != nil {
		broadcastError(ls, fmt.Errorf("refresh snapshot: %w", err))
		return nil
	}
	broadcast(ls, snap)
	return nil
}

func (s *SQLiteStore) Add(ctx context.Context, userID string, doc Document) (string, error) {
	id := uuid.NewString()
	err := s.write(ctx, userID, func() error {
		return s.repo.Insert(ctx, toRecord(userID, id, doc))
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *SQLiteStore) Update(ctx context.Context, userID, id string, doc Document) error {
	return s.write(ctx, userID, func() error {
		return s.repo.Update(ctx, toRecord(userID, id, doc))
	})
}

func (s *SQLiteStore) Delete(ctx context.Context, userID, id string) error {
	return s.write(ctx, userID, func() error {
		return s.repo.Delete(ctx, userID, id)
	})
}

func (s *SQLiteStore) Listen(ctx context.Context, userID string, onSnapshot func([]Document), onError func(error)) (Listener, error) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	l := s.hub.add(ctx, userID, onSnapshot, onError)
	l.snapshot(snap)
	return l, nil
}
