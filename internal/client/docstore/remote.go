package docstore

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/mymoment/internal/client/client"
	"github.com/dmitrijs2005/mymoment/internal/client/models"
	"github.com/dmitrijs2005/mymoment/internal/common"
	"github.com/dmitrijs2005/mymoment/internal/logging"
	"github.com/dmitrijs2005/mymoment/internal/rpc"
)

// RemoteStore is backed by the MyMoment server. The server scopes every
// call to the token's user, so userID is only used for logging.
type RemoteStore struct {
	client client.Client
	logger logging.Logger

	minBackoff time.Duration
	maxBackoff time.Duration
}

func NewRemoteStore(c client.Client, logger logging.Logger) *RemoteStore {
	return &RemoteStore{
		client:     c,
		logger:     logger.With("module", "remote_store"),
		minBackoff: time.Second,
		maxBackoff: 30 * time.Second,
	}
}

func toWire(doc Document) rpc.Entry {
	e := rpc.Entry{
		ID:           doc.ID,
		Title:        doc.Title,
		Content:      doc.Content,
		Timestamp:    doc.Timestamp,
		Weather:      doc.Weather,
		Temperature:  doc.Temperature,
		LocationName: doc.LocationName,
	}
	if doc.Location != nil {
		e.Location = &rpc.Location{Latitude: doc.Location.Latitude, Longitude: doc.Location.Longitude}
	}
	return e
}

func fromWire(e rpc.Entry) Document {
	doc := Document{
		ID:           e.ID,
		Title:        e.Title,
		Content:      e.Content,
		Timestamp:    e.Timestamp,
		Weather:      e.Weather,
		Temperature:  e.Temperature,
		LocationName: e.LocationName,
	}
	if e.Location != nil {
		doc.Location = &models.Location{Latitude: e.Location.Latitude, Longitude: e.Location.Longitude}
	}
	return doc
}

func (s *RemoteStore) Add(ctx context.Context, _ string, doc Document) (string, error) {
	return s.client.AddEntry(ctx, toWire(doc))
}

func (s *RemoteStore) Update(ctx context.Context, _ string, id string, doc Document) error {
	return s.client.UpdateEntry(ctx, id, toWire(doc))
}

func (s *RemoteStore) Delete(ctx context.Context, _ string, id string) error {
	return s.client.DeleteEntry(ctx, id)
}

type remoteListener struct {
	cancel  context.CancelFunc
	removed atomic.Bool
}

func (l *remoteListener) Remove() {
	l.removed.Store(true)
	l.cancel()
}

// Listen keeps a WatchEntries stream open, reconnecting with backoff. Each
// failed attempt is reported through onError; a rejected session ends the
// feed.
func (s *RemoteStore) Listen(ctx context.Context, userID string, onSnapshot func([]Document), onError func(error)) (Listener, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(ctx)
	l := &remoteListener{cancel: cancel}

	deliver := func(entries []rpc.Entry) {
		if l.removed.Load() {
			return
		}
		docs := make([]Document, 0, len(entries))
		for _, e := range entries {
			docs = append(docs, fromWire(e))
		}
		SortDocuments(docs)
		onSnapshot(docs)
	}
	fail := func(err error) {
		if l.removed.Load() || onError == nil {
			return
		}
		onError(err)
	}

	go s.watch(ctx, userID, deliver, fail)
	return l, nil
}

func (s *RemoteStore) watch(ctx context.Context, userID string, deliver func([]rpc.Entry), fail func(error)) {
	backoff := s.minBackoff
	for {
		err := s.client.WatchEntries(ctx, deliver)
		if ctx.Err() != nil {
			return
		}

		wait := s.minBackoff
		if err != nil {
			s.logger.Warn(ctx, "entries stream failed", "user_id", userID, "error", err)
			fail(err)
			if errors.Is(err, common.ErrNotAuthenticated) {
				return
			}
			wait = backoff
			backoff = min(backoff*2, s.maxBackoff)
		} else {
			// closed cleanly by the server
			backoff = s.minBackoff
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}
}
