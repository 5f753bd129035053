package docstore

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/mymoment/internal/common"
	"github.com/google/uuid"
)

// MemoryStore keeps documents in process memory. Callbacks run on the
// goroutine that made the change and must not write back into the store.
type MemoryStore struct {
	// notifyMu orders change+delivery pairs so listeners never see an older
	// snapshot after a newer one.
	notifyMu sync.Mutex

	mu     sync.Mutex
	docs   map[string]map[string]Document
	seed   []Document
	seeded map[string]bool

	hub hub
}

type MemoryOption func(*MemoryStore)

// WithSeed gives every user's collection the given documents the first time
// it is touched.
func WithSeed(docs []Document) MemoryOption {
	return func(s *MemoryStore) {
		s.seed = cloneDocuments(docs)
	}
}

func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		docs:   make(map[string]map[string]Document),
		seeded: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) collectionLocked(userID string) map[string]Document {
	c, ok := s.docs[userID]
	if !ok {
		c = make(map[string]Document)
		s.docs[userID] = c
	}
	if !s.seeded[userID] {
		s.seeded[userID] = true
		for _, d := range s.seed {
			d.ID = uuid.NewString()
			c[d.ID] = d
		}
	}
	return c
}

func (s *MemoryStore) snapshotLocked(userID string) []Document {
	c := s.collectionLocked(userID)
	out := make([]Document, 0, len(c))
	for _, d := range c {
		out = append(out, d)
	}
	SortDocuments(out)
	return out
}

// mutate applies fn under the store lock and then fans the new snapshot out.
func (s *MemoryStore) mutate(ctx context.Context, userID string, fn func(c map[string]Document) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	if err := fn(s.collectionLocked(userID)); err != nil {
		s.mu.Unlock()
		return err
	}
	snap := s.snapshotLocked(userID)
	s.mu.Unlock()

	broadcast(s.hub.of(userID), snap)
	return nil
}

func (s *MemoryStore) Add(ctx context.Context, userID string, doc Document) (string, error) {
	id := uuid.NewString()
	err := s.mutate(ctx, userID, func(c map[string]Document) error {
		doc.ID = id
		c[id] = doc.clone()
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *MemoryStore) Update(ctx context.Context, userID, id string, doc Document) error {
	return s.mutate(ctx, userID, func(c map[string]Document) error {
		if _, ok := c[id]; !ok {
			return common.ErrNotFound
		}
		doc.ID = id
		c[id] = doc.clone()
		return nil
	})
}

func (s *MemoryStore) Delete(ctx context.Context, userID, id string) error {
	return s.mutate(ctx, userID, func(c map[string]Document) error {
		if _, ok := c[id]; !ok {
			return common.ErrNotFound
		}
		delete(c, id)
		return nil
	})
}

func (s *MemoryStore) Listen(ctx context.Context, userID string, onSnapshot func([]Document), onError func(error)) (Listener, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	snap := s.snapshotLocked(userID)
	s.mu.Unlock()

	l := s.hub.add(ctx, userID, onSnapshot, onError)
	l.snapshot(snap)
	return l, nil
}
