package store

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/mymoment/internal/client/docstore"
	"github.com/dmitrijs2005/mymoment/internal/client/models"
)

// Subscription is the handle of one live entry feed.
type Subscription struct {
	uid        string
	ctx        context.Context
	session    SessionSource
	onSnapshot func([]models.Entry)
	onError    func(error)

	mu       sync.Mutex
	closed   bool
	listener docstore.Listener
}

// Close stops the feed. It is idempotent, and once it returns no callback
// of this subscription runs again.
func (s *Subscription) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	l := s.listener
	s.listener = nil
	s.mu.Unlock()

	if l != nil {
		l.Remove()
	}
}

func (s *Subscription) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// live reports whether callbacks may still run. Caller holds s.mu.
func (s *Subscription) live() bool {
	return !s.closed && s.ctx.Err() == nil && s.session.Current().UserID() == s.uid
}

func (s *Subscription) deliver(docs []docstore.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.live() {
		return
	}
	entries := make([]models.Entry, 0, len(docs))
	for _, d := range docs {
		entries = append(entries, toEntry(d))
	}
	s.onSnapshot(entries)
}

func (s *Subscription) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.live() || s.onError == nil {
		return
	}
	s.onError(err)
}
