package docstore

import (
	"context"
	"sync"
	"sync/atomic"
)

type listener struct {
	hub        *hub
	userID     string
	id         uint64
	onSnapshot func([]Document)
	onError    func(error)
	removed    atomic.Bool
	stop       func() bool
}

// Remove is idempotent. A delivery already under way may still complete.
func (l *listener) Remove() {
	if l.removed.Swap(true) {
		return
	}
	l.hub.remove(l)
	if l.stop != nil {
		l.stop()
	}
}

func (l *listener) snapshot(docs []Document) {
	if l.removed.Load() || l.onSnapshot == nil {
		return
	}
	l.onSnapshot(cloneDocuments(docs))
}

func (l *listener) fail(err error) {
	if l.removed.Load() || l.onError == nil {
		return
	}
	l.onError(err)
}

// hub tracks the live listeners of a store, grouped by user.
type hub struct {
	mu        sync.Mutex
	next      uint64
	listeners map[string]map[uint64]*listener
}

func (h *hub) add(ctx context.Context, userID string, onSnapshot func([]Document), onError func(error)) *listener {
	h.mu.Lock()
	if h.listeners == nil {
		h.listeners = make(map[string]map[uint64]*listener)
	}
	h.next++
	l := &listener{hub: h, userID: userID, id: h.next, onSnapshot: onSnapshot, onError: onError}
	if h.listeners[userID] == nil {
		h.listeners[userID] = make(map[uint64]*listener)
	}
	h.listeners[userID][l.id] = l
	l.stop = context.AfterFunc(ctx, l.Remove)
	h.mu.Unlock()

	return l
}

func (h *hub) remove(l *listener) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.listeners[l.userID], l.id)
	if len(h.listeners[l.userID]) == 0 {
		delete(h.listeners, l.userID)
	}
}

func (h *hub) of(userID string) []*listener {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*listener, 0, len(h.listeners[userID]))
	for _, l := range h.listeners[userID] {
		out = append(out, l)
	}
	return out
}

// users returns the ids that currently have at least one listener.
func (h *hub) users() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, 0, len(h.listeners))
	for u := range h.listeners {
		out = append(out, u)
	}
	return out
}

func broadcast(ls []*listener, docs []Document) {
	for _, l := range ls {
		l.snapshot(docs)
	}
}

func broadcastError(ls []*listener, err error) {
	for _, l := range ls {
		l.fail(err)
	}
}
