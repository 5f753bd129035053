package controllers

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/mymoment/internal/client/models"
	"github.com/dmitrijs2005/mymoment/internal/client/store"
	"github.com/dmitrijs2005/mymoment/internal/observable"
)

type fakeSession struct {
	v *observable.Value[*models.Session]
}

func newFakeSession(uid string) *fakeSession {
	f := &fakeSession{v: observable.NewValue[*models.Session](nil)}
	if uid != "" {
		f.signIn(uid)
	}
	return f
}

func (f *fakeSession) Current() *models.Session                  { return f.v.Get() }
func (f *fakeSession) Subscribe(fn func(*models.Session)) func() { return f.v.Subscribe(fn) }
func (f *fakeSession) signIn(uid string) {
	f.v.Set(&models.Session{User: models.User{ID: uid, Email: uid + "@example.com"}})
}
func (f *fakeSession) signOut() { f.v.Set(nil) }

type registration struct {
	sub        *store.Subscription
	onSnapshot func([]models.Entry)
	onError    func(error)
	removed    bool
}

// fakeFeed records registrations and lets tests push snapshots by hand.
type fakeFeed struct {
	mu        sync.Mutex
	regs      []*registration
	initial   []models.Entry
	deleteErr error
	deleted   []string
}

func (f *fakeFeed) Subscribe(onSnapshot func([]models.Entry), onError func(error)) *store.Subscription {
	r := &registration{sub: &store.Subscription{}, onSnapshot: onSnapshot, onError: onError}
	f.mu.Lock()
	f.regs = append(f.regs, r)
	initial := f.initial
	f.mu.Unlock()
	if initial != nil {
		onSnapshot(initial)
	}
	return r.sub
}

func (f *fakeFeed) Unsubscribe(sub *store.Subscription) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.regs {
		if r.sub == sub {
			r.removed = true
		}
	}
	if sub != nil {
		sub.Close()
	}
}

func (f *fakeFeed) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return f.deleteErr
}

func (f *fakeFeed) active() []*registration {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*registration
	for _, r := range f.regs {
		if !r.removed {
			out = append(out, r)
		}
	}
	return out
}

func (f *fakeFeed) push(entries []models.Entry) {
	for _, r := range f.active() {
		r.onSnapshot(entries)
	}
}

func entry(id, title string, ts int64) models.Entry {
	return models.Entry{ID: id, Title: title, Timestamp: time.UnixMilli(ts)}
}

func titles(entries []models.Entry) []string {
	out := []string{}
	for _, e := range entries {
		out = append(out, e.Title)
	}
	return out
}

// fakeWriter records saves. When block is set, calls park until it closes.
type fakeWriter struct {
	mu      sync.Mutex
	creates []models.Draft
	updates map[string]models.Draft
	err     error
	started chan struct{}
	block   chan struct{}
}

func (f *fakeWriter) wait(ctx context.Context) error {
	if f.block == nil {
		return nil
	}
	close(f.started)
	select {
	case <-f.block:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeWriter) Create(ctx context.Context, d models.Draft) (string, error) {
	if err := f.wait(ctx); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates = append(f.creates, d)
	if f.err != nil {
		return "", f.err
	}
	return "new-id", nil
}

func (f *fakeWriter) Update(ctx context.Context, id string, d models.Draft) error {
	if err := f.wait(ctx); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updates == nil {
		f.updates = map[string]models.Draft{}
	}
	f.updates[id] = d
	return f.err
}

func (f *fakeWriter) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.creates) + len(f.updates)
}

type fakeGeocoder struct {
	addr string
	err  error
}

func (f fakeGeocoder) ReverseGeocode(context.Context, models.Location) (string, error) {
	return f.addr, f.err
}
