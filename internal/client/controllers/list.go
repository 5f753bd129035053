package controllers

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/mymoment/internal/client/models"
	"github.com/dmitrijs2005/mymoment/internal/client/store"
	"github.com/dmitrijs2005/mymoment/internal/logging"
	"github.com/dmitrijs2005/mymoment/internal/observable"
)

// Feed is the part of the entry store the list reads from.
type Feed interface {
	Subscribe(onSnapshot func([]models.Entry), onError func(error)) *store.Subscription
	Unsubscribe(sub *store.Subscription)
	Delete(ctx context.Context, id string) error
}

// observation is one live subscription. Snapshots are applied only while it
// is the list's current observation.
type observation struct {
	sub *store.Subscription
}

type EntryList struct {
	feed    Feed
	session store.SessionSource
	logger  logging.Logger
	state   *observable.Value[models.ListState]

	mu             sync.Mutex
	current        *observation
	started        bool
	cancelSessions func()
}

func NewEntryList(feed Feed, session store.SessionSource, logger logging.Logger) *EntryList {
	return &EntryList{
		feed:    feed,
		session: session,
		logger:  logger.With("module", "entry_list"),
		state:   observable.NewValue(models.ListState{All: []models.Entry{}, Visible: []models.Entry{}}),
	}
}

// Start follows session transitions: observing while signed in, cleared
// while signed out.
func (l *EntryList) Start() {
	l.mu.Lock()
	if l.started {
		l.mu.Unlock()
		return
	}
	l.started = true
	l.mu.Unlock()

	cancel := l.session.Subscribe(l.onSession)

	l.mu.Lock()
	l.cancelSessions = cancel
	l.mu.Unlock()
}

func (l *EntryList) Close() {
	l.mu.Lock()
	cancel := l.cancelSessions
	l.cancelSessions = nil
	l.started = false
	l.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	l.StopObserving()
}

func (l *EntryList) onSession(s *models.Session) {
	if s == nil {
		l.StopObserving()
		return
	}
	l.StartObserving()
}

// StartObserving opens the entry feed unless one is already open.
func (l *EntryList) StartObserving() {
	l.mu.Lock()
	if l.current != nil {
		l.mu.Unlock()
		return
	}
	o := &observation{}
	l.current = o
	l.mu.Unlock()

	sub := l.feed.Subscribe(
		func(entries []models.Entry) { l.applySnapshot(o, entries) },
		func(err error) { l.applyError(o, err) },
	)

	l.mu.Lock()
	if l.current != o {
		l.mu.Unlock()
		l.feed.Unsubscribe(sub)
		return
	}
	if sub == nil || sub.Closed() {
		// no session to observe
		l.current = nil
		l.mu.Unlock()
		return
	}
	o.sub = sub
	l.state.Update(func(st models.ListState) models.ListState {
		st.Observing = true
		return st
	})
	l.mu.Unlock()
	l.logger.Debug(context.Background(), "observing entries")
}

// StopObserving closes the feed and clears the list. Snapshots still in
// flight from the closed feed are dropped.
func (l *EntryList) StopObserving() {
	l.mu.Lock()
	o := l.current
	l.current = nil
	l.mu.Unlock()

	if o != nil && o.sub != nil {
		l.feed.Unsubscribe(o.sub)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.current != nil {
		return
	}
	l.state.Update(func(st models.ListState) models.ListState {
		st.All = []models.Entry{}
		st.Visible = []models.Entry{}
		st.Error = ""
		st.Observing = false
		return st
	})
}

func (l *EntryList) applySnapshot(o *observation, entries []models.Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.current != o {
		return
	}
	l.state.Update(func(st models.ListState) models.ListState {
		st.All = entries
		st.Visible = models.FilterEntries(entries, st.Query)
		return st
	})
}

func (l *EntryList) applyError(o *observation, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.current != o {
		return
	}
	l.logger.Warn(context.Background(), "entry feed error", "error", err)
	l.state.Update(func(st models.ListState) models.ListState {
		st.Error = err.Error()
		return st
	})
}

func (l *EntryList) SetSearchQuery(q string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state.Update(func(st models.ListState) models.ListState {
		st.Query = q
		st.Visible = models.FilterEntries(st.All, q)
		return st
	})
}

// Delete removes an entry. The list itself changes only with the next
// snapshot.
func (l *EntryList) Delete(ctx context.Context, id string) error {
	err := l.feed.Delete(ctx, id)

	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		l.logger.Warn(ctx, "delete failed", "id", id, "error", err)
		l.state.Update(func(st models.ListState) models.ListState {
			st.Error = fmt.Sprintf("Delete failed: %v", err)
			return st
		})
		return err
	}
	l.state.Update(func(st models.ListState) models.ListState {
		st.Error = ""
		return st
	})
	return nil
}

func (l *EntryList) State() models.ListState {
	return l.state.Get()
}

func (l *EntryList) Subscribe(fn func(models.ListState)) func() {
	return l.state.Subscribe(fn)
}
