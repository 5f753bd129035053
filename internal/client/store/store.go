// Package store adapts a docstore.Store to diary entries scoped to the
// signed-in user.
//
// Every operation captures the session's user when it starts. If that
// session ends before the operation completes, the operation's context is
// cancelled and its result is replaced by common.ErrNotAuthenticated.
package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/mymoment/internal/client/docstore"
	"github.com/dmitrijs2005/mymoment/internal/client/models"
	"github.com/dmitrijs2005/mymoment/internal/common"
	"github.com/dmitrijs2005/mymoment/internal/logging"
)

// SessionSource is the read side of the session gate.
type SessionSource interface {
	Current() *models.Session
	Subscribe(fn func(*models.Session)) func()
}

type Adapter struct {
	docs    docstore.Store
	session SessionSource
	logger  logging.Logger
	now     func() time.Time

	mu      sync.Mutex
	uid     string
	sessCtx context.Context
	cancel  context.CancelFunc
	unsub   func()
	closed  bool
}

type Option func(*Adapter)

// WithClock sets the source of entry timestamps.
func WithClock(now func() time.Time) Option {
	return func(a *Adapter) { a.now = now }
}

func New(docs docstore.Store, session SessionSource, logger logging.Logger, opts ...Option) *Adapter {
	a := &Adapter{
		docs:    docs,
		session: session,
		logger:  logger.With("module", "entry_store"),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	unsub := session.Subscribe(a.onSession)
	a.mu.Lock()
	a.unsub = unsub
	a.mu.Unlock()
	return a
}

// Close cancels everything still running for the current session.
func (a *Adapter) Close() {
	a.mu.Lock()
	unsub := a.unsub
	a.unsub = nil
	a.closed = true
	a.switchLocked("")
	a.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

func (a *Adapter) onSession(s *models.Session) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.switchLocked(s.UserID())
}

// switchLocked ends the context of the previous user and opens one for uid.
func (a *Adapter) switchLocked(uid string) {
	if uid == a.uid && (uid == "" || a.sessCtx != nil) {
		return
	}
	if a.cancel != nil {
		a.cancel()
	}
	a.uid = uid
	a.sessCtx, a.cancel = nil, nil
	if uid != "" {
		a.sessCtx, a.cancel = context.WithCancel(context.Background())
	}
}

// sessionContext returns the context that lives as long as uid stays
// signed in. ok is false when uid is no longer the signed-in user.
//
// Only a session change moves the adapter to another user. The one
// exception is a notification still on its way: the gate already reports
// uid but onSession has not run yet.
func (a *Adapter) sessionContext(uid string) (ctx context.Context, ok bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil, false
	}
	if uid != a.uid || a.sessCtx == nil {
		if a.session.Current().UserID() != uid {
			return nil, false
		}
		a.switchLocked(uid)
	}
	return a.sessCtx, true
}

// begin captures the current user and derives the operation context.
func (a *Adapter) begin(ctx context.Context) (string, context.Context, func(), error) {
	s := a.session.Current()
	if s == nil {
		return "", nil, nil, common.ErrNotAuthenticated
	}
	uid := s.User.ID
	sessCtx, ok := a.sessionContext(uid)
	if !ok {
		return "", nil, nil, common.ErrNotAuthenticated
	}

	opCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(sessCtx, cancel)
	return uid, opCtx, func() { stop(); cancel() }, nil
}

func (a *Adapter) stillSignedIn(uid string) bool {
	return a.session.Current().UserID() == uid
}

func (a *Adapter) Create(ctx context.Context, d models.Draft) (string, error) {
	uid, opCtx, done, err := a.begin(ctx)
	if err != nil {
		return "", err
	}
	defer done()

	id, err := a.docs.Add(opCtx, uid, toDocument(d, a.now()))
	if !a.stillSignedIn(uid) {
		return "", common.ErrNotAuthenticated
	}
	if err != nil {
		return "", fmt.Errorf("create entry: %w", err)
	}
	a.logger.Debug(ctx, "entry created", "user_id", uid, "id", id)
	return id, nil
}

// Update replaces the entry's editable fields and refreshes its timestamp.
func (a *Adapter) Update(ctx context.Context, id string, d models.Draft) error {
	uid, opCtx, done, err := a.begin(ctx)
	if err != nil {
		return err
	}
	defer done()

	err = a.docs.Update(opCtx, uid, id, toDocument(d, a.now()))
	if !a.stillSignedIn(uid) {
		return common.ErrNotAuthenticated
	}
	if err != nil {
		return fmt.Errorf("update entry %s: %w", id, err)
	}
	return nil
}

func (a *Adapter) Delete(ctx context.Context, id string) error {
	uid, opCtx, done, err := a.begin(ctx)
	if err != nil {
		return err
	}
	defer done()

	err = a.docs.Delete(opCtx, uid, id)
	if !a.stillSignedIn(uid) {
		return common.ErrNotAuthenticated
	}
	if err != nil {
		return fmt.Errorf("delete entry %s: %w", id, err)
	}
	return nil
}

// Subscribe opens one live feed of the signed-in user's entries, newest
// first. Without a session onSnapshot gets a single empty list and the
// returned subscription is already closed.
//
// Callbacks may run on any goroutine. They must not close their own
// subscription or write to the store.
func (a *Adapter) Subscribe(onSnapshot func([]models.Entry), onError func(error)) *Subscription {
	s := a.session.Current()
	var sessCtx context.Context
	ok := false
	if s != nil {
		sessCtx, ok = a.sessionContext(s.User.ID)
	}
	if !ok {
		onSnapshot([]models.Entry{})
		return &Subscription{closed: true}
	}

	sub := &Subscription{
		uid:        s.User.ID,
		ctx:        sessCtx,
		session:    a.session,
		onSnapshot: onSnapshot,
		onError:    onError,
	}

	l, err := a.docs.Listen(sub.ctx, sub.uid, sub.deliver, sub.fail)
	if err != nil {
		a.logger.Warn(context.Background(), "listen failed", "user_id", sub.uid, "error", err)
		sub.fail(err)
		sub.Close()
		return sub
	}

	sub.mu.Lock()
	if sub.closed {
		sub.mu.Unlock()
		l.Remove()
		return sub
	}
	sub.listener = l
	sub.mu.Unlock()
	return sub
}

// Unsubscribe is Subscription.Close, tolerating nil.
func (a *Adapter) Unsubscribe(sub *Subscription) {
	if sub != nil {
		sub.Close()
	}
}
