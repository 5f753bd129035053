package grpc

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/dmitrijs2005/mymoment/internal/common"
	"github.com/dmitrijs2005/mymoment/internal/server/events"
	"github.com/dmitrijs2005/mymoment/internal/server/models"
	"github.com/dmitrijs2005/mymoment/internal/server/services"
)

type fakeUsers struct {
	user     *models.User
	pair     *services.TokenPair
	err      error
	password string
}

func (f *fakeUsers) Register(_ context.Context, email, password string) (*models.User, *services.TokenPair, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	return &models.User{ID: "u-new", Email: email, CreatedAt: time.UnixMilli(1700000000000)}, f.pair, nil
}

func (f *fakeUsers) Login(_ context.Context, email, password string) (*models.User, *services.TokenPair, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	if password != f.password {
		return nil, nil, common.ErrUnauthorized
	}
	return f.user, f.pair, nil
}

func (f *fakeUsers) RefreshToken(_ context.Context, token string) (*services.TokenPair, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.pair, nil
}

// memEntries keeps entries per user and publishes like EntryService does.
type memEntries struct {
	mu      sync.Mutex
	seq     int
	rows    map[string]*models.Entry
	bus     *events.Bus
	listErr error
}

func newMemEntries(bus *events.Bus) *memEntries {
	return &memEntries{rows: map[string]*models.Entry{}, bus: bus}
}

func (m *memEntries) Add(ctx context.Context, userID string, e *models.Entry) (string, error) {
	if e.Title == "" && e.Content == "" {
		return "", common.ErrValidation
	}
	m.mu.Lock()
	m.seq++
	e.ID = "e" + strconv.Itoa(m.seq)
	e.UserID = userID
	m.rows[e.ID] = e
	m.mu.Unlock()
	_ = m.bus.Publish(ctx, events.Change{UserID: userID, EntryID: e.ID, Kind: events.Added})
	return e.ID, nil
}

func (m *memEntries) Update(ctx context.Context, userID string, e *models.Entry) error {
	m.mu.Lock()
	cur, ok := m.rows[e.ID]
	if !ok || cur.UserID != userID {
		m.mu.Unlock()
		return common.ErrNotFound
	}
	e.UserID = userID
	m.rows[e.ID] = e
	m.mu.Unlock()
	_ = m.bus.Publish(ctx, events.Change{UserID: userID, EntryID: e.ID, Kind: events.Updated})
	return nil
}

func (m *memEntries) Delete(ctx context.Context, userID, id string) error {
	m.mu.Lock()
	cur, ok := m.rows[id]
	if !ok || cur.UserID != userID {
		m.mu.Unlock()
		return common.ErrNotFound
	}
	delete(m.rows, id)
	m.mu.Unlock()
	_ = m.bus.Publish(ctx, events.Change{UserID: userID, EntryID: id, Kind: events.Deleted})
	return nil
}

func (m *memEntries) List(_ context.Context, userID string) ([]*models.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]*models.Entry, 0)
	for _, e := range m.rows {
		if e.UserID == userID {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp > out[j].Timestamp })
	return out, nil
}

type fakeExports struct {
	user string
	err  error
}

func (f *fakeExports) Export(_ context.Context, userID string) (string, string, error) {
	if f.err != nil {
		return "", "", f.err
	}
	f.user = userID
	return "exports/" + userID + ".json", "https://s3.local/exports/" + userID + ".json", nil
}
