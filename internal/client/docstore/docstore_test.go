package docstore

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/mymoment/internal/client/client"
	"github.com/dmitrijs2005/mymoment/internal/client/models"
	"github.com/dmitrijs2005/mymoment/internal/client/repositories/documents"
	"github.com/dmitrijs2005/mymoment/internal/common"
	"github.com/dmitrijs2005/mymoment/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder collects snapshots and errors from a listener.
type recorder struct {
	mu    sync.Mutex
	snaps [][]Document
	errs  []error
}

func (r *recorder) onSnapshot(docs []Document) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, docs)
}

func (r *recorder) onError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snaps)
}

func (r *recorder) last() []Document {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.snaps) == 0 {
		return nil
	}
	return r.snaps[len(r.snaps)-1]
}

func titles(docs []Document) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.Title)
	}
	return out
}

func newSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "mymoment.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLiteStore(documents.NewSQLiteRepository(db))
}

func newDiskvStore(t *testing.T) *DiskvStore {
	t.Helper()
	s, err := NewDiskvStore(t.TempDir(), logging.NewNop())
	require.NoError(t, err)
	return s
}

// Local stores must all honour the same contract.
func localStores(t *testing.T) map[string]Store {
	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": newSQLiteStore(t),
		"diskv":  newDiskvStore(t),
	}
}

func TestStore_SnapshotsFollowWritesInOrder(t *testing.T) {
	for name, s := range localStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			rec := &recorder{}

			l, err := s.Listen(ctx, "u1", rec.onSnapshot, rec.onError)
			require.NoError(t, err)
			defer l.Remove()

			_, err = s.Add(ctx, "u1", Document{Title: "A", Timestamp: 100})
			require.NoError(t, err)
			_, err = s.Add(ctx, "u1", Document{Title: "B", Timestamp: 200})
			require.NoError(t, err)

			require.Equal(t, 3, rec.count())
			assert.Empty(t, rec.snaps[0])
			assert.Equal(t, []string{"A"}, titles(rec.snaps[1]))
			assert.Equal(t, []string{"B", "A"}, titles(rec.snaps[2]))
		})
	}
}

func TestStore_UpdateDeleteAndNotFound(t *testing.T) {
	loc := &models.Location{Latitude: 1, Longitude: 2}
	for name, s := range localStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			rec := &recorder{}

			id, err := s.Add(ctx, "u1", Document{Title: "Old", Timestamp: 1, Location: loc, Temperature: models.Float(20)})
			require.NoError(t, err)
			require.NotEmpty(t, id)

			l, err := s.Listen(ctx, "u1", rec.onSnapshot, rec.onError)
			require.NoError(t, err)
			defer l.Remove()

			require.NoError(t, s.Update(ctx, "u1", id, Document{Title: "New", Content: "c", Timestamp: 2, Weather: "Sunny"}))
			got := rec.last()
			require.Len(t, got, 1)
			assert.Equal(t, id, got[0].ID)
			assert.Equal(t, "New", got[0].Title)
			assert.Equal(t, "Sunny", got[0].Weather)
			assert.Nil(t, got[0].Location)
			assert.Nil(t, got[0].Temperature)

			assert.ErrorIs(t, s.Update(ctx, "u1", "missing", Document{}), common.ErrNotFound)
			assert.ErrorIs(t, s.Delete(ctx, "u1", "missing"), common.ErrNotFound)
			assert.ErrorIs(t, s.Delete(ctx, "u2", id), common.ErrNotFound)

			require.NoError(t, s.Delete(ctx, "u1", id))
			assert.Empty(t, rec.last())
		})
	}
}

func TestStore_UsersAreIsolated(t *testing.T) {
	for name, s := range localStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			rec := &recorder{}

			l, err := s.Listen(ctx, "u2", rec.onSnapshot, rec.onError)
			require.NoError(t, err)
			defer l.Remove()

			_, err = s.Add(ctx, "u1", Document{Title: "mine", Timestamp: 1})
			require.NoError(t, err)

			assert.Equal(t, 1, rec.count())
			assert.Empty(t, rec.last())
		})
	}
}

func TestStore_RemoveStopsDelivery(t *testing.T) {
	for name, s := range localStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			rec := &recorder{}

			l, err := s.Listen(ctx, "u1", rec.onSnapshot, rec.onError)
			require.NoError(t, err)
			l.Remove()
			l.Remove()

			_, err = s.Add(ctx, "u1", Document{Title: "A", Timestamp: 1})
			require.NoError(t, err)
			assert.Equal(t, 1, rec.count())
		})
	}
}

func TestStore_SameTimestampOrderedByID(t *testing.T) {
	docs := []Document{
		{ID: "c", Timestamp: 5},
		{ID: "a", Timestamp: 5},
		{ID: "z", Timestamp: 9},
		{ID: "b", Timestamp: 1},
	}
	SortDocuments(docs)

	var ids []string
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []string{"z", "a", "c", "b"}, ids)
}

func TestMemoryStore_SeedsEachUserOnce(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore(WithSeed(SampleDocuments(models.SampleEntries(now))))
	ctx := context.Background()

	rec := &recorder{}
	l, err := s.Listen(ctx, "u1", rec.onSnapshot, nil)
	require.NoError(t, err)
	defer l.Remove()
	assert.Equal(t, []string{"Sunset Walk", "Rainy Cafe"}, titles(rec.last()))

	// a second listener sees the same ids, not a fresh seed
	rec2 := &recorder{}
	l2, err := s.Listen(ctx, "u1", rec2.onSnapshot, nil)
	require.NoError(t, err)
	defer l2.Remove()
	assert.Equal(t, rec.last(), rec2.last())
}

func TestMemoryStore_ContextCancelRemovesListener(t *testing.T) {
	s := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	rec := &recorder{}

	_, err := s.Listen(ctx, "u1", rec.onSnapshot, nil)
	require.NoError(t, err)
	cancel()

	require.Eventually(t, func() bool { return len(s.hub.of("u1")) == 0 }, time.Second, 5*time.Millisecond)

	_, err = s.Add(context.Background(), "u1", Document{Title: "A"})
	require.NoError(t, err)
	assert.Equal(t, 1, rec.count())
}

func TestMemoryStore_CancelledContextFailsWrites(t *testing.T) {
	s := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Add(ctx, "u1", Document{})
	assert.ErrorIs(t, err, context.Canceled)
	_, err = s.Listen(ctx, "u1", nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSnapshotsAreCopies(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	temp := 20.0
	input := Document{Title: "A", Location: &models.Location{Latitude: 1, Longitude: 2}, Temperature: &temp}
	_, err := s.Add(ctx, "u1", input)
	require.NoError(t, err)
	input.Location.Latitude = 50

	var first, second []Document
	l1, err := s.Listen(ctx, "u1", func(d []Document) { first = d }, nil)
	require.NoError(t, err)
	defer l1.Remove()
	l2, err := s.Listen(ctx, "u1", func(d []Document) { second = d }, nil)
	require.NoError(t, err)
	defer l2.Remove()

	first[0].Title = "mutated"
	first[0].Location.Latitude = 99
	*first[0].Temperature = -5
	assert.Equal(t, "A", second[0].Title)
	assert.Equal(t, 1.0, second[0].Location.Latitude)
	assert.Equal(t, 20.0, *second[0].Temperature)

	var fresh []Document
	l3, err := s.Listen(ctx, "u1", func(d []Document) { fresh = d }, nil)
	require.NoError(t, err)
	defer l3.Remove()
	require.Len(t, fresh, 1)
	assert.Equal(t, 1.0, fresh[0].Location.Latitude)
	assert.Equal(t, 20.0, *fresh[0].Temperature)
}

func TestListenerRemoveReleasesContext(t *testing.T) {
	s := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l, err := s.Listen(ctx, "u1", func([]Document) {}, nil)
	require.NoError(t, err)
	inner := l.(*listener)
	l.Remove()

	assert.False(t, inner.stop(), "context hook should already be released")
	assert.Empty(t, s.hub.users())
}
