package events

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/mymoment/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recv(t *testing.T, ch <-chan Change) Change {
	t.Helper()
	select {
	case c, ok := <-ch:
		require.True(t, ok, "channel closed")
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("no change delivered")
		return Change{}
	}
}

func TestBus_DeliversToSameUserOnly(t *testing.T) {
	bus := NewBus(logging.NewNop())
	t.Cleanup(func() { _ = bus.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	alice, err := bus.Subscribe(ctx, "alice")
	require.NoError(t, err)
	bob, err := bus.Subscribe(ctx, "bob")
	require.NoError(t, err)

	require.NoError(t, bus.Publish(ctx, Change{UserID: "alice", EntryID: "e1", Kind: Added}))

	assert.Equal(t, Change{UserID: "alice", EntryID: "e1", Kind: Added}, recv(t, alice))

	select {
	case c := <-bob:
		t.Fatalf("bob got %+v", c)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBus_FansOutToEveryWatcher(t *testing.T) {
	bus := NewBus(logging.NewNop())
	t.Cleanup(func() { _ = bus.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first, err := bus.Subscribe(ctx, "u1")
	require.NoError(t, err)
	second, err := bus.Subscribe(ctx, "u1")
	require.NoError(t, err)

	require.NoError(t, bus.Publish(ctx, Change{UserID: "u1", EntryID: "e9", Kind: Deleted}))

	assert.Equal(t, "e9", recv(t, first).EntryID)
	assert.Equal(t, "e9", recv(t, second).EntryID)
}

func TestBus_CancelClosesChannel(t *testing.T) {
	bus := NewBus(logging.NewNop())
	t.Cleanup(func() { _ = bus.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := bus.Subscribe(ctx, "u1")
	require.NoError(t, err)

	cancel()

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
}

func TestTopic(t *testing.T) {
	assert.Equal(t, "entries.u-1", Topic("u-1"))
}
