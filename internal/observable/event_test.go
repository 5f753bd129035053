package observable

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvent_DeliveredOnce(t *testing.T) {
	e := NewEvent[string](1)
	assert.True(t, e.Emit("saved"))

	select {
	case v := <-e.C():
		assert.Equal(t, "saved", v)
	default:
		t.Fatal("expected a pending event")
	}

	select {
	case v := <-e.C():
		t.Fatalf("event re-delivered: %q", v)
	default:
	}
}

func TestEvent_FullBufferDrops(t *testing.T) {
	e := NewEvent[int](0)
	assert.True(t, e.Emit(1))
	assert.False(t, e.Emit(2))
	assert.Equal(t, 1, <-e.C())
}
