package observable

// Event is a one-shot signal channel: every emitted value is received at most
// once, so a consumer that already reacted never sees it again.
type Event[T any] struct {
	ch chan T
}

// NewEvent creates an Event buffering up to buffer pending values.
func NewEvent[T any](buffer int) *Event[T] {
	if buffer < 1 {
		buffer = 1
	}
	return &Event[T]{ch: make(chan T, buffer)}
}

// Emit queues v without blocking. It returns false if the buffer is full and
// v was dropped.
func (e *Event[T]) Emit(v T) bool {
	select {
	case e.ch <- v:
		return true
	default:
		return false
	}
}

// C is the receive side.
func (e *Event[T]) C() <-chan T {
	return e.ch
}
