// Package observable holds the state containers controllers expose to the
// presentation layer: a current value with change notification, and a
// one-shot event channel.
package observable

import "sync"

type subscriber[T any] struct {
	id uint64
	fn func(T)
}

// Value holds a current value and notifies subscribers on every change.
//
// Notifications are synchronous and serialised: subscribers see values in
// the order they were set. A subscriber must not call Set or Update on the
// same Value from inside its callback.
type Value[T any] struct {
	emitMu sync.Mutex

	mu     sync.Mutex
	value  T
	subs   []subscriber[T]
	nextID uint64
}

func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{value: initial}
}

// Get returns the current value.
func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.value
}

// Set replaces the value and notifies subscribers.
func (v *Value[T]) Set(x T) {
	v.Update(func(T) T { return x })
}

// Update applies fn to the current value, stores the result, notifies
// subscribers and returns the new value.
func (v *Value[T]) Update(fn func(T) T) T {
	v.emitMu.Lock()
	defer v.emitMu.Unlock()

	v.mu.Lock()
	v.value = fn(v.value)
	cur := v.value
	subs := make([]subscriber[T], len(v.subs))
	copy(subs, v.subs)
	v.mu.Unlock()

	for _, s := range subs {
		s.fn(cur)
	}
	return cur
}

// Change is Update for callers that may decide nothing changed: when fn
// returns false the value is kept and nobody is notified.
func (v *Value[T]) Change(fn func(T) (T, bool)) bool {
	v.emitMu.Lock()
	defer v.emitMu.Unlock()

	v.mu.Lock()
	next, changed := fn(v.value)
	if !changed {
		v.mu.Unlock()
		return false
	}
	v.value = next
	subs := make([]subscriber[T], len(v.subs))
	copy(subs, v.subs)
	v.mu.Unlock()

	for _, s := range subs {
		s.fn(next)
	}
	return true
}

// Subscribe calls fn with the current value right away and then after every
// change. The returned cancel func is idempotent.
func (v *Value[T]) Subscribe(fn func(T)) (cancel func()) {
	v.emitMu.Lock()
	v.mu.Lock()
	id := v.nextID
	v.nextID++
	v.subs = append(v.subs, subscriber[T]{id: id, fn: fn})
	cur := v.value
	v.mu.Unlock()

	fn(cur)
	v.emitMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			v.mu.Lock()
			defer v.mu.Unlock()
			for i, s := range v.subs {
				if s.id == id {
					v.subs = append(v.subs[:i], v.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Subscribers reports how many callbacks are registered.
func (v *Value[T]) Subscribers() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.subs)
}
