// Package state provides a minimal observable value container. A Source holds
// the current value of a logical stream of state snapshots and notifies
// subscribers on every replacement. Values are replaced wholesale, never
// mutated in place, so readers can hold a snapshot without synchronization.
package state

import "sync"

// Source holds a current value and a set of subscribers.
type Source[T any] struct {
	mu     sync.Mutex
	value  T
	subs   map[int]func(T)
	nextID int
}

// NewSource creates a Source with the given initial value.
func NewSource[T any](initial T) *Source[T] {
	return &Source[T]{
		value: initial,
		subs:  make(map[int]func(T)),
	}
}

// Get returns the current value.
func (s *Source[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Set replaces the current value and notifies all subscribers.
// Subscribers are invoked outside the lock, in unspecified order.
func (s *Source[T]) Set(v T) {
	s.mu.Lock()
	s.value = v
	subs := make([]func(T), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(v)
	}
}

// Update applies fn to the current value and stores the result, notifying
// subscribers. The returned value is the stored result.
func (s *Source[T]) Update(fn func(T) T) T {
	s.mu.Lock()
	v := fn(s.value)
	s.value = v
	subs := make([]func(T), 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub(v)
	}
	return v
}

// Subscribe registers fn to be called on every value replacement. The
// returned cancel function removes the subscription; it is safe to call
// more than once.
func (s *Source[T]) Subscribe(fn func(T)) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}
