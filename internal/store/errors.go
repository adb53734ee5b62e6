package store

import (
	"fmt"
	"sync"
)

// PermissionError signals that the store refused a live query for
// authorization reasons. It is distinct from a normal empty result.
type PermissionError struct {
	Collection string
	Err        error
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied on %s: %v", e.Collection, e.Err)
}

func (e *PermissionError) Unwrap() error {
	return e.Err
}

// ErrorBus is the process-wide channel that carries permission errors from
// any live query subscriber to the attached listeners. One bus exists per
// Store and lives for the process lifetime.
type ErrorBus struct {
	mu        sync.RWMutex
	next      int
	listeners map[int]func(*PermissionError)
}

// NewErrorBus creates an empty bus.
func NewErrorBus() *ErrorBus {
	return &ErrorBus{listeners: make(map[int]func(*PermissionError))}
}

// Attach registers a listener and returns its detach function. Detaching is
// idempotent.
func (b *ErrorBus) Attach(fn func(*PermissionError)) func() {
	b.mu.Lock()
	id := b.next
	b.next++
	b.listeners[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.listeners, id)
		b.mu.Unlock()
	}
}

// Publish delivers the error to every attached listener.
func (b *ErrorBus) Publish(err *PermissionError) {
	b.mu.RLock()
	listeners := make([]func(*PermissionError), 0, len(b.listeners))
	for _, fn := range b.listeners {
		listeners = append(listeners, fn)
	}
	b.mu.RUnlock()

	for _, fn := range listeners {
		fn(err)
	}
}
