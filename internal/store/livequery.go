package store

import "sync"

// Snapshot is the full current result of a subscription's query. Every
// invalidation replaces the previous snapshot wholesale; there are no
// deltas.
type Snapshot struct {
	Collection string      `json:"collection"`
	Data       interface{} `json:"data"`
}

// FetchFunc re-runs the subscription's query and returns the complete
// result set.
type FetchFunc func() (interface{}, error)

// Subscription binds one consumer to a collection. C carries snapshots;
// after the first fetch failure the subscription stays failed until the
// consumer resubscribes — there are no retries.
type Subscription struct {
	C chan Snapshot

	collection string
	fetch      FetchFunc
	hub        *Hub

	mu     sync.Mutex
	err    error
	closed bool
}

// Err returns the fetch error that failed the subscription, if any.
func (s *Subscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// deliver re-runs the query and pushes a replacement snapshot. A slow
// consumer only ever loses intermediate snapshots, never the newest one.
func (s *Subscription) deliver() {
	s.mu.Lock()
	if s.closed || s.err != nil {
		s.mu.Unlock()
		return
	}

	data, err := s.fetch()
	if err != nil {
		s.err = err
		s.mu.Unlock()
		s.hub.bus.Publish(&PermissionError{Collection: s.collection, Err: err})
		return
	}

	snap := Snapshot{Collection: s.collection, Data: data}
	select {
	case s.C <- snap:
	default:
		select {
		case <-s.C:
		default:
		}
		select {
		case s.C <- snap:
		default:
		}
	}
	s.mu.Unlock()
}

// Hub fans writes out to live query subscribers, keyed by collection.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[*Subscription]struct{}
	bus  *ErrorBus
}

// NewHub creates a hub that reports failed subscriptions on bus.
func NewHub(bus *ErrorBus) *Hub {
	return &Hub{subs: make(map[string]map[*Subscription]struct{}), bus: bus}
}

// Subscribe opens a live query on a collection. The initial snapshot is
// delivered immediately; each later write to the collection delivers a
// replacement. The caller must Unsubscribe when done.
func (h *Hub) Subscribe(collection string, fetch FetchFunc) *Subscription {
	sub := &Subscription{
		C:          make(chan Snapshot, 8),
		collection: collection,
		fetch:      fetch,
		hub:        h,
	}

	h.mu.Lock()
	if h.subs[collection] == nil {
		h.subs[collection] = make(map[*Subscription]struct{})
	}
	h.subs[collection][sub] = struct{}{}
	h.mu.Unlock()

	sub.deliver()
	return sub
}

// Unsubscribe releases the subscription and closes its channel. Idempotent.
func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	if set, ok := h.subs[sub.collection]; ok {
		delete(set, sub)
	}
	h.mu.Unlock()

	sub.mu.Lock()
	defer sub.mu.Unlock()
	if !sub.closed {
		sub.closed = true
		close(sub.C)
	}
}

// Invalidate re-runs every live query bound to the collection and pushes
// the fresh snapshots.
func (h *Hub) Invalidate(collection string) {
	h.mu.RLock()
	subs := make([]*Subscription, 0, len(h.subs[collection]))
	for s := range h.subs[collection] {
		subs = append(subs, s)
	}
	h.mu.RUnlock()

	for _, s := range subs {
		s.deliver()
	}
}
