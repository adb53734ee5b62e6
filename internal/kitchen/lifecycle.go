package kitchen

import (
	"context"
	"log"
	"time"

	"maitred/internal/models"
	"maitred/internal/store"
)

// Thresholds past which a displayed order is flagged overdue. The flag is
// purely presentational and never mutates order state.
const (
	WaitingOverdue = 5 * time.Minute
	CookingOverdue = 10 * time.Minute
)

// ReferenceTime returns the instant elapsed time is measured from: the
// cooking start for a Cooking order (creation time when absent), otherwise
// the creation time.
func ReferenceTime(o *models.Order) time.Time {
	if o.Status == models.OrderStatusCooking && o.CookingAt != nil {
		return *o.CookingAt
	}
	return o.PlacedAt
}

// Elapsed returns how long the order has been in its current phase.
func Elapsed(o *models.Order, now time.Time) time.Duration {
	return now.Sub(ReferenceTime(o))
}

// Overdue reports whether the order has been in its current status strictly
// longer than its threshold. Done orders are never overdue.
func Overdue(o *models.Order, now time.Time) bool {
	switch o.Status {
	case models.OrderStatusWaiting:
		return Elapsed(o, now) > WaitingOverdue
	case models.OrderStatusCooking:
		return Elapsed(o, now) > CookingOverdue
	default:
		return false
	}
}

// View decorates an order with the display-only timing fields the kitchen
// card shows.
type View struct {
	models.Order
	ElapsedSeconds int  `json:"elapsedSeconds"`
	Overdue        bool `json:"overdue"`
}

// NewView computes the timing fields for one order at the given instant.
func NewView(o models.Order, now time.Time) View {
	return View{
		Order:          o,
		ElapsedSeconds: int(Elapsed(&o, now) / time.Second),
		Overdue:        Overdue(&o, now),
	}
}

// Views maps a result set of orders to display views.
func Views(orders []models.Order, now time.Time) []View {
	views := make([]View, 0, len(orders))
	for _, o := range orders {
		views = append(views, NewView(o, now))
	}
	return views
}

// Watcher re-checks active orders once per second and invalidates the
// orders collection whenever an overdue flag flips, so live subscribers see
// the change without polling.
type Watcher struct {
	store    *store.Store
	interval time.Duration
	flags    map[uint]bool
}

// NewWatcher creates a watcher ticking once per second.
func NewWatcher(s *store.Store) *Watcher {
	return &Watcher{store: s, interval: time.Second, flags: make(map[uint]bool)}
}

// Run ticks until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			w.check(now)
		}
	}
}

// check recomputes every active order's overdue flag and invalidates the
// orders collection when any flag changed since the last tick.
func (w *Watcher) check(now time.Time) {
	var active []models.Order
	if err := w.store.DB.Where("status <> ?", models.OrderStatusDone).Find(&active).Error; err != nil {
		log.Printf("overdue check: %v", err)
		return
	}

	changed := false
	seen := make(map[uint]bool, len(active))
	for i := range active {
		o := &active[i]
		flag := Overdue(o, now)
		seen[o.ID] = true
		prev, known := w.flags[o.ID]
		if (known && prev != flag) || (!known && flag) {
			changed = true
		}
		w.flags[o.ID] = flag
	}
	for id := range w.flags {
		if !seen[id] {
			delete(w.flags, id)
		}
	}

	if changed {
		w.store.Hub.Invalidate(store.Orders)
	}
}
