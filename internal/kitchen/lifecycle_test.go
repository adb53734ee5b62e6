package kitchen

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maitred/internal/models"
	"maitred/internal/store"
)

var base = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func TestWaitingOverdueStrictlyAfterFiveMinutes(t *testing.T) {
	o := &models.Order{Status: models.OrderStatusWaiting, PlacedAt: base}

	assert.False(t, Overdue(o, base))
	assert.False(t, Overdue(o, base.Add(5*time.Minute)), "exactly at threshold is not overdue")
	assert.True(t, Overdue(o, base.Add(5*time.Minute+time.Millisecond)))
}

func TestCookingOverdueStrictlyAfterTenMinutes(t *testing.T) {
	cookingAt := base.Add(2 * time.Minute)
	o := &models.Order{Status: models.OrderStatusCooking, PlacedAt: base, CookingAt: &cookingAt}

	assert.False(t, Overdue(o, cookingAt.Add(10*time.Minute)))
	assert.True(t, Overdue(o, cookingAt.Add(10*time.Minute+time.Millisecond)))
}

func TestCookingFallsBackToCreationTime(t *testing.T) {
	o := &models.Order{Status: models.OrderStatusCooking, PlacedAt: base}

	assert.Equal(t, base, ReferenceTime(o))
	assert.True(t, Overdue(o, base.Add(10*time.Minute+time.Second)))
}

func TestDoneNeverOverdue(t *testing.T) {
	o := &models.Order{Status: models.OrderStatusDone, PlacedAt: base}
	assert.False(t, Overdue(o, base.Add(24*time.Hour)))
}

func TestViewComputesElapsedSeconds(t *testing.T) {
	o := models.Order{Status: models.OrderStatusWaiting, PlacedAt: base}
	v := NewView(o, base.Add(90*time.Second))

	assert.Equal(t, 90, v.ElapsedSeconds)
	assert.False(t, v.Overdue)
}

func TestWatcherInvalidatesWhenFlagFlips(t *testing.T) {
	s, err := store.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	defer s.Close()

	placed := base
	require.NoError(t, s.DB.Create(&models.Order{
		Number:   "K-0001",
		Status:   models.OrderStatusWaiting,
		PlacedAt: placed,
	}).Error)

	snapshots := 0
	sub := s.Hub.Subscribe(store.Orders, func() (interface{}, error) {
		snapshots++
		return nil, nil
	})
	defer s.Hub.Unsubscribe(sub)
	require.Equal(t, 1, snapshots)

	w := NewWatcher(s)

	// not yet overdue: no invalidation
	w.check(placed.Add(time.Minute))
	assert.Equal(t, 1, snapshots)

	// crosses the threshold: one invalidation
	w.check(placed.Add(6 * time.Minute))
	assert.Equal(t, 2, snapshots)

	// stays overdue: no further invalidation
	w.check(placed.Add(7 * time.Minute))
	assert.Equal(t, 2, snapshots)
}
