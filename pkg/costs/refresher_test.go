package costs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fieldcal/fieldcal/internal/event_bus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seoul(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)
	return loc
}

func julyInSeoul(t *testing.T, day int, hour int) time.Time {
	return time.Date(2025, time.July, day, hour, 0, 0, 0, seoul(t))
}

func publishViewport(bus *event_bus.Bus, start, end time.Time) {
	bus.Publish(event_bus.NewEvent(context.Background(), event_bus.ViewportChanged,
		event_bus.ViewportChangedData{Start: start, End: end}))
}

func TestRefresher_SumsAndTotalsVisibleMonth(t *testing.T) {
	repo := NewStubRepository()
	repo.Add(julyInSeoul(t, 3, 10), "교통비", 10000)
	repo.Add(julyInSeoul(t, 14, 9), "식대", 5000)
	// Next month's rows never leak into July's aggregate.
	repo.Add(time.Date(2025, time.August, 2, 9, 0, 0, 0, seoul(t)), "주유비", 40000)

	bus := event_bus.NewBus()
	refresher := NewRefresher(repo, seoul(t))
	refresher.Register(bus)

	publishViewport(bus, julyInSeoul(t, 1, 0), time.Date(2025, time.August, 1, 0, 0, 0, 0, seoul(t)))

	agg := refresher.Current()
	assert.Equal(t, int64(15000), agg.Total)
	require.Len(t, agg.Entries, 2)
	assert.Equal(t, Entry{Type: "교통비", Amount: 10000}, agg.Entries[0])
	assert.Equal(t, Entry{Type: "식대", Amount: 5000}, agg.Entries[1])
}

func TestRefresher_EmptyMonthYieldsZeroAggregate(t *testing.T) {
	bus := event_bus.NewBus()
	refresher := NewRefresher(NewStubRepository(), seoul(t))
	refresher.Register(bus)

	publishViewport(bus, julyInSeoul(t, 1, 0), time.Date(2025, time.August, 1, 0, 0, 0, 0, seoul(t)))

	agg := refresher.Current()
	assert.Zero(t, agg.Total)
	assert.Empty(t, agg.Entries)
}

func TestRefresher_MidpointPicksDisplayedMonth(t *testing.T) {
	repo := NewStubRepository()
	repo.Add(julyInSeoul(t, 15, 12), "톨게이트", 2500)

	bus := event_bus.NewBus()
	refresher := NewRefresher(repo, seoul(t))
	refresher.Register(bus)

	// A month grid spills into June and August; the center of the range still
	// lands in July.
	publishViewport(bus, time.Date(2025, time.June, 29, 0, 0, 0, 0, seoul(t)),
		time.Date(2025, time.August, 10, 0, 0, 0, 0, seoul(t)))

	agg := refresher.Current()
	assert.Equal(t, int64(2500), agg.Total)
}

func TestRefresher_RecomputesAfterMutationSignals(t *testing.T) {
	repo := NewStubRepository()
	bus := event_bus.NewBus()
	refresher := NewRefresher(repo, seoul(t))
	refresher.Register(bus)

	publishViewport(bus, julyInSeoul(t, 1, 0), time.Date(2025, time.August, 1, 0, 0, 0, 0, seoul(t)))
	assert.Zero(t, refresher.Current().Total)

	repo.Add(julyInSeoul(t, 18, 10), "교육비", 120000)
	bus.Publish(event_bus.NewEvent(context.Background(), event_bus.EventCreated, nil))
	assert.Equal(t, int64(120000), refresher.Current().Total)

	repo.rows = nil
	bus.Publish(event_bus.NewEvent(context.Background(), event_bus.EventDeleted, nil))
	assert.Zero(t, refresher.Current().Total)
}

func TestRefresher_RecomputesAfterConfirmedMove(t *testing.T) {
	repo := NewStubRepository()
	repo.Add(julyInSeoul(t, 10, 9), "식대", 8000)

	bus := event_bus.NewBus()
	refresher := NewRefresher(repo, seoul(t))
	refresher.Register(bus)

	publishViewport(bus, julyInSeoul(t, 1, 0), time.Date(2025, time.August, 1, 0, 0, 0, 0, seoul(t)))
	assert.Equal(t, int64(8000), refresher.Current().Total)

	// The move pushed the event out of July.
	repo.rows = nil
	repo.Add(time.Date(2025, time.August, 10, 9, 0, 0, 0, seoul(t)), "식대", 8000)
	bus.Publish(event_bus.NewEvent(context.Background(), event_bus.MoveSucceeded,
		event_bus.MoveSucceededData{EventId: "ev-1"}))
	assert.Zero(t, refresher.Current().Total)
}

func TestRefresher_FailureResetsToZeroAggregate(t *testing.T) {
	repo := NewStubRepository()
	repo.Add(julyInSeoul(t, 3, 10), "교통비", 10000)

	bus := event_bus.NewBus()
	refresher := NewRefresher(repo, seoul(t))
	refresher.Register(bus)

	publishViewport(bus, julyInSeoul(t, 1, 0), time.Date(2025, time.August, 1, 0, 0, 0, 0, seoul(t)))
	assert.Equal(t, int64(10000), refresher.Current().Total)

	repo.Err = errors.New("connection reset")
	bus.Publish(event_bus.NewEvent(context.Background(), event_bus.EventUpdated, nil))

	agg := refresher.Current()
	assert.Zero(t, agg.Total)
	assert.Empty(t, agg.Entries)
}

func TestRefresher_NoViewportMeansNoQuery(t *testing.T) {
	repo := NewStubRepository()
	repo.Err = errors.New("must not be queried")
	refresher := NewRefresher(repo, seoul(t))

	refresher.Refresh(context.Background())

	assert.Zero(t, refresher.Current().Total)
}

func TestNewAggregate_OrdersEntriesByType(t *testing.T) {
	agg := NewAggregate(map[string]int64{"식대": 5000, "교통비": 10000, "주유비": 30000})

	require.Len(t, agg.Entries, 3)
	assert.Equal(t, "교통비", agg.Entries[0].Type)
	assert.Equal(t, "식대", agg.Entries[1].Type)
	assert.Equal(t, "주유비", agg.Entries[2].Type)
	assert.Equal(t, int64(45000), agg.Total)
}
