package costs

import (
	"context"
	"sync"
	"time"

	"github.com/fieldcal/fieldcal/internal/event_bus"
	log "github.com/sirupsen/logrus"
)

// Refresher keeps the monthly cost aggregate in sync with the calendar. It
// recomputes on every viewport move and after every confirmed event mutation,
// always for the month the visible range is centered on.
type Refresher struct {
	repo Repository
	loc  *time.Location

	mu            sync.Mutex
	current       Aggregate
	viewportStart time.Time
	viewportEnd   time.Time
	hasViewport   bool
}

func NewRefresher(repo Repository, loc *time.Location) *Refresher {
	return &Refresher{repo: repo, loc: loc}
}

// Location is the wall clock month boundaries are computed in.
func (r *Refresher) Location() *time.Location {
	return r.loc
}

// Register subscribes the refresher to the signals that can change the
// visible month's costs. Mutation handlers run after the cache was
// invalidated, so a recomputation here never reads stale detail.
func (r *Refresher) Register(bus *event_bus.Bus) {
	bus.Subscribe(event_bus.ViewportChanged, func(e event_bus.Event) {
		data := e.Data.(event_bus.ViewportChangedData)
		r.mu.Lock()
		r.viewportStart = data.Start
		r.viewportEnd = data.End
		r.hasViewport = true
		r.mu.Unlock()
		r.Refresh(e.Context())
	})
	onMutation := func(e event_bus.Event) {
		r.Refresh(e.Context())
	}
	bus.Subscribe(event_bus.EventCreated, onMutation)
	bus.Subscribe(event_bus.EventUpdated, onMutation)
	bus.Subscribe(event_bus.EventDeleted, onMutation)
	bus.Subscribe(event_bus.MoveSucceeded, onMutation)
}

// Refresh recomputes the aggregate for the month at the center of the last
// known viewport. A failed query resets the aggregate to zero rather than
// leaving numbers from another month on display.
func (r *Refresher) Refresh(ctx context.Context) {
	r.mu.Lock()
	start, end, ok := r.viewportStart, r.viewportEnd, r.hasViewport
	r.mu.Unlock()
	if !ok {
		return
	}

	from, to := monthBounds(start.Add(end.Sub(start)/2), r.loc)
	sums, err := r.repo.MonthlyCostSummary(ctx, from, to)
	if err != nil {
		log.Errorf("could not refresh cost summary for %s: %v", from.Format("2006-01"), err)
		r.setCurrent(Aggregate{Entries: []Entry{}})
		return
	}
	r.setCurrent(NewAggregate(sums))
}

// ForMonth computes the aggregate for the calendar month containing t,
// without touching the tracked display state.
func (r *Refresher) ForMonth(ctx context.Context, t time.Time) (Aggregate, error) {
	from, to := monthBounds(t, r.loc)
	sums, err := r.repo.MonthlyCostSummary(ctx, from, to)
	if err != nil {
		return Aggregate{}, err
	}
	return NewAggregate(sums), nil
}

// Current returns the last computed aggregate.
func (r *Refresher) Current() Aggregate {
	r.mu.Lock()
	defer r.mu.Unlock()
	agg := r.current
	agg.Entries = append([]Entry(nil), r.current.Entries...)
	return agg
}

func (r *Refresher) setCurrent(agg Aggregate) {
	r.mu.Lock()
	r.current = agg
	r.mu.Unlock()
}

// monthBounds returns the half-open range of the calendar month containing t,
// in the configured timezone. A month view usually shows spill-over days from
// the neighbouring months; the midpoint always lands in the month the user is
// actually looking at.
func monthBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	local := t.In(loc)
	from := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
	return from, from.AddDate(0, 1, 0)
}
