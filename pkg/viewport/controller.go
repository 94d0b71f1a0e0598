package viewport

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fieldcal/fieldcal/internal/event_bus"
	"github.com/fieldcal/fieldcal/internal/metrics"
	"github.com/fieldcal/fieldcal/pkg/datetime"
	"github.com/fieldcal/fieldcal/pkg/event"
	log "github.com/sirupsen/logrus"
)

// ErrSuperseded marks a fetch whose viewport was replaced before its
// response arrived. The response is discarded; the display belongs to the
// superseding fetch.
var ErrSuperseded = errors.New("viewport superseded")

// EventFetcher is the slice of the store the controller needs.
type EventFetcher interface {
	FetchEvents(ctx context.Context, from, to time.Time) ([]event.EventDetail, error)
}

// Controller fulfils the rendering widget's pull-based event-source
// contract: one range in, one success or failure out. A monotonically
// increasing viewport token guards against rapid navigation: a response for
// a token that is no longer current never reaches the display state.
type Controller struct {
	fetcher EventFetcher
	norm    *datetime.Normalizer
	bus     *event_bus.Bus

	token atomic.Uint64

	mu        sync.Mutex
	displayed []CalendarEvent
}

func NewController(fetcher EventFetcher, norm *datetime.Normalizer, bus *event_bus.Bus) *Controller {
	return &Controller{fetcher: fetcher, norm: norm, bus: bus}
}

// Fetch resolves the events overlapping r. A call made stale by a later
// viewport change returns ErrSuperseded and leaves the display state alone.
// A fetch failure leaves the display at last-known-good.
func (c *Controller) Fetch(ctx context.Context, r Range) ([]CalendarEvent, error) {
	token := c.token.Add(1)

	c.bus.Publish(event_bus.NewEvent(ctx, event_bus.ViewportChanged,
		event_bus.ViewportChangedData{Start: r.Start, End: r.End}))

	details, err := c.fetcher.FetchEvents(ctx, r.Start, r.End)

	if token != c.token.Load() {
		metrics.StaleFetchesDiscarded.Inc()
		log.Debugf("discarding stale fetch for viewport %s - %s", r.Start, r.End)
		return nil, ErrSuperseded
	}
	if err != nil {
		c.bus.Publish(event_bus.NewEvent(ctx, event_bus.FetchFailed,
			event_bus.FetchFailedData{Message: "일정을 불러오는 중 오류가 발생했습니다."}))
		return nil, err
	}

	events := make([]CalendarEvent, 0, len(details))
	for _, d := range details {
		events = append(events, c.toCalendarEvent(d))
	}

	if err := c.commit(token, events); err != nil {
		metrics.StaleFetchesDiscarded.Inc()
		log.Debugf("discarding stale fetch for viewport %s - %s", r.Start, r.End)
		return nil, err
	}
	return events, nil
}

// commit installs the display state for a resolved fetch. The token is
// re-checked under the display lock: a newer fetch may have committed between
// this fetch's staleness check and here, and its state must not be
// overwritten.
func (c *Controller) commit(token uint64, events []CalendarEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if token != c.token.Load() {
		return ErrSuperseded
	}
	c.displayed = events
	return nil
}

// FetchInto is the widget-facing form of Fetch: exactly one of the two
// callbacks runs for every viewport that is still current. A superseded
// invocation is abandoned without a callback, since the widget has already
// issued the superseding one.
func (c *Controller) FetchInto(ctx context.Context, r Range, success func([]CalendarEvent), failure func(error)) {
	events, err := c.Fetch(ctx, r)
	if errors.Is(err, ErrSuperseded) {
		return
	}
	if err != nil {
		failure(err)
		return
	}
	success(events)
}

// Displayed returns a copy of the current display state.
func (c *Controller) Displayed() []CalendarEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]CalendarEvent(nil), c.displayed...)
}

func (c *Controller) toCalendarEvent(d event.EventDetail) CalendarEvent {
	e := CalendarEvent{
		Id:       d.Id,
		Title:    d.Title,
		AllDay:   d.AllDay,
		Category: d.Category,
	}
	if d.AllDay {
		e.Start = c.norm.ToDisplayDate(d.Start)
		// Persisted end is the inclusive last day; the display range is
		// half-open.
		e.End = datetime.AddOneDay(c.norm.ToDisplayDate(d.End))
	} else {
		e.Start = c.norm.ToDisplayDateTime(d.Start)
		e.End = c.norm.ToDisplayDateTime(d.End)
	}
	return e
}
