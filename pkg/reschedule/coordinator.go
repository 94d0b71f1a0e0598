package reschedule

import (
	"context"
	"errors"
	"sync"

	"github.com/fieldcal/fieldcal/internal/event_bus"
	"github.com/fieldcal/fieldcal/internal/metrics"
	"github.com/fieldcal/fieldcal/pkg/datetime"
	"github.com/fieldcal/fieldcal/pkg/event"
	log "github.com/sirupsen/logrus"
)

// Gateway is the narrow mutation path a drag move travels. Only the event's
// dates change; no other field rides along.
type Gateway interface {
	UpdateDates(ctx context.Context, id, newStart, newEnd string) error
}

// DetailReader resolves the event's current coordinates before a move, so a
// failed move can be reverted to exactly where the event sat.
type DetailReader interface {
	GetDetail(ctx context.Context, id string) (*event.EventDetail, error)
}

// Result is the outcome of one drag move. A superseded move carries neither
// a confirmation nor a revert: the later move on the same event owns the
// outcome.
type Result struct {
	Confirmed  bool   `json:"confirmed"`
	Superseded bool   `json:"superseded,omitempty"`
	Message    string `json:"message,omitempty"`
	PrevStart  string `json:"prevStart,omitempty"`
	PrevEnd    string `json:"prevEnd,omitempty"`
}

// Coordinator drives the optimistic drag reschedule: the widget has already
// shown the event at its new slot when Move is called, and the coordinator
// either confirms that placement or hands back the exact pre-drag
// coordinates to revert to.
type Coordinator struct {
	gateway Gateway
	details DetailReader
	bus     *event_bus.Bus

	mu    sync.Mutex
	seq   map[string]uint64
	locks map[string]*sync.Mutex
}

func NewCoordinator(gateway Gateway, details DetailReader, bus *event_bus.Bus) *Coordinator {
	return &Coordinator{
		gateway: gateway,
		details: details,
		bus:     bus,
		seq:     make(map[string]uint64),
		locks:   make(map[string]*sync.Mutex),
	}
}

// Move persists a drag of event id to newStart/newEnd. End coordinates arrive
// in display form; for day drags that means an exclusive end date. When a
// newer move on the same event starts before this one completes, this one's
// outcome is suppressed entirely.
func (c *Coordinator) Move(ctx context.Context, id, newStart, newEnd string) Result {
	detail, err := c.details.GetDetail(ctx, id)
	if err != nil {
		// No request was issued, so there is nothing to revert and no
		// rollback to signal.
		log.Errorf("reschedule: cannot resolve event %s before move: %v", id, err)
		return Result{Message: "일정을 이동하지 못했습니다. 원래 위치로 되돌립니다."}
	}
	prevStart, prevEnd := displayCoordinates(detail)

	seq, lock := c.claim(id)

	// Store calls for one event apply in drop order: an earlier drop's
	// request must never land after a later drop's and leave the store
	// disagreeing with the confirmed outcome.
	lock.Lock()
	err = c.gateway.UpdateDates(ctx, id, newStart, newEnd)
	lock.Unlock()

	if !c.isLatest(id, seq) {
		log.Debugf("reschedule: move of %s superseded, outcome dropped", id)
		return Result{Superseded: true}
	}

	if err != nil {
		return c.fail(ctx, id, prevStart, prevEnd, err)
	}

	msg := "일정이 성공적으로 이동되었습니다."
	c.bus.Publish(event_bus.NewEvent(ctx, event_bus.MoveSucceeded,
		event_bus.MoveSucceededData{EventId: id, Message: msg}))
	return Result{Confirmed: true, Message: msg}
}

func (c *Coordinator) fail(ctx context.Context, id, prevStart, prevEnd string, cause error) Result {
	metrics.RescheduleRollbacks.Inc()
	msg := "일정을 이동하지 못했습니다. 원래 위치로 되돌립니다."
	var verr *event.ValidationError
	if errors.As(cause, &verr) {
		msg = verr.Error()
	}
	log.Warnf("reschedule: move of %s failed, reverting: %v", id, cause)
	c.bus.Publish(event_bus.NewEvent(ctx, event_bus.MoveFailed, event_bus.MoveFailedData{
		EventId:     id,
		RevertStart: prevStart,
		RevertEnd:   prevEnd,
		Message:     msg,
	}))
	return Result{Message: msg, PrevStart: prevStart, PrevEnd: prevEnd}
}

// claim assigns the next drop sequence for id and returns the mutex that
// serializes its store calls. The sequence is taken at arrival, so a drop
// waiting on the lock already marks every earlier in-flight drop as
// superseded.
func (c *Coordinator) claim(id string) (uint64, *sync.Mutex) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq[id]++
	lock, ok := c.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		c.locks[id] = lock
	}
	return c.seq[id], lock
}

func (c *Coordinator) isLatest(id string, seq uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq[id] == seq
}

// displayCoordinates translates the persisted range into the widget's
// coordinate space, where a day-granularity end is exclusive.
func displayCoordinates(d *event.EventDetail) (string, string) {
	if d.AllDay {
		return d.Start, datetime.AddOneDay(d.End)
	}
	return d.Start, d.End
}
