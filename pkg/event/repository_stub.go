package event

import (
	"context"
	"sort"
	"time"

	"github.com/fieldcal/fieldcal/pkg/datetime"
	"github.com/google/uuid"
)

type stubStored struct {
	detail EventDetail
	start  time.Time
	end    time.Time
}

// StubRepository is the in-memory repository used by tests. Setting Err makes
// every operation fail with it, which is how tests simulate store outages.
type StubRepository struct {
	norm    *datetime.Normalizer
	stored  map[string]*stubStored
	order   []string
	Err     error
	// DetailFetches counts FetchEventDetail calls, letting tests verify
	// whether a read was served from cache or went to the store.
	DetailFetches int
}

func NewStubRepository(norm *datetime.Normalizer) *StubRepository {
	return &StubRepository{norm: norm, stored: make(map[string]*stubStored)}
}

func (s *StubRepository) FetchEvents(ctx context.Context, from, to time.Time) ([]EventDetail, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	events := make([]EventDetail, 0, len(s.order))
	for _, id := range s.order {
		e := s.stored[id]
		// Same half-open overlap as the SQL repository: [from, to) with an
		// inclusive-last-day exception for day events.
		if e.start.Before(to) && (e.end.After(from) || (e.detail.AllDay && e.end.Equal(from))) {
			events = append(events, copyDetail(e.detail))
		}
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].Start < events[j].Start })
	return events, nil
}

func (s *StubRepository) FetchEventDetail(ctx context.Context, id string) (*EventDetail, error) {
	s.DetailFetches++
	if s.Err != nil {
		return nil, s.Err
	}
	e, ok := s.stored[id]
	if !ok {
		return nil, ErrEventNotFound
	}
	d := copyDetail(e.detail)
	return &d, nil
}

func (s *StubRepository) StoreEvent(ctx context.Context, draft EventDraft, start, end time.Time) (string, error) {
	if s.Err != nil {
		return "", s.Err
	}
	id := uuid.New().String()
	s.put(id, draft, start, end)
	return id, nil
}

func (s *StubRepository) UpdateEvent(ctx context.Context, id string, draft EventDraft, start, end time.Time) error {
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.stored[id]; !ok {
		return ErrEventNotFound
	}
	s.stored[id] = &stubStored{detail: s.toDetail(id, draft, start, end), start: start, end: end}
	return nil
}

func (s *StubRepository) UpdateEventDates(ctx context.Context, id string, start, end time.Time) error {
	if s.Err != nil {
		return s.Err
	}
	e, ok := s.stored[id]
	if !ok {
		return ErrEventNotFound
	}
	g := granularityOf(e.detail.AllDay)
	e.start = start
	e.end = end
	e.detail.Start = s.norm.FormatInstant(start, g)
	e.detail.End = s.norm.FormatInstant(end, g)
	return nil
}

func (s *StubRepository) DeleteEvent(ctx context.Context, id string) error {
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.stored[id]; !ok {
		return ErrEventNotFound
	}
	delete(s.stored, id)
	for i, storedId := range s.order {
		if storedId == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Detail returns the stored detail for assertions.
func (s *StubRepository) Detail(id string) (EventDetail, bool) {
	e, ok := s.stored[id]
	if !ok {
		return EventDetail{}, false
	}
	return copyDetail(e.detail), true
}

func (s *StubRepository) put(id string, draft EventDraft, start, end time.Time) {
	s.stored[id] = &stubStored{detail: s.toDetail(id, draft, start, end), start: start, end: end}
	s.order = append(s.order, id)
}

func (s *StubRepository) toDetail(id string, draft EventDraft, start, end time.Time) EventDetail {
	g := draft.Granularity()
	return EventDetail{
		Id:          id,
		Title:       draft.Title,
		Start:       s.norm.FormatInstant(start, g),
		End:         s.norm.FormatInstant(end, g),
		AllDay:      draft.AllDay,
		Description: draft.Description,
		Location:    draft.Location,
		Category:    draft.Category,
		Related:     draft.Related,
		Costs:       append([]CostLineItem(nil), draft.Costs...),
	}
}
