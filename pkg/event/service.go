package event

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fieldcal/fieldcal/internal/event_bus"
	"github.com/fieldcal/fieldcal/internal/metrics"
	"github.com/fieldcal/fieldcal/pkg/datetime"
	log "github.com/sirupsen/logrus"
)

// ValidationError is a local-input failure. It is raised before any store
// call and its message is shown to the user verbatim.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

var (
	ErrTitleRequired    = &ValidationError{"제목은 필수 입력 항목입니다."}
	ErrCategoryRequired = &ValidationError{"부서는 필수 선택 항목입니다."}
	errEndBeforeStart   = &ValidationError{"종료 일시는 시작 일시보다 빠를 수 없습니다."}
)

// Service is the mutation gateway: one store round trip in, one
// success/failure out. On success the detail cache entry is invalidated
// before any dependent signal is published, so listeners never read a stale
// payload.
type Service interface {
	Create(ctx context.Context, draft EventDraft) (string, error)
	Update(ctx context.Context, id string, draft EventDraft) error
	Delete(ctx context.Context, id string) error
	UpdateDates(ctx context.Context, id, newStart, newEnd string) error
	GetDetail(ctx context.Context, id string) (*EventDetail, error)
}

type ServiceImpl struct {
	repo  Repository
	cache *Cache
	norm  *datetime.Normalizer
	bus   *event_bus.Bus
}

func NewService(repo Repository, cache *Cache, norm *datetime.Normalizer, bus *event_bus.Bus) *ServiceImpl {
	return &ServiceImpl{repo: repo, cache: cache, norm: norm, bus: bus}
}

func (s *ServiceImpl) Create(ctx context.Context, draft EventDraft) (string, error) {
	if err := validateDraft(draft); err != nil {
		return "", err
	}
	draft.Costs = SanitizeCosts(draft.Costs)

	start, end, err := s.parseRange(draft)
	if err != nil {
		return "", err
	}

	id, err := s.repo.StoreEvent(ctx, draft, start, end)
	if err != nil {
		return "", fmt.Errorf("failed to store event: %w", err)
	}

	metrics.Mutations.WithLabelValues("create").Inc()
	s.bus.Publish(event_bus.NewEvent(ctx, event_bus.EventCreated,
		event_bus.MutationData{EventId: id, Start: draft.Start}))
	return id, nil
}

func (s *ServiceImpl) Update(ctx context.Context, id string, draft EventDraft) error {
	if err := validateDraft(draft); err != nil {
		return err
	}
	draft.Costs = SanitizeCosts(draft.Costs)

	start, end, err := s.parseRange(draft)
	if err != nil {
		return err
	}

	if err := s.repo.UpdateEvent(ctx, id, draft, start, end); err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}

	// Invalidation must precede the signal: subscribers refresh aggregates
	// and must not be served the pre-mutation payload.
	s.cache.Invalidate(id)
	metrics.Mutations.WithLabelValues("update").Inc()
	s.bus.Publish(event_bus.NewEvent(ctx, event_bus.EventUpdated,
		event_bus.MutationData{EventId: id, Start: draft.Start}))
	return nil
}

func (s *ServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteEvent(ctx, id); err != nil {
		if errors.Is(err, ErrEventNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete event: %w", err)
	}

	s.cache.Invalidate(id)
	metrics.Mutations.WithLabelValues("delete").Inc()
	s.bus.Publish(event_bus.NewEvent(ctx, event_bus.EventDeleted,
		event_bus.MutationData{EventId: id}))
	return nil
}

// UpdateDates is the narrow reschedule-only path used by drag moves; no
// unrelated fields travel with it. The widget reports an exclusive end for
// day-granularity drags, which is folded back to the persisted inclusive end
// day here.
func (s *ServiceImpl) UpdateDates(ctx context.Context, id, newStart, newEnd string) error {
	g := datetime.GranularityOf(newStart)
	if newEnd == "" {
		newEnd = newStart
	} else if g == datetime.Day {
		newEnd = datetime.SubOneDay(newEnd)
	}

	start, err := s.norm.ParseInstant(newStart, g)
	if err != nil {
		return &ValidationError{msg: "일정 시작 일시를 해석할 수 없습니다."}
	}
	end, err := s.norm.ParseInstant(newEnd, g)
	if err != nil {
		return &ValidationError{msg: "일정 종료 일시를 해석할 수 없습니다."}
	}
	if end.Before(start) {
		return errEndBeforeStart
	}

	if err := s.repo.UpdateEventDates(ctx, id, start, end); err != nil {
		if errors.Is(err, ErrEventNotFound) {
			return err
		}
		return fmt.Errorf("failed to update event dates: %w", err)
	}

	s.cache.Invalidate(id)
	metrics.Mutations.WithLabelValues("reschedule").Inc()
	log.Debugf("event %s rescheduled to %s - %s", id, newStart, newEnd)
	return nil
}

// GetDetail serves the detail payload from the cache when present, otherwise
// fetches it and caches the result.
func (s *ServiceImpl) GetDetail(ctx context.Context, id string) (*EventDetail, error) {
	if d, ok := s.cache.Get(id); ok {
		metrics.CacheHits.Inc()
		return &d, nil
	}
	metrics.CacheMisses.Inc()

	d, err := s.repo.FetchEventDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.Put(*d)
	return d, nil
}

func validateDraft(draft EventDraft) error {
	if draft.Title == "" {
		return ErrTitleRequired
	}
	if !draft.Related.IsPersonal() && draft.Category == "" {
		return ErrCategoryRequired
	}
	return nil
}

func (s *ServiceImpl) parseRange(draft EventDraft) (time.Time, time.Time, error) {
	g := draft.Granularity()

	start, err := s.norm.ParseInstant(s.norm.ToPersisted(draft.Start, g), g)
	if err != nil {
		return time.Time{}, time.Time{}, &ValidationError{msg: "일정 시작 일시를 해석할 수 없습니다."}
	}

	endValue := draft.End
	if endValue == "" {
		endValue = draft.Start
	}
	end, err := s.norm.ParseInstant(s.norm.ToPersisted(endValue, g), g)
	if err != nil {
		return time.Time{}, time.Time{}, &ValidationError{msg: "일정 종료 일시를 해석할 수 없습니다."}
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, errEndBeforeStart
	}
	return start, end, nil
}
