package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fieldcal/fieldcal/internal/event_bus"
	"github.com/fieldcal/fieldcal/pkg/datetime"
	"github.com/fieldcal/fieldcal/pkg/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupServiceTest(t *testing.T) (*ServiceImpl, *StubRepository, *Cache, *event_bus.Bus) {
	loc, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)
	norm := datetime.NewNormalizer(loc)
	repo := NewStubRepository(norm)
	cache := NewCache()
	bus := event_bus.NewBus()
	return NewService(repo, cache, norm, bus), repo, cache, bus
}

func timedDraft(title string) EventDraft {
	return EventDraft{
		Title: title,
		Start: "2025-07-18T10:00",
		End:   "2025-07-18T11:00",
	}
}

func TestCreate_FiltersInvalidCostItems(t *testing.T) {
	s, repo, _, _ := setupServiceTest(t)

	draft := timedDraft("고객 미팅")
	draft.Costs = []CostLineItem{
		{Type: "교육비", Amount: 0},
		{Type: "", Amount: 5000},
		{Type: "식대", Amount: 3000},
	}

	id, err := s.Create(context.Background(), draft)
	require.NoError(t, err)

	stored, ok := repo.Detail(id)
	require.True(t, ok)
	assert.Equal(t, []CostLineItem{{Type: "식대", Amount: 3000}}, stored.Costs)
}

func TestCreate_Validation(t *testing.T) {
	testCases := []struct {
		name    string
		draft   EventDraft
		wantErr error
	}{
		{
			name:    "missing title",
			draft:   EventDraft{Start: "2025-07-18T10:00"},
			wantErr: ErrTitleRequired,
		},
		{
			name: "linked event requires a category",
			draft: EventDraft{
				Title:   "계약 검토",
				Start:   "2025-07-18T10:00",
				Related: record.LinkedRef(record.KindAccount, "001-abc", "삼성전자"),
			},
			wantErr: ErrCategoryRequired,
		},
		{
			name: "end before start",
			draft: EventDraft{
				Title: "고객 미팅",
				Start: "2025-07-18T11:00",
				End:   "2025-07-18T10:00",
			},
			wantErr: errEndBeforeStart,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, repo, _, _ := setupServiceTest(t)

			_, err := s.Create(context.Background(), tc.draft)
			assert.ErrorIs(t, err, tc.wantErr)
			// Nothing may reach the store on invalid input.
			events, fetchErr := repo.FetchEvents(context.Background(),
				time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC))
			require.NoError(t, fetchErr)
			assert.Empty(t, events)
		})
	}
}

func TestCreate_PersonalEventNeedsNoCategory(t *testing.T) {
	s, _, _, _ := setupServiceTest(t)

	draft := timedDraft("운동")
	draft.Related = record.PersonalRef()

	_, err := s.Create(context.Background(), draft)
	assert.NoError(t, err)
}

func TestCreate_MissingEndFallsBackToStart(t *testing.T) {
	s, repo, _, _ := setupServiceTest(t)

	draft := EventDraft{Title: "고객 미팅", Start: "2025-07-18T10:00"}
	id, err := s.Create(context.Background(), draft)
	require.NoError(t, err)

	stored, _ := repo.Detail(id)
	assert.Equal(t, "2025-07-18T10:00", stored.Start)
	assert.Equal(t, "2025-07-18T10:00", stored.End)
}

func TestFetchEvents_ViewportEndIsExclusive(t *testing.T) {
	s, repo, _, _ := setupServiceTest(t)
	loc, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)
	from := time.Date(2025, 7, 1, 0, 0, 0, 0, loc)
	to := time.Date(2025, 8, 1, 0, 0, 0, 0, loc)

	// Starts at the first instant of the next viewport: not visible in July.
	_, err = s.Create(context.Background(), EventDraft{
		Title: "다음 달 회의", Start: "2025-08-01T00:00", End: "2025-08-01T01:00",
	})
	require.NoError(t, err)
	// Day event whose inclusive last day is the viewport's first day: still
	// occupies July 1st.
	_, err = s.Create(context.Background(), EventDraft{
		Title: "지난 달 워크숍", Start: "2025-06-28", End: "2025-07-01", AllDay: true,
	})
	require.NoError(t, err)

	events, err := repo.FetchEvents(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "지난 달 워크숍", events[0].Title)
}

func TestGetDetail_CachesAndInvalidates(t *testing.T) {
	s, repo, cache, _ := setupServiceTest(t)

	id, err := s.Create(context.Background(), timedDraft("고객 미팅"))
	require.NoError(t, err)

	// First read goes to the store, second is served from cache.
	_, err = s.GetDetail(context.Background(), id)
	require.NoError(t, err)
	_, err = s.GetDetail(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.DetailFetches)
	assert.True(t, cache.Contains(id))

	// A reschedule drops the entry; the next read must hit the store again.
	err = s.UpdateDates(context.Background(), id, "2025-07-19T10:00", "2025-07-19T11:00")
	require.NoError(t, err)
	assert.False(t, cache.Contains(id))

	detail, err := s.GetDetail(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.DetailFetches)
	assert.Equal(t, "2025-07-19T10:00", detail.Start)
}

func TestUpdate_InvalidatesCacheBeforePublishing(t *testing.T) {
	s, _, cache, bus := setupServiceTest(t)

	id, err := s.Create(context.Background(), timedDraft("고객 미팅"))
	require.NoError(t, err)
	_, err = s.GetDetail(context.Background(), id)
	require.NoError(t, err)
	require.True(t, cache.Contains(id))

	// The subscriber observes the cache state at publish time: the entry
	// must already be gone.
	cachedAtPublish := true
	bus.Subscribe(event_bus.EventUpdated, func(e event_bus.Event) {
		cachedAtPublish = cache.Contains(e.Data.(event_bus.MutationData).EventId)
	})

	draft := timedDraft("고객 미팅 (변경)")
	require.NoError(t, s.Update(context.Background(), id, draft))
	assert.False(t, cachedAtPublish)
}

func TestDelete_RemovesEventAndCacheEntry(t *testing.T) {
	s, repo, cache, bus := setupServiceTest(t)

	id, err := s.Create(context.Background(), timedDraft("고객 미팅"))
	require.NoError(t, err)
	_, err = s.GetDetail(context.Background(), id)
	require.NoError(t, err)

	var deleted string
	bus.Subscribe(event_bus.EventDeleted, func(e event_bus.Event) {
		deleted = e.Data.(event_bus.MutationData).EventId
	})

	require.NoError(t, s.Delete(context.Background(), id))
	assert.False(t, cache.Contains(id))
	assert.Equal(t, id, deleted)

	_, ok := repo.Detail(id)
	assert.False(t, ok)
}

func TestUpdateDates_DayGranularityFoldsExclusiveEnd(t *testing.T) {
	s, repo, _, _ := setupServiceTest(t)

	draft := EventDraft{Title: "워크숍", Start: "2025-07-18", End: "2025-07-19", AllDay: true}
	id, err := s.Create(context.Background(), draft)
	require.NoError(t, err)

	// The widget reports the exclusive end day for an all-day drag.
	require.NoError(t, s.UpdateDates(context.Background(), id, "2025-07-21", "2025-07-23"))

	stored, _ := repo.Detail(id)
	assert.Equal(t, "2025-07-21", stored.Start)
	assert.Equal(t, "2025-07-22", stored.End)
}

func TestUpdateDates_UnknownEvent(t *testing.T) {
	s, _, _, _ := setupServiceTest(t)

	err := s.UpdateDates(context.Background(), "missing", "2025-07-18T10:00", "2025-07-18T11:00")
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestMutationFailureLeavesCacheIntact(t *testing.T) {
	s, repo, cache, _ := setupServiceTest(t)

	id, err := s.Create(context.Background(), timedDraft("고객 미팅"))
	require.NoError(t, err)
	_, err = s.GetDetail(context.Background(), id)
	require.NoError(t, err)

	repo.Err = errors.New("store unavailable")
	err = s.UpdateDates(context.Background(), id, "2025-07-19T10:00", "2025-07-19T11:00")
	assert.Error(t, err)
	// No partial local-state mutation on failure.
	assert.True(t, cache.Contains(id))
}
