package costs

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fieldcal/fieldcal/internal/event_bus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSummary_FormatsAmountsAsWon(t *testing.T) {
	repo := NewStubRepository()
	repo.Add(julyInSeoul(t, 3, 10), "교통비", 10000)
	repo.Add(julyInSeoul(t, 14, 9), "식대", 5000)

	bus := event_bus.NewBus()
	refresher := NewRefresher(repo, seoul(t))
	refresher.Register(bus)
	publishViewport(bus, julyInSeoul(t, 1, 0), time.Date(2025, time.August, 1, 0, 0, 0, 0, seoul(t)))

	handler := NewHandler(refresher)
	req := httptest.NewRequest(http.MethodGet, "/api/costs/summary", nil)
	resp := httptest.NewRecorder()
	handler.GetSummary(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	var dto CostSummaryDTO
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &dto))
	assert.Equal(t, int64(15000), dto.Total)
	assert.Equal(t, "₩15,000", dto.TotalFormatted)
	require.Len(t, dto.Entries, 2)
	assert.Equal(t, "₩10,000", dto.Entries[0].Formatted)
}

func TestGetSummary_ExplicitDatePicksThatMonth(t *testing.T) {
	repo := NewStubRepository()
	repo.Add(julyInSeoul(t, 3, 10), "교통비", 10000)
	repo.Add(time.Date(2025, time.August, 2, 9, 0, 0, 0, seoul(t)), "주유비", 40000)

	refresher := NewRefresher(repo, seoul(t))
	handler := NewHandler(refresher)

	req := httptest.NewRequest(http.MethodGet, "/api/costs/summary?date=2025-08-15", nil)
	resp := httptest.NewRecorder()
	handler.GetSummary(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	var dto CostSummaryDTO
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &dto))
	assert.Equal(t, int64(40000), dto.Total)
	require.Len(t, dto.Entries, 1)
	assert.Equal(t, "주유비", dto.Entries[0].Type)
}

func TestGetSummary_RejectsMalformedDate(t *testing.T) {
	handler := NewHandler(NewRefresher(NewStubRepository(), seoul(t)))

	req := httptest.NewRequest(http.MethodGet, "/api/costs/summary?date=August", nil)
	resp := httptest.NewRecorder()
	handler.GetSummary(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestGetSummary_EmptyAggregate(t *testing.T) {
	bus := event_bus.NewBus()
	refresher := NewRefresher(NewStubRepository(), seoul(t))
	refresher.Register(bus)

	handler := NewHandler(refresher)
	req := httptest.NewRequest(http.MethodGet, "/api/costs/summary", nil)
	resp := httptest.NewRecorder()
	handler.GetSummary(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	var dto CostSummaryDTO
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &dto))
	assert.Zero(t, dto.Total)
	assert.Equal(t, "₩0", dto.TotalFormatted)
	assert.Empty(t, dto.Entries)
}
