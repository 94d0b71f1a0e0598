package event

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fieldcal/fieldcal/internal/config"
	"github.com/fieldcal/fieldcal/internal/event_bus"
	"github.com/fieldcal/fieldcal/pkg/datetime"
	"github.com/fieldcal/fieldcal/pkg/vocab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHandlerTest(t *testing.T) *Handler {
	loc, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)
	norm := datetime.NewNormalizer(loc)
	service := NewService(NewStubRepository(norm), NewCache(), norm, event_bus.NewBus())
	vocabService := vocab.NewService(config.Vocab{
		Categories: []string{"개발부", "영업부"},
		CostTypes:  []string{"교통비", "식대"},
	})
	return NewHandler(service, vocabService)
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBuffer(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func TestHandleDrop_SeedsDraft(t *testing.T) {
	h := setupHandlerTest(t)

	w := postJSON(t, h.HandleDrop, "/api/calendar/drop", DropRequestDTO{
		Attrs: map[string]string{
			"recordName":  "삼성전자",
			"recordType":  "Account",
			"recordId":    "001-abc",
			"accountName": "삼성전자",
		},
		Date: "2025-07-18T10:00",
	})

	require.Equal(t, http.StatusOK, w.Code)
	var dto EventDraftDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&dto))
	assert.Equal(t, "삼성전자", dto.Title)
	assert.Equal(t, "2025-07-18T10:00", dto.Start)
	assert.Equal(t, "2025-07-18T10:00", dto.End)
	assert.False(t, dto.AllDay)
	// First configured category is the default.
	assert.Equal(t, "개발부", dto.Category)
	assert.Equal(t, "Account", dto.RelatedKind)
	assert.Equal(t, "001-abc", dto.RelatedId)
}

func TestHandleDrop_MissingRecordNameIsSilentNoOp(t *testing.T) {
	h := setupHandlerTest(t)

	w := postJSON(t, h.HandleDrop, "/api/calendar/drop", DropRequestDTO{
		Attrs: map[string]string{"recordType": "Account", "recordId": "001-abc"},
		Date:  "2025-07-18T10:00",
	})

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Zero(t, w.Body.Len())
}

func TestHandleDrop_DayCellProducesAllDayDraft(t *testing.T) {
	h := setupHandlerTest(t)

	w := postJSON(t, h.HandleDrop, "/api/calendar/drop", DropRequestDTO{
		Attrs: map[string]string{"recordName": "운동", "recordType": "Personal"},
		Date:  "2025-07-18",
	})

	require.Equal(t, http.StatusOK, w.Code)
	var dto EventDraftDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&dto))
	assert.True(t, dto.AllDay)
	assert.Equal(t, "Personal", dto.RelatedKind)
}

func TestCreateEvent_ValidationErrorSurfacesMessage(t *testing.T) {
	h := setupHandlerTest(t)

	w := postJSON(t, h.CreateEvent, "/api/calendar/event", EventDraftDTO{
		Start: "2025-07-18T10:00",
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "제목은 필수 입력 항목입니다.", body["error"])
}

func TestCreateEvent_ReturnsNewId(t *testing.T) {
	h := setupHandlerTest(t)

	w := postJSON(t, h.CreateEvent, "/api/calendar/event", EventDraftDTO{
		Title: "고객 미팅",
		Start: "2025-07-18T10:00",
		End:   "2025-07-18T11:00",
		Costs: []CostItemDTO{{Type: "식대", Amount: 3000}},
	})

	require.Equal(t, http.StatusCreated, w.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.NotEmpty(t, body["id"])
}
