package event

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fieldcal/fieldcal/internal/rest"
	"github.com/fieldcal/fieldcal/pkg/record"
	"github.com/fieldcal/fieldcal/pkg/vocab"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service Service
	vocab   *vocab.Service
}

func NewHandler(service Service, vocabService *vocab.Service) *Handler {
	return &Handler{service: service, vocab: vocabService}
}

type CostItemDTO struct {
	Type   string `json:"type"`
	Amount int64  `json:"amount"`
}

type EventDraftDTO struct {
	Title       string        `json:"title"`
	Start       string        `json:"start"`
	End         string        `json:"end"`
	AllDay      bool          `json:"allDay"`
	Description string        `json:"description"`
	Location    string        `json:"location"`
	Category    string        `json:"category"`
	RelatedKind string        `json:"relatedKind"`
	RelatedId   string        `json:"relatedId"`
	RelatedName string        `json:"relatedName"`
	Costs       []CostItemDTO `json:"costs"`
}

type EventDetailDTO struct {
	Id string `json:"id"`
	EventDraftDTO
}

// DropRequestDTO is the drop notification raised by the rendering widget: the
// dragged element's data attributes plus the target slot.
type DropRequestDTO struct {
	Attrs map[string]string `json:"attrs"`
	Date  string            `json:"date"`
}

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var dto EventDraftDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	id, err := h.service.Create(r.Context(), draftFromDTO(dto))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["eventId"]

	var dto EventDraftDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := h.service.Update(r.Context(), id, draftFromDTO(dto)); err != nil {
		writeServiceError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, map[string]string{"id": id})
}

func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["eventId"]

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetEventDetail(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["eventId"]

	detail, err := h.service.GetDetail(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, detailToDTO(*detail))
}

// HandleDrop consumes an external-record drop and answers with a seeded
// draft. A payload without identifying attributes comes from a non-draggable
// element: the drop is acknowledged with no content and no draft is built.
func (h *Handler) HandleDrop(w http.ResponseWriter, r *http.Request) {
	var dto DropRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	payload, ok := record.PayloadFromAttrs(dto.Attrs)
	if !ok || dto.Date == "" {
		log.Debug("ignoring drop without identifying attributes")
		w.WriteHeader(http.StatusNoContent)
		return
	}

	draft := DraftFromDrop(payload, dto.Date, h.vocab.DefaultCategory())
	rest.WriteJSON(w, http.StatusOK, draftToDTO(draft))
}

func writeServiceError(w http.ResponseWriter, err error) {
	var validation *ValidationError
	switch {
	case errors.As(err, &validation):
		rest.WriteError(w, http.StatusBadRequest, validation.Error(), "")
	case errors.Is(err, ErrEventNotFound):
		rest.WriteError(w, http.StatusNotFound, "이벤트를 찾을 수 없습니다.", "")
	default:
		rest.WriteError(w, http.StatusInternalServerError, "이벤트 처리 중 오류가 발생했습니다.", err.Error())
	}
}

func draftFromDTO(dto EventDraftDTO) EventDraft {
	costs := make([]CostLineItem, 0, len(dto.Costs))
	for _, c := range dto.Costs {
		costs = append(costs, CostLineItem{Type: c.Type, Amount: c.Amount})
	}

	var related record.RelatedRef
	kind := record.RelatedKind(dto.RelatedKind)
	if kind.Valid() && kind != record.KindPersonal && dto.RelatedId != "" {
		related = record.LinkedRef(kind, dto.RelatedId, dto.RelatedName)
	} else {
		related = record.PersonalRef()
	}

	return EventDraft{
		Title:       dto.Title,
		Start:       dto.Start,
		End:         dto.End,
		AllDay:      dto.AllDay,
		Description: dto.Description,
		Location:    dto.Location,
		Category:    dto.Category,
		Related:     related,
		Costs:       costs,
	}
}

func draftToDTO(d EventDraft) EventDraftDTO {
	costs := make([]CostItemDTO, 0, len(d.Costs))
	for _, c := range d.Costs {
		costs = append(costs, CostItemDTO{Type: c.Type, Amount: c.Amount})
	}

	dto := EventDraftDTO{
		Title:       d.Title,
		Start:       d.Start,
		End:         d.End,
		AllDay:      d.AllDay,
		Description: d.Description,
		Location:    d.Location,
		Category:    d.Category,
		Costs:       costs,
	}
	if kind, id, name, ok := d.Related.Link(); ok {
		dto.RelatedKind = string(kind)
		dto.RelatedId = id
		dto.RelatedName = name
	} else {
		dto.RelatedKind = string(record.KindPersonal)
	}
	return dto
}

func detailToDTO(d EventDetail) EventDetailDTO {
	return EventDetailDTO{
		Id: d.Id,
		EventDraftDTO: draftToDTO(EventDraft{
			Title:       d.Title,
			Start:       d.Start,
			End:         d.End,
			AllDay:      d.AllDay,
			Description: d.Description,
			Location:    d.Location,
			Category:    d.Category,
			Related:     d.Related,
			Costs:       d.Costs,
		}),
	}
}
