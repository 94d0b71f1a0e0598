package reschedule

import (
	"encoding/json"
	"net/http"

	"github.com/fieldcal/fieldcal/internal/rest"
	"github.com/gorilla/mux"
)

type MoveRequestDTO struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type Handler struct {
	coordinator *Coordinator
}

func NewHandler(coordinator *Coordinator) *Handler {
	return &Handler{coordinator: coordinator}
}

// MoveEvent confirms or rejects an optimistic drag. The widget already shows
// the event at its new slot; a non-confirmed result tells it where to revert
// to. A superseded move gets no body at all.
func (h *Handler) MoveEvent(w http.ResponseWriter, r *http.Request) {
	eventId := mux.Vars(r)["eventId"]
	if eventId == "" {
		rest.WriteError(w, http.StatusBadRequest, "Missing event id", "")
		return
	}
	var req MoveRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if req.Start == "" {
		rest.WriteError(w, http.StatusBadRequest, "Missing start", "'start' is required")
		return
	}

	result := h.coordinator.Move(r.Context(), eventId, req.Start, req.End)
	if result.Superseded {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	rest.WriteJSON(w, http.StatusOK, result)
}
