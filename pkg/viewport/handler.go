package viewport

import (
	"errors"
	"net/http"
	"time"

	"github.com/fieldcal/fieldcal/internal/rest"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	controller *Controller
}

func NewHandler(controller *Controller) *Handler {
	return &Handler{controller: controller}
}

// ListEvents serves the calendar widget's event source. The widget always
// asks for the full visible range, so a response for an outdated range is
// answered with 204 and no body.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	fromString := r.URL.Query().Get("from")
	toString := r.URL.Query().Get("to")
	from, err := time.Parse(time.RFC3339, fromString)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid from format", "'from' must be in RFC3339 format")
		return
	}
	to, err := time.Parse(time.RFC3339, toString)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid to format", "'to' must be in RFC3339 format")
		return
	}

	events, err := h.controller.Fetch(r.Context(), Range{Start: from, End: to})
	if errors.Is(err, ErrSuperseded) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		log.Errorf("failed to fetch calendar events: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "일정을 불러오는 중 오류가 발생했습니다.", "")
		return
	}
	rest.WriteJSON(w, http.StatusOK, events)
}
