package record

import (
	"net/http"

	"github.com/fieldcal/fieldcal/internal/rest"
)

type Handler struct {
	repo Repository
}

type RecordDTO struct {
	Id          string `json:"id"`
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	OwnerName   string `json:"ownerName,omitempty"`
	AccountName string `json:"accountName,omitempty"`
	Stage       string `json:"stage,omitempty"`
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// ListRecords serves the rows of one draggable source panel.
func (h *Handler) ListRecords(w http.ResponseWriter, r *http.Request) {
	kind := RelatedKind(r.URL.Query().Get("kind"))
	if !kind.Valid() || kind == KindPersonal {
		rest.WriteError(w, http.StatusBadRequest, "Invalid record kind",
			"'kind' must be one of Account, Contact, Opportunity")
		return
	}

	records, err := h.repo.ListRecords(r.Context(), kind)
	if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "Failed to load records", err.Error())
		return
	}

	dtos := make([]RecordDTO, 0, len(records))
	for _, rec := range records {
		dtos = append(dtos, RecordDTO{
			Id:          rec.Id,
			Name:        rec.Name,
			Kind:        string(rec.Kind),
			OwnerName:   rec.OwnerName,
			AccountName: rec.AccountName,
			Stage:       rec.Stage,
		})
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}
