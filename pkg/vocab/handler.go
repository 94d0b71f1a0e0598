package vocab

import (
	"net/http"

	"github.com/fieldcal/fieldcal/internal/rest"
)

type Handler struct {
	service *Service
}

type VocabDTO struct {
	Categories []Option `json:"categories"`
	CostTypes  []Option `json:"costTypes"`
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetVocabularies serves both controlled vocabularies in one call; the client
// loads them once at startup.
func (h *Handler) GetVocabularies(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, VocabDTO{
		Categories: h.service.Categories(),
		CostTypes:  h.service.CostTypes(),
	})
}
