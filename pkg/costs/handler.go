package costs

import (
	"net/http"
	"time"

	"github.com/fieldcal/fieldcal/internal/rest"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type CostEntryDTO struct {
	Type      string `json:"type"`
	Amount    int64  `json:"amount"`
	Formatted string `json:"formatted"`
}

type CostSummaryDTO struct {
	Entries        []CostEntryDTO `json:"entries"`
	Total          int64          `json:"total"`
	TotalFormatted string         `json:"totalFormatted"`
}

type Handler struct {
	refresher *Refresher
	printer   *message.Printer
}

func NewHandler(refresher *Refresher) *Handler {
	return &Handler{
		refresher: refresher,
		printer:   message.NewPrinter(language.Korean),
	}
}

// GetSummary serves the monthly cost breakdown for the month currently on
// display, or for the month containing an explicit 'date' query parameter.
// Amounts are formatted as Korean won at this boundary only; the rest of the
// system works in plain integers.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	agg := h.refresher.Current()
	if dateString := r.URL.Query().Get("date"); dateString != "" {
		date, err := time.ParseInLocation("2006-01-02", dateString, h.refresher.Location())
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid date format", "'date' must be formatted as 2006-01-02")
			return
		}
		agg, err = h.refresher.ForMonth(r.Context(), date)
		if err != nil {
			log.Errorf("could not compute cost summary for %s: %v", dateString, err)
			rest.WriteError(w, http.StatusInternalServerError, "비용 요약을 불러오는 중 오류가 발생했습니다.", "")
			return
		}
	}

	entries := make([]CostEntryDTO, 0, len(agg.Entries))
	for _, entry := range agg.Entries {
		entries = append(entries, CostEntryDTO{
			Type:      entry.Type,
			Amount:    entry.Amount,
			Formatted: h.formatKRW(entry.Amount),
		})
	}
	rest.WriteJSON(w, http.StatusOK, CostSummaryDTO{
		Entries:        entries,
		Total:          agg.Total,
		TotalFormatted: h.formatKRW(agg.Total),
	})
}

func (h *Handler) formatKRW(amount int64) string {
	return h.printer.Sprintf("₩%d", amount)
}
