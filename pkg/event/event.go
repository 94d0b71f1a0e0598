package event

import (
	"github.com/fieldcal/fieldcal/pkg/datetime"
	"github.com/fieldcal/fieldcal/pkg/record"
)

// CostLineItem is one expense attached to an event. Amounts are whole KRW.
type CostLineItem struct {
	Type   string
	Amount int64
}

// EventDetail is the full persisted record of one calendar event. Start and
// End are naive local wall-clock strings; for day-granularity events End is
// the inclusive last day.
type EventDetail struct {
	Id          string
	Title       string
	Start       string
	End         string
	AllDay      bool
	Description string
	Location    string
	Category    string
	Related     record.RelatedRef
	Costs       []CostLineItem
}

// EventDraft is the immutable not-yet-persisted form of an event. It is
// passed through the mutation path by value; nothing ever mutates a caller's
// draft.
type EventDraft struct {
	Title       string
	Start       string
	End         string
	AllDay      bool
	Description string
	Location    string
	Category    string
	Related     record.RelatedRef
	Costs       []CostLineItem
}

func (d EventDraft) Granularity() datetime.Granularity {
	if d.AllDay {
		return datetime.Day
	}
	return datetime.Minute
}

// SanitizeCosts drops invalid cost rows before anything reaches the store:
// only items with a non-empty type and a positive amount are persisted.
func SanitizeCosts(items []CostLineItem) []CostLineItem {
	cleaned := make([]CostLineItem, 0, len(items))
	for _, item := range items {
		if item.Type == "" || item.Amount <= 0 {
			continue
		}
		cleaned = append(cleaned, item)
	}
	return cleaned
}

// DraftFromDrop seeds a new-event draft from a consumed drag payload and the
// drop target date. Start and end both land on the drop slot, mirroring how
// a fresh drop appears on the grid before the user edits it.
func DraftFromDrop(p record.DragPayload, dropDate string, defaultCategory string) EventDraft {
	allDay := datetime.GranularityOf(dropDate) == datetime.Day
	return EventDraft{
		Title:    p.RecordName,
		Start:    dropDate,
		End:      dropDate,
		AllDay:   allDay,
		Category: defaultCategory,
		Related:  p.Ref(),
		Costs:    []CostLineItem{},
	}
}
