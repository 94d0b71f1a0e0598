package viewport

import "time"

// Range is the half-open [Start, End) date range currently visible on the
// grid. It changes on every prev/next/today navigation and view-mode switch.
type Range struct {
	Start time.Time
	End   time.Time
}

// Midpoint returns the instant halfway through the range. A viewport
// spanning a month boundary is attributed to the month most visible, which
// is the month containing the midpoint.
func (r Range) Midpoint() time.Time {
	return r.Start.Add(r.End.Sub(r.Start) / 2)
}

// CalendarEvent is the display model handed to the rendering widget. Start
// and End are display-local strings; for all-day events End is exclusive,
// one day past the last included day.
type CalendarEvent struct {
	Id       string `json:"id"`
	Title    string `json:"title"`
	Start    string `json:"start"`
	End      string `json:"end"`
	AllDay   bool   `json:"allDay"`
	Category string `json:"category"`
}
