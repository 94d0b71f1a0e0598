package event_bus

import "time"

// ViewportChangedData carries the new visible range.
type ViewportChangedData struct {
	Start time.Time
	End   time.Time
}

// MutationData identifies the event a successful create/update/delete touched.
type MutationData struct {
	EventId string
	// Start of the affected event in persisted form, used by listeners that
	// only care about one month.
	Start string
}

// MoveSucceededData confirms a drag-to-reschedule.
type MoveSucceededData struct {
	EventId string
	Message string
}

// MoveFailedData instructs the widget to restore the exact pre-drag position.
type MoveFailedData struct {
	EventId     string
	RevertStart string
	RevertEnd   string
	Message     string
}

// FetchFailedData carries the user-visible message for a failed range fetch.
type FetchFailedData struct {
	Message string
}
