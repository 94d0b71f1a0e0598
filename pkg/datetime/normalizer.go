package datetime

import (
	"fmt"
	"time"
)

// Layouts of the persisted wire representation. Events are persisted as naive
// wall-clock strings that the server interprets in the configured calendar
// timezone: day-granularity events as a bare date, timed events as a minute
// resolution date-time.
const (
	DayLayout    = "2006-01-02"
	MinuteLayout = "2006-01-02T15:04"
	secondLayout = "2006-01-02T15:04:05"
)

// Granularity is the resolution an event is tracked at.
type Granularity int

const (
	Day Granularity = iota
	Minute
)

// GranularityOf derives the granularity from the shape of a persisted or
// display value.
func GranularityOf(value string) Granularity {
	if len(value) <= len(DayLayout) {
		return Day
	}
	return Minute
}

// Normalizer converts between the persisted representation and the display
// representation in both directions. It is the single place in the codebase
// where wall-clock strings and instants meet.
type Normalizer struct {
	loc *time.Location
}

func NewNormalizer(loc *time.Location) *Normalizer {
	return &Normalizer{loc: loc}
}

func (n *Normalizer) Location() *time.Location {
	return n.loc
}

// ToDisplayDate truncates a persisted value to the calendar day. A date-only
// value passes through verbatim: rebuilding it through a timestamp would let
// the timezone shift it to the neighbouring day.
func (n *Normalizer) ToDisplayDate(persisted string) string {
	if persisted == "" {
		return ""
	}
	if len(persisted) == len(DayLayout) {
		return persisted
	}
	t, err := n.parseAny(persisted)
	if err != nil {
		return ""
	}
	return t.In(n.loc).Format(DayLayout)
}

// ToDisplayDateTime converts a persisted value to local wall-clock minutes,
// truncating seconds. A naive value is already local wall clock and is only
// trimmed, never reinterpreted.
func (n *Normalizer) ToDisplayDateTime(persisted string) string {
	if persisted == "" {
		return ""
	}
	if len(persisted) == len(DayLayout) {
		return persisted + "T00:00"
	}
	if t, err := time.Parse(time.RFC3339, persisted); err == nil {
		return t.In(n.loc).Format(MinuteLayout)
	}
	if _, err := n.parseNaive(persisted); err == nil {
		return persisted[:len(MinuteLayout)]
	}
	return ""
}

// ToPersisted is the inverse of the display conversions. Display values are
// already naive local wall clock, so this is a shape adjustment only.
func (n *Normalizer) ToPersisted(display string, g Granularity) string {
	if display == "" {
		return ""
	}
	switch g {
	case Day:
		if len(display) >= len(DayLayout) {
			return display[:len(DayLayout)]
		}
		return display
	default:
		if len(display) == len(DayLayout) {
			return display + "T00:00"
		}
		if len(display) >= len(MinuteLayout) {
			return display[:len(MinuteLayout)]
		}
		return display
	}
}

// ParseInstant crosses from the persisted representation into time.Time at
// the storage boundary.
func (n *Normalizer) ParseInstant(persisted string, g Granularity) (time.Time, error) {
	if persisted == "" {
		return time.Time{}, fmt.Errorf("empty date value")
	}
	if g == Day {
		return time.ParseInLocation(DayLayout, persisted[:min(len(persisted), len(DayLayout))], n.loc)
	}
	return n.parseAny(persisted)
}

// FormatInstant crosses back from time.Time into the persisted representation.
func (n *Normalizer) FormatInstant(t time.Time, g Granularity) string {
	if t.IsZero() {
		return ""
	}
	if g == Day {
		return t.In(n.loc).Format(DayLayout)
	}
	return t.In(n.loc).Format(MinuteLayout)
}

func (n *Normalizer) parseAny(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return n.parseNaive(value)
}

func (n *Normalizer) parseNaive(value string) (time.Time, error) {
	if t, err := time.ParseInLocation(secondLayout, value, n.loc); err == nil {
		return t, nil
	}
	return time.ParseInLocation(MinuteLayout, value, n.loc)
}

// AddOneDay shifts a display date forward one day. Day-granularity events are
// persisted with an inclusive end day but displayed with an exclusive end
// boundary, so the end date gets one unit added on the way out.
func AddOneDay(date string) string {
	t, err := time.Parse(DayLayout, date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, 1).Format(DayLayout)
}

// SubOneDay is the inverse of AddOneDay, applied when an exclusive display
// end comes back in from a drag.
func SubOneDay(date string) string {
	t, err := time.Parse(DayLayout, date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, -1).Format(DayLayout)
}
