package costs

import "sort"

// Entry is one cost type's monthly sum in whole KRW.
type Entry struct {
	Type   string
	Amount int64
}

// Aggregate is the per-type breakdown plus grand total for one month.
type Aggregate struct {
	Entries []Entry
	Total   int64
}

// NewAggregate builds a deterministic aggregate from a per-type sum map.
// Entries are ordered by type label so the breakdown renders stably.
func NewAggregate(sums map[string]int64) Aggregate {
	entries := make([]Entry, 0, len(sums))
	var total int64
	for costType, amount := range sums {
		entries = append(entries, Entry{Type: costType, Amount: amount})
		total += amount
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Type < entries[j].Type
	})
	return Aggregate{Entries: entries, Total: total}
}
