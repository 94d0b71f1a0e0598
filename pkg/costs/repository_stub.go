package costs

import (
	"context"
	"time"
)

// StubRepository keeps cost rows in memory, keyed by the owning event's start
// instant.
type StubRepository struct {
	Err  error
	rows []stubRow
}

type stubRow struct {
	start    time.Time
	costType string
	amount   int64
}

func NewStubRepository() *StubRepository {
	return &StubRepository{}
}

func (s *StubRepository) Add(start time.Time, costType string, amount int64) {
	s.rows = append(s.rows, stubRow{start: start, costType: costType, amount: amount})
}

func (s *StubRepository) MonthlyCostSummary(ctx context.Context, from, to time.Time) (map[string]int64, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	sums := make(map[string]int64)
	for _, row := range s.rows {
		if row.start.Before(from) || !row.start.Before(to) {
			continue
		}
		sums[row.costType] += row.amount
	}
	return sums, nil
}
