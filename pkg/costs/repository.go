package costs

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

type Repository interface {
	MonthlyCostSummary(ctx context.Context, from, to time.Time) (map[string]int64, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

// MonthlyCostSummary sums cost amounts per type over all events starting
// within [from, to). Attribution follows the event's start.
func (r *RepositoryImpl) MonthlyCostSummary(ctx context.Context, from, to time.Time) (map[string]int64, error) {
	query := `SELECT c.cost_type, SUM(c.amount)
              FROM event_cost c
              JOIN calendar_event e ON e.id = c.event_id
              WHERE e.start_time >= $1 AND e.start_time < $2
              GROUP BY c.cost_type`

	rows, err := r.db.QueryContext(ctx, query, from.UnixMilli(), to.UnixMilli())
	if err != nil {
		err := fmt.Errorf("could not query cost summary: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	sums := make(map[string]int64)
	for rows.Next() {
		var costType string
		var amount int64
		if err := rows.Scan(&costType, &amount); err != nil {
			err := fmt.Errorf("could not scan cost summary row: %w", err)
			log.Error(err)
			return nil, err
		}
		sums[costType] = amount
	}
	return sums, rows.Err()
}
