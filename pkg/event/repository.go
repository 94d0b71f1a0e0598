package event

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fieldcal/fieldcal/pkg/datetime"
	"github.com/fieldcal/fieldcal/pkg/record"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var ErrEventNotFound = errors.New("event not found")

type Repository interface {
	FetchEvents(ctx context.Context, from, to time.Time) ([]EventDetail, error)
	FetchEventDetail(ctx context.Context, id string) (*EventDetail, error)
	StoreEvent(ctx context.Context, draft EventDraft, start, end time.Time) (string, error)
	UpdateEvent(ctx context.Context, id string, draft EventDraft, start, end time.Time) error
	UpdateEventDates(ctx context.Context, id string, start, end time.Time) error
	DeleteEvent(ctx context.Context, id string) error
}

type RepositoryImpl struct {
	db   *sql.DB
	norm *datetime.Normalizer
}

func NewRepository(db *sql.DB, norm *datetime.Normalizer) *RepositoryImpl {
	return &RepositoryImpl{db: db, norm: norm}
}

func (r *RepositoryImpl) FetchEvents(ctx context.Context, from, to time.Time) ([]EventDetail, error) {
	// All events overlapping the half-open period [from, to): started before
	// the period ends and still running at its start. Day events persist
	// their inclusive last day at midnight, so an end equal to the period
	// start still occupies its first day.
	query := `SELECT id, title, start_time, end_time, all_day, category
              FROM calendar_event
              WHERE start_time < $1 AND (end_time > $2 OR (all_day AND end_time = $2))
              ORDER BY start_time`

	rows, err := r.db.QueryContext(ctx, query, to.UnixMilli(), from.UnixMilli())
	if err != nil {
		err := fmt.Errorf("could not query calendar events: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	events := make([]EventDetail, 0, 10)
	for rows.Next() {
		var d EventDetail
		var startMillis, endMillis int64
		if err := rows.Scan(&d.Id, &d.Title, &startMillis, &endMillis, &d.AllDay, &d.Category); err != nil {
			err := fmt.Errorf("could not scan row: %w", err)
			log.Error(err)
			return nil, err
		}
		g := granularityOf(d.AllDay)
		d.Start = r.norm.FormatInstant(time.UnixMilli(startMillis), g)
		d.End = r.norm.FormatInstant(time.UnixMilli(endMillis), g)
		events = append(events, d)
	}
	return events, rows.Err()
}

func (r *RepositoryImpl) FetchEventDetail(ctx context.Context, id string) (*EventDetail, error) {
	query := `SELECT id, title, start_time, end_time, all_day, description, location, category,
                     related_kind, related_id, related_name
              FROM calendar_event
              WHERE id = $1`

	var d EventDetail
	var startMillis, endMillis int64
	var description, location, relatedKind, relatedId, relatedName sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&d.Id, &d.Title, &startMillis, &endMillis, &d.AllDay,
		&description, &location, &d.Category,
		&relatedKind, &relatedId, &relatedName,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		err := fmt.Errorf("could not query event detail: %w", err)
		log.Error(err)
		return nil, err
	}

	g := granularityOf(d.AllDay)
	d.Start = r.norm.FormatInstant(time.UnixMilli(startMillis), g)
	d.End = r.norm.FormatInstant(time.UnixMilli(endMillis), g)
	d.Description = description.String
	d.Location = location.String
	if relatedKind.Valid && relatedKind.String != string(record.KindPersonal) {
		d.Related = record.LinkedRef(record.RelatedKind(relatedKind.String), relatedId.String, relatedName.String)
	} else {
		d.Related = record.PersonalRef()
	}

	costs, err := r.fetchCosts(ctx, id)
	if err != nil {
		return nil, err
	}
	d.Costs = costs

	return &d, nil
}

func (r *RepositoryImpl) fetchCosts(ctx context.Context, eventId string) ([]CostLineItem, error) {
	query := `SELECT cost_type, amount FROM event_cost WHERE event_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, eventId)
	if err != nil {
		err := fmt.Errorf("could not query event costs: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	costs := make([]CostLineItem, 0, 4)
	for rows.Next() {
		var item CostLineItem
		if err := rows.Scan(&item.Type, &item.Amount); err != nil {
			err := fmt.Errorf("could not scan cost row: %w", err)
			log.Error(err)
			return nil, err
		}
		costs = append(costs, item)
	}
	return costs, rows.Err()
}

// StoreEvent persists the event and its cost items in one transaction.
func (r *RepositoryImpl) StoreEvent(ctx context.Context, draft EventDraft, start, end time.Time) (string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(tx)

	id := uuid.New().String()
	kind, relatedId, relatedName := relatedColumns(draft)

	query := `INSERT INTO calendar_event
                (id, title, start_time, end_time, all_day, description, location, category,
                 related_kind, related_id, related_name)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err = tx.ExecContext(ctx, query, id, draft.Title, start.UnixMilli(), end.UnixMilli(),
		draft.AllDay, draft.Description, draft.Location, draft.Category, kind, relatedId, relatedName)
	if err != nil {
		err := fmt.Errorf("could not insert event: %w", err)
		log.Error(err)
		return "", err
	}

	if err := insertCosts(ctx, tx, id, draft.Costs); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit transaction: %w", err)
	}
	return id, nil
}

// UpdateEvent replaces the event fields and its entire cost list in one
// transaction.
func (r *RepositoryImpl) UpdateEvent(ctx context.Context, id string, draft EventDraft, start, end time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(tx)

	kind, relatedId, relatedName := relatedColumns(draft)

	query := `UPDATE calendar_event
              SET title = $1, start_time = $2, end_time = $3, all_day = $4, description = $5,
                  location = $6, category = $7, related_kind = $8, related_id = $9, related_name = $10
              WHERE id = $11`
	res, err := tx.ExecContext(ctx, query, draft.Title, start.UnixMilli(), end.UnixMilli(),
		draft.AllDay, draft.Description, draft.Location, draft.Category, kind, relatedId, relatedName, id)
	if err != nil {
		err := fmt.Errorf("could not update event: %w", err)
		log.Error(err)
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrEventNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM event_cost WHERE event_id = $1`, id); err != nil {
		err := fmt.Errorf("could not clear event costs: %w", err)
		log.Error(err)
		return err
	}
	if err := insertCosts(ctx, tx, id, draft.Costs); err != nil {
		return err
	}

	return tx.Commit()
}

// UpdateEventDates is the narrow reschedule path: it touches nothing but the
// two timestamps.
func (r *RepositoryImpl) UpdateEventDates(ctx context.Context, id string, start, end time.Time) error {
	query := `UPDATE calendar_event SET start_time = $1, end_time = $2 WHERE id = $3`
	res, err := r.db.ExecContext(ctx, query, start.UnixMilli(), end.UnixMilli(), id)
	if err != nil {
		err := fmt.Errorf("could not update event dates: %w", err)
		log.Error(err)
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrEventNotFound
	}
	return nil
}

func (r *RepositoryImpl) DeleteEvent(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM calendar_event WHERE id = $1`, id)
	if err != nil {
		err := fmt.Errorf("could not delete event: %w", err)
		log.Error(err)
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrEventNotFound
	}
	return nil
}

func insertCosts(ctx context.Context, tx *sql.Tx, eventId string, costs []CostLineItem) error {
	for _, item := range costs {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO event_cost (event_id, cost_type, amount) VALUES ($1, $2, $3)`,
			eventId, item.Type, item.Amount)
		if err != nil {
			err := fmt.Errorf("could not insert cost item: %w", err)
			log.Error(err)
			return err
		}
	}
	return nil
}

func relatedColumns(draft EventDraft) (kind, id, name sql.NullString) {
	if linkKind, linkId, linkName, ok := draft.Related.Link(); ok {
		return sql.NullString{String: string(linkKind), Valid: true},
			sql.NullString{String: linkId, Valid: true},
			sql.NullString{String: linkName, Valid: true}
	}
	return sql.NullString{String: string(record.KindPersonal), Valid: true}, sql.NullString{}, sql.NullString{}
}

func granularityOf(allDay bool) datetime.Granularity {
	if allDay {
		return datetime.Day
	}
	return datetime.Minute
}

func rollback(tx *sql.Tx) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		log.Errorf("rollback error: %v", err)
	}
}
