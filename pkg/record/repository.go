package record

import (
	"context"
	"database/sql"
	"fmt"

	log "github.com/sirupsen/logrus"
)

type Repository interface {
	ListRecords(ctx context.Context, kind RelatedKind) ([]Record, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) ListRecords(ctx context.Context, kind RelatedKind) ([]Record, error) {
	query := `SELECT id, name, kind, owner_name, account_name, stage
              FROM source_record
              WHERE kind = $1
              ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, string(kind))
	if err != nil {
		err := fmt.Errorf("could not query source records: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	records := make([]Record, 0, 10)
	for rows.Next() {
		var rec Record
		var kindStr string
		var owner, account, stage sql.NullString
		if err := rows.Scan(&rec.Id, &rec.Name, &kindStr, &owner, &account, &stage); err != nil {
			err := fmt.Errorf("could not scan row: %w", err)
			log.Error(err)
			return nil, err
		}
		rec.Kind = RelatedKind(kindStr)
		rec.OwnerName = owner.String
		rec.AccountName = account.String
		rec.Stage = stage.String
		records = append(records, rec)
	}
	return records, rows.Err()
}
