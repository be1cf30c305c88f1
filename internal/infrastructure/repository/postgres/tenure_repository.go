package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/coach-ledger/internal/domain/tenure"
	qb "github.com/riskibarqy/coach-ledger/internal/platform/querybuilder"
)

type TenureRepository struct {
	db      *sqlx.DB
	columns []string
	now     func() time.Time
}

func NewTenureRepository(db *sqlx.DB) *TenureRepository {
	return &TenureRepository{
		db:      db,
		columns: selectColumns(tenureWriteModel{}),
		now:     time.Now,
	}
}

// Upsert keys on (name, start_date); a later run supplying end_date closes an open tenure.
func (r *TenureRepository) Upsert(ctx context.Context, item tenure.Tenure) (tenure.Tenure, error) {
	write := newTenureWriteModel(item, r.now().UTC())

	err := withTx(ctx, r.db, nil, func(tx *sqlx.Tx) error {
		lookup, args, err := qb.Select("id").From(tenuresTable).
			Where(
				qb.Eq("name", write.Name),
				qb.Eq("start_date", write.StartDate),
			).
			ForUpdate().
			ToSQL()
		if err != nil {
			return fmt.Errorf("build tenure lookup query: %w", err)
		}

		var existingID int64
		if err := tx.GetContext(ctx, &existingID, lookup, args...); err != nil {
			if !isNotFound(err) {
				return fmt.Errorf("lookup tenure %s: %w", item.Key(), err)
			}
			query, args, err := qb.InsertModel(tenuresTable, write, "RETURNING id, created_at")
			if err != nil {
				return fmt.Errorf("build tenure insert query: %w", err)
			}
			if err := tx.QueryRowxContext(ctx, query, args...).Scan(&item.ID, &item.CreatedAt); err != nil {
				return fmt.Errorf("insert tenure %s: %w", item.Key(), err)
			}
			return nil
		}

		query, args, err := qb.UpdateModel(tenuresTable, write, []qb.Condition{qb.Eq("id", existingID)}, "RETURNING created_at")
		if err != nil {
			return fmt.Errorf("build tenure update query: %w", err)
		}
		item.ID = existingID
		if err := tx.QueryRowxContext(ctx, query, args...).Scan(&item.CreatedAt); err != nil {
			return fmt.Errorf("update tenure %d: %w", existingID, err)
		}
		return nil
	})
	if err != nil {
		return tenure.Tenure{}, err
	}

	item.StartDate = write.StartDate
	item.CollectedAt = write.CollectedAt
	return item, nil
}

func (r *TenureRepository) List(ctx context.Context) ([]tenure.Tenure, error) {
	query, args, err := qb.Select(r.columns...).From(tenuresTable).
		OrderBy("start_date DESC", "id DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build tenure list query: %w", err)
	}

	var rows []tenureTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select tenures: %w", err)
	}

	out := make([]tenure.Tenure, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *TenureRepository) GetByID(ctx context.Context, id int64) (tenure.Tenure, bool, error) {
	query, args, err := qb.Select(r.columns...).From(tenuresTable).
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return tenure.Tenure{}, false, fmt.Errorf("build tenure by id query: %w", err)
	}

	var row tenureTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return tenure.Tenure{}, false, nil
		}
		return tenure.Tenure{}, false, fmt.Errorf("select tenure %d: %w", id, err)
	}
	return row.toDomain(), true, nil
}
