package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/coach-ledger/internal/domain/match"
	qb "github.com/riskibarqy/coach-ledger/internal/platform/querybuilder"
)

type MatchRepository struct {
	db      *sqlx.DB
	columns []string
	now     func() time.Time
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{
		db:      db,
		columns: selectColumns(matchWriteModel{}),
		now:     time.Now,
	}
}

// Upsert locks the row with the same (competition, round, match_date), then updates it in place
// or inserts a new one. id and created_at survive replacement.
func (r *MatchRepository) Upsert(ctx context.Context, item match.Match) (match.Match, error) {
	write := newMatchWriteModel(item, r.now().UTC())

	err := withTx(ctx, r.db, nil, func(tx *sqlx.Tx) error {
		lookup, args, err := qb.Select("id").From(matchesTable).
			Where(
				qb.Eq("competition", write.Competition),
				qb.Eq("round", write.Round),
				qb.Eq("match_date", write.MatchDate),
			).
			ForUpdate().
			ToSQL()
		if err != nil {
			return fmt.Errorf("build match lookup query: %w", err)
		}

		var existingID int64
		if err := tx.GetContext(ctx, &existingID, lookup, args...); err != nil {
			if !isNotFound(err) {
				return fmt.Errorf("lookup match %s: %w", item.Key(), err)
			}
			query, args, err := qb.InsertModel(matchesTable, write, "RETURNING id, created_at")
			if err != nil {
				return fmt.Errorf("build match insert query: %w", err)
			}
			if err := tx.QueryRowxContext(ctx, query, args...).Scan(&item.ID, &item.CreatedAt); err != nil {
				return fmt.Errorf("insert match %s: %w", item.Key(), err)
			}
			return nil
		}

		query, args, err := qb.UpdateModel(matchesTable, write, []qb.Condition{qb.Eq("id", existingID)}, "RETURNING created_at")
		if err != nil {
			return fmt.Errorf("build match update query: %w", err)
		}
		item.ID = existingID
		if err := tx.QueryRowxContext(ctx, query, args...).Scan(&item.CreatedAt); err != nil {
			return fmt.Errorf("update match %d: %w", existingID, err)
		}
		return nil
	})
	if err != nil {
		return match.Match{}, err
	}

	item.Date = write.MatchDate
	item.CollectedAt = write.CollectedAt
	return item, nil
}

// List counts and pages inside one repeatable-read snapshot.
func (r *MatchRepository) List(ctx context.Context, filter match.Filter) (match.Page, error) {
	base := qb.Select(r.columns...).From(matchesTable).
		Where(matchConditions(filter)...).
		OrderBy("match_date DESC", "id DESC").
		Limit(filter.Limit).
		Offset(filter.Offset)

	countQuery, countArgs, err := base.Count().ToSQL()
	if err != nil {
		return match.Page{}, fmt.Errorf("build match count query: %w", err)
	}
	pageQuery, pageArgs, err := base.ToSQL()
	if err != nil {
		return match.Page{}, fmt.Errorf("build match list query: %w", err)
	}

	var (
		total int
		rows  []matchTableModel
	)
	err = withTx(ctx, r.db, snapshotRead, func(tx *sqlx.Tx) error {
		if err := tx.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
			return fmt.Errorf("count matches: %w", err)
		}
		if err := tx.SelectContext(ctx, &rows, pageQuery, pageArgs...); err != nil {
			return fmt.Errorf("select matches: %w", err)
		}
		return nil
	})
	if err != nil {
		return match.Page{}, err
	}

	items := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toDomain())
	}
	return match.Page{Total: total, Items: items}, nil
}

func (r *MatchRepository) Latest(ctx context.Context) (match.Match, bool, error) {
	query, args, err := qb.Select(r.columns...).From(matchesTable).
		OrderBy("match_date DESC", "id DESC").
		Limit(1).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build latest match query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("select latest match: %w", err)
	}
	return row.toDomain(), true, nil
}

func matchConditions(filter match.Filter) []qb.Condition {
	conditions := make([]qb.Condition, 0, 4)
	if filter.Year != nil {
		conditions = append(conditions, qb.Expr("EXTRACT(YEAR FROM match_date) = ?", *filter.Year))
	}
	if filter.Competition != "" {
		conditions = append(conditions, qb.Eq("competition", filter.Competition))
	}
	if filter.From != nil {
		conditions = append(conditions, qb.Gte("match_date", dateUTC(*filter.From)))
	}
	if filter.To != nil {
		conditions = append(conditions, qb.Lte("match_date", dateUTC(*filter.To)))
	}
	return conditions
}

// selectColumns lists id, the writable columns of model, then created_at.
func selectColumns(model any) []string {
	cols, err := qb.Columns(model)
	if err != nil {
		panic(fmt.Sprintf("postgres: invalid write model %T: %v", model, err))
	}
	out := make([]string, 0, len(cols)+2)
	out = append(out, "id")
	out = append(out, cols...)
	return append(out, "created_at")
}
