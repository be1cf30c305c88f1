package tenure

import "context"

// Repository stores coaching tenures keyed by (name, start_date).
type Repository interface {
	Upsert(ctx context.Context, item Tenure) (Tenure, error)
	List(ctx context.Context) ([]Tenure, error)
	GetByID(ctx context.Context, id int64) (Tenure, bool, error)
}
