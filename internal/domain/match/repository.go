package match

import (
	"context"
	"time"
)

// Filter narrows match listings. Zero values mean "no constraint"; Limit <= 0 returns every row.
type Filter struct {
	Year        *int
	Competition string
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}

// Page is one slice of a listing together with the size of the full result set.
type Page struct {
	Total int
	Items []Match
}

// Repository stores matches keyed by (competition, round, date).
type Repository interface {
	Upsert(ctx context.Context, item Match) (Match, error)
	List(ctx context.Context, filter Filter) (Page, error)
	Latest(ctx context.Context) (Match, bool, error)
}
