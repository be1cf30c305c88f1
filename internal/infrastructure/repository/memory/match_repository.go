package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/coach-ledger/internal/domain/match"
)

type MatchRepository struct {
	mu     sync.RWMutex
	byID   map[int64]match.Match
	byKey  map[string]int64
	nextID int64
	now    func() time.Time
}

func NewMatchRepository(seed []match.Match) *MatchRepository {
	r := &MatchRepository{
		byID:  make(map[int64]match.Match),
		byKey: make(map[string]int64),
		now:   time.Now,
	}
	for _, item := range seed {
		_, _ = r.Upsert(context.Background(), item)
	}
	return r
}

// Upsert inserts the match or replaces the stored one with the same natural key, keeping its
// id and creation time.
func (r *MatchRepository) Upsert(_ context.Context, item match.Match) (match.Match, error) {
	item.Date = match.DateOnly(item.Date)
	key := item.Key().String()

	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.byKey[key]; ok {
		existing := r.byID[id]
		item.ID = existing.ID
		item.CreatedAt = existing.CreatedAt
	} else {
		r.nextID++
		item.ID = r.nextID
		item.CreatedAt = r.now().UTC()
		r.byKey[key] = item.ID
	}

	stored := cloneMatch(item)
	r.byID[item.ID] = stored
	return cloneMatch(stored), nil
}

func (r *MatchRepository) List(_ context.Context, filter match.Filter) (match.Page, error) {
	r.mu.RLock()
	items := make([]match.Match, 0, len(r.byID))
	for _, item := range r.byID {
		if matchesFilter(item, filter) {
			items = append(items, cloneMatch(item))
		}
	}
	r.mu.RUnlock()

	sortNewestFirst(items)

	total := len(items)
	start := min(max(filter.Offset, 0), total)
	end := total
	if filter.Limit > 0 {
		end = min(start+filter.Limit, total)
	}
	return match.Page{Total: total, Items: items[start:end]}, nil
}

func (r *MatchRepository) Latest(ctx context.Context) (match.Match, bool, error) {
	page, err := r.List(ctx, match.Filter{Limit: 1})
	if err != nil || len(page.Items) == 0 {
		return match.Match{}, false, err
	}
	return page.Items[0], true, nil
}

func matchesFilter(item match.Match, filter match.Filter) bool {
	if filter.Year != nil && item.Date.Year() != *filter.Year {
		return false
	}
	if filter.Competition != "" && item.Competition != filter.Competition {
		return false
	}
	if filter.From != nil && item.Date.Before(match.DateOnly(*filter.From)) {
		return false
	}
	if filter.To != nil && item.Date.After(match.DateOnly(*filter.To)) {
		return false
	}
	return true
}

func sortNewestFirst(items []match.Match) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].Date.Equal(items[j].Date) {
			return items[i].Date.After(items[j].Date)
		}
		return items[i].ID > items[j].ID
	})
}

func cloneMatch(item match.Match) match.Match {
	item.OpponentRank = cloneInt(item.OpponentRank)
	item.OwnRank = cloneInt(item.OwnRank)
	item.Attendance = cloneInt(item.Attendance)
	item.GoalsFor = cloneInt(item.GoalsFor)
	item.GoalsAgainst = cloneInt(item.GoalsAgainst)
	return item
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
