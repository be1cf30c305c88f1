package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/coach-ledger/internal/domain/match"
	"github.com/riskibarqy/coach-ledger/internal/domain/tenure"
)

type TenureRepository struct {
	mu     sync.RWMutex
	byID   map[int64]tenure.Tenure
	byKey  map[string]int64
	nextID int64
	now    func() time.Time
}

func NewTenureRepository(seed []tenure.Tenure) *TenureRepository {
	r := &TenureRepository{
		byID:  make(map[int64]tenure.Tenure),
		byKey: make(map[string]int64),
		now:   time.Now,
	}
	for _, item := range seed {
		_, _ = r.Upsert(context.Background(), item)
	}
	return r
}

func (r *TenureRepository) Upsert(_ context.Context, item tenure.Tenure) (tenure.Tenure, error) {
	item.StartDate = match.DateOnly(item.StartDate)
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

	stored := cloneTenure(item)
	r.byID[item.ID] = stored
	return cloneTenure(stored), nil
}

// List returns tenures by start date descending, then id descending.
func (r *TenureRepository) List(_ context.Context) ([]tenure.Tenure, error) {
	r.mu.RLock()
	out := make([]tenure.Tenure, 0, len(r.byID))
	for _, item := range r.byID {
		out = append(out, cloneTenure(item))
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.After(out[j].StartDate)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *TenureRepository) GetByID(_ context.Context, id int64) (tenure.Tenure, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.byID[id]
	if !ok {
		return tenure.Tenure{}, false, nil
	}
	return cloneTenure(item), true, nil
}

func cloneTenure(item tenure.Tenure) tenure.Tenure {
	item.BirthDate = cloneTime(item.BirthDate)
	item.EndDate = cloneTime(item.EndDate)
	return item
}

func cloneTime(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
