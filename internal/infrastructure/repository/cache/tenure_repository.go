package cache

import (
	"context"
	"strconv"

	"github.com/riskibarqy/coach-ledger/internal/domain/tenure"
	basecache "github.com/riskibarqy/coach-ledger/internal/platform/cache"
)

const tenureKeyPrefix = "tenure:"

// TenureRepository caches tenure reads. Writes go through to next and drop every cached tenure key.
type TenureRepository struct {
	next  tenure.Repository
	cache *basecache.Store[any]
}

func NewTenureRepository(next tenure.Repository, cache *basecache.Store[any]) *TenureRepository {
	return &TenureRepository{next: next, cache: cache}
}

func (r *TenureRepository) Upsert(ctx context.Context, item tenure.Tenure) (tenure.Tenure, error) {
	stored, err := r.next.Upsert(ctx, item)
	r.cache.DeletePrefix(ctx, tenureKeyPrefix)
	return stored, err
}

func (r *TenureRepository) List(ctx context.Context) ([]tenure.Tenure, error) {
	v, err := r.cache.GetOrLoad(ctx, tenureKeyPrefix+"list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]tenure.Tenure(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]tenure.Tenure)
	return append([]tenure.Tenure(nil), items...), nil
}

func (r *TenureRepository) GetByID(ctx context.Context, id int64) (tenure.Tenure, bool, error) {
	key := tenureKeyPrefix + "id:" + strconv.FormatInt(id, 10)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return cachedTenureByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return tenure.Tenure{}, false, err
	}

	cached, _ := v.(cachedTenureByID)
	return cached.value, cached.exists, nil
}

type cachedTenureByID struct {
	value  tenure.Tenure
	exists bool
}
