package model

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/kartoza/house-predictor/internal/features"
)

// Cached memoizes predictions of a deterministic model
type Cached struct {
	next  Model
	cache *lru.Cache[[features.Count]float64, float64]
}

// NewCached wraps m with an LRU cache holding up to size predictions.
// A size of zero or less returns m unchanged.
func NewCached(m Model, size int) (Model, error) {
	if size <= 0 {
		return m, nil
	}
	cache, err := lru.New[[features.Count]float64, float64](size)
	if err != nil {
		return nil, err
	}
	return &Cached{next: m, cache: cache}, nil
}

// Predict returns a cached value when the vector has been seen before.
// Vectors that are not exactly features.Count long bypass the cache.
func (c *Cached) Predict(ctx context.Context, fv features.FeatureVector) (float64, error) {
	key, ok := fv.Key()
	if !ok {
		return c.next.Predict(ctx, fv)
	}
	if v, hit := c.cache.Get(key); hit {
		return v, nil
	}

	v, err := c.next.Predict(ctx, fv)
	if err != nil {
		return 0, err
	}
	c.cache.Add(key, v)
	return v, nil
}

// Len returns the number of cached predictions
func (c *Cached) Len() int {
	return c.cache.Len()
}

// Info reports the wrapped model's configuration plus cache occupancy
func (c *Cached) Info() map[string]interface{} {
	info := map[string]interface{}{}
	if d, ok := c.next.(Describer); ok {
		for k, v := range d.Info() {
			info[k] = v
		}
	}
	info["cached_predictions"] = c.cache.Len()
	return info
}
