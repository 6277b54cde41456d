package service

import (
	"context"
	"path"
	"time"
)

// InstrumentedCache wraps a cache and feeds hit/miss counts to the metrics
// service. Errors other than a miss count as misses.
type InstrumentedCache struct {
	cache   identityCache
	metrics *MetricsService
}

// NewInstrumentedCache constructs an InstrumentedCache.
func NewInstrumentedCache(cache identityCache, metrics *MetricsService) *InstrumentedCache {
	return &InstrumentedCache{cache: cache, metrics: metrics}
}

func (c *InstrumentedCache) Get(ctx context.Context, key string, dest interface{}) error {
	err := c.cache.Get(ctx, key, dest)
	if c.metrics != nil {
		c.metrics.RecordCacheOperation(err == nil)
	}
	return err
}

func (c *InstrumentedCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return c.cache.Set(ctx, key, value, ttl)
}

func (c *InstrumentedCache) Delete(ctx context.Context, keys ...string) error {
	return c.cache.Delete(ctx, keys...)
}

// InstrumentedStore wraps a file store and counts stored files per category,
// where the category is the top-level directory of the stored path.
type InstrumentedStore struct {
	store   fileStore
	metrics *MetricsService
}

// NewInstrumentedStore constructs an InstrumentedStore.
func NewInstrumentedStore(store fileStore, metrics *MetricsService) *InstrumentedStore {
	return &InstrumentedStore{store: store, metrics: metrics}
}

func (s *InstrumentedStore) Save(filename string, data []byte) (string, error) {
	saved, err := s.store.Save(filename, data)
	if s.metrics != nil {
		s.metrics.RecordUpload(uploadCategory(filename), err == nil)
	}
	return saved, err
}

func (s *InstrumentedStore) Delete(filename string) error {
	return s.store.Delete(filename)
}

func uploadCategory(filename string) string {
	dir := path.Dir(filename)
	if dir == "." || dir == "/" {
		return "misc"
	}
	for {
		parent := path.Dir(dir)
		if parent == "." || parent == "/" {
			return dir
		}
		dir = parent
	}
}
