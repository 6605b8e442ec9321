package cache

import (
	"context"
	"sync"
	"time"

	"github.com/markdave123-py/covidsearch/internal/core"
	"github.com/markdave123-py/covidsearch/internal/models"
)

// MemoryFacetCache keeps the last facet aggregation in process for ttl.
type MemoryFacetCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	facets  *models.Facets
	expires time.Time
}

var _ core.FacetCache = (*MemoryFacetCache)(nil)

func NewMemoryFacetCache(ttl time.Duration) *MemoryFacetCache {
	return &MemoryFacetCache{ttl: ttl, now: time.Now}
}

func (c *MemoryFacetCache) Get(_ context.Context) (*models.Facets, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.facets == nil || !c.now().Before(c.expires) {
		return nil, false, nil
	}
	return c.facets, true, nil
}

func (c *MemoryFacetCache) Set(_ context.Context, facets *models.Facets) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.facets = facets
	c.expires = c.now().Add(c.ttl)
	return nil
}
