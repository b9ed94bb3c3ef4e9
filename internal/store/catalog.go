package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/gdg-garage/conference-registration-api/internal/forms"
	"github.com/gdg-garage/conference-registration-api/internal/models"
	gocache "github.com/patrickmn/go-cache"
)

const (
	keyActiveFields     = "active_fields"
	keyActiveRegions    = "active_regions"
	keyActiveMinistries = "active_ministries"
)

// Catalog caches the active reference data the public form reads on every
// request. Any admin write through the underlying Store flushes it.
type Catalog struct {
	store *Store
	cache *gocache.Cache

	// generation counts invalidations; a load that saw an older one is not
	// cached.
	mu         sync.Mutex
	generation uint64
}

func NewCatalog(s *Store, ttl time.Duration) *Catalog {
	if ttl <= 0 {
		ttl = time.Minute
	}
	c := &Catalog{store: s, cache: gocache.New(ttl, 2*ttl)}
	s.OnChange(c.Invalidate)
	return c
}

func (c *Catalog) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.cache.Flush()
}

func cached[V any](c *Catalog, key string, load func() ([]V, error)) ([]V, error) {
	if v, found := c.cache.Get(key); found {
		if items, ok := v.([]V); ok {
			return slices.Clone(items), nil
		}
	}
	c.mu.Lock()
	generation := c.generation
	c.mu.Unlock()

	items, err := load()
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	if c.generation == generation {
		c.cache.Set(key, items, gocache.DefaultExpiration)
	}
	c.mu.Unlock()
	return slices.Clone(items), nil
}

func (c *Catalog) ActiveFields(ctx context.Context) ([]forms.Definition, error) {
	return cached(c, keyActiveFields, func() ([]forms.Definition, error) {
		return c.store.ActiveFields(ctx)
	})
}

func (c *Catalog) ActiveRegions(ctx context.Context) ([]models.Region, error) {
	return cached(c, keyActiveRegions, func() ([]models.Region, error) {
		return c.store.ActiveRegions(ctx)
	})
}

func (c *Catalog) ActiveMinistries(ctx context.Context) ([]models.Ministry, error) {
	return cached(c, keyActiveMinistries, func() ([]models.Ministry, error) {
		return c.store.ActiveMinistries(ctx)
	})
}
