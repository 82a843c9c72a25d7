package inmemory

import (
	"time"

	familydomain "family-album-go/internal/domain/family"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	familyCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "album_family_cache_hits_total",
		Help: "Family lookups served from the in-process cache",
	})
	familyCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "album_family_cache_misses_total",
		Help: "Family lookups that fell through to the database",
	})
)

const (
	defaultCacheSize = 10000
	defaultCacheTTL  = 10 * time.Minute
)

// FamilyCache keeps family records in a bounded LRU. Callers get copies.
type FamilyCache struct {
	items *expirable.LRU[string, familydomain.Family]
}

func NewFamilyCache(size int, ttl time.Duration) *FamilyCache {
	if size <= 0 {
		size = defaultCacheSize
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &FamilyCache{items: expirable.NewLRU[string, familydomain.Family](size, nil, ttl)}
}

func (c *FamilyCache) Get(familyID string) (*familydomain.Family, bool) {
	family, ok := c.items.Get(familyID)
	if !ok {
		familyCacheMisses.Inc()
		return nil, false
	}
	familyCacheHits.Inc()
	return &family, true
}

func (c *FamilyCache) Set(family *familydomain.Family) {
	if family == nil || family.ID == "" {
		return
	}
	c.items.Add(family.ID, *family)
}

func (c *FamilyCache) Len() int {
	return c.items.Len()
}
