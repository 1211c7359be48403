package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/karlseguin/ccache/v3"

	"github.com/ios7jbpro/jellyfin-mass-dl/jellyfin/types"
)

// Every track fetches its own metadata more than once during a run
// (display-name fallback, extras pass, lyrics query), so item metadata
// is cached for the lifetime of the process.
var DefaultItemMetaTTL = 1 * time.Hour

type Cache struct {
	ItemsMeta ItemsMetaCache
}

func New() *Cache {
	itemsMetaCache := ccache.New(
		ccache.Configure[*types.Item]().
			MaxSize(10_000).
			GetsPerPromote(3).
			ItemsToPrune(1),
	)

	return &Cache{
		ItemsMeta: ItemsMetaCache{
			c:   itemsMetaCache,
			mux: sync.Mutex{},
		},
	}
}

type ItemsMetaCache struct {
	c   *ccache.Cache[*types.Item]
	mux sync.Mutex
}

func (c *ItemsMetaCache) Fetch(
	k string,
	ttl time.Duration,
	fetch func() (*types.Item, error),
) (*ccache.Item[*types.Item], error) {
	c.mux.Lock()
	defer c.mux.Unlock()

	v, err := c.c.Fetch(k, ttl, fetch)
	if nil != err {
		return nil, fmt.Errorf("fetch item meta: %w", err)
	}

	return v, nil
}
