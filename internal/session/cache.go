package session

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"cmdpal/internal/domain"
)

// processCache holds the raw running-process list for a short freshness
// window so repeated keystrokes while typing a process name don't hammer
// the system. Invalidation is by elapsed time only; the session is the
// sole owner and all access happens on the event loop.
type processCache struct {
	lru *expirable.LRU[string, []domain.Process]
}

const processCacheKey = "procs"

func newProcessCache(ttl time.Duration) *processCache {
	return &processCache{
		lru: expirable.NewLRU[string, []domain.Process](1, nil, ttl),
	}
}

func (c *processCache) get() ([]domain.Process, bool) {
	return c.lru.Get(processCacheKey)
}

func (c *processCache) put(procs []domain.Process) {
	c.lru.Add(processCacheKey, procs)
}
