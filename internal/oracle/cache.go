package oracle

import (
	"sync"
	"time"

	"github.com/cleanfeed/sifter/internal/model"
)

// resultCache holds oracle judgments in memory for the lifetime of the
// analyzer. Prompts are deterministic for identical inputs, so even a short
// TTL absorbs most of the repeat traffic within a batch run.
type resultCache struct {
	mu    sync.Mutex
	byKey map[string]cachedResult
	ttl   time.Duration
	done  chan struct{}
}

type cachedResult struct {
	result  model.ContextResult
	expires time.Time
}

func newResultCache(ttl time.Duration) *resultCache {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	sweep := ttl / 2
	if sweep > 5*time.Minute {
		sweep = 5 * time.Minute
	}

	c := &resultCache{
		byKey: make(map[string]cachedResult),
		ttl:   ttl,
		done:  make(chan struct{}),
	}
	go c.janitor(sweep)
	return c
}

// get evicts the entry it finds when it has expired, so hot keys do not wait
// on the janitor cadence.
func (c *resultCache) get(key string) (model.ContextResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.byKey[key]
	if !ok {
		return model.ContextResult{}, false
	}
	if time.Now().After(entry.expires) {
		delete(c.byKey, key)
		return model.ContextResult{}, false
	}
	return entry.result, true
}

func (c *resultCache) set(key string, result model.ContextResult) {
	c.mu.Lock()
	c.byKey[key] = cachedResult{result: result, expires: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

// janitor sweeps expired entries on a cadence derived from the TTL, keeping
// the map bounded during long batch runs.
func (c *resultCache) janitor(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case now := <-ticker.C:
			c.mu.Lock()
			for key, entry := range c.byKey {
				if now.After(entry.expires) {
					delete(c.byKey, key)
				}
			}
			c.mu.Unlock()
		}
	}
}

func (c *resultCache) Close() {
	close(c.done)
}
