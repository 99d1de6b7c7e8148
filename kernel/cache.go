package kernel

import (
	"math"
	"sync"
)

// gaussianCache caches computed Gaussian kernels to avoid recomputation.
// Keys are the exact bits of the radius.
type gaussianCache struct {
	mu     sync.RWMutex
	cache  map[uint64]*Kernel
	maxLen int
}

var defaultCache = newGaussianCache(64)

func newGaussianCache(maxLen int) *gaussianCache {
	return &gaussianCache{
		cache:  make(map[uint64]*Kernel),
		maxLen: maxLen,
	}
}

// get retrieves a kernel from the cache or generates and caches it.
func (c *gaussianCache) get(radius float64) *Kernel {
	key := math.Float64bits(radius)

	c.mu.RLock()
	if k, ok := c.cache[key]; ok {
		c.mu.RUnlock()
		return k
	}
	c.mu.RUnlock()

	k := Gaussian(radius)

	c.mu.Lock()
	if len(c.cache) >= c.maxLen {
		// Drop half of the entries; map iteration order picks which.
		count := 0
		for key := range c.cache {
			delete(c.cache, key)
			count++
			if count >= c.maxLen/2 {
				break
			}
		}
	}
	c.cache[key] = k
	c.mu.Unlock()

	return k
}

func (c *gaussianCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

// CachedGaussian returns a shared Gaussian kernel for the radius.
// The returned kernel must not be modified; Clone it first if needed.
func CachedGaussian(radius float64) *Kernel {
	return defaultCache.get(radius)
}
