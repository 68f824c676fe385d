package weno

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

/*
Cache memoizes derivations by order and point set. Concurrent requests for the
same table share one derivation. Callers receive clones and may modify them.
*/
type Cache struct {
	group singleflight.Group
	mu    sync.Mutex
	items map[string]interface{}
	hits  int
}

func NewCache() *Cache {
	return &Cache{items: make(map[string]interface{})}
}

func cacheKey(op string, k int, xi []float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s/%d", op, k)
	for _, x := range xi {
		fmt.Fprintf(&b, "/%016x", math.Float64bits(x))
	}
	return b.String()
}

func (c *Cache) load(key string, derive func() (interface{}, error)) (v interface{}, err error) {
	c.mu.Lock()
	if v, ok := c.items[key]; ok {
		c.hits++
		c.mu.Unlock()
		return v, nil
	}
	c.mu.Unlock()
	v, err, _ = c.group.Do(key, func() (interface{}, error) {
		val, err := derive()
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.items[key] = val
		c.mu.Unlock()
		return val, nil
	})
	return
}

func (c *Cache) Smoothness(k int) (*Smoothness, error) {
	v, err := c.load(cacheKey("smoothness", k, nil), func() (interface{}, error) {
		return DeriveSmoothness(k)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Smoothness).Clone(), nil
}

func (c *Cache) OptimalWeights(k int, xi []float64) (*OptimalWeights, error) {
	v, err := c.load(cacheKey("weights", k, xi), func() (interface{}, error) {
		return DeriveOptimalWeights(k, xi)
	})
	if err != nil {
		return nil, err
	}
	return v.(*OptimalWeights).Clone(), nil
}

func (c *Cache) Reconstruction(k int, xi []float64) (*Reconstruction, error) {
	v, err := c.load(cacheKey("reconstruction", k, xi), func() (interface{}, error) {
		return DeriveReconstruction(k, xi)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Reconstruction).Clone(), nil
}

// Len returns the number of cached tables
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Hits returns the number of requests served without a derivation
func (c *Cache) Hits() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits
}
