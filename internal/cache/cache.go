// Package cache holds the most recent analysis result for each open tab.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"toxshield/internal/models"
)

// ErrCorrupt is returned when a stored record cannot be decoded.
var ErrCorrupt = errors.New("corrupt cache entry")

// Backend is the key-value store the cache writes through. Get returns
// nil, nil for a missing key.
type Backend interface {
	Get(key string) ([]byte, error)
	Set(key string, val []byte, exp time.Duration) error
	Delete(key string) error
	Reset() error
}

// Cache maps tab ids to their latest result. Writes are single-key overwrites:
// the last write for a tab wins.
type Cache struct {
	backend Backend

	mu   sync.Mutex
	tabs map[models.TabID]struct{}
}

// New creates a cache over backend and clears any entries it already holds,
// so every coordinator lifetime starts empty.
func New(backend Backend) (*Cache, error) {
	if err := backend.Reset(); err != nil {
		return nil, fmt.Errorf("reset cache backend: %w", err)
	}
	return &Cache{
		backend: backend,
		tabs:    make(map[models.TabID]struct{}),
	}, nil
}

// NewMemory creates a cache over a fresh in-memory backend.
func NewMemory() *Cache {
	c, _ := New(NewMemoryBackend())
	return c
}

func key(tab models.TabID) string {
	return "tab:" + tab.String()
}

// Put creates or overwrites the entry for tab.
func (c *Cache) Put(tab models.TabID, result models.AnalysisResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode result for tab %s: %w", tab, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.backend.Set(key(tab), data, 0); err != nil {
		return fmt.Errorf("store result for tab %s: %w", tab, err)
	}
	c.tabs[tab] = struct{}{}
	return nil
}

// Get returns the entry for tab. found is false when the tab has never
// completed an analysis or has been closed.
func (c *Cache) Get(tab models.TabID) (result models.AnalysisResult, found bool, err error) {
	data, err := c.backend.Get(key(tab))
	if err != nil {
		return models.AnalysisResult{}, false, fmt.Errorf("load result for tab %s: %w", tab, err)
	}
	if data == nil {
		return models.AnalysisResult{}, false, nil
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return models.AnalysisResult{}, false, fmt.Errorf("%w: tab %s: %v", ErrCorrupt, tab, err)
	}
	return result, true, nil
}

// Delete removes the entry for tab. Deleting a missing entry is not an error.
func (c *Cache) Delete(tab models.TabID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.backend.Delete(key(tab)); err != nil {
		return fmt.Errorf("delete result for tab %s: %w", tab, err)
	}
	delete(c.tabs, tab)
	return nil
}

// Len returns the number of tabs with a cached result.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tabs)
}

// Tabs returns the ids with a cached result in ascending order.
func (c *Cache) Tabs() []models.TabID {
	c.mu.Lock()
	out := make([]models.TabID, 0, len(c.tabs))
	for id := range c.tabs {
		out = append(out, id)
	}
	c.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
