package addresses

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"
)

type cacheEntry struct {
	idx     *Index
	modTime time.Time
	size    int64
}

// Cache keeps parsed indexes per path and reloads a file only when its size
// or modification time changes. Safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]cacheEntry)}
}

// Get returns the index for path, loading it if needed.
func (c *Cache) Get(path string) (*Index, error) {
	st, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDataUnavailable, path)
		}
		return nil, fmt.Errorf("stat buildings file: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[path]; ok && e.modTime.Equal(st.ModTime()) && e.size == st.Size() {
		return e.idx, nil
	}

	idx, err := Load(path)
	if err != nil {
		return nil, err
	}
	c.entries[path] = cacheEntry{idx: idx, modTime: st.ModTime(), size: st.Size()}
	return idx, nil
}
