package composition

import (
	"sync"

	"github.com/vektah/gqlparser/v2/ast"
)

type cacheKey struct {
	importPath string
	name       string
}

// Cache memoizes fragment closures by (import path, fragment name).
// Only complete, cycle-free closures are stored, so an entry never changes
// once written. It is safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[cacheKey][]*ast.FragmentDefinition
}

func NewCache() *Cache {
	return &Cache{
		entries: make(map[cacheKey][]*ast.FragmentDefinition),
	}
}

// Get returns a copy of the closure of name exported or defined by importPath.
func (c *Cache) Get(importPath, name string) ([]*ast.FragmentDefinition, bool) {
	return c.get(cacheKey{importPath: importPath, name: name})
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

func (c *Cache) get(key cacheKey) ([]*ast.FragmentDefinition, bool) {
	c.mu.RLock()
	closure, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	return append([]*ast.FragmentDefinition(nil), closure...), true
}

func (c *Cache) put(key cacheKey, closure []*ast.FragmentDefinition) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		// concurrent misses compute equal closures; first writer wins
		return
	}
	c.entries[key] = append([]*ast.FragmentDefinition(nil), closure...)
}
