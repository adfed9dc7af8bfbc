// Package cache keeps prepared statements keyed by their final SQL text.
package cache

import (
	"container/list"
	"context"
	"database/sql"
	"sync"
	"sync/atomic"
)

// DefaultCapacity is used when a non-positive capacity is requested.
const DefaultCapacity = 256

// PrepareFunc prepares query on a connection pool.
type PrepareFunc func(ctx context.Context, query string) (*sql.Stmt, error)

// StmtCache is an LRU of prepared statements. Evicted statements are closed.
// It is safe for concurrent use.
type StmtCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]*list.Element
	order    *list.List // front is most recently used

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

type entry struct {
	query string
	stmt  *sql.Stmt
}

// New returns a cache holding at most capacity statements.
func New(capacity int) *StmtCache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &StmtCache{
		capacity: capacity,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
	}
}

func (c *StmtCache) lookup(query string) (*sql.Stmt, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.entries[query]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*entry).stmt, true
}

// Prepare returns the cached statement for query or prepares and caches a
// new one. Concurrent misses for the same query keep the first statement
// stored and close the others.
func (c *StmtCache) Prepare(ctx context.Context, query string, prepare PrepareFunc) (*sql.Stmt, error) {
	if stmt, ok := c.lookup(query); ok {
		c.hits.Add(1)
		return stmt, nil
	}
	c.misses.Add(1)

	stmt, err := prepare(ctx, query)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[query]; ok {
		_ = stmt.Close()
		c.order.MoveToFront(el)
		return el.Value.(*entry).stmt, nil
	}
	for c.order.Len() >= c.capacity {
		c.evictOldest()
	}
	c.entries[query] = c.order.PushFront(&entry{query: query, stmt: stmt})
	return stmt, nil
}

// evictOldest must be called with mu held.
func (c *StmtCache) evictOldest() {
	el := c.order.Back()
	if el == nil {
		return
	}
	e := c.order.Remove(el).(*entry)
	delete(c.entries, e.query)
	_ = e.stmt.Close()
	c.evictions.Add(1)
}

// Len returns the number of cached statements.
func (c *StmtCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Clear closes and forgets every statement.
func (c *StmtCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for el := c.order.Front(); el != nil; el = el.Next() {
		_ = el.Value.(*entry).stmt.Close()
	}
	c.entries = make(map[string]*list.Element)
	c.order.Init()
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Size      int
	Capacity  int
	Hits      uint64
	Misses    uint64
	Evictions uint64
	HitRate   float64
}

// Stats returns the current counters.
func (c *StmtCache) Stats() Stats {
	s := Stats{
		Size:      c.Len(),
		Capacity:  c.capacity,
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
	if total := s.Hits + s.Misses; total > 0 {
		s.HitRate = float64(s.Hits) / float64(total)
	}
	return s
}
