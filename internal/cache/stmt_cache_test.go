package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*sql.DB, *countingDriver) {
	t.Helper()
	db, d, err := openCounting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, d
}

func TestNew(t *testing.T) {
	tests := []struct {
		capacity int
		want     int
	}{
		{10, 10},
		{0, DefaultCapacity},
		{-3, DefaultCapacity},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.capacity), func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.capacity).Stats().Capacity)
		})
	}
}

func TestStmtCache_Prepare(t *testing.T) {
	db, d := setup(t)
	c := New(10)
	ctx := context.Background()

	first, err := c.Prepare(ctx, "SELECT 1", db.PrepareContext)
	require.NoError(t, err)
	second, err := c.Prepare(ctx, "SELECT 1", db.PrepareContext)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int64(1), d.prepared.Load())

	s := c.Stats()
	assert.Equal(t, 1, s.Size)
	assert.Equal(t, uint64(1), s.Hits)
	assert.Equal(t, uint64(1), s.Misses)
	assert.InDelta(t, 0.5, s.HitRate, 0.001)
}

func TestStmtCache_PrepareError(t *testing.T) {
	c := New(10)
	boom := errors.New("syntax error")
	_, err := c.Prepare(context.Background(), "SELEC 1", func(context.Context, string) (*sql.Stmt, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len())
}

func TestStmtCache_Eviction(t *testing.T) {
	db, d := setup(t)
	c := New(2)
	ctx := context.Background()

	for _, q := range []string{"SELECT 1", "SELECT 2"} {
		_, err := c.Prepare(ctx, q, db.PrepareContext)
		require.NoError(t, err)
	}
	// Touch "SELECT 1" so "SELECT 2" is the least recently used.
	_, err := c.Prepare(ctx, "SELECT 1", db.PrepareContext)
	require.NoError(t, err)
	_, err = c.Prepare(ctx, "SELECT 3", db.PrepareContext)
	require.NoError(t, err)

	assert.Equal(t, 2, c.Len())
	assert.Equal(t, uint64(1), c.Stats().Evictions)
	assert.Equal(t, int64(1), d.closed.Load())

	_, err = c.Prepare(ctx, "SELECT 1", db.PrepareContext)
	require.NoError(t, err)
	assert.Equal(t, int64(3), d.prepared.Load(), "SELECT 1 is still cached")

	_, err = c.Prepare(ctx, "SELECT 2", db.PrepareContext)
	require.NoError(t, err)
	assert.Equal(t, int64(4), d.prepared.Load(), "SELECT 2 was evicted")
}

func TestStmtCache_Clear(t *testing.T) {
	db, d := setup(t)
	c := New(10)
	for i := range 3 {
		_, err := c.Prepare(context.Background(), fmt.Sprintf("SELECT %d", i), db.PrepareContext)
		require.NoError(t, err)
	}

	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, int64(3), d.closed.Load())
}

func TestStmtCache_Concurrent(t *testing.T) {
	db, _ := setup(t)
	c := New(8)
	ctx := context.Background()

	var wg sync.WaitGroup
	for g := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 50 {
				_, err := c.Prepare(ctx, fmt.Sprintf("SELECT %d", (g+i)%12), db.PrepareContext)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	s := c.Stats()
	assert.LessOrEqual(t, s.Size, 8)
	assert.Equal(t, uint64(16*50), s.Hits+s.Misses)
}
