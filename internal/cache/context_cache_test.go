package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextCache_SetGet(t *testing.T) {
	c := NewContextCache(time.Minute, 10)

	c.Set("k", "v")
	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", got)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestContextCache_TTLExpiry(t *testing.T) {
	c := NewContextCache(30*time.Millisecond, 10)

	c.Set("k", 42)
	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, 42, got)

	time.Sleep(50 * time.Millisecond)

	_, ok = c.Get("k")
	assert.False(t, ok, "expired entry should return miss")

	// The expired read removes the key; the cache no longer accounts for it.
	assert.Equal(t, 0, c.Len())
	_, ok = c.Get("k")
	assert.False(t, ok)
}

func TestContextCache_EvictionAtCapacity(t *testing.T) {
	c := NewContextCache(time.Minute, 3)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)
	c.Set("d", 4) // evicts "a", the earliest-inserted entry

	_, ok := c.Get("a")
	assert.False(t, ok, "oldest entry should have been evicted")

	for _, key := range []string{"b", "c", "d"} {
		_, ok := c.Get(key)
		assert.True(t, ok, "entry %q should survive", key)
	}
	assert.Equal(t, 3, c.Len())
}

func TestContextCache_SizeNeverExceedsMax(t *testing.T) {
	c := NewContextCache(time.Minute, 5)

	for i := 0; i < 20; i++ {
		c.Set(fmt.Sprintf("key-%d", i), i)
		assert.LessOrEqual(t, c.Len(), 5)
	}
}

func TestContextCache_OverwriteDoesNotEvict(t *testing.T) {
	c := NewContextCache(time.Minute, 2)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("b", 3) // replace, not insert

	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, got)
	got, ok = c.Get("b")
	require.True(t, ok)
	assert.Equal(t, 3, got)
}

func TestContextCache_DeleteAndClear(t *testing.T) {
	c := NewContextCache(time.Minute, 10)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Delete("a")
	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Clear()
	assert.Equal(t, 0, c.Len())
	_, ok = c.Get("b")
	assert.False(t, ok)
}

func TestContextCache_Stats(t *testing.T) {
	c := NewContextCache(time.Minute, 10)
	c.Set("a", 1)

	stats := c.Stats()
	assert.Equal(t, 1, stats["total_entries"])
	assert.Equal(t, 1, stats["valid_entries"])
	assert.Equal(t, 0, stats["expired_entries"])
}
