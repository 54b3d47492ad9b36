package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLRU_Expiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewLRU[string](2, time.Minute)
	c.now = func() time.Time { return now }

	c.Set("a", "alien")
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "alien", v)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestLRU_Eviction(t *testing.T) {
	c := NewLRU[int](2, time.Hour)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	_, ok := c.Get("a")
	assert.False(t, ok, "oldest entry should be evicted")
	assert.Equal(t, 2, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestExpiring(t *testing.T) {
	c := NewExpiring[[]string](time.Hour, time.Hour)
	c.Set("trending", []string{"a", "b"})

	v, ok := c.Get("trending")
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, v)

	c.Delete("trending")
	_, ok = c.Get("trending")
	assert.False(t, ok)
}
