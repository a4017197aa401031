package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTTLCacheSetGet(t *testing.T) {
	c := NewTTLCache[string](2, time.Minute)

	c.Set("a", "1")
	c.Set("b", "2")
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	// 超出容量时淘汰最久未使用的 b
	c.Set("c", "3")
	_, ok = c.Get("b")
	assert.False(t, ok)
	assert.Equal(t, 2, c.Len())

	c.Delete("a")
	_, ok = c.Get("a")
	assert.False(t, ok)

	c.Clear()
	assert.Zero(t, c.Len())
}

func TestTTLCacheExpiry(t *testing.T) {
	c := NewTTLCache[int](10, time.Millisecond)
	c.Set("k", 42)

	time.Sleep(5 * time.Millisecond)

	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.Zero(t, c.Len())
}
