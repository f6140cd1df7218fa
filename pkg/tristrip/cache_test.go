package tristrip

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVertexCache(t *testing.T) {
	c := NewVertexCache(3)
	assert.Equal(t, 3, c.Size())
	assert.False(t, c.InCache(1))

	assert.Equal(t, -1, c.AddEntry(1))
	assert.Equal(t, -1, c.AddEntry(2))
	assert.Equal(t, -1, c.AddEntry(3))
	assert.True(t, c.InCache(1))
	assert.Equal(t, 3, c.At(0), "newest entry is first")
	assert.Equal(t, 1, c.At(2))

	assert.Equal(t, 1, c.AddEntry(4), "oldest entry is evicted")
	assert.False(t, c.InCache(1))
	assert.True(t, c.InCache(4))
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, -1, c.At(5))

	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.False(t, c.InCache(4))
}

func TestVertexCacheZeroSize(t *testing.T) {
	c := NewVertexCache(0)
	assert.Equal(t, -1, c.AddEntry(7))
	assert.False(t, c.InCache(7))
	assert.False(t, c.touch(7))
	assert.False(t, c.touch(7), "a zero sized cache never hits")

	assert.Equal(t, 0, NewVertexCache(-4).Size())
}

func TestVertexCacheTouch(t *testing.T) {
	c := NewVertexCache(DefaultVertexCacheSize)
	assert.False(t, c.touch(5))
	assert.True(t, c.touch(5))
	assert.Equal(t, 1, c.Len(), "hits do not duplicate entries")
}
