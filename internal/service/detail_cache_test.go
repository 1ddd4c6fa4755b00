package service

import (
	"testing"
	"time"

	"PuzzleSync/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func detail(id string) *model.PuzzleDetail {
	return &model.PuzzleDetail{ID: id, FEN: "8/8/8/8/8/8/8/K6k w - - 0 1", Rating: 1500}
}

// newTestCache 返回挂了假时钟的缓存，时间由测试自行推进
func newTestCache(capacity int, ttl time.Duration) (*PuzzleDetailCache, *time.Time) {
	c := NewPuzzleDetailCache(capacity, ttl)
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	return c, &now
}

// TTL 内命中，TTL 一到视同不存在并被物理清掉
func TestCacheTTLExpiry(t *testing.T) {
	c, now := newTestCache(10, 24*time.Hour)

	c.Set("abc12", detail("abc12"))

	*now = now.Add(23*time.Hour + 59*time.Minute)
	got, ok := c.Get("abc12")
	require.True(t, ok)
	assert.Equal(t, "abc12", got.ID)

	// 刚才的命中刷新了访问时间，再过24小时才过期
	*now = now.Add(24 * time.Hour)
	_, ok = c.Get("abc12")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len(), "过期条目应被物理删除")
}

// 过期从最后一次访问起算，未被访问的条目满24小时即失效
func TestCacheTTLCountsFromLastAccess(t *testing.T) {
	c, now := newTestCache(10, 24*time.Hour)

	c.Set("idle1", detail("idle1"))
	*now = now.Add(24 * time.Hour)

	_, ok := c.Get("idle1")
	assert.False(t, ok)
}

// 容量满后淘汰最久未访问的条目，被 Get 过的条目幸存
func TestCacheLRUEviction(t *testing.T) {
	c, _ := newTestCache(2, 24*time.Hour)

	c.Set("old", detail("old"))
	c.Set("mid", detail("mid"))

	// 访问 old，使 mid 成为最久未访问
	_, ok := c.Get("old")
	require.True(t, ok)

	c.Set("new", detail("new"))
	assert.Equal(t, 2, c.Len())

	_, ok = c.Get("mid")
	assert.False(t, ok, "最久未访问的条目应被淘汰")
	_, ok = c.Get("old")
	assert.True(t, ok)
	_, ok = c.Get("new")
	assert.True(t, ok)
}

// 覆盖已有键不增加条目数，且提到队首
func TestCacheSetOverwritesInPlace(t *testing.T) {
	c, _ := newTestCache(2, 24*time.Hour)

	c.Set("a", detail("a"))
	c.Set("b", detail("b"))
	c.Set("a", &model.PuzzleDetail{ID: "a", Rating: 2000})
	require.Equal(t, 2, c.Len())

	// a 刚被覆盖提到队首，塞入第三条时淘汰的是 b
	c.Set("c", detail("c"))
	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 2000, got.Rating)
	_, ok = c.Get("b")
	assert.False(t, ok)
}

func TestCacheMissOnUnknownKey(t *testing.T) {
	c, _ := newTestCache(2, 24*time.Hour)

	_, ok := c.Get("nope")
	assert.False(t, ok)
}
