package service

import (
	"container/list"
	"sync"
	"time"

	"PuzzleSync/internal/model"
)

// PuzzleDetailCache 谜题详情缓存：容量上限 LRU 淘汰 + TTL 惰性过期。
// 命中会刷新 lastAccessed；超过 TTL 的条目视同不存在，下次访问时顺手清掉
type PuzzleDetailCache struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	entries  map[string]*list.Element
	lru      *list.List // Front = 最近访问
	now      func() time.Time
}

type cacheEntry struct {
	puzzleID     string
	detail       *model.PuzzleDetail
	lastAccessed time.Time
}

func NewPuzzleDetailCache(capacity int, ttl time.Duration) *PuzzleDetailCache {
	return &PuzzleDetailCache{
		capacity: capacity,
		ttl:      ttl,
		entries:  make(map[string]*list.Element),
		lru:      list.New(),
		now:      time.Now,
	}
}

// Get 查询缓存。不存在或已过期返回 (nil, false)；命中时刷新访问时间并提到队首
func (c *PuzzleDetailCache) Get(puzzleID string) (*model.PuzzleDetail, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[puzzleID]
	if !ok {
		return nil, false
	}
	entry := elem.Value.(*cacheEntry)
	if c.now().Sub(entry.lastAccessed) >= c.ttl {
		// 过期条目等同不存在，顺手物理删除
		c.lru.Remove(elem)
		delete(c.entries, puzzleID)
		return nil, false
	}
	entry.lastAccessed = c.now()
	c.lru.MoveToFront(elem)
	return entry.detail, true
}

// Set 插入/覆盖条目，超出容量时淘汰最久未访问的一条
func (c *PuzzleDetailCache) Set(puzzleID string, detail *model.PuzzleDetail) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[puzzleID]; ok {
		entry := elem.Value.(*cacheEntry)
		entry.detail = detail
		entry.lastAccessed = c.now()
		c.lru.MoveToFront(elem)
		return
	}

	elem := c.lru.PushFront(&cacheEntry{
		puzzleID:     puzzleID,
		detail:       detail,
		lastAccessed: c.now(),
	})
	c.entries[puzzleID] = elem

	if c.lru.Len() > c.capacity {
		oldest := c.lru.Back()
		if oldest != nil {
			c.lru.Remove(oldest)
			delete(c.entries, oldest.Value.(*cacheEntry).puzzleID)
		}
	}
}

// Len 当前物理条目数（含未被惰性清理的过期条目）
func (c *PuzzleDetailCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}
