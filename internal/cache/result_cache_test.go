package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/patenthub/backend-go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memCacheRepo 内存实现，failing=true时模拟存储故障
type memCacheRepo struct {
	entries map[string]*models.SearchCacheEntry
	failing bool
	deletes int
	puts    int
}

func newMemCacheRepo() *memCacheRepo {
	return &memCacheRepo{entries: map[string]*models.SearchCacheEntry{}}
}

func (m *memCacheRepo) Get(_ context.Context, key string) (*models.SearchCacheEntry, error) {
	if m.failing {
		return nil, errors.New("storage down")
	}
	if e, ok := m.entries[key]; ok {
		copied := *e
		return &copied, nil
	}
	return nil, errors.New("record not found")
}

func (m *memCacheRepo) Put(_ context.Context, key, results string, createdAt time.Time) error {
	if m.failing {
		return errors.New("storage down")
	}
	m.puts++
	m.entries[key] = &models.SearchCacheEntry{CacheKey: key, Results: results, CreatedAt: createdAt}
	return nil
}

func (m *memCacheRepo) Delete(_ context.Context, key string) error {
	if m.failing {
		return errors.New("storage down")
	}
	m.deletes++
	delete(m.entries, key)
	return nil
}

func TestSearchKey(t *testing.T) {
	assert.Equal(t, "quantum widget:1", SearchKey("quantum widget", 1))
	// 大小写敏感，不做归一化
	assert.NotEqual(t, SearchKey("Widget", 1), SearchKey("widget", 1))
}

func TestResultCache_PutGetWithinTTL(t *testing.T) {
	repo := newMemCacheRepo()
	c := NewResultCache(repo, nil, 24*time.Hour)

	c.Put(context.Background(), "q:1", `[{"id":"p1"}]`)
	value, ok := c.Get(context.Background(), "q:1")
	require.True(t, ok)
	assert.Equal(t, `[{"id":"p1"}]`, value)
}

func TestResultCache_ExpiredEntryPurgedOnRead(t *testing.T) {
	repo := newMemCacheRepo()
	c := NewResultCache(repo, nil, 24*time.Hour)

	now := time.Now()
	c.now = func() time.Time { return now }
	c.Put(context.Background(), "q:1", "stale")

	// 过期后读取：未命中且条目被顺手删除
	c.now = func() time.Time { return now.Add(24*time.Hour + time.Minute) }
	_, ok := c.Get(context.Background(), "q:1")
	assert.False(t, ok)
	assert.Equal(t, 1, repo.deletes)
	assert.Empty(t, repo.entries)

	// 之后的put/get表现为全新写入
	c.Put(context.Background(), "q:1", "fresh")
	value, ok := c.Get(context.Background(), "q:1")
	require.True(t, ok)
	assert.Equal(t, "fresh", value)
}

func TestResultCache_ExactTTLBoundaryIsExpired(t *testing.T) {
	repo := newMemCacheRepo()
	c := NewResultCache(repo, nil, time.Hour)

	now := time.Now()
	c.now = func() time.Time { return now }
	c.Put(context.Background(), "q:1", "v")

	// age == TTL 按过期处理
	c.now = func() time.Time { return now.Add(time.Hour) }
	_, ok := c.Get(context.Background(), "q:1")
	assert.False(t, ok)
}

func TestResultCache_UpsertResetsAge(t *testing.T) {
	repo := newMemCacheRepo()
	c := NewResultCache(repo, nil, time.Hour)

	now := time.Now()
	c.now = func() time.Time { return now }
	c.Put(context.Background(), "q:1", "old")

	// 50分钟后重写，年龄归零
	c.now = func() time.Time { return now.Add(50 * time.Minute) }
	c.Put(context.Background(), "q:1", "new")

	// 原TTL点已过但距重写只有10分钟，应命中新值
	c.now = func() time.Time { return now.Add(70 * time.Minute) }
	value, ok := c.Get(context.Background(), "q:1")
	require.True(t, ok)
	assert.Equal(t, "new", value)
}

func TestResultCache_StorageErrorsAreSwallowed(t *testing.T) {
	repo := newMemCacheRepo()
	repo.failing = true
	c := NewResultCache(repo, nil, time.Hour)

	// 读写都不panic、不返回错误：缓存只是优化
	assert.NotPanics(t, func() {
		c.Put(context.Background(), "q:1", "v")
		_, ok := c.Get(context.Background(), "q:1")
		assert.False(t, ok)
	})
}
