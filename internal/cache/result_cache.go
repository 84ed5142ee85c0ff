package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/patenthub/backend-go/internal/logger"
	"github.com/patenthub/backend-go/internal/metrics"
	"github.com/patenthub/backend-go/internal/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultTTL 搜索结果缓存默认有效期
const DefaultTTL = 24 * time.Hour

const redisKeyPrefix = "patenthub:search_cache:"

// SearchKey 搜索缓存键：query + ":" + page。
// 大小写敏感、精确匹配，需要模糊命中时由调用方先归一化查询文本
func SearchKey(query string, page int) string {
	return fmt.Sprintf("%s:%d", query, page)
}

// ResultCache 时间盒结果缓存。
// 缓存只是优化，任何持久化错误都被吞掉：读失败当未命中，写失败当no-op。
// 过期条目在下次读取时惰性清除，没有独立的清扫进程。
type ResultCache struct {
	store repository.SearchCacheRepository
	redis *redis.Client // 可选的前置层，nil时直接走store
	ttl   time.Duration
	now   func() time.Time
}

// NewResultCache 创建结果缓存。ttl<=0时使用默认24小时
func NewResultCache(store repository.SearchCacheRepository, redisClient *redis.Client, ttl time.Duration) *ResultCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ResultCache{
		store: store,
		redis: redisClient,
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get 查询缓存。过期条目视同不存在并顺手删除，绝不返回陈旧值
func (c *ResultCache) Get(ctx context.Context, key string) (string, bool) {
	if c.redis != nil {
		value, err := c.redis.Get(ctx, redisKeyPrefix+key).Result()
		if err == nil {
			metrics.CacheLookups.WithLabelValues("hit").Inc()
			return value, true
		}
		if err != redis.Nil {
			logger.Warn("Redis cache read failed", zap.Error(err))
		}
	}

	entry, err := c.store.Get(ctx, key)
	if err != nil {
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return "", false
	}

	age := c.now().Sub(entry.CreatedAt)
	if age >= c.ttl {
		if err := c.store.Delete(ctx, key); err != nil {
			logger.Warn("Failed to purge expired cache entry", zap.String("key", key), zap.Error(err))
		}
		metrics.CacheLookups.WithLabelValues("expired").Inc()
		return "", false
	}

	metrics.CacheLookups.WithLabelValues("hit").Inc()
	return entry.Results, true
}

// Put 写入缓存（upsert，年龄归零）。失败只记日志
func (c *ResultCache) Put(ctx context.Context, key, value string) {
	if err := c.store.Put(ctx, key, value, c.now()); err != nil {
		logger.Warn("Failed to write cache entry", zap.String("key", key), zap.Error(err))
	}
	if c.redis != nil {
		if err := c.redis.Set(ctx, redisKeyPrefix+key, value, c.ttl).Err(); err != nil {
			logger.Warn("Redis cache write failed", zap.Error(err))
		}
	}
}
