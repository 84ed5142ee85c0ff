package database

import (
	"context"
	"fmt"
	"log"

	"github.com/patenthub/backend-go/internal/config"
	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

// InitRedis 初始化Redis连接。引擎里Redis只作为搜索结果缓存的前置层，
// 未启用时返回(nil, nil)，ResultCache对nil客户端直接走数据库。
// 启用但连不上才算错误：配置了前置层就要求它可用，静默缺失难排查
func InitRedis() (*redis.Client, error) {
	cfg := config.AppConfig
	if cfg == nil {
		return nil, fmt.Errorf("config not loaded")
	}
	if !cfg.Redis.Enabled {
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		DB:   cfg.Redis.DB,
	})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	RedisClient = rdb
	log.Println("✅ Redis connected successfully")
	return rdb, nil
}

func CloseRedis() error {
	if RedisClient == nil {
		return nil
	}
	return RedisClient.Close()
}
