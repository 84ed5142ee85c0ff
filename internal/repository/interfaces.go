package repository

import (
	"context"
	"time"

	"github.com/patenthub/backend-go/internal/models"
)

// PatentRepository 文档仓库接口
type PatentRepository interface {
	GetByID(ctx context.Context, id string) (*models.Patent, error)
	Upsert(ctx context.Context, patent *models.Patent) error
	UpdateFullText(ctx context.Context, id, fullText string) error
	UpdateExplanation(ctx context.Context, id, explanation string) error
	Delete(ctx context.Context, id string) error
}

// ChunkRepository 分块仓库接口。分块只会整体替换，不做部分更新
type ChunkRepository interface {
	ListByPatent(ctx context.Context, patentID string) ([]models.PatentChunk, error)
	// ReplaceAll 以delete-then-insert事务替换文档的全部分块
	ReplaceAll(ctx context.Context, patentID string, chunks []models.PatentChunk) error
	DeleteByPatent(ctx context.Context, patentID string) error
}

// SettingsRepository 应用设置仓库接口。每次调用都直接读库，修改即时生效
type SettingsRepository interface {
	Get(ctx context.Context, key string) (string, error)
	GetOrDefault(ctx context.Context, key, fallback string) string
	Set(ctx context.Context, key, value string) error
}

// ChatHistoryRepository 对话历史仓库接口
type ChatHistoryRepository interface {
	Append(ctx context.Context, msg *models.ChatMessage) error
	ListByPatent(ctx context.Context, patentID string, limit int) ([]models.ChatMessage, error)
}

// SearchCacheRepository 搜索结果缓存仓库接口
type SearchCacheRepository interface {
	Get(ctx context.Context, key string) (*models.SearchCacheEntry, error)
	Put(ctx context.Context, key, results string, createdAt time.Time) error
	Delete(ctx context.Context, key string) error
}

// SearchHistoryRepository 搜索历史仓库接口
type SearchHistoryRepository interface {
	Record(ctx context.Context, query string) error
	Recent(ctx context.Context, limit int) ([]models.SearchHistory, error)
	Clear(ctx context.Context) error
	// Trim 只保留最近max条记录
	Trim(ctx context.Context, max int) error
}
