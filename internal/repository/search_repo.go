package repository

import (
	"context"
	"strings"
	"time"

	"github.com/patenthub/backend-go/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// searchCacheRepository 搜索结果缓存仓库实现
type searchCacheRepository struct {
	db *gorm.DB
}

// NewSearchCacheRepository 创建搜索缓存仓库
func NewSearchCacheRepository(db *gorm.DB) SearchCacheRepository {
	return &searchCacheRepository{db: db}
}

// Get 读取缓存条目，不存在时返回gorm.ErrRecordNotFound
func (r *searchCacheRepository) Get(ctx context.Context, key string) (*models.SearchCacheEntry, error) {
	var entry models.SearchCacheEntry
	if err := r.db.WithContext(ctx).Where("cache_key = ?", key).First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// Put 写入缓存条目（upsert，刷新created_at）
func (r *searchCacheRepository) Put(ctx context.Context, key, results string, createdAt time.Time) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cache_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"results", "created_at"}),
	}).Create(&models.SearchCacheEntry{
		CacheKey:  key,
		Results:   results,
		CreatedAt: createdAt,
	}).Error
}

// Delete 删除缓存条目
func (r *searchCacheRepository) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Where("cache_key = ?", key).Delete(&models.SearchCacheEntry{}).Error
}

// searchHistoryRepository 搜索历史仓库实现
type searchHistoryRepository struct {
	db *gorm.DB
}

// NewSearchHistoryRepository 创建搜索历史仓库
func NewSearchHistoryRepository(db *gorm.DB) SearchHistoryRepository {
	return &searchHistoryRepository{db: db}
}

// Record 记录一次搜索（重复查询只刷新时间）
func (r *searchHistoryRepository) Record(ctx context.Context, query string) error {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "query"}},
		DoUpdates: clause.AssignmentColumns([]string{"created_at"}),
	}).Create(&models.SearchHistory{Query: query, CreatedAt: time.Now()}).Error
}

// Recent 获取最近的搜索记录
func (r *searchHistoryRepository) Recent(ctx context.Context, limit int) ([]models.SearchHistory, error) {
	if limit <= 0 {
		limit = 20
	}
	var history []models.SearchHistory
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&history).Error
	if err != nil {
		return nil, err
	}
	return history, nil
}

// Clear 清空搜索历史
func (r *searchHistoryRepository) Clear(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&models.SearchHistory{}).Error
}

// Trim 只保留最近max条
func (r *searchHistoryRepository) Trim(ctx context.Context, max int) error {
	if max <= 0 {
		return nil
	}
	return r.db.WithContext(ctx).Exec(
		"DELETE FROM search_history WHERE id NOT IN (SELECT id FROM search_history ORDER BY created_at DESC LIMIT ?)",
		max,
	).Error
}
