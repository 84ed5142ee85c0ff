package models

import (
	"time"
)

// SearchCacheEntry 外部搜索结果缓存表
type SearchCacheEntry struct {
	CacheKey  string    `gorm:"primaryKey;column:cache_key;size:512" json:"cache_key"`
	Results   string    `gorm:"column:results;type:text" json:"results"` // JSON序列化结果
	CreatedAt time.Time `gorm:"column:created_at;not null" json:"created_at"`
}

func (SearchCacheEntry) TableName() string {
	return "search_cache"
}

// SearchHistory 搜索历史表
type SearchHistory struct {
	ID        uint      `gorm:"primaryKey;column:id" json:"id"`
	Query     string    `gorm:"column:query;uniqueIndex;type:text" json:"query"`
	CreatedAt time.Time `gorm:"column:created_at;not null" json:"created_at"`
}

func (SearchHistory) TableName() string {
	return "search_history"
}

// ApplicationSetting 应用设置表（系统提示词、功能开关）
type ApplicationSetting struct {
	Key   string `gorm:"primaryKey;column:key;size:128" json:"key"`
	Value string `gorm:"column:value;type:text" json:"value"`
}

func (ApplicationSetting) TableName() string {
	return "application_settings"
}
