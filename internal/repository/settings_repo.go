package repository

import (
	"context"
	"errors"

	"github.com/patenthub/backend-go/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// settingsRepository 应用设置仓库实现
type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository 创建设置仓库
func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

// Get 读取设置值，不存在时返回gorm.ErrRecordNotFound
func (r *settingsRepository) Get(ctx context.Context, key string) (string, error) {
	var setting models.ApplicationSetting
	if err := r.db.WithContext(ctx).Where("key = ?", key).First(&setting).Error; err != nil {
		return "", err
	}
	return setting.Value, nil
}

// GetOrDefault 读取设置值，缺失或出错时返回fallback
func (r *settingsRepository) GetOrDefault(ctx context.Context, key, fallback string) string {
	value, err := r.Get(ctx, key)
	if err != nil || value == "" {
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			// 读库失败退回默认值，设置只是提示词定制，不应阻断请求
			return fallback
		}
		return fallback
	}
	return value
}

// Set 写入设置值（upsert）
func (r *settingsRepository) Set(ctx context.Context, key, value string) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&models.ApplicationSetting{Key: key, Value: value}).Error
}
