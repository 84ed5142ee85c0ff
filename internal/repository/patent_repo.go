package repository

import (
	"context"

	"github.com/patenthub/backend-go/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// patentRepository 文档仓库实现
type patentRepository struct {
	db *gorm.DB
}

// NewPatentRepository 创建文档仓库
func NewPatentRepository(db *gorm.DB) PatentRepository {
	return &patentRepository{db: db}
}

// GetByID 根据ID获取文档
func (r *patentRepository) GetByID(ctx context.Context, id string) (*models.Patent, error) {
	var patent models.Patent
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&patent).Error; err != nil {
		return nil, err
	}
	return &patent, nil
}

// Upsert 插入或更新文档
func (r *patentRepository) Upsert(ctx context.Context, patent *models.Patent) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(patent).Error
}

// UpdateFullText 更新文档全文
func (r *patentRepository) UpdateFullText(ctx context.Context, id, fullText string) error {
	return r.db.WithContext(ctx).Model(&models.Patent{}).
		Where("id = ?", id).
		Update("full_text", fullText).Error
}

// UpdateExplanation 更新AI解读
func (r *patentRepository) UpdateExplanation(ctx context.Context, id, explanation string) error {
	return r.db.WithContext(ctx).Model(&models.Patent{}).
		Where("id = ?", id).
		Update("ai_explanation", explanation).Error
}

// Delete 删除文档（分块随文档一起删除）
func (r *patentRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("patent_id = ?", id).Delete(&models.PatentChunk{}).Error; err != nil {
			return err
		}
		if err := tx.Where("patent_id = ?", id).Delete(&models.ChatMessage{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Patent{}).Error
	})
}
