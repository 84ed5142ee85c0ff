package repository

import (
	"context"

	"github.com/patenthub/backend-go/internal/models"
	"gorm.io/gorm"
)

// chunkRepository 分块仓库实现
type chunkRepository struct {
	db *gorm.DB
}

// NewChunkRepository 创建分块仓库
func NewChunkRepository(db *gorm.DB) ChunkRepository {
	return &chunkRepository{db: db}
}

// ListByPatent 获取文档的全部分块（按插入顺序）
func (r *chunkRepository) ListByPatent(ctx context.Context, patentID string) ([]models.PatentChunk, error) {
	var chunks []models.PatentChunk
	err := r.db.WithContext(ctx).
		Where("patent_id = ?", patentID).
		Order("id ASC").
		Find(&chunks).Error
	if err != nil {
		return nil, err
	}
	return chunks, nil
}

// ReplaceAll 事务内先删后插，保证分块集合与当前全文一致
func (r *chunkRepository) ReplaceAll(ctx context.Context, patentID string, chunks []models.PatentChunk) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("patent_id = ?", patentID).Delete(&models.PatentChunk{}).Error; err != nil {
			return err
		}
		if len(chunks) == 0 {
			return nil
		}
		for i := range chunks {
			chunks[i].ID = 0
			chunks[i].PatentID = patentID
		}
		return tx.Create(&chunks).Error
	})
}

// DeleteByPatent 删除文档的全部分块
func (r *chunkRepository) DeleteByPatent(ctx context.Context, patentID string) error {
	return r.db.WithContext(ctx).Where("patent_id = ?", patentID).Delete(&models.PatentChunk{}).Error
}
