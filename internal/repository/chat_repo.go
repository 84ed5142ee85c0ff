package repository

import (
	"context"
	"time"

	"github.com/patenthub/backend-go/internal/models"
	"gorm.io/gorm"
)

// chatHistoryRepository 对话历史仓库实现
type chatHistoryRepository struct {
	db *gorm.DB
}

// NewChatHistoryRepository 创建对话历史仓库
func NewChatHistoryRepository(db *gorm.DB) ChatHistoryRepository {
	return &chatHistoryRepository{db: db}
}

// Append 追加一条消息，按调用顺序落库
func (r *chatHistoryRepository) Append(ctx context.Context, msg *models.ChatMessage) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	return r.db.WithContext(ctx).Create(msg).Error
}

// ListByPatent 按时间正序获取文档的对话历史。
// limit>0时取最近的limit条（截掉的是最早的轮次），仍按时间正序返回
func (r *chatHistoryRepository) ListByPatent(ctx context.Context, patentID string, limit int) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	query := r.db.WithContext(ctx).Where("patent_id = ?", patentID)
	if limit > 0 {
		query = query.Order("id DESC").Limit(limit)
	} else {
		query = query.Order("id ASC")
	}
	if err := query.Find(&messages).Error; err != nil {
		return nil, err
	}
	if limit > 0 {
		for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
			messages[i], messages[j] = messages[j], messages[i]
		}
	}
	return messages, nil
}
