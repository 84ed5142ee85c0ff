package models

import (
	"time"
)

// ChatMessage 文档对话历史表
type ChatMessage struct {
	ID        uint      `gorm:"primaryKey;column:id" json:"id"`
	PatentID  string    `gorm:"column:patent_id;size:64;not null;index" json:"patent_id"`
	Role      string    `gorm:"column:role;size:20;not null" json:"role"` // user, assistant
	Content   string    `gorm:"column:content;type:text;not null" json:"content"`
	Model     string    `gorm:"column:model;size:128" json:"model,omitempty"` // assistant消息实际使用的模型
	CreatedAt time.Time `gorm:"column:created_at;not null;index" json:"created_at"`
}

func (ChatMessage) TableName() string {
	return "chat_history"
}
