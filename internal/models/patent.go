package models

import (
	"time"
)

// Patent 专利/文献文档表
type Patent struct {
	ID                string    `gorm:"primaryKey;column:id;size:64" json:"id"`
	Title             string    `gorm:"column:title;type:text" json:"title"`
	Abstract          string    `gorm:"column:abstract;type:text" json:"abstract"`
	Inventors         string    `gorm:"column:inventors;type:text" json:"inventors"` // JSON数组
	PublicationDate   string    `gorm:"column:publication_date;size:32" json:"publication_date"`
	PublicationNumber string    `gorm:"column:publication_number;size:64" json:"publication_number"`
	URL               string    `gorm:"column:url;type:text" json:"url"`
	PDFURL            string    `gorm:"column:pdf_url;type:text" json:"pdf_url"`
	PDFPath           string    `gorm:"column:pdf_path;type:text" json:"pdf_path"`
	FullText          string    `gorm:"column:full_text;type:text" json:"full_text"`
	AIExplanation     string    `gorm:"column:ai_explanation;type:text" json:"ai_explanation"`
	Source            string    `gorm:"column:source;size:64" json:"source"`
	CreatedAt         time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Patent) TableName() string {
	return "patents"
}

// PatentChunk 文档分块表，embedding为float32小端序列化
type PatentChunk struct {
	ID        uint   `gorm:"primaryKey;column:id" json:"id"`
	PatentID  string `gorm:"column:patent_id;size:64;not null;index" json:"patent_id"`
	Content   string `gorm:"column:content;type:text;not null" json:"content"`
	Embedding []byte `gorm:"column:embedding;type:blob" json:"-"`
}

func (PatentChunk) TableName() string {
	return "patent_chunks"
}
