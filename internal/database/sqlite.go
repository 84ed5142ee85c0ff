package database

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/patenthub/backend-go/internal/config"
	"github.com/patenthub/backend-go/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func InitDB() (*gorm.DB, error) {
	cfg := config.AppConfig
	if cfg == nil {
		return nil, fmt.Errorf("config not loaded")
	}

	if dir := filepath.Dir(cfg.Database.Path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(cfg.Database.Path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite并发写入设置
	db.Exec("PRAGMA journal_mode = WAL")
	db.Exec("PRAGMA busy_timeout = 5000")
	db.Exec("PRAGMA foreign_keys = ON")

	if err := autoMigrate(db); err != nil {
		log.Printf("⚠️  Database migration warning: %v", err)
	}

	if err := seedDefaultSettings(db); err != nil {
		log.Printf("⚠️  Failed to seed default settings: %v", err)
	}

	DB = db
	log.Println("✅ Database connected successfully")
	return db, nil
}

// autoMigrate 自动迁移引擎相关表
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Patent{},
		&models.PatentChunk{},
		&models.ChatMessage{},
		&models.SearchCacheEntry{},
		&models.SearchHistory{},
		&models.ApplicationSetting{},
	)
}

// seedDefaultSettings 写入默认设置（已存在则跳过）
func seedDefaultSettings(db *gorm.DB) error {
	defaults := []models.ApplicationSetting{
		{Key: "ai_vector_default_on", Value: "false"},
		{Key: "system_prompt_explanation", Value: "Explain the following patent in a simple and concise way. Focus on the main innovation."},
		{Key: "system_prompt_chat", Value: "You are an AI assistant specialized in patents."},
		{Key: "system_prompt_comparison", Value: "Compare the following two documents and identify similarities and differences."},
	}
	for _, s := range defaults {
		row := s
		if err := db.Where("key = ?", s.Key).FirstOrCreate(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

func CloseDB() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
