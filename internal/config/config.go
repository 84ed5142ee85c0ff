package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	AI        AIConfig
	Embedding EmbeddingConfig
	Knowledge KnowledgeConfig
	Search    SearchConfig
}

type ServerConfig struct {
	Env string
}

type DatabaseConfig struct {
	Path string `validate:"required"`
}

type RedisConfig struct {
	Host    string
	Port    string
	DB      int
	Enabled bool
}

// AIConfig LLM补全相关配置
type AIConfig struct {
	APIKey         string
	BaseURL        string
	Models         []string // 按优先级排序的模型列表，第一个为默认模型
	Referer        string
	Title          string
	RequestTimeout time.Duration `validate:"gt=0"`
}

// EmbeddingConfig 嵌入模型相关配置
type EmbeddingConfig struct {
	Endpoint    string        `validate:"required"`
	Model       string
	Dimensions  int           `validate:"gt=0"`
	IdleUnload  time.Duration `validate:"gt=0"` // 空闲自动卸载时长
	WarmupText  string
}

// KnowledgeConfig 文档分块与检索配置
type KnowledgeConfig struct {
	ChunkSize    int `validate:"gt=0"` // 单位：词
	ChunkOverlap int `validate:"gte=0"`
	MinChunkLen  int `validate:"gte=0"` // 入库前丢弃的最小字符数
	TopK         int `validate:"gt=0"`
}

type SearchConfig struct {
	CacheTTL   time.Duration `validate:"gt=0"`
	HistoryMax int
}

var AppConfig *Config

// DefaultModel 返回配置的默认补全模型（列表第一个）
func (c *AIConfig) DefaultModel() string {
	if len(c.Models) == 0 {
		return ""
	}
	return c.Models[0]
}

func LoadConfig() error {
	// 加载.env文件（不存在时忽略）
	_ = godotenv.Load()

	// 设置默认值
	viper.SetDefault("server.env", "development")
	viper.SetDefault("database.path", "./data/patents.sqlite")
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", "6379")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.enabled", false)

	// AI配置默认值
	viper.SetDefault("ai.base_url", "https://openrouter.ai/api/v1")
	viper.SetDefault("ai.models", []string{})
	viper.SetDefault("ai.referer", "https://github.com/patenthub/backend-go")
	viper.SetDefault("ai.title", "PatentHub")
	viper.SetDefault("ai.request_timeout", 60*time.Second)

	// 嵌入模型配置默认值
	viper.SetDefault("embedding.endpoint", "http://localhost:8090")
	viper.SetDefault("embedding.model", "all-MiniLM-L6-v2")
	viper.SetDefault("embedding.dimensions", 384)
	viper.SetDefault("embedding.idle_unload", 5*time.Minute)
	viper.SetDefault("embedding.warmup_text", "warmup")

	// 分块与检索配置默认值
	viper.SetDefault("knowledge.chunk_size", 500)
	viper.SetDefault("knowledge.chunk_overlap", 50)
	viper.SetDefault("knowledge.min_chunk_len", 20)
	viper.SetDefault("knowledge.top_k", 5)

	// 搜索缓存配置默认值
	viper.SetDefault("search.cache_ttl", 24*time.Hour)
	viper.SetDefault("search.history_max", 50)

	// 读取环境变量
	viper.SetEnvPrefix("PATENTHUB")
	viper.AutomaticEnv()

	if dbPath := os.Getenv("DATABASE_PATH"); dbPath != "" {
		viper.Set("database.path", dbPath)
	}
	if apiKey := os.Getenv("OPENROUTER_API_KEY"); apiKey != "" {
		viper.Set("ai.api_key", apiKey)
	}
	if models := os.Getenv("AI_MODELS"); models != "" {
		// 支持逗号分隔的模型列表
		list := strings.Split(models, ",")
		cleaned := make([]string, 0, len(list))
		for _, m := range list {
			if m = strings.TrimSpace(m); m != "" {
				cleaned = append(cleaned, m)
			}
		}
		viper.Set("ai.models", cleaned)
	}
	if referer := os.Getenv("AI_REFERER"); referer != "" {
		viper.Set("ai.referer", referer)
	}
	if title := os.Getenv("AI_TITLE"); title != "" {
		viper.Set("ai.title", title)
	}
	if endpoint := os.Getenv("EMBEDDING_ENDPOINT"); endpoint != "" {
		viper.Set("embedding.endpoint", endpoint)
	}
	if redisHost := os.Getenv("REDIS_HOST"); redisHost != "" {
		viper.Set("redis.host", redisHost)
		viper.Set("redis.enabled", true)
	}
	if redisPort := os.Getenv("REDIS_PORT"); redisPort != "" {
		viper.Set("redis.port", redisPort)
	}
	if historyMax := os.Getenv("SEARCH_HISTORY_MAX"); historyMax != "" {
		viper.Set("search.history_max", historyMax)
	}

	// 支持可选的配置文件
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		// 配置文件变更时热更新
		viper.WatchConfig()
		viper.OnConfigChange(func(e fsnotify.Event) {
			_ = reload()
		})
	}

	return reload()
}

func reload() error {
	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 重叠不能大于等于分块大小
	if cfg.Knowledge.ChunkOverlap >= cfg.Knowledge.ChunkSize {
		cfg.Knowledge.ChunkOverlap = cfg.Knowledge.ChunkSize / 10
	}

	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	AppConfig = cfg
	return nil
}

// GetAppConfig 获取全局配置
func GetAppConfig() *Config {
	if AppConfig == nil {
		_ = LoadConfig()
	}
	return AppConfig
}
