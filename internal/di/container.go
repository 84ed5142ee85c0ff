package di

import (
	"github.com/patenthub/backend-go/internal/ai"
	"github.com/patenthub/backend-go/internal/cache"
	"github.com/patenthub/backend-go/internal/config"
	"github.com/patenthub/backend-go/internal/database"
	"github.com/patenthub/backend-go/internal/embedding"
	"github.com/patenthub/backend-go/internal/repository"
	"github.com/patenthub/backend-go/internal/retrieval"
	"github.com/patenthub/backend-go/internal/services"
	"github.com/redis/go-redis/v9"
	"go.uber.org/dig"
	"gorm.io/gorm"
)

// BuildContainer 装配引擎依赖图
func BuildContainer() (*dig.Container, error) {
	c := dig.New()

	constructors := []interface{}{
		func() *config.Config { return config.GetAppConfig() },
		func() (*gorm.DB, error) { return database.InitDB() },
		func() (*redis.Client, error) { return database.InitRedis() },

		repository.NewPatentRepository,
		repository.NewChunkRepository,
		repository.NewSettingsRepository,
		repository.NewChatHistoryRepository,
		repository.NewSearchCacheRepository,
		repository.NewSearchHistoryRepository,

		func(cfg *config.Config) *embedding.Manager {
			factory := embedding.NewHTTPFactory(
				cfg.Embedding.Endpoint,
				cfg.Embedding.Model,
				cfg.Embedding.WarmupText,
			)
			return embedding.NewManager(factory, cfg.Embedding.IdleUnload)
		},
		func(m *embedding.Manager) retrieval.Embedder { return m },
		func(cfg *config.Config, patents repository.PatentRepository, chunks repository.ChunkRepository, embedder retrieval.Embedder) *retrieval.Assembler {
			return retrieval.NewAssembler(patents, chunks, embedder, cfg.Knowledge.TopK)
		},

		func(cfg *config.Config) ai.Client {
			return ai.NewOpenRouterClient(cfg.AI.APIKey, cfg.AI.BaseURL, cfg.AI.Referer, cfg.AI.Title)
		},
		func(cfg *config.Config, client ai.Client) *ai.Orchestrator {
			return ai.NewOrchestrator(client, cfg.AI.Models, cfg.AI.RequestTimeout)
		},

		func(cfg *config.Config, store repository.SearchCacheRepository, rdb *redis.Client) *cache.ResultCache {
			return cache.NewResultCache(store, rdb, cfg.Search.CacheTTL)
		},

		services.NewChatService,
		services.NewExplanationService,
		func(cfg *config.Config, patents repository.PatentRepository, chunks repository.ChunkRepository, embedder retrieval.Embedder) *services.IndexerService {
			return services.NewIndexerService(patents, chunks, embedder,
				cfg.Knowledge.ChunkSize, cfg.Knowledge.ChunkOverlap, cfg.Knowledge.MinChunkLen)
		},
	}

	for _, ctor := range constructors {
		if err := c.Provide(ctor); err != nil {
			return nil, err
		}
	}
	return c, nil
}
