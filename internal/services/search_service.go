package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/patenthub/backend-go/internal/cache"
	"github.com/patenthub/backend-go/internal/logger"
	"github.com/patenthub/backend-go/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SearchResult 外部搜索结果条目
type SearchResult struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Abstract        string   `json:"abstract"`
	Inventors       []string `json:"inventors"`
	PublicationDate string   `json:"publication_date"`
	URL             string   `json:"url"`
	PDFURL          string   `json:"pdf_url,omitempty"`
	Source          string   `json:"source"`
	Engine          string   `json:"engine,omitempty"`
}

// SearchProvider 外部搜索后端边界。具体API查询构造不在引擎职责内
type SearchProvider interface {
	Search(ctx context.Context, query string, page int) ([]SearchResult, error)
}

// SearchService 聚合外部搜索并套用结果缓存
type SearchService struct {
	providers  []SearchProvider
	cache      *cache.ResultCache
	history    repository.SearchHistoryRepository
	historyMax int
	logger     *zap.Logger
}

// NewSearchService 创建搜索服务
func NewSearchService(
	providers []SearchProvider,
	resultCache *cache.ResultCache,
	history repository.SearchHistoryRepository,
	historyMax int,
) *SearchService {
	return &SearchService{
		providers:  providers,
		cache:      resultCache,
		history:    history,
		historyMax: historyMax,
		logger:     logger.GetLogger(),
	}
}

// Search 执行聚合搜索。refresh=true时跳过缓存强制刷新。
// 历史记录与缓存的失败都不会中断搜索本身。
func (s *SearchService) Search(ctx context.Context, query string, page int, refresh bool) ([]SearchResult, error) {
	if query == "" {
		return nil, fmt.Errorf("query is required")
	}
	if page <= 0 {
		page = 1
	}

	if err := s.history.Record(ctx, query); err != nil {
		s.logger.Warn("Failed to record search history", zap.Error(err))
	} else if err := s.history.Trim(ctx, s.historyMax); err != nil {
		s.logger.Warn("Failed to trim search history", zap.Error(err))
	}

	key := cache.SearchKey(query, page)
	if !refresh {
		if raw, ok := s.cache.Get(ctx, key); ok {
			var results []SearchResult
			if err := json.Unmarshal([]byte(raw), &results); err == nil {
				return results, nil
			}
			// 反序列化失败按未命中处理
		}
	}

	results, err := s.aggregate(ctx, query, page)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(results); err == nil {
		s.cache.Put(ctx, key, string(raw))
	}
	return results, nil
}

// aggregate 并发查询全部provider，按URL去重合并，单个provider失败不影响其他
func (s *SearchService) aggregate(ctx context.Context, query string, page int) ([]SearchResult, error) {
	perProvider := make([][]SearchResult, len(s.providers))
	g, gctx := errgroup.WithContext(ctx)
	for i, provider := range s.providers {
		i, provider := i, provider
		g.Go(func() error {
			results, err := provider.Search(gctx, query, page)
			if err != nil {
				s.logger.Warn("Search provider failed", zap.Error(err))
				return nil
			}
			perProvider[i] = results
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var merged []SearchResult
	for _, results := range perProvider {
		for _, r := range results {
			if r.URL == "" || seen[r.URL] {
				continue
			}
			seen[r.URL] = true
			merged = append(merged, r)
		}
	}
	return merged, nil
}
