package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/patenthub/backend-go/internal/cache"
	"github.com/patenthub/backend-go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubSearchProvider struct {
	results []SearchResult
	err     error
	calls   atomic.Int32
}

func (p *stubSearchProvider) Search(_ context.Context, _ string, _ int) ([]SearchResult, error) {
	p.calls.Add(1)
	if p.err != nil {
		return nil, p.err
	}
	return p.results, nil
}

type memSearchCacheRepo struct {
	entries map[string]*models.SearchCacheEntry
}

func newMemSearchCacheRepo() *memSearchCacheRepo {
	return &memSearchCacheRepo{entries: map[string]*models.SearchCacheEntry{}}
}

func (r *memSearchCacheRepo) Get(_ context.Context, key string) (*models.SearchCacheEntry, error) {
	if e, ok := r.entries[key]; ok {
		copied := *e
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memSearchCacheRepo) Put(_ context.Context, key, results string, createdAt time.Time) error {
	r.entries[key] = &models.SearchCacheEntry{CacheKey: key, Results: results, CreatedAt: createdAt}
	return nil
}

func (r *memSearchCacheRepo) Delete(_ context.Context, key string) error {
	delete(r.entries, key)
	return nil
}

type memSearchHistoryRepo struct {
	queries []string
}

func (r *memSearchHistoryRepo) Record(_ context.Context, query string) error {
	r.queries = append(r.queries, query)
	return nil
}

func (r *memSearchHistoryRepo) Recent(_ context.Context, _ int) ([]models.SearchHistory, error) {
	return nil, nil
}

func (r *memSearchHistoryRepo) Clear(_ context.Context) error { return nil }

func (r *memSearchHistoryRepo) Trim(_ context.Context, _ int) error { return nil }

func newSearchFixture(providers ...SearchProvider) (*SearchService, *memSearchHistoryRepo) {
	history := &memSearchHistoryRepo{}
	resultCache := cache.NewResultCache(newMemSearchCacheRepo(), nil, time.Hour)
	return NewSearchService(providers, resultCache, history, 50), history
}

func TestSearch_MergesProvidersDedupedByURL(t *testing.T) {
	a := &stubSearchProvider{results: []SearchResult{
		{ID: "1", Title: "Robot arm", URL: "https://x/1", Source: "a"},
		{ID: "2", Title: "Robot leg", URL: "https://x/2", Source: "a"},
	}}
	b := &stubSearchProvider{results: []SearchResult{
		{ID: "1b", Title: "Robot arm dup", URL: "https://x/1", Source: "b"},
		{ID: "3", Title: "Robot eye", URL: "https://x/3", Source: "b"},
	}}
	svc, history := newSearchFixture(a, b)

	results, err := svc.Search(context.Background(), "robot", 1, false)
	require.NoError(t, err)
	require.Len(t, results, 3)

	urls := map[string]bool{}
	for _, r := range results {
		urls[r.URL] = true
	}
	assert.True(t, urls["https://x/1"] && urls["https://x/2"] && urls["https://x/3"])
	assert.Equal(t, []string{"robot"}, history.queries)
}

func TestSearch_SecondCallServedFromCache(t *testing.T) {
	provider := &stubSearchProvider{results: []SearchResult{
		{ID: "1", Title: "Robot", URL: "https://x/1"},
	}}
	svc, _ := newSearchFixture(provider)
	ctx := context.Background()

	first, err := svc.Search(ctx, "robot", 1, false)
	require.NoError(t, err)

	second, err := svc.Search(ctx, "robot", 1, false)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), provider.calls.Load(), "cached page must not hit providers again")

	// 不同页是独立的缓存条目
	_, err = svc.Search(ctx, "robot", 2, false)
	require.NoError(t, err)
	assert.Equal(t, int32(2), provider.calls.Load())
}

func TestSearch_RefreshBypassesCache(t *testing.T) {
	provider := &stubSearchProvider{results: []SearchResult{
		{ID: "1", Title: "Robot", URL: "https://x/1"},
	}}
	svc, _ := newSearchFixture(provider)
	ctx := context.Background()

	_, err := svc.Search(ctx, "robot", 1, false)
	require.NoError(t, err)
	_, err = svc.Search(ctx, "robot", 1, true)
	require.NoError(t, err)
	assert.Equal(t, int32(2), provider.calls.Load())
}

func TestSearch_ProviderFailureDoesNotPoisonOthers(t *testing.T) {
	broken := &stubSearchProvider{err: errors.New("upstream 503")}
	healthy := &stubSearchProvider{results: []SearchResult{
		{ID: "1", Title: "Robot", URL: "https://x/1"},
	}}
	svc, _ := newSearchFixture(broken, healthy)

	results, err := svc.Search(context.Background(), "robot", 1, false)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestSearch_EmptyQueryRejected(t *testing.T) {
	svc, history := newSearchFixture(&stubSearchProvider{})
	_, err := svc.Search(context.Background(), "", 1, false)
	assert.Error(t, err)
	assert.Empty(t, history.queries)
}
