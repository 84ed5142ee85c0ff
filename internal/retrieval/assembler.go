package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/patenthub/backend-go/internal/logger"
	"github.com/patenthub/backend-go/internal/metrics"
	"github.com/patenthub/backend-go/internal/models"
	"github.com/patenthub/backend-go/internal/repository"
	"go.uber.org/zap"
)

// DefaultTopK 默认返回的分块数量
const DefaultTopK = 5

// ContextSeparator 上下文分块之间的可见分隔符
const ContextSeparator = "\n---\n"

// Embedder 检索所需的最小嵌入接口
type Embedder interface {
	IsLoaded() bool
	Embed(ctx context.Context, text string, requireLoaded bool) ([]float32, error)
}

// Context 检索装配结果
type Context struct {
	Block     string   // 拼接好的上下文文本
	Citations []string // 按相关度排序的引用分块
	Degraded  bool     // 是否退化为仅摘要上下文
}

// Assembler 把用户问题装配为补全上下文。只读，不修改任何存储
type Assembler struct {
	patents  repository.PatentRepository
	chunks   repository.ChunkRepository
	embedder Embedder
	topK     int
}

// NewAssembler 创建检索装配器。topK<=0时使用默认值
func NewAssembler(patents repository.PatentRepository, chunks repository.ChunkRepository, embedder Embedder, topK int) *Assembler {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Assembler{
		patents:  patents,
		chunks:   chunks,
		embedder: embedder,
		topK:     topK,
	}
}

// Assemble 为(文档, 问题)生成上下文与引用。
// 模型未加载或文档没有分块时退化为仅摘要上下文——这是预期的降级路径，不是错误。
func (a *Assembler) Assemble(ctx context.Context, patentID, question string) (*Context, error) {
	patent, err := a.patents.GetByID(ctx, patentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load document %s: %w", patentID, err)
	}

	if !a.embedder.IsLoaded() {
		return a.degraded(patent), nil
	}

	// requireLoaded=false：定时器恰好触发卸载时不为问题向量付出重载成本
	queryVec, err := a.embedder.Embed(ctx, question, false)
	if err != nil {
		return nil, fmt.Errorf("failed to embed question: %w", err)
	}

	rows, err := a.chunks.ListByPatent(ctx, patentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load chunks for %s: %w", patentID, err)
	}
	if len(rows) == 0 {
		return a.degraded(patent), nil
	}

	candidates := make([]Candidate, len(rows))
	for i, row := range rows {
		candidates[i] = Candidate{
			Content: row.Content,
			Vector:  models.DecodeEmbedding(row.Embedding),
		}
	}

	matches := Rank(queryVec, candidates, a.topK)
	citations := make([]string, len(matches))
	for i, m := range matches {
		citations[i] = m.Content
	}

	logger.Debug("Assembled retrieval context",
		zap.String("patent_id", patentID),
		zap.Int("candidates", len(candidates)),
		zap.Int("citations", len(citations)))

	return &Context{
		Block:     "Relevant context from document:\n" + strings.Join(citations, ContextSeparator),
		Citations: citations,
	}, nil
}

// degraded 仅摘要上下文，无引用
func (a *Assembler) degraded(patent *models.Patent) *Context {
	abstract := patent.Abstract
	if strings.TrimSpace(abstract) == "" {
		abstract = "No abstract available."
	}
	metrics.RetrievalDegraded.Inc()
	return &Context{
		Block:    "Abstract:\n" + abstract,
		Degraded: true,
	}
}
