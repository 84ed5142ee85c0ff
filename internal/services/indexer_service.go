package services

import (
	"context"
	"crypto/md5"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/patenthub/backend-go/internal/logger"
	"github.com/patenthub/backend-go/internal/models"
	"github.com/patenthub/backend-go/internal/repository"
	"github.com/patenthub/backend-go/internal/retrieval"
	"go.uber.org/zap"
)

// DefaultMinChunkLen 入库前丢弃的最小分块字符数。
// 分块器本身不丢短窗口，这个过滤是索引侧的职责
const DefaultMinChunkLen = 20

// IndexerService 文档索引服务：全文 → 分块 → 向量化 → 整体替换分块记录
type IndexerService struct {
	patents     repository.PatentRepository
	chunks      repository.ChunkRepository
	embedder    retrieval.Embedder
	chunkSize   int
	overlap     int
	minChunkLen int
	logger      *zap.Logger
}

// NewIndexerService 创建索引服务。size/overlap<=0时使用分块器默认值
func NewIndexerService(
	patents repository.PatentRepository,
	chunks repository.ChunkRepository,
	embedder retrieval.Embedder,
	chunkSize, overlap, minChunkLen int,
) *IndexerService {
	if minChunkLen < 0 {
		minChunkLen = DefaultMinChunkLen
	}
	return &IndexerService{
		patents:     patents,
		chunks:      chunks,
		embedder:    embedder,
		chunkSize:   chunkSize,
		overlap:     overlap,
		minChunkLen: minChunkLen,
		logger:      logger.GetLogger(),
	}
}

// IndexDocument 用新的全文重建文档的分块。
// 分块永远整体替换（先删后插），旧分块绝不在文本更新后存活。
// 全文与库中一致时不做任何事。返回写入的分块数量。
//
// 写入顺序：先向量化、再换分块、最后落全文。中途失败时库里要么是
// 完整的旧状态（向量化失败），要么分块已对应新文本而全文还是旧值
// （全文写入失败）——后者下次调用不会被跳过，会重新索引。
// 任何情况下旧分块都不会挂在新全文下面。
func (s *IndexerService) IndexDocument(ctx context.Context, patentID, fullText string) (int, error) {
	patent, err := s.patents.GetByID(ctx, patentID)
	if err != nil {
		return 0, fmt.Errorf("failed to load document %s: %w", patentID, err)
	}
	if fullText == patent.FullText {
		return 0, nil
	}

	pieces := retrieval.ChunkText(fullText, s.chunkSize, s.overlap)
	rows := make([]models.PatentChunk, 0, len(pieces))
	for _, piece := range pieces {
		if len(strings.TrimSpace(piece)) < s.minChunkLen {
			continue
		}
		vec, err := s.embedder.Embed(ctx, piece, true)
		if err != nil {
			return 0, fmt.Errorf("failed to embed chunk: %w", err)
		}
		rows = append(rows, models.PatentChunk{
			Content:   piece,
			Embedding: models.EncodeEmbedding(vec),
		})
	}

	if err := s.chunks.ReplaceAll(ctx, patentID, rows); err != nil {
		return 0, fmt.Errorf("failed to replace chunks: %w", err)
	}

	if err := s.patents.UpdateFullText(ctx, patentID, fullText); err != nil {
		return 0, fmt.Errorf("failed to update full text: %w", err)
	}

	s.logger.Info("Document indexed",
		zap.String("patent_id", patentID),
		zap.Int("chunks", len(rows)))
	return len(rows), nil
}

// DropDocumentIndex 删除文档的全部分块（文档删除时调用）
func (s *IndexerService) DropDocumentIndex(ctx context.Context, patentID string) error {
	return s.chunks.DeleteByPatent(ctx, patentID)
}

// DocumentIDFromURL 由来源URL生成稳定的文档ID
func DocumentIDFromURL(url string) string {
	sum := md5.Sum([]byte(url))
	return fmt.Sprintf("sng-%x", sum)[:20]
}

// NewUploadID 为本地上传的文档生成ID
func NewUploadID() string {
	return "upl-" + uuid.NewString()
}
