package services

import (
	"context"
	"fmt"

	"github.com/patenthub/backend-go/internal/ai"
	"github.com/patenthub/backend-go/internal/logger"
	"github.com/patenthub/backend-go/internal/repository"
	"go.uber.org/zap"
)

const (
	defaultExplanationPrompt = "You are a patent expert. Explain the following patent in a simple and concise way (ELI5 style). Focus on the main innovation and the problem it solves."
	defaultComparisonPrompt  = "Compare the following two documents and identify similarities, differences and overlaps."
)

// ExplanationService 文档解读与对比服务
type ExplanationService struct {
	patents   repository.PatentRepository
	settings  repository.SettingsRepository
	completer *ai.Orchestrator
	logger    *zap.Logger
}

// NewExplanationService 创建解读服务
func NewExplanationService(
	patents repository.PatentRepository,
	settings repository.SettingsRepository,
	completer *ai.Orchestrator,
) *ExplanationService {
	return &ExplanationService{
		patents:   patents,
		settings:  settings,
		completer: completer,
		logger:    logger.GetLogger(),
	}
}

// Explain 生成文档的通俗解读并持久化到ai_explanation
func (s *ExplanationService) Explain(ctx context.Context, patentID, modelOverride string) (string, error) {
	patent, err := s.patents.GetByID(ctx, patentID)
	if err != nil {
		return "", fmt.Errorf("failed to load document %s: %w", patentID, err)
	}

	systemPrompt := s.settings.GetOrDefault(ctx, "system_prompt_explanation", defaultExplanationPrompt)
	prompt := fmt.Sprintf("%s\n\nTitle: %s\nAbstract: %s\n\nResponse language should match the input.\nEXPLANATION:",
		systemPrompt, patent.Title, patent.Abstract)

	completion, err := s.completer.Complete(ctx, modelOverride, []ai.Message{
		{Role: "user", Content: prompt},
	})
	if err != nil {
		return "", err
	}

	if err := s.patents.UpdateExplanation(ctx, patentID, completion.Content); err != nil {
		s.logger.Error("Failed to persist explanation",
			zap.String("patent_id", patentID),
			zap.Error(err))
	}

	return completion.Content, nil
}

// Compare 对比两个文档，返回对比结论（不持久化）
func (s *ExplanationService) Compare(ctx context.Context, id1, id2, modelOverride string) (string, error) {
	p1, err := s.patents.GetByID(ctx, id1)
	if err != nil {
		return "", fmt.Errorf("failed to load document %s: %w", id1, err)
	}
	p2, err := s.patents.GetByID(ctx, id2)
	if err != nil {
		return "", fmt.Errorf("failed to load document %s: %w", id2, err)
	}

	systemPrompt := s.settings.GetOrDefault(ctx, "system_prompt_comparison", defaultComparisonPrompt)
	prompt := fmt.Sprintf("%s\nDocument 1: %q\nAbstract: %s\nDocument 2: %q\nAbstract: %s\nResponse language should match the input.",
		systemPrompt, p1.Title, p1.Abstract, p2.Title, p2.Abstract)

	completion, err := s.completer.Complete(ctx, modelOverride, []ai.Message{
		{Role: "user", Content: prompt},
	})
	if err != nil {
		return "", err
	}
	return completion.Content, nil
}
