package services

import (
	"context"
	"fmt"

	"github.com/patenthub/backend-go/internal/ai"
	"github.com/patenthub/backend-go/internal/logger"
	"github.com/patenthub/backend-go/internal/models"
	"github.com/patenthub/backend-go/internal/repository"
	"github.com/patenthub/backend-go/internal/retrieval"
	"go.uber.org/zap"
)

const defaultChatPrompt = "You are an AI assistant specialized in patents."

// ChatRequest 文档对话请求
type ChatRequest struct {
	PatentID      string `json:"patent_id"`
	Message       string `json:"message"`
	ModelOverride string `json:"model,omitempty"`
	HistoryLimit  int    `json:"history_limit,omitempty"`
}

// ChatResponse 文档对话响应
type ChatResponse struct {
	Reply     string   `json:"reply"`
	Citations []string `json:"citations"`
	Provider  string   `json:"model"`
	Degraded  bool     `json:"degraded"` // 检索是否退化为仅摘要上下文
}

// ChatService 文档对话服务：检索装配 + 提示词构建 + 带降级的补全 + 历史落库
type ChatService struct {
	patents   repository.PatentRepository
	history   repository.ChatHistoryRepository
	settings  repository.SettingsRepository
	assembler *retrieval.Assembler
	completer *ai.Orchestrator
	logger    *zap.Logger
}

// NewChatService 创建对话服务
func NewChatService(
	patents repository.PatentRepository,
	history repository.ChatHistoryRepository,
	settings repository.SettingsRepository,
	assembler *retrieval.Assembler,
	completer *ai.Orchestrator,
) *ChatService {
	return &ChatService{
		patents:   patents,
		history:   history,
		settings:  settings,
		assembler: assembler,
		completer: completer,
		logger:    logger.GetLogger(),
	}
}

// Chat 执行一轮文档对话。
// 用户消息先于补全调用落库，助手回复在补全成功后落库：
// 中途失败最多留下一条未回复的用户消息，对话仍可继续，不会乱序或重复。
func (s *ChatService) Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	if req.PatentID == "" || req.Message == "" {
		return nil, fmt.Errorf("patent_id and message are required")
	}

	patent, err := s.patents.GetByID(ctx, req.PatentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load document %s: %w", req.PatentID, err)
	}

	rctx, err := s.assembler.Assemble(ctx, req.PatentID, req.Message)
	if err != nil {
		return nil, err
	}

	// 提示词每次现读，后台修改下一条请求即生效
	basePrompt := s.settings.GetOrDefault(ctx, "system_prompt_chat", defaultChatPrompt)
	systemPrompt := fmt.Sprintf("%s\nDocument: %q\nContext:\n%s", basePrompt, patent.Title, rctx.Block)

	past, err := s.history.ListByPatent(ctx, req.PatentID, req.HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat history: %w", err)
	}

	messages := make([]ai.Message, 0, len(past)+2)
	messages = append(messages, ai.Message{Role: "system", Content: systemPrompt})
	for _, m := range past {
		messages = append(messages, ai.Message{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, ai.Message{Role: "user", Content: req.Message})

	if err := s.history.Append(ctx, &models.ChatMessage{
		PatentID: req.PatentID,
		Role:     "user",
		Content:  req.Message,
	}); err != nil {
		return nil, fmt.Errorf("failed to record user message: %w", err)
	}

	completion, err := s.completer.Complete(ctx, req.ModelOverride, messages)
	if err != nil {
		// 用户消息保留在历史里，对话可恢复
		return nil, err
	}

	if err := s.history.Append(ctx, &models.ChatMessage{
		PatentID: req.PatentID,
		Role:     "assistant",
		Content:  completion.Content,
		Model:    completion.Provider,
	}); err != nil {
		s.logger.Error("Failed to record assistant reply", zap.Error(err))
	}

	s.logger.Info("Chat turn completed",
		zap.String("patent_id", req.PatentID),
		zap.String("provider", completion.Provider),
		zap.Bool("degraded", rctx.Degraded),
		zap.Int("citations", len(rctx.Citations)))

	return &ChatResponse{
		Reply:     completion.Content,
		Citations: rctx.Citations,
		Provider:  completion.Provider,
		Degraded:  rctx.Degraded,
	}, nil
}
