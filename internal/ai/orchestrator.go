package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/patenthub/backend-go/internal/logger"
	"github.com/patenthub/backend-go/internal/metrics"
	"go.uber.org/zap"
)

// DefaultCallTimeout 单个provider调用的默认超时。
// 超时按可重试故障处理，慢provider不能拖死整条降级链
const DefaultCallTimeout = 60 * time.Second

// Completion 补全结果，带实际使用的provider
type Completion struct {
	Content  string
	Provider string
}

// Orchestrator 按优先级遍历provider直到拿到内容。
// 认证类错误立即中止，其余错误记录后尝试下一个候选
type Orchestrator struct {
	client    Client
	providers []string // 配置顺序即优先级，第一个为默认
	timeout   time.Duration
}

// NewOrchestrator 创建降级编排器。timeout<=0时使用默认值
func NewOrchestrator(client Client, providers []string, timeout time.Duration) *Orchestrator {
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}
	return &Orchestrator{
		client:    client,
		providers: providers,
		timeout:   timeout,
	}
}

// Providers 返回配置的provider列表
func (o *Orchestrator) Providers() []string {
	out := make([]string, len(o.providers))
	copy(out, o.providers)
	return out
}

// Complete 执行带降级的补全。
// 候选顺序 = preferred优先，其余配置provider保持原顺序（去掉preferred）。
// preferred为空时使用配置的默认provider。
func (o *Orchestrator) Complete(ctx context.Context, preferred string, messages []Message) (*Completion, error) {
	candidates := o.candidates(preferred)
	if len(candidates) == 0 {
		return nil, ErrNoProviderConfigured
	}

	var lastErr error
	for _, provider := range candidates {
		content, err := o.call(ctx, provider, messages)
		if err == nil {
			metrics.CompletionRequests.WithLabelValues(provider, "success").Inc()
			return &Completion{Content: content, Provider: provider}, nil
		}

		if IsAuthError(err) {
			metrics.CompletionRequests.WithLabelValues(provider, "auth_error").Inc()
			return nil, &AuthenticationError{Provider: provider, Err: err}
		}

		metrics.CompletionRequests.WithLabelValues(provider, "error").Inc()
		metrics.CompletionFallbacks.WithLabelValues(provider).Inc()
		logger.Warn("Provider failed, trying next candidate",
			zap.String("provider", provider),
			zap.Error(err))
		lastErr = err
	}

	return nil, &AllProvidersExhaustedError{Last: lastErr}
}

// call 单次provider调用，带独立超时；空内容按失败处理
func (o *Orchestrator) call(ctx context.Context, provider string, messages []Message) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	content, err := o.client.Send(callCtx, provider, messages)
	if err != nil {
		return "", err
	}
	if content == "" {
		return "", fmt.Errorf("provider %s returned empty content", provider)
	}
	return content, nil
}

// candidates preferred排第一，其余保持配置顺序
func (o *Orchestrator) candidates(preferred string) []string {
	if preferred == "" {
		return o.Providers()
	}
	out := make([]string, 0, len(o.providers)+1)
	out = append(out, preferred)
	for _, p := range o.providers {
		if p != preferred {
			out = append(out, p)
		}
	}
	return out
}
