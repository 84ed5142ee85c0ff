package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/patenthub/backend-go/internal/logger"
	"go.uber.org/zap"
)

// Backend 嵌入推理后端。构造开销大（秒级），由Manager控制生命周期
type Backend interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Close() error
}

// Factory 延迟构造Backend的工厂函数。Manager在首次使用时才调用
type Factory func(ctx context.Context) (Backend, error)

// httpBackend 本地推理sidecar的HTTP客户端实现
type httpBackend struct {
	endpoint string
	model    string
	client   *http.Client
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Error string `json:"error,omitempty"`
}

// NewHTTPBackend 创建HTTP推理后端并做预热。sidecar在首个请求时加载模型权重，
// 预热请求把加载成本集中到构造阶段
func NewHTTPBackend(ctx context.Context, endpoint, model, warmupText string) (Backend, error) {
	b := &httpBackend{
		endpoint: endpoint,
		model:    model,
		client: &http.Client{
			Timeout: 120 * time.Second, // 首次请求包含模型加载
		},
	}

	if warmupText == "" {
		warmupText = "warmup"
	}
	started := time.Now()
	if _, err := b.Embed(ctx, warmupText); err != nil {
		return nil, fmt.Errorf("embedding backend warmup failed: %w", err)
	}
	logger.Info("Embedding backend ready",
		zap.String("endpoint", endpoint),
		zap.String("model", model),
		zap.Duration("warmup", time.Since(started)))

	return b, nil
}

// NewHTTPFactory 返回延迟构造HTTP后端的工厂
func NewHTTPFactory(endpoint, model, warmupText string) Factory {
	return func(ctx context.Context) (Backend, error) {
		return NewHTTPBackend(ctx, endpoint, model, warmupText)
	}
}

func (b *httpBackend) Embed(ctx context.Context, text string) ([]float32, error) {
	jsonData, err := json.Marshal(embedRequest{Model: b.model, Input: []string{text}})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal embed request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/embeddings", b.endpoint)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create embed request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("embedding backend call failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read embed response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedding backend error: HTTP %d - %s", resp.StatusCode, string(body))
	}

	var embedResp embedResponse
	if err := json.Unmarshal(body, &embedResp); err != nil {
		return nil, fmt.Errorf("failed to parse embed response: %w", err)
	}
	if len(embedResp.Data) == 0 {
		return nil, fmt.Errorf("embedding response empty")
	}
	return embedResp.Data[0].Embedding, nil
}

func (b *httpBackend) Close() error {
	b.client.CloseIdleConnections()
	return nil
}
