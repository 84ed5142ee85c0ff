package ai

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Message 对话消息
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client 补全客户端抽象。provider即模型标识，
// 新增provider只需要新的Client实现，编排器不感知
type Client interface {
	Send(ctx context.Context, provider string, messages []Message) (string, error)
}

// OpenRouterClient 基于OpenAI兼容接口的补全客户端
type OpenRouterClient struct {
	client *openai.Client
}

// headerTransport 为每个请求附加OpenRouter要求的来源头
type headerTransport struct {
	base    http.RoundTripper
	referer string
	title   string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("HTTP-Referer", t.referer)
	req.Header.Set("X-Title", t.title)
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}

// NewOpenRouterClient 创建OpenRouter补全客户端
func NewOpenRouterClient(apiKey, baseURL, referer, title string) *OpenRouterClient {
	cfg := openai.DefaultConfig(strings.TrimSpace(apiKey))
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	cfg.HTTPClient = &http.Client{
		Transport: &headerTransport{referer: referer, title: title},
	}
	return &OpenRouterClient{client: openai.NewClientWithConfig(cfg)}
}

// Send 向指定provider发起一次补全调用，返回回复文本
func (c *OpenRouterClient) Send(ctx context.Context, provider string, messages []Message) (string, error) {
	if provider == "" {
		return "", fmt.Errorf("provider is empty")
	}

	chatMessages := make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		chatMessages[i] = openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    provider,
		Messages: chatMessages,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion response has no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
