package ai

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedClient 按provider返回预设结果并记录调用顺序
type scriptedClient struct {
	responses map[string]string
	errors    map[string]error
	calls     []string
}

func (c *scriptedClient) Send(_ context.Context, provider string, _ []Message) (string, error) {
	c.calls = append(c.calls, provider)
	if err, ok := c.errors[provider]; ok {
		return "", err
	}
	return c.responses[provider], nil
}

var testMessages = []Message{{Role: "user", Content: "hello"}}

func TestComplete_FirstProviderSucceeds(t *testing.T) {
	client := &scriptedClient{responses: map[string]string{"A": "answer"}}
	o := NewOrchestrator(client, []string{"A", "B"}, time.Second)

	result, err := o.Complete(context.Background(), "", testMessages)
	require.NoError(t, err)
	assert.Equal(t, "answer", result.Content)
	assert.Equal(t, "A", result.Provider)
	assert.Equal(t, []string{"A"}, client.calls)
}

func TestComplete_FallsThroughToNextProvider(t *testing.T) {
	client := &scriptedClient{
		responses: map[string]string{"B": "from b"},
		errors:    map[string]error{"A": errors.New("rate limited")},
	}
	o := NewOrchestrator(client, []string{"A", "B", "C"}, time.Second)

	result, err := o.Complete(context.Background(), "", testMessages)
	require.NoError(t, err)
	assert.Equal(t, "from b", result.Content)
	assert.Equal(t, "B", result.Provider)
	// B成功后绝不再调C
	assert.Equal(t, []string{"A", "B"}, client.calls)
}

func TestComplete_EmptyContentIsRetryable(t *testing.T) {
	client := &scriptedClient{responses: map[string]string{"A": "", "B": "ok"}}
	o := NewOrchestrator(client, []string{"A", "B"}, time.Second)

	result, err := o.Complete(context.Background(), "", testMessages)
	require.NoError(t, err)
	assert.Equal(t, "B", result.Provider)
}

func TestComplete_AuthErrorAbortsImmediately(t *testing.T) {
	client := &scriptedClient{
		errors: map[string]error{
			"A": &openai.APIError{HTTPStatusCode: http.StatusUnauthorized, Message: "bad key"},
		},
		responses: map[string]string{"B": "should never be used"},
	}
	o := NewOrchestrator(client, []string{"A", "B"}, time.Second)

	_, err := o.Complete(context.Background(), "", testMessages)
	require.Error(t, err)

	var authErr *AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "A", authErr.Provider)
	// 凭证共享，B不会被调用
	assert.Equal(t, []string{"A"}, client.calls)
}

func TestComplete_AllProvidersExhausted(t *testing.T) {
	lastErr := errors.New("timeout on B")
	client := &scriptedClient{
		errors: map[string]error{
			"A": errors.New("timeout on A"),
			"B": lastErr,
		},
	}
	o := NewOrchestrator(client, []string{"A", "B"}, time.Second)

	_, err := o.Complete(context.Background(), "", testMessages)
	require.Error(t, err)

	var exhausted *AllProvidersExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.ErrorIs(t, exhausted.Last, lastErr)
}

func TestComplete_NoProviderConfigured(t *testing.T) {
	client := &scriptedClient{}
	o := NewOrchestrator(client, nil, time.Second)

	_, err := o.Complete(context.Background(), "", testMessages)
	assert.ErrorIs(t, err, ErrNoProviderConfigured)
	// 配置错误，不发起任何网络调用
	assert.Empty(t, client.calls)
}

func TestComplete_PreferredProviderGoesFirst(t *testing.T) {
	client := &scriptedClient{
		errors:    map[string]error{"C": errors.New("down")},
		responses: map[string]string{"A": "fallback answer"},
	}
	o := NewOrchestrator(client, []string{"A", "B", "C"}, time.Second)

	result, err := o.Complete(context.Background(), "C", testMessages)
	require.NoError(t, err)
	assert.Equal(t, "A", result.Provider)
	// preferred优先，其余保持配置顺序且去重
	assert.Equal(t, []string{"C", "A"}, client.calls)
}

func TestIsAuthError(t *testing.T) {
	assert.True(t, IsAuthError(&openai.APIError{HTTPStatusCode: http.StatusUnauthorized}))
	assert.True(t, IsAuthError(&openai.APIError{HTTPStatusCode: http.StatusForbidden}))
	assert.False(t, IsAuthError(&openai.APIError{HTTPStatusCode: http.StatusTooManyRequests}))
	assert.False(t, IsAuthError(errors.New("plain error")))
	assert.False(t, IsAuthError(nil))
}
