package ai

import (
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// ErrNoProviderConfigured 未配置任何补全provider（配置错误，非瞬时故障）
var ErrNoProviderConfigured = errors.New("no completion provider configured")

// AuthenticationError 认证失败。凭证在所有provider间共享，
// 换provider重试不可能成功，必须立即中止降级链
type AuthenticationError struct {
	Provider string
	Err      error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failed for provider %s: %v", e.Provider, e.Err)
}

func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// AllProvidersExhaustedError 所有候选provider都失败，携带最后一个底层错误用于诊断
type AllProvidersExhaustedError struct {
	Last error
}

func (e *AllProvidersExhaustedError) Error() string {
	if e.Last != nil {
		return fmt.Sprintf("all providers exhausted, last error: %v", e.Last)
	}
	return "all providers exhausted"
}

func (e *AllProvidersExhaustedError) Unwrap() error {
	return e.Last
}

// IsAuthError 判断是否为认证类错误（HTTP 401/403）
func IsAuthError(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusUnauthorized ||
			apiErr.HTTPStatusCode == http.StatusForbidden
	}
	return false
}
