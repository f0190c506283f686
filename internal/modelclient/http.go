package modelclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spherical-ai/fdd-pipeline/internal/router"
)

// chatMessage mirrors an OpenAI-compatible chat-completions message.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatChoice struct {
	Message      chatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
	Usage   *chatUsage   `json:"usage"`
}

// HTTPBackend talks to an OpenAI-compatible chat-completions endpoint.
// It covers both hosted-model handles, distinguished only by base URL,
// model name, and API key, following the teacher's llm.Client shape: a
// narrow struct holding credentials plus an *http.Client, JSON request
// bodies built by hand, errors classified by status code.
type HTTPBackend struct {
	handle     router.ModelHandle
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	retry      RetryConfig
	callTimeout time.Duration
}

// NewHTTPBackend builds a hosted-model backend. baseURL should point at
// the provider's chat-completions endpoint (e.g.
// "https://openrouter.ai/api/v1/chat/completions").
func NewHTTPBackend(handle router.ModelHandle, baseURL, apiKey, model string) *HTTPBackend {
	return &HTTPBackend{
		handle:      handle,
		baseURL:     baseURL,
		apiKey:      apiKey,
		model:       model,
		httpClient:  &http.Client{},
		retry:       DefaultRetryConfig(),
		callTimeout: 60 * time.Second,
	}
}

func (b *HTTPBackend) Handle() router.ModelHandle { return b.handle }

func (b *HTTPBackend) Extract(ctx context.Context, req Request) (Response, error) {
	return withRetry(ctx, b.retry, func() (Response, error) {
		return b.attempt(ctx, req)
	})
}

func (b *HTTPBackend) attempt(ctx context.Context, req Request) (Response, error) {
	ctx, cancel := context.WithTimeout(ctx, b.callTimeout)
	defer cancel()

	body, err := json.Marshal(chatRequest{
		Model: b.model,
		Messages: []chatMessage{
			{Role: "system", Content: req.SystemPrompt},
			{Role: "user", Content: req.UserPrompt},
		},
		Temperature: req.Temperature,
	})
	if err != nil {
		return Response{}, NewFatalError(fmt.Errorf("marshal request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL, bytes.NewReader(body))
	if err != nil {
		return Response{}, NewFatalError(fmt.Errorf("build request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+b.apiKey)

	resp, err := b.httpClient.Do(httpReq)
	if err != nil {
		return Response{}, NewTransientError(fmt.Errorf("%s: %w", b.handle, err))
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, NewTransientError(fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		if isRetryableStatus(resp.StatusCode) {
			return Response{}, NewTransientError(fmt.Errorf("%s returned %d: %s", b.handle, resp.StatusCode, bodyBytes))
		}
		return Response{}, NewFatalError(fmt.Errorf("%s returned %d: %s", b.handle, resp.StatusCode, bodyBytes))
	}

	var parsed chatResponse
	if err := json.Unmarshal(bodyBytes, &parsed); err != nil {
		return Response{}, NewInvalidResponseError(fmt.Errorf("decode response: %w", err))
	}
	if len(parsed.Choices) == 0 {
		return Response{}, NewInvalidResponseError(fmt.Errorf("%s: no choices in response", b.handle))
	}

	result := Response{Content: parsed.Choices[0].Message.Content}
	if parsed.Usage != nil {
		result.Usage = &Usage{PromptTokens: parsed.Usage.PromptTokens, CompletionTokens: parsed.Usage.CompletionTokens}
	}
	return result, nil
}

func isRetryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests, http.StatusInternalServerError,
		http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
