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

type generateRequest struct {
	Model   string  `json:"model"`
	Prompt  string  `json:"prompt"`
	System  string  `json:"system"`
	Stream  bool    `json:"stream"`
	Options options `json:"options"`
}

type options struct {
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// LocalBackend talks to an Ollama-compatible /api/generate endpoint and
// serves the locally-runnable small-model handle. Same *net/http* call
// shape as HTTPBackend; no provider auth header, no chat-message array.
type LocalBackend struct {
	handle      router.ModelHandle
	baseURL     string
	model       string
	httpClient  *http.Client
	retry       RetryConfig
	callTimeout time.Duration
}

// NewLocalBackend builds a local-model backend. baseURL should point at
// the generate endpoint (e.g. "http://localhost:11434/api/generate").
func NewLocalBackend(baseURL, model string) *LocalBackend {
	return &LocalBackend{
		handle:      router.HandleLocal,
		baseURL:     baseURL,
		model:       model,
		httpClient:  &http.Client{},
		retry:       DefaultRetryConfig(),
		callTimeout: 60 * time.Second,
	}
}

func (b *LocalBackend) Handle() router.ModelHandle { return b.handle }

func (b *LocalBackend) Extract(ctx context.Context, req Request) (Response, error) {
	return withRetry(ctx, b.retry, func() (Response, error) {
		return b.attempt(ctx, req)
	})
}

func (b *LocalBackend) attempt(ctx context.Context, req Request) (Response, error) {
	ctx, cancel := context.WithTimeout(ctx, b.callTimeout)
	defer cancel()

	body, err := json.Marshal(generateRequest{
		Model:   b.model,
		Prompt:  req.UserPrompt,
		System:  req.SystemPrompt,
		Stream:  false,
		Options: options{Temperature: req.Temperature},
	})
	if err != nil {
		return Response{}, NewFatalError(fmt.Errorf("marshal request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL, bytes.NewReader(body))
	if err != nil {
		return Response{}, NewFatalError(fmt.Errorf("build request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(httpReq)
	if err != nil {
		return Response{}, NewTransientError(fmt.Errorf("local model: %w", err))
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, NewTransientError(fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		if isRetryableStatus(resp.StatusCode) {
			return Response{}, NewTransientError(fmt.Errorf("local model returned %d: %s", resp.StatusCode, bodyBytes))
		}
		return Response{}, NewFatalError(fmt.Errorf("local model returned %d: %s", resp.StatusCode, bodyBytes))
	}

	var parsed generateResponse
	if err := json.Unmarshal(bodyBytes, &parsed); err != nil {
		return Response{}, NewInvalidResponseError(fmt.Errorf("decode response: %w", err))
	}
	return Response{Content: parsed.Response}, nil
}
