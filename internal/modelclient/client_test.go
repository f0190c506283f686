package modelclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical-ai/fdd-pipeline/internal/router"
)

func TestFakeBackend_ReturnsQueuedResponse(t *testing.T) {
	b := NewFakeBackend(router.HandleLocal).Return(`{"ok":true}`)
	resp, err := b.Extract(context.Background(), Request{SystemPrompt: "s", UserPrompt: "u"})
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, resp.Content)
	assert.Equal(t, 1, b.CallCount())
}

func TestFakeBackend_RepeatsLastResultWhenExhausted(t *testing.T) {
	b := NewFakeBackend(router.HandleLocal).Return("first")
	_, _ = b.Extract(context.Background(), Request{})
	resp, err := b.Extract(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "first", resp.Content)
}

func TestHTTPBackend_SuccessParsesChoiceContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"item\":5}"}}]}`))
	}))
	defer srv.Close()

	b := NewHTTPBackend(router.HandleHostedA, srv.URL, "key", "model-x")
	resp, err := b.Extract(context.Background(), Request{SystemPrompt: "sys", UserPrompt: "usr", Temperature: 0.1})
	require.NoError(t, err)
	assert.Equal(t, `{"item":5}`, resp.Content)
}

func TestHTTPBackend_ServerErrorClassifiedTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("unavailable"))
	}))
	defer srv.Close()

	b := NewHTTPBackend(router.HandleHostedA, srv.URL, "key", "model-x")
	b.retry = RetryConfig{MaxAttempts: 1, InitialBackoff: 0, MaxBackoff: 0}
	_, err := b.Extract(context.Background(), Request{})
	require.Error(t, err)
	var beErr *BackendError
	require.True(t, errors.As(err, &beErr))
	assert.Equal(t, KindTransient, beErr.Kind)
}

func TestHTTPBackend_AuthErrorClassifiedFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("bad key"))
	}))
	defer srv.Close()

	b := NewHTTPBackend(router.HandleHostedA, srv.URL, "bad-key", "model-x")
	_, err := b.Extract(context.Background(), Request{})
	require.Error(t, err)
	var beErr *BackendError
	require.True(t, errors.As(err, &beErr))
	assert.Equal(t, KindFatal, beErr.Kind)
}

func TestLocalBackend_SuccessParsesResponseField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"response":"{\"item\":6}","done":true}`))
	}))
	defer srv.Close()

	b := NewLocalBackend(srv.URL, "small-model")
	resp, err := b.Extract(context.Background(), Request{SystemPrompt: "sys", UserPrompt: "usr"})
	require.NoError(t, err)
	assert.Equal(t, `{"item":6}`, resp.Content)
}

func TestWithRetry_RetriesTransientThenSucceeds(t *testing.T) {
	attempts := 0
	cfg := RetryConfig{MaxAttempts: 3, InitialBackoff: 0, MaxBackoff: 0}
	resp, err := withRetry(context.Background(), cfg, func() (Response, error) {
		attempts++
		if attempts < 2 {
			return Response{}, NewTransientError(errors.New("flaky"))
		}
		return Response{Content: "ok"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Content)
	assert.Equal(t, 2, attempts)
}

func TestWithRetry_DoesNotRetryFatal(t *testing.T) {
	attempts := 0
	cfg := DefaultRetryConfig()
	_, err := withRetry(context.Background(), cfg, func() (Response, error) {
		attempts++
		return Response{}, NewFatalError(errors.New("nope"))
	})
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}
