// Package modelclient implements the model-backend contract (§6.5):
// each backend takes a system/user prompt pair and returns a JSON-shaped
// response, classifying failures as transient, invalid, or fatal.
package modelclient

import (
	"context"

	"github.com/spherical-ai/fdd-pipeline/internal/router"
)

// ErrorKind classifies a backend failure per §6.5.
type ErrorKind int

const (
	// KindTransient covers network errors, 5xx, and rate limiting: the
	// caller should retry the same model with backoff.
	KindTransient ErrorKind = iota
	// KindInvalidResponse means the model answered but its output failed
	// schema validation: the caller should move to the next model.
	KindInvalidResponse
	// KindFatal covers auth/permission/config errors: no retry, move to
	// the next model.
	KindFatal
)

// BackendError wraps a backend failure with its classification.
type BackendError struct {
	Kind ErrorKind
	Err  error
}

func (e *BackendError) Error() string { return e.Err.Error() }
func (e *BackendError) Unwrap() error { return e.Err }

// NewTransientError wraps err as a retryable backend failure.
func NewTransientError(err error) *BackendError { return &BackendError{Kind: KindTransient, Err: err} }

// NewInvalidResponseError wraps err as a schema-validation failure.
func NewInvalidResponseError(err error) *BackendError {
	return &BackendError{Kind: KindInvalidResponse, Err: err}
}

// NewFatalError wraps err as a non-retryable backend failure.
func NewFatalError(err error) *BackendError { return &BackendError{Kind: KindFatal, Err: err} }

// Usage reports token accounting when a backend provides it.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
}

// Request is the invocation contract for a single extraction attempt.
type Request struct {
	SystemPrompt string
	UserPrompt   string
	Temperature  float64
}

// Response is a backend's raw JSON-shaped completion, not yet validated
// against a per-item schema.
type Response struct {
	Content string
	Usage   *Usage
}

// Backend is one concrete model the router can select.
type Backend interface {
	Handle() router.ModelHandle
	Extract(ctx context.Context, req Request) (Response, error)
}
