// Package llm wraps the generative-text backend. The pipeline treats the
// backend as a black box: given a prompt it returns free-form text, or it
// fails. Failures never trigger retries; callers substitute a fallback
// result instead.
package llm

import (
	"context"
	"errors"
	"fmt"
)

// Client is the generation capability consumed by the pipeline.
type Client interface {
	Name() string
	GenerateText(ctx context.Context, prompt string) (string, error)
	Close() error
}

// ErrUnavailable indicates the backend is not configured (no credential).
// Callers must not retry; the pipeline substitutes its fallback result.
var ErrUnavailable = errors.New("llm: generation backend not configured")

// GenerationError wraps a transport or runtime failure from the backend.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string { return fmt.Sprintf("llm: generation failed: %v", e.Err) }
func (e *GenerationError) Unwrap() error { return e.Err }

func NewGenerationError(err error) error {
	return &GenerationError{Err: err}
}

var ErrEmptyResponse = errors.New("llm: empty response from backend")

// Unconfigured is the Client used when no backend credential is present.
// Every call fails with ErrUnavailable, which keeps the pipeline on its
// fallback path without special-casing a nil client.
type Unconfigured struct{}

func (Unconfigured) Name() string { return "unconfigured" }
func (Unconfigured) Close() error { return nil }
func (Unconfigured) GenerateText(context.Context, string) (string, error) {
	return "", ErrUnavailable
}

var _ Client = Unconfigured{}
