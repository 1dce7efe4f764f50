// Package oracle provides model-agnostic access to generative AI backends
// used as the compliance classification oracle.
package oracle

import (
	"context"
	"errors"
)

// ErrNoResponse indicates the backend returned no usable completion
var ErrNoResponse = errors.New("no response from model")

// Provider defines the interface for different AI backends. Generate is a
// single-shot text completion; callers own retry and timeout policy.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
	ListModels(ctx context.Context) ([]string, error)
}
