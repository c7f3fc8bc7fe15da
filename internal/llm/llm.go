// Package llm abstracts the language-model provider used for CV analysis.
package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// Client abstracts LLM providers for CV analysis against a position's
// requirement catalogue.
type Client interface {
	AnalyzeCV(ctx context.Context, input AnalyzeInput) (json.RawMessage, error)
}

// AnalyzeInput captures the inputs needed for one analysis request.
type AnalyzeInput struct {
	CVText        string
	PositionTitle string
	// Requirements is the formatted catalogue block produced by
	// jobs.FormatForPrompt. Empty means a plain CV analysis without
	// requirement matching.
	Requirements string
}

type fixJSONKey struct{}

// WithFixJSON returns a context signaling a fix-JSON retry with the given raw output.
func WithFixJSON(ctx context.Context, raw string) context.Context {
	return context.WithValue(ctx, fixJSONKey{}, raw)
}

// FixJSONFromContext returns the raw JSON to repair, if any.
func FixJSONFromContext(ctx context.Context) (string, bool) {
	val := ctx.Value(fixJSONKey{})
	raw, ok := val.(string)
	return raw, ok
}

// ErrNotImplemented is returned by the placeholder client.
var ErrNotImplemented = errors.New("LLM not implemented")

// PlaceholderClient is a stub implementation used when no provider is
// configured; analyses fail fast instead of hanging.
type PlaceholderClient struct{}

// AnalyzeCV returns ErrNotImplemented.
func (PlaceholderClient) AnalyzeCV(ctx context.Context, input AnalyzeInput) (json.RawMessage, error) {
	_ = ctx
	_ = input
	return nil, ErrNotImplemented
}
