// Package embedder provides text embedding clients for vector
// representations.
//
// The Client interface treats the embedding provider as a black box: text in,
// fixed-dimension vector out. Implementations must be deterministic for the
// same input text and model so that index reproducibility holds.
package embedder

import (
	"context"
	"errors"
)

// ErrEmbeddingFailed is returned (wrapped) when the provider cannot produce
// an embedding for a text.
var ErrEmbeddingFailed = errors.New("embedding failed")

// Client generates embeddings for text.
type Client interface {
	// Embed generates embeddings for the given texts, one vector per input.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedSingle generates an embedding for a single text.
	EmbedSingle(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the fixed length of the produced vectors.
	Dimensions() int

	// Close cleans up any resources.
	Close() error
}

// Config holds provider-independent embedding settings.
type Config struct {
	Model      string
	APIKey     string
	BaseURL    string
	Dimensions int
	BatchSize  int
}
