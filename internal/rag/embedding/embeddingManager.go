package embedding

import "context"

// Embedder produces fixed-dimensionality vectors, deterministic for
// identical input. Failures wrap docmodel.ErrEmbeddingUnavailable so the
// caller can surface a retryable error.
type Embedder interface {
	GetEmbedding(ctx context.Context, query string) ([]float32, error)
	BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error)
}
