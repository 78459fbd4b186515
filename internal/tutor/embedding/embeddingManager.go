package embedding

import "context"

// Embedder is the embedding service contract: fixed-dimensionality vectors,
// failures surfaced as retryable errors.
type Embedder interface {
	GetEmbedding(ctx context.Context, query string) ([]float32, error)
	BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error)
}
