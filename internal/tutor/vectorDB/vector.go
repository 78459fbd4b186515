package vectorDB

import (
	"context"

	"github.com/edumentor/edumentor/internal/domain/commonModels"
)

// DataProcessor is the narrow contract the rest of the pipeline sees.
// Query scores are the raw cosine similarities in [-1,1]; normalization to
// the [0,1] confidence scale is the retriever's job.
type DataProcessor interface {
	Query(ctx context.Context, vectorVal []float32, k uint64) ([]commonModels.ScoredChunk, error)

	GetCachedTurn(ctx context.Context, queryVector []float32) (commonModels.ConversationTurn, bool, error)
	SaveTurnToCache(ctx context.Context, id string, vector []float32, turn commonModels.ConversationTurn) error

	// Ingest path. UpsertDocument writes all chunks of one document in a
	// single waited call so a failed ingestion never leaves a half-indexed
	// document discoverable.
	CreateCollection(ctx context.Context, collectionName string) error
	UpsertDocument(ctx context.Context, collectionName string, chunks []commonModels.Chunk, vectors [][]float32) error

	// DropCorpus removes every indexed collection; used by the explicit reset.
	DropCorpus(ctx context.Context) error
}
