package retriever

import (
	"context"
	"sort"

	"github.com/edumentor/edumentor/internal/config"
	"github.com/edumentor/edumentor/internal/domain/commonModels"
	"github.com/edumentor/edumentor/internal/tutor/embedding"
	"github.com/edumentor/edumentor/internal/tutor/vectorDB"
	"github.com/edumentor/edumentor/pkg/logger_i"
)

var logger = logger_i.NewLogger("retriever")

// Retriever ranks course chunks against a question and decides whether the
// corpus supports an answer at all.
type Retriever struct {
	Embedder embedding.Embedder
	VectorDB vectorDB.DataProcessor
}

// Retrieve embeds the question and ranks the corpus against it.
func (r *Retriever) Retrieve(ctx context.Context, question string, k int, threshold float64) (commonModels.RetrievalResult, error) {
	vector, err := r.Embedder.GetEmbedding(ctx, question)
	if err != nil {
		return commonModels.RetrievalResult{}, err
	}
	return r.RetrieveVector(ctx, vector, k, threshold)
}

// RetrieveVector pulls the top-k nearest chunks for an already-embedded query
// and maps raw cosine scores into [0,1]. Confidence is the best normalized
// score; when it sits below the threshold the result is flagged as a fallback
// and callers must hedge rather than answer from thin air.
func (r *Retriever) RetrieveVector(ctx context.Context, vector []float32, k int, threshold float64) (commonModels.RetrievalResult, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))
	var result commonModels.RetrievalResult

	scored, err := r.VectorDB.Query(ctx, vector, uint64(k))
	if err != nil {
		return result, err
	}

	for i := range scored {
		scored[i].Score = NormalizeScore(scored[i].Score)
	}
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		if scored[i].Chunk.Doc.ContentHash != scored[j].Chunk.Doc.ContentHash {
			return scored[i].Chunk.Doc.ContentHash < scored[j].Chunk.Doc.ContentHash
		}
		return scored[i].Chunk.SeqIndex < scored[j].Chunk.SeqIndex
	})

	result.Chunks = scored
	if len(scored) > 0 {
		result.Confidence = scored[0].Score
	}
	result.Fallback = len(scored) == 0 || result.Confidence < threshold

	if result.Fallback {
		log.Info("Low confidence retrieval", "confidence", result.Confidence, "threshold", threshold)
	}
	return result, nil
}

// NormalizeScore maps cosine similarity from [-1,1] onto [0,1], clamping
// anything the backend reports outside that range.
func NormalizeScore(s float64) float64 {
	n := (s + 1) / 2
	if n < 0 {
		return 0
	}
	if n > 1 {
		return 1
	}
	return n
}
