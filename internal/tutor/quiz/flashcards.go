package quiz

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/edumentor/edumentor/internal/config"
	"github.com/edumentor/edumentor/internal/domain/commonModels"
	"github.com/edumentor/edumentor/internal/domain/errs"
	"github.com/edumentor/edumentor/internal/tutor/answer"
)

const flashcardSystemPrompt = `You write study flashcards grounded strictly in the provided course excerpts.
Respond with a single JSON array: [{"front": string, "back": string}].
Fronts are short prompts or terms; backs are concise explanations.`

// GenerateFlashcards turns retrieved material into front/back study cards.
// Cards with a blank side are dropped rather than surfaced half-made.
func (g *Generator) GenerateFlashcards(ctx context.Context, topic string, count int, retrieval commonModels.RetrievalResult) ([]commonModels.Flashcard, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	if count <= 0 {
		count = config.FlashcardCount
	}
	if len(retrieval.Chunks) == 0 || retrieval.Fallback {
		log.Warn("Topic not covered by corpus, no flashcards", "topic", topic)
		return nil, nil
	}

	var b strings.Builder
	b.WriteString("Course excerpts:\n")
	for _, sc := range retrieval.Chunks {
		fmt.Fprintf(&b, "[%s] %s\n", sc.Chunk.ChunkId, sc.Chunk.Text)
	}
	fmt.Fprintf(&b, "\nWrite %d flashcards about %q using only the excerpts above.\n", count, topic)

	raw, err := g.LLM.Generate(ctx, b.String(), flashcardSystemPrompt, config.ModelTemperature)
	if err != nil {
		return nil, err
	}

	var cards []commonModels.Flashcard
	if err := json.Unmarshal([]byte(answer.StripCodeFence(raw)), &cards); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrMalformedOutput, err)
	}

	kept := cards[:0]
	for _, c := range cards {
		if strings.TrimSpace(c.Front) == "" || strings.TrimSpace(c.Back) == "" {
			continue
		}
		kept = append(kept, c)
		if len(kept) >= count {
			break
		}
	}
	return kept, nil
}
