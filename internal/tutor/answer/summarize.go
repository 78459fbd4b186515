package answer

import (
	"context"
	"fmt"
	"strings"

	"github.com/edumentor/edumentor/internal/config"
	"github.com/edumentor/edumentor/internal/domain/commonModels"
)

const summarySystemPrompt = `You summarize course material for a student.
Use ONLY the provided excerpts. Respond with plain text, no preamble.
Cover the main ideas in the order they appear, in short paragraphs.`

// Summarize condenses the retrieved material on a topic into a plain-text
// study summary. An uncovered topic yields an empty summary, not an error.
func (c *Composer) Summarize(ctx context.Context, topic string, retrieval commonModels.RetrievalResult) (string, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	if len(retrieval.Chunks) == 0 || retrieval.Fallback {
		log.Warn("Topic not covered by corpus, no summary", "topic", topic)
		return "", nil
	}

	var b strings.Builder
	b.WriteString("Course excerpts:\n")
	for _, sc := range retrieval.Chunks {
		fmt.Fprintf(&b, "[%s] (%s) %s\n", sc.Chunk.ChunkId, sc.Chunk.Doc.Name, sc.Chunk.Text)
	}
	fmt.Fprintf(&b, "\nSummarize the material above as it relates to %q.\n", topic)

	raw, err := c.LLM.Generate(ctx, b.String(), summarySystemPrompt, config.ModelTemperature)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(StripCodeFence(raw)), nil
}
