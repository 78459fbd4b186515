package answer

import (
	"context"
	"fmt"
	"strings"

	"github.com/edumentor/edumentor/internal/config"
	"github.com/edumentor/edumentor/internal/domain/commonModels"
	"github.com/edumentor/edumentor/internal/tutor/llm"
	"github.com/edumentor/edumentor/internal/tutor/personalize"
	"github.com/edumentor/edumentor/pkg/logger_i"
)

var logger = logger_i.NewLogger("answer")

const systemPrompt = `You are a study assistant. Answer ONLY from the provided course excerpts.
If the excerpts do not cover the question, say so plainly instead of guessing.
Respond with a single JSON object: {"answer": string, "cited_chunk_ids": [string], "follow_ups": [string]}.
cited_chunk_ids must list only the ids of excerpts you actually used.
Suggest up to three short follow-up questions.`

// Composer turns a retrieval result into a grounded, personalized answer.
type Composer struct {
	LLM llm.Provider
}

// Compose builds the grounded prompt, calls the model and validates the
// structured reply. Citations pointing outside the retrieved set are dropped.
// If the model keeps producing unparseable output past the retry budget, the
// raw text is returned as a degraded turn rather than failing the question.
func (c *Composer) Compose(ctx context.Context, question string, retrieval commonModels.RetrievalResult, directives personalize.Directives, history []commonModels.ConversationTurn) (commonModels.ConversationTurn, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	prompt := BuildPrompt(question, retrieval, directives, history)

	var raw string
	var err error
	for attempt := 0; attempt <= config.AnswerParseRetries; attempt++ {
		raw, err = c.LLM.Generate(ctx, prompt, systemPrompt, config.ModelTemperature)
		if err != nil {
			return commonModels.ConversationTurn{}, err
		}

		payload, perr := ParsePayload(raw)
		if perr != nil {
			log.Warn("Unparseable answer payload", "attempt", attempt, "error", perr)
			continue
		}

		turn := commonModels.ConversationTurn{
			Question:      question,
			Answer:        payload.Answer,
			CitedChunkIds: filterCitations(payload.CitedChunkIds, retrieval),
			FollowUps:     payload.FollowUps,
			Confidence:    retrieval.Confidence,
			Hedged:        retrieval.Fallback,
		}
		return turn, nil
	}

	log.Error("Answer payload malformed after retries, degrading to plain text")
	return commonModels.ConversationTurn{
		Question:   question,
		Answer:     strings.TrimSpace(StripCodeFence(raw)),
		Confidence: retrieval.Confidence,
		Hedged:     retrieval.Fallback,
		Degraded:   true,
	}, nil
}

// BuildPrompt assembles the user prompt: excerpts with ids, personalization
// rules, recent conversation and the question. On fallback retrievals the
// model is told to hedge explicitly.
func BuildPrompt(question string, retrieval commonModels.RetrievalResult, directives personalize.Directives, history []commonModels.ConversationTurn) string {
	var b strings.Builder

	if len(retrieval.Chunks) > 0 {
		b.WriteString("Course excerpts:\n")
		for _, sc := range retrieval.Chunks {
			fmt.Fprintf(&b, "[%s] (%s) %s\n", sc.Chunk.ChunkId, sc.Chunk.Doc.Name, sc.Chunk.Text)
		}
		b.WriteString("\n")
	} else {
		b.WriteString("No course excerpts matched this question.\n\n")
	}

	if retrieval.Fallback {
		b.WriteString("The excerpts above are a weak match for the question. State clearly that the course material may not cover this, then give only what the excerpts support.\n\n")
	}

	if rules := personalize.PromptRules(directives); rules != "" {
		b.WriteString("Style rules:\n")
		b.WriteString(rules)
		b.WriteString("\n")
	}

	if len(history) > 0 {
		b.WriteString("Recent conversation:\n")
		for _, t := range history {
			fmt.Fprintf(&b, "Q: %s\nA: %s\n", t.Question, t.Answer)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Question: %s\n", question)
	return b.String()
}

func filterCitations(cited []string, retrieval commonModels.RetrievalResult) []string {
	known := retrieval.ChunkIds()
	var kept []string
	seen := make(map[string]bool)
	for _, id := range cited {
		if known[id] && !seen[id] {
			kept = append(kept, id)
			seen[id] = true
		}
	}
	return kept
}
