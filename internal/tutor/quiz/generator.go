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
	"github.com/edumentor/edumentor/internal/tutor/llm"
	"github.com/edumentor/edumentor/pkg/logger_i"
	"github.com/google/uuid"
)

var logger = logger_i.NewLogger("quiz")

const generatorSystemPrompt = `You write quiz questions grounded strictly in the provided course excerpts.
Respond with a single JSON array of items. Each item is an object:
{"type": "MCQ" | "ShortAnswer", "prompt": string, "options": [string], "answer_key": string,
"difficulty": "easy" | "medium" | "hard", "explanation": string, "grounding_chunk_ids": [string]}.
MCQ items need distinct options with the answer key matching exactly one of them.
ShortAnswer items must omit options. grounding_chunk_ids must reference the excerpt ids you used.`

type itemPayload struct {
	Type              string   `json:"type"`
	Prompt            string   `json:"prompt"`
	Options           []string `json:"options"`
	AnswerKey         string   `json:"answer_key"`
	Difficulty        string   `json:"difficulty"`
	Explanation       string   `json:"explanation"`
	GroundingChunkIds []string `json:"grounding_chunk_ids"`
}

// Generator produces validated quizzes from retrieved course material.
type Generator struct {
	LLM llm.Provider
}

// Generate asks the model for count items over the retrieved chunks, keeps
// only the structurally valid ones and re-asks for the remainder until the
// retry budget runs out. A quiz can come back short; Shortfall says by how
// much, and the caller decides whether short is acceptable.
func (g *Generator) Generate(ctx context.Context, topic string, count int, types []commonModels.QuizItemType, retrieval commonModels.RetrievalResult) (commonModels.Quiz, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))
	q := commonModels.Quiz{Topic: topic}

	if count <= 0 {
		return q, fmt.Errorf("%w: quiz item count must be positive", errs.ErrInvalidConfig)
	}
	if len(retrieval.Chunks) == 0 || retrieval.Fallback {
		log.Warn("Topic not covered by corpus, returning empty quiz", "topic", topic)
		q.Shortfall = count
		return q, nil
	}

	known := retrieval.ChunkIds()
	for attempt := 0; attempt <= config.QuizRetryBudget && len(q.Items) < count; attempt++ {
		needed := count - len(q.Items)

		raw, err := g.LLM.Generate(ctx, buildQuizPrompt(topic, needed, types, retrieval), generatorSystemPrompt, config.ModelTemperature)
		if err != nil {
			return q, err
		}

		candidates, err := parseItems(raw)
		if err != nil {
			log.Warn("Unparseable quiz payload", "attempt", attempt, "error", err)
			continue
		}

		for _, item := range candidates {
			if len(q.Items) >= count {
				break
			}
			if err := ValidateItem(item, known); err != nil {
				log.Warn("Rejected quiz item", "reason", err)
				continue
			}
			item.Id = uuid.NewString()
			q.Items = append(q.Items, item)
		}
	}

	q.Shortfall = count - len(q.Items)
	if q.Shortfall > 0 {
		log.Warn("Quiz generated short", "requested", count, "got", len(q.Items))
	}
	return q, nil
}

func buildQuizPrompt(topic string, count int, types []commonModels.QuizItemType, retrieval commonModels.RetrievalResult) string {
	var b strings.Builder

	b.WriteString("Course excerpts:\n")
	for _, sc := range retrieval.Chunks {
		fmt.Fprintf(&b, "[%s] %s\n", sc.Chunk.ChunkId, sc.Chunk.Text)
	}
	b.WriteString("\n")

	typeNames := make([]string, 0, len(types))
	for _, t := range types {
		typeNames = append(typeNames, string(t))
	}
	if len(typeNames) == 0 {
		typeNames = []string{string(commonModels.QuizItemMCQ), string(commonModels.QuizItemShortAnswer)}
	}

	fmt.Fprintf(&b, "Write %d quiz items about %q using only the excerpts above.\n", count, topic)
	fmt.Fprintf(&b, "Allowed item types: %s.\n", strings.Join(typeNames, ", "))
	return b.String()
}

func parseItems(raw string) ([]commonModels.QuizItem, error) {
	var payloads []itemPayload
	if err := json.Unmarshal([]byte(answer.StripCodeFence(raw)), &payloads); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrMalformedOutput, err)
	}

	items := make([]commonModels.QuizItem, 0, len(payloads))
	for _, p := range payloads {
		items = append(items, commonModels.QuizItem{
			Type:              commonModels.QuizItemType(p.Type),
			Prompt:            p.Prompt,
			Options:           p.Options,
			AnswerKey:         p.AnswerKey,
			Difficulty:        p.Difficulty,
			Explanation:       p.Explanation,
			GroundingChunkIds: p.GroundingChunkIds,
		})
	}
	return items, nil
}
