package grader

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
)

var logger = logger_i.NewLogger("grader")

const rubricSystemPrompt = `You grade a learner's short answer against a reference answer.
Respond with a single JSON object: {"score": number, "rationale": string, "hint": string}.
score is between 0 and 1: full credit for answers matching the reference in substance,
partial credit for partially correct answers, zero for wrong or empty answers.
The hint should nudge the learner toward the reference answer without revealing it.`

type rubricPayload struct {
	Score     float64 `json:"score"`
	Rationale string  `json:"rationale"`
	Hint      string  `json:"hint"`
}

// Grader scores quiz attempts. Multiple choice is graded deterministically;
// short answers go through a low-temperature rubric call.
type Grader struct {
	LLM llm.Provider
}

// Grade scores every attempt against its quiz item. Attempts referencing
// unknown items and rubric calls that fail past the retry budget come back
// Ungraded instead of failing the whole batch.
func (g *Grader) Grade(ctx context.Context, quiz commonModels.Quiz, attempts []commonModels.QuizAttempt) ([]commonModels.GradeResult, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	byId := make(map[string]commonModels.QuizItem, len(quiz.Items))
	for _, item := range quiz.Items {
		byId[item.Id] = item
	}

	results := make([]commonModels.GradeResult, 0, len(attempts))
	for _, attempt := range attempts {
		item, ok := byId[attempt.ItemId]
		if !ok {
			results = append(results, commonModels.GradeResult{
				ItemId:    attempt.ItemId,
				MaxScore:  config.GradeScoreMax,
				Ungraded:  true,
				Rationale: "attempt references an unknown quiz item",
			})
			continue
		}

		switch item.Type {
		case commonModels.QuizItemMCQ:
			results = append(results, gradeMCQ(item, attempt))
		default:
			res, err := g.gradeShortAnswer(ctx, item, attempt)
			if err != nil {
				log.Error("Rubric grading failed, marking ungraded", "itemId", item.Id, "error", err)
				res = commonModels.GradeResult{
					ItemId:    item.Id,
					MaxScore:  config.GradeScoreMax,
					Ungraded:  true,
					Rationale: "grading service unavailable",
				}
			}
			results = append(results, res)
		}
	}
	return results, nil
}

func gradeMCQ(item commonModels.QuizItem, attempt commonModels.QuizAttempt) commonModels.GradeResult {
	res := commonModels.GradeResult{ItemId: item.Id, MaxScore: config.GradeScoreMax}

	if normalize(attempt.Answer) == normalize(item.AnswerKey) {
		res.Score = config.GradeScoreMax
		res.Correct = true
		res.Rationale = "matches the answer key"
	} else {
		res.Score = config.GradeScoreMin
		res.Rationale = "does not match the answer key"
		res.Hint = hintFrom(item)
	}
	return res
}

func (g *Grader) gradeShortAnswer(ctx context.Context, item commonModels.QuizItem, attempt commonModels.QuizAttempt) (commonModels.GradeResult, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\n", item.Prompt)
	fmt.Fprintf(&b, "Reference answer: %s\n", item.AnswerKey)
	if item.Explanation != "" {
		fmt.Fprintf(&b, "Context: %s\n", item.Explanation)
	}
	fmt.Fprintf(&b, "Learner answer: %s\n", attempt.Answer)

	var payload rubricPayload
	var lastErr error
	for retries := 0; retries <= config.AnswerParseRetries; retries++ {
		raw, err := g.LLM.Generate(ctx, b.String(), rubricSystemPrompt, config.GraderTemperature)
		if err != nil {
			return commonModels.GradeResult{}, fmt.Errorf("%w: %v", errs.ErrGradingService, err)
		}
		if err := json.Unmarshal([]byte(answer.StripCodeFence(raw)), &payload); err != nil {
			lastErr = fmt.Errorf("%w: %v", errs.ErrMalformedOutput, err)
			continue
		}
		lastErr = nil
		break
	}
	if lastErr != nil {
		return commonModels.GradeResult{}, lastErr
	}

	score := clampScore(payload.Score)
	return commonModels.GradeResult{
		ItemId:    item.Id,
		Score:     score,
		MaxScore:  config.GradeScoreMax,
		Correct:   score == config.GradeScoreMax,
		Rationale: payload.Rationale,
		Hint:      payload.Hint,
	}, nil
}

// clampScore bounds whatever number the rubric call produced. Models
// occasionally grade on a 0-10 or percentage scale despite instructions.
func clampScore(s float64) float64 {
	if s < config.GradeScoreMin {
		return config.GradeScoreMin
	}
	if s > config.GradeScoreMax {
		return config.GradeScoreMax
	}
	return s
}

func hintFrom(item commonModels.QuizItem) string {
	if item.Explanation != "" {
		return item.Explanation
	}
	return "Review the related course material and try again."
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
