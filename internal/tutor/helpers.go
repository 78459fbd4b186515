package tutor

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/edumentor/edumentor/internal/config"
	"github.com/edumentor/edumentor/internal/domain/commonModels"
	"github.com/edumentor/edumentor/internal/domain/errs"
	"github.com/edumentor/edumentor/internal/domain/jobModel"
	"github.com/edumentor/edumentor/internal/metrics"
	"github.com/edumentor/edumentor/internal/tutor/eval"
	"github.com/edumentor/edumentor/internal/tutor/personalize"
	"github.com/edumentor/edumentor/pkg/logger_i"
)

func returnTurn(job jobModel.Job, turn commonModels.ConversationTurn) jobModel.Job {
	job.JobPayload.Turn = &turn
	job.CurrentStep = jobModel.Complete
	return job
}

func logOutput(job jobModel.Job, status jobModel.InternalStatus, log *logger_i.Logger) jobModel.Job {
	job.CurrentStep = status
	log.Debug("ProcessQuestion", "Current Status", job.CurrentStep)
	return job
}

// jobError marks the job failed. The retry flag follows the error taxonomy:
// transient service failures are retryable, everything else is not.
func (s *service) jobError(job jobModel.Job, err error, message string) jobModel.Job {
	s.logger.Error(message, "error", err)

	job.Error = jobModel.JobError{
		Code:    http.StatusInternalServerError,
		Message: "Internal Server Error",
		Retry:   errs.Retryable(err),
	}
	job.Status = jobModel.JobStatusError
	return job
}

func (s *service) executeSessionStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job) (commonModels.LearnerProfile, []commonModels.ConversationTurn) {
	*job = logOutput(*job, jobModel.SessionCall, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("session_lookup", time.Since(start)) }()

	profile, err := s.session.GetProfile(ctx)
	if err != nil {
		log.Warn("Profile unavailable, answering unpersonalized", "error", err)
	}
	history, err := s.session.RecentTurns(ctx)
	if err != nil {
		log.Warn("History unavailable", "error", err)
	}
	return profile, history
}

func (s *service) executeEmbeddingStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job) ([]float32, error) {
	*job = logOutput(*job, jobModel.EmbeddingAPICall, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("embedding", time.Since(start)) }()

	return s.embedder.GetEmbedding(ctx, job.JobPayload.Question)
}

func (s *service) executeCacheCheckStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job, emb []float32) (commonModels.ConversationTurn, bool) {
	*job = logOutput(*job, jobModel.CacheCall, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("cache_lookup", time.Since(start)) }()

	turn, found, _ := s.vectorDB.GetCachedTurn(ctx, emb)
	if found {
		// the cached answer was for a near-identical question, not this one
		turn.Question = job.JobPayload.Question
	}
	return turn, found
}

func (s *service) executeRetrievalStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job, emb []float32) (commonModels.RetrievalResult, error) {
	*job = logOutput(*job, jobModel.RetrievalCall, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("vector_search", time.Since(start)) }()

	return s.retriever.RetrieveVector(ctx, emb,
		config.EnvInt("TOP_K", config.TopK),
		config.EnvFloat("CONFIDENCE_THRESHOLD", config.ConfidenceThreshold))
}

func (s *service) executeTopicRetrievalStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job) (commonModels.RetrievalResult, error) {
	*job = logOutput(*job, jobModel.RetrievalCall, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("vector_search", time.Since(start)) }()

	return s.retriever.Retrieve(ctx, job.JobPayload.TopicQuery,
		config.EnvInt("TOP_K", config.TopK),
		config.EnvFloat("CONFIDENCE_THRESHOLD", config.ConfidenceThreshold))
}

func (s *service) executeComposeStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job, retrieval commonModels.RetrievalResult, directives personalize.Directives, history []commonModels.ConversationTurn) (commonModels.ConversationTurn, error) {
	*job = logOutput(*job, jobModel.LLMCall, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("llm_generation", time.Since(start)) }()

	return s.composer.Compose(ctx, job.JobPayload.Question, retrieval, directives, history)
}

func (s *service) appendTurn(ctx context.Context, log *logger_i.Logger, turn commonModels.ConversationTurn) {
	if err := s.session.AppendTurn(ctx, turn); err != nil {
		log.Error("Failed to append turn to session", "error", err)
	}
}

// recordAnswerQuality scores the answer against the text of the chunks it
// cited. Low overlap on a confident retrieval is the signal worth watching.
func (s *service) recordAnswerQuality(refId string, turn commonModels.ConversationTurn, retrieval commonModels.RetrievalResult) {
	cited := make(map[string]bool, len(turn.CitedChunkIds))
	for _, id := range turn.CitedChunkIds {
		cited[id] = true
	}

	var grounding []string
	for _, sc := range retrieval.Chunks {
		if cited[sc.Chunk.ChunkId] {
			grounding = append(grounding, sc.Chunk.Text)
		}
	}
	if len(grounding) == 0 {
		return
	}

	reference := strings.Join(grounding, " ")
	s.quality.Log("answer_rouge_l", eval.RougeL(turn.Answer, reference).F1, refId)
	s.quality.Log("answer_bleu", eval.Bleu(turn.Answer, reference), refId)
}

func (s *service) recordQuizScore(ctx context.Context, topic string, score, max float64) {
	profile, err := s.session.GetProfile(ctx)
	if err != nil {
		s.logger.Error("Profile unavailable, quiz score not recorded", "error", err)
		return
	}
	profile.QuizScores = append(profile.QuizScores, commonModels.QuizScore{
		Concept:   topic,
		Score:     score,
		MaxScore:  max,
		Timestamp: time.Now(),
	})
	if err := s.session.SaveProfile(ctx, profile); err != nil {
		s.logger.Error("Failed to save quiz score to profile", "error", err)
	}
}
