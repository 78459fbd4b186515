package tutor

import (
	"context"
	"time"

	"github.com/edumentor/edumentor/internal/adapter/utils"
	"github.com/edumentor/edumentor/internal/config"
	"github.com/edumentor/edumentor/internal/domain/commonModels"
	"github.com/edumentor/edumentor/internal/domain/jobModel"
	"github.com/edumentor/edumentor/internal/metrics"
	"github.com/edumentor/edumentor/internal/tutor/answer"
	"github.com/edumentor/edumentor/internal/tutor/embedding"
	"github.com/edumentor/edumentor/internal/tutor/eval"
	"github.com/edumentor/edumentor/internal/tutor/grader"
	"github.com/edumentor/edumentor/internal/tutor/ingest"
	"github.com/edumentor/edumentor/internal/tutor/llm"
	"github.com/edumentor/edumentor/internal/tutor/personalize"
	"github.com/edumentor/edumentor/internal/tutor/quiz"
	"github.com/edumentor/edumentor/internal/tutor/retriever"
	"github.com/edumentor/edumentor/internal/tutor/vectorDB"
	"github.com/edumentor/edumentor/pkg/logger_i"
)

// Service is the contract the worker and the sync handlers call. It hides the
// vector index, the model provider and the session state behind one surface.
type Service interface {
	ProcessQuestion(ctx context.Context, job jobModel.Job) jobModel.Job
	IngestDocument(ctx context.Context, job jobModel.Job) jobModel.Job
	GenerateQuiz(ctx context.Context, job jobModel.Job) jobModel.Job
	Grade(ctx context.Context, q commonModels.Quiz, attempts []commonModels.QuizAttempt) ([]commonModels.GradeResult, error)
	GenerateFlashcards(ctx context.Context, topic string, count int) ([]commonModels.Flashcard, error)
	Summarize(ctx context.Context, topic string) (string, error)
	ResetCorpus(ctx context.Context) error
	Quality() *eval.MetricLog
}

type service struct {
	vectorDB    vectorDB.DataProcessor
	llmProvider llm.Provider
	embedder    embedding.Embedder
	retriever   *retriever.Retriever
	composer    *answer.Composer
	quizzer     *quiz.Generator
	grader      *grader.Grader
	session     jobModel.SessionStore
	ledger      jobModel.DocumentLedger
	quality     *eval.MetricLog
	logger      *logger_i.Logger
}

// NewService wires the pipeline together. Mocks slot in through the same
// interfaces the real clients satisfy.
func NewService(vector vectorDB.DataProcessor, provider llm.Provider, em embedding.Embedder, session jobModel.SessionStore, ledger jobModel.DocumentLedger) Service {
	return &service{
		vectorDB:    vector,
		llmProvider: provider,
		embedder:    em,
		retriever:   &retriever.Retriever{Embedder: em, VectorDB: vector},
		composer:    &answer.Composer{LLM: provider},
		quizzer:     &quiz.Generator{LLM: provider},
		grader:      &grader.Grader{LLM: provider},
		session:     session,
		ledger:      ledger,
		quality:     eval.NewMetricLog(),
		logger:      logger_i.NewLogger("Tutor Service :"),
	}
}

func (s *service) Quality() *eval.MetricLog {
	return s.quality
}

// ProcessQuestion runs the full ask path: profile, embedding, answer cache,
// retrieval, grounded generation, session append. Every step stamps the job
// so /status shows where a slow question is stuck.
func (s *service) ProcessQuestion(ctx context.Context, jobt jobModel.Job) jobModel.Job {
	inMethodLogger := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "JobId", jobt.Id)

	processContext, cancel := context.WithTimeout(ctx, config.ExternalCallTimeout)
	defer cancel()

	jobt.CurrentStep = jobModel.AskInit

	profile, history := s.executeSessionStep(processContext, inMethodLogger, &jobt)

	// Embedding
	questionVector, err := s.executeEmbeddingStep(processContext, inMethodLogger, &jobt)
	if err != nil {
		return s.jobError(jobt, err, "EMBEDDING_FAILURE")
	}

	// Cache Check
	cachedTurn, found := s.executeCacheCheckStep(ctx, inMethodLogger, &jobt, questionVector)
	if found {
		s.appendTurn(ctx, inMethodLogger, cachedTurn)
		return returnTurn(jobt, cachedTurn)
	}

	// Retrieval
	retrievalResult, err := s.executeRetrievalStep(processContext, inMethodLogger, &jobt, questionVector)
	if err != nil {
		return s.jobError(jobt, err, "RETRIEVAL_FAILURE")
	}
	metrics.ObserveRetrievalConfidence(retrievalResult.Confidence, retrievalResult.Fallback)

	// Grounded Generation
	directives := personalize.Adapt(profile).WithOverrides(personalize.Overrides{
		ExplainSimply: jobt.JobPayload.ExplainSimply,
		Verbosity:     jobt.JobPayload.Verbosity,
	})
	turn, err := s.executeComposeStep(processContext, inMethodLogger, &jobt, retrievalResult, directives, history)
	if err != nil {
		return s.jobError(jobt, err, "LLM_GENERATION_FAILURE")
	}

	s.recordAnswerQuality(jobt.Id, turn, retrievalResult)
	s.appendTurn(ctx, inMethodLogger, turn)

	// Background Cache Save. Degraded and hedged turns never enter the
	// cache; a weak answer should not outlive its retrieval.
	if !turn.Degraded && !turn.Hedged {
		go func() {
			if err := s.vectorDB.SaveTurnToCache(ctx, utils.GetNewUUID(), questionVector, turn); err != nil {
				s.logger.Error("Failed to save turn to cache")
			}
		}()
	}

	return returnTurn(jobt, turn)
}

func (s *service) IngestDocument(ctx context.Context, job jobModel.Job) jobModel.Job {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("Document_ingestion", time.Since(start)) }()

	j, err := ingest.ProcessDocumentIngestion(ctx, job, s.embedder, s.vectorDB, s.ledger)
	if err != nil {
		return s.jobError(j, err, "INGESTION_FAILURE")
	}
	return j
}

// GenerateQuiz retrieves material for the topic and asks the generator for a
// validated item set. A shortfall is reported, not hidden.
func (s *service) GenerateQuiz(ctx context.Context, jobt jobModel.Job) jobModel.Job {
	inMethodLogger := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "JobId", jobt.Id)

	processContext, cancel := context.WithTimeout(ctx, config.ExternalCallTimeout)
	defer cancel()

	jobt.CurrentStep = jobModel.QuizInit

	retrievalResult, err := s.executeTopicRetrievalStep(processContext, inMethodLogger, &jobt)
	if err != nil {
		return s.jobError(jobt, err, "RETRIEVAL_FAILURE")
	}

	jobt = logOutput(jobt, jobModel.QuizGeneration, inMethodLogger)
	count := jobt.JobPayload.ItemCount
	if count <= 0 {
		count = config.EnvInt("QUIZ_ITEM_COUNT", config.QuizItemCount)
	}

	start := time.Now()
	generated, err := s.quizzer.Generate(processContext, jobt.JobPayload.TopicQuery, count, jobt.JobPayload.ItemTypes, retrievalResult)
	metrics.CaptureExecutionMetrics("quiz_generation", time.Since(start))
	if err != nil {
		return s.jobError(jobt, err, "QUIZ_GENERATION_FAILURE")
	}

	metrics.AddQuizShortfall(generated.Shortfall)
	s.quality.Log("quiz_shortfall", float64(generated.Shortfall), jobt.Id)

	jobt.JobPayload.Quiz = &generated
	jobt.CurrentStep = jobModel.Complete
	return jobt
}

// Grade scores attempts and folds the outcome back into the learner profile
// so future answers can reinforce weak concepts.
func (s *service) Grade(ctx context.Context, q commonModels.Quiz, attempts []commonModels.QuizAttempt) ([]commonModels.GradeResult, error) {
	results, err := s.grader.Grade(ctx, q, attempts)
	if err != nil {
		return nil, err
	}

	var score, max float64
	for _, r := range results {
		if r.Ungraded {
			continue
		}
		score += r.Score
		max += r.MaxScore
	}
	if max > 0 {
		s.quality.Log("quiz_score", score/max, q.Topic)
		s.recordQuizScore(ctx, q.Topic, score, max)
	}
	return results, nil
}

func (s *service) GenerateFlashcards(ctx context.Context, topic string, count int) ([]commonModels.Flashcard, error) {
	retrievalResult, err := s.retriever.Retrieve(ctx, topic,
		config.EnvInt("TOP_K", config.TopK),
		config.EnvFloat("CONFIDENCE_THRESHOLD", config.ConfidenceThreshold))
	if err != nil {
		return nil, err
	}
	return s.quizzer.GenerateFlashcards(ctx, topic, count, retrievalResult)
}

// Summarize condenses the indexed material on a topic into a study summary.
func (s *service) Summarize(ctx context.Context, topic string) (string, error) {
	retrievalResult, err := s.retriever.Retrieve(ctx, topic,
		config.EnvInt("TOP_K", config.TopK),
		config.EnvFloat("CONFIDENCE_THRESHOLD", config.ConfidenceThreshold))
	if err != nil {
		return "", err
	}
	return s.composer.Summarize(ctx, topic, retrievalResult)
}

// ResetCorpus drops every indexed collection and the ingestion ledger. The
// learner profile survives; forgetting the course is not forgetting the
// learner.
func (s *service) ResetCorpus(ctx context.Context) error {
	if err := s.vectorDB.DropCorpus(ctx); err != nil {
		return err
	}
	return s.ledger.Clear(ctx)
}
