package tutor_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/edumentor/edumentor/internal/config"
	"github.com/edumentor/edumentor/internal/data/store"
	"github.com/edumentor/edumentor/internal/domain/commonModels"
	"github.com/edumentor/edumentor/internal/domain/errs"
	"github.com/edumentor/edumentor/internal/domain/jobModel"
	"github.com/edumentor/edumentor/internal/tutor"
)

func newTestService(v *MockVectorDB, l *MockLLM, e *MockEmbedder) tutor.Service {
	return tutor.NewService(v, l, e, store.InitInMemorySessionStore(), store.InitInMemoryDocumentLedger())
}

func TestProcessQuestion_Scenarios(t *testing.T) {
	retrievedChunk := commonModels.ScoredChunk{
		Chunk: commonModels.Chunk{ChunkId: "c1", Text: "chlorophyll absorbs light"},
		Score: 0.8,
	}

	tests := []struct {
		name           string
		setupMocks     func(e *MockEmbedder, v *MockVectorDB, l *MockLLM)
		expectedStep   jobModel.InternalStatus
		expectedStatus jobModel.JobStatus
		expectedAnswer string
		expectHedged   bool
		expectRetry    bool
	}{
		{
			name: "Success_Full_Flow",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, l *MockLLM) {
				v.OnQuery = func(ctx context.Context, emb []float32, k uint64) ([]commonModels.ScoredChunk, error) {
					return []commonModels.ScoredChunk{retrievedChunk}, nil
				}
				l.OnGenerate = func(ctx context.Context, prompt, system string, temp float32) (string, error) {
					return `{"answer": "final answer", "cited_chunk_ids": ["c1"]}`, nil
				}
			},
			expectedStep:   jobModel.Complete,
			expectedStatus: jobModel.JobStatusQueued,
			expectedAnswer: "final answer",
		},
		{
			name: "Success_Cache_Hit",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, l *MockLLM) {
				v.OnGetCachedTurn = func(ctx context.Context, emb []float32) (commonModels.ConversationTurn, bool, error) {
					return commonModels.ConversationTurn{Question: "older phrasing", Answer: "cached answer"}, true, nil
				}
				l.OnGenerate = func(ctx context.Context, prompt, system string, temp float32) (string, error) {
					t.Error("cache hit must not reach the model")
					return "", nil
				}
			},
			expectedStep:   jobModel.Complete,
			expectedStatus: jobModel.JobStatusQueued,
			expectedAnswer: "cached answer",
		},
		{
			name: "Hedged_Low_Confidence",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, l *MockLLM) {
				v.OnQuery = func(ctx context.Context, emb []float32, k uint64) ([]commonModels.ScoredChunk, error) {
					weak := retrievedChunk
					weak.Score = -0.8 // normalizes to 0.1, under the default threshold
					return []commonModels.ScoredChunk{weak}, nil
				}
				l.OnGenerate = func(ctx context.Context, prompt, system string, temp float32) (string, error) {
					return `{"answer": "the material may not cover this"}`, nil
				}
			},
			expectedStep:   jobModel.Complete,
			expectedStatus: jobModel.JobStatusQueued,
			expectedAnswer: "the material may not cover this",
			expectHedged:   true,
		},
		{
			name: "Failure_Embedding",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, l *MockLLM) {
				e.OnGetEmbedding = func(ctx context.Context, text string) ([]float32, error) {
					return nil, fmt.Errorf("%w: api limit", errs.ErrEmbeddingService)
				}
			},
			expectedStatus: jobModel.JobStatusError,
			expectRetry:    true,
		},
		{
			name: "Failure_Vector_Search",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, l *MockLLM) {
				v.OnQuery = func(ctx context.Context, emb []float32, k uint64) ([]commonModels.ScoredChunk, error) {
					return nil, errors.New("db timeout")
				}
			},
			expectedStatus: jobModel.JobStatusError,
		},
		{
			name: "Failure_LLM_Generation",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, l *MockLLM) {
				v.OnQuery = func(ctx context.Context, emb []float32, k uint64) ([]commonModels.ScoredChunk, error) {
					return []commonModels.ScoredChunk{retrievedChunk}, nil
				}
				l.OnGenerate = func(ctx context.Context, prompt, system string, temp float32) (string, error) {
					return "", fmt.Errorf("%w: provider down", errs.ErrGenerationService)
				}
			},
			expectedStatus: jobModel.JobStatusError,
			expectRetry:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mEmbed := &MockEmbedder{}
			mVec := &MockVectorDB{}
			mLLM := &MockLLM{}

			tt.setupMocks(mEmbed, mVec, mLLM)

			s := newTestService(mVec, mLLM, mEmbed)

			ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
			job := jobModel.Job{
				Id:     "test-job",
				Status: jobModel.JobStatusQueued,
				JobPayload: jobModel.JobPayload{
					Question: "test question",
				},
			}

			result := s.ProcessQuestion(ctx, job)

			if result.Status != tt.expectedStatus {
				t.Errorf("Status got %v, want %v", result.Status, tt.expectedStatus)
			}
			if tt.expectedStep != "" && result.CurrentStep != tt.expectedStep {
				t.Errorf("Step got %v, want %v", result.CurrentStep, tt.expectedStep)
			}

			if tt.expectedStatus == jobModel.JobStatusError {
				if result.Error.Code != http.StatusInternalServerError {
					t.Errorf("Error code got %d, want %d", result.Error.Code, http.StatusInternalServerError)
				}
				if result.Error.Retry != tt.expectRetry {
					t.Errorf("Retry got %v, want %v", result.Error.Retry, tt.expectRetry)
				}
				return
			}

			if result.JobPayload.Turn == nil {
				t.Fatal("successful question must carry a turn")
			}
			if result.JobPayload.Turn.Answer != tt.expectedAnswer {
				t.Errorf("Answer got %q, want %q", result.JobPayload.Turn.Answer, tt.expectedAnswer)
			}
			if result.JobPayload.Turn.Hedged != tt.expectHedged {
				t.Errorf("Hedged got %v, want %v", result.JobPayload.Turn.Hedged, tt.expectHedged)
			}
			if result.JobPayload.Turn.Question != "test question" {
				t.Errorf("turn question got %q, want the asked question", result.JobPayload.Turn.Question)
			}
		})
	}
}

func TestProcessQuestion_PerQuestionOverrides(t *testing.T) {
	retrievedChunk := commonModels.ScoredChunk{
		Chunk: commonModels.Chunk{ChunkId: "c1", Text: "chlorophyll absorbs light"},
		Score: 0.8,
	}

	askJob := func(explainSimply bool, verbosity string) jobModel.Job {
		return jobModel.Job{
			Id:     "override-job",
			Status: jobModel.JobStatusQueued,
			JobPayload: jobModel.JobPayload{
				Question:      "test question",
				ExplainSimply: explainSimply,
				Verbosity:     verbosity,
			},
		}
	}

	tests := []struct {
		name          string
		explainSimply bool
		verbosity     string
		wantInPrompt  []string
		absentRules   []string
	}{
		{
			name:          "explain simply and short verbosity reach the prompt",
			explainSimply: true,
			verbosity:     "short",
			wantInPrompt:  []string{"complete beginner", "under four sentences"},
		},
		{
			name:        "no overrides leave the prompt unchanged",
			absentRules: []string{"complete beginner", "under four sentences", "thorough, detailed"},
		},
		{
			name:         "long verbosity requests a detailed answer",
			verbosity:    "long",
			wantInPrompt: []string{"thorough, detailed"},
			absentRules:  []string{"complete beginner"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var capturedPrompt string
			mVec := &MockVectorDB{
				OnQuery: func(ctx context.Context, emb []float32, k uint64) ([]commonModels.ScoredChunk, error) {
					return []commonModels.ScoredChunk{retrievedChunk}, nil
				},
			}
			mLLM := &MockLLM{
				OnGenerate: func(ctx context.Context, prompt, system string, temp float32) (string, error) {
					capturedPrompt = prompt
					return `{"answer": "final answer", "cited_chunk_ids": ["c1"]}`, nil
				},
			}

			s := newTestService(mVec, mLLM, &MockEmbedder{})
			ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "override-trace")

			result := s.ProcessQuestion(ctx, askJob(tt.explainSimply, tt.verbosity))
			if result.Status == jobModel.JobStatusError {
				t.Fatalf("question failed: %+v", result.Error)
			}

			for _, want := range tt.wantInPrompt {
				if !strings.Contains(capturedPrompt, want) {
					t.Errorf("prompt should contain %q, got:\n%s", want, capturedPrompt)
				}
			}
			for _, absent := range tt.absentRules {
				if strings.Contains(capturedPrompt, absent) {
					t.Errorf("prompt should not contain %q", absent)
				}
			}
		})
	}
}

func TestSummarize_GroundedInRetrievedChunks(t *testing.T) {
	retrievedChunk := commonModels.ScoredChunk{
		Chunk: commonModels.Chunk{ChunkId: "c1", Text: "chlorophyll absorbs light"},
		Score: 0.8,
	}

	t.Run("covered topic is summarized from the excerpts", func(t *testing.T) {
		mVec := &MockVectorDB{
			OnQuery: func(ctx context.Context, emb []float32, k uint64) ([]commonModels.ScoredChunk, error) {
				return []commonModels.ScoredChunk{retrievedChunk}, nil
			},
		}
		mLLM := &MockLLM{
			OnGenerate: func(ctx context.Context, prompt, system string, temp float32) (string, error) {
				if !strings.Contains(prompt, "chlorophyll absorbs light") {
					t.Error("summary prompt must carry the retrieved excerpts")
				}
				return "Plants capture light with chlorophyll.", nil
			},
		}

		s := newTestService(mVec, mLLM, &MockEmbedder{})
		ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "summary-trace")

		summary, err := s.Summarize(ctx, "photosynthesis")
		if err != nil {
			t.Fatalf("Summarize failed: %v", err)
		}
		if summary != "Plants capture light with chlorophyll." {
			t.Errorf("unexpected summary: %q", summary)
		}
	})

	t.Run("uncovered topic yields an empty summary without calling the model", func(t *testing.T) {
		mLLM := &MockLLM{
			OnGenerate: func(ctx context.Context, prompt, system string, temp float32) (string, error) {
				t.Error("uncovered topic must not reach the model")
				return "", nil
			},
		}

		s := newTestService(&MockVectorDB{}, mLLM, &MockEmbedder{})
		ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "summary-trace")

		summary, err := s.Summarize(ctx, "medieval jousting")
		if err != nil {
			t.Fatalf("Summarize failed: %v", err)
		}
		if summary != "" {
			t.Errorf("expected empty summary, got %q", summary)
		}
	})
}

func TestIngestDocument_Scenarios(t *testing.T) {
	tests := []struct {
		name           string
		setupMocks     func(e *MockEmbedder, v *MockVectorDB)
		expectedStatus jobModel.JobStatus
		expectRetry    bool
	}{
		{
			name:           "Ingestion_Success",
			setupMocks:     func(e *MockEmbedder, v *MockVectorDB) {},
			expectedStatus: jobModel.JobStatusComplete,
		},
		{
			name: "Failure_Collection_Creation",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB) {
				v.OnCreateCollection = func(ctx context.Context, name string) error {
					return fmt.Errorf("%w: connection refused", errs.ErrIndexUnavailable)
				}
			},
			expectedStatus: jobModel.JobStatusError,
			expectRetry:    true,
		},
		{
			name: "Failure_Batch_Upsert",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB) {
				v.OnUpsertDocument = func(ctx context.Context, coll string, chunks []commonModels.Chunk, vectors [][]float32) error {
					return errors.New("disk full")
				}
			},
			expectedStatus: jobModel.JobStatusError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mEmbed := &MockEmbedder{}
			mVec := &MockVectorDB{}

			tt.setupMocks(mEmbed, mVec)

			s := newTestService(mVec, &MockLLM{}, mEmbed)

			ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "ingest-trace")
			job := jobModel.Job{
				Id: "ingest-job-1",
				JobPayload: jobModel.JobPayload{
					IngestDocName: "bio-notes.txt",
					IngestText:    "test content for ingestion",
				},
			}

			result := s.IngestDocument(ctx, job)

			if result.Status != tt.expectedStatus {
				t.Errorf("Status got %v, want %v", result.Status, tt.expectedStatus)
			}
			if tt.expectedStatus == jobModel.JobStatusError {
				if result.Error.Code != http.StatusInternalServerError {
					t.Errorf("Error code got %d, want %d", result.Error.Code, http.StatusInternalServerError)
				}
				if result.Error.Retry != tt.expectRetry {
					t.Errorf("Retry got %v, want %v", result.Error.Retry, tt.expectRetry)
				}
			}
		})
	}
}

const bioNotes = `Photosynthesis lets plants convert light energy into chemical ` +
	`energy. Chlorophyll in the leaf absorbs light and powers the reaction. ` +
	`Oxygen is released as a byproduct of splitting water.`

// scriptedLLM answers and writes quizzes grounded on whatever excerpt ids the
// prompt actually contains, the way a cooperative model would.
func scriptedLLM(t *testing.T) *MockLLM {
	t.Helper()
	return &MockLLM{
		OnGenerate: func(ctx context.Context, prompt, system string, temp float32) (string, error) {
			ids := extractChunkIds(prompt)

			if strings.Contains(system, "quiz") {
				if len(ids) == 0 {
					t.Error("quiz prompt carried no excerpt ids")
					return "[]", nil
				}
				var items []map[string]any
				for i := 0; i < 3; i++ {
					items = append(items, map[string]any{
						"type":                "MCQ",
						"prompt":              fmt.Sprintf("Question %d about photosynthesis", i+1),
						"options":             []string{"light energy", "sound energy", "kinetic energy"},
						"answer_key":          "light energy",
						"difficulty":          "easy",
						"explanation":         "plants convert light energy",
						"grounding_chunk_ids": []string{ids[0]},
					})
				}
				data, _ := json.Marshal(items)
				return string(data), nil
			}

			payload := map[string]any{
				"answer":     "Plants convert light energy into chemical energy.",
				"follow_ups": []string{"What role does chlorophyll play?"},
			}
			if len(ids) > 0 {
				payload["cited_chunk_ids"] = ids[:1]
			} else {
				payload["answer"] = "The course material may not cover this."
			}
			data, _ := json.Marshal(payload)
			return string(data), nil
		},
	}
}

func TestStudyFlow_EndToEnd(t *testing.T) {
	t.Setenv("CHUNK_SIZE", "50")
	t.Setenv("CHUNK_OVERLAP", "10")
	t.Setenv("CONFIDENCE_THRESHOLD", "0.55")

	index := &memoryIndex{}
	embedder := newWordEmbedder()
	session := store.InitInMemorySessionStore()
	ledger := store.InitInMemoryDocumentLedger()
	s := tutor.NewService(index, scriptedLLM(t), embedder, session, ledger)

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "flow-trace")

	ingestJob := jobModel.Job{
		Id:      "flow-ingest",
		JobType: jobModel.JobTypeIngest,
		JobPayload: jobModel.JobPayload{
			IngestDocName: "bio-notes.txt",
			IngestText:    bioNotes,
		},
	}

	t.Run("ingest indexes the document", func(t *testing.T) {
		result := s.IngestDocument(ctx, ingestJob)
		if result.Status != jobModel.JobStatusComplete {
			t.Fatalf("ingestion failed: %+v", result.Error)
		}
		summary := result.JobPayload.IngestSummary
		if summary == nil || summary.Ingested != 1 {
			t.Fatalf("bad summary: %+v", summary)
		}
		if summary.TotalChunks < 2 {
			t.Errorf("small chunk size should split the notes, got %d chunks", summary.TotalChunks)
		}
		if index.size() != summary.TotalChunks {
			t.Errorf("index holds %d chunks, summary says %d", index.size(), summary.TotalChunks)
		}
	})

	t.Run("re-ingesting the same notes is a no-op", func(t *testing.T) {
		before := index.size()
		result := s.IngestDocument(ctx, ingestJob)
		if result.Status != jobModel.JobStatusComplete {
			t.Fatalf("re-ingestion failed: %+v", result.Error)
		}
		if result.JobPayload.IngestSummary.Skipped != 1 {
			t.Errorf("unchanged document should be skipped, got %+v", result.JobPayload.IngestSummary)
		}
		if index.size() != before {
			t.Error("skipped document must not grow the index")
		}
	})

	t.Run("on-topic question is answered with citations", func(t *testing.T) {
		askJob := jobModel.Job{
			Id:      "flow-ask",
			JobType: jobModel.JobTypeAsk,
			JobPayload: jobModel.JobPayload{
				Question: "How do plants convert light energy during photosynthesis?",
			},
		}
		result := s.ProcessQuestion(ctx, askJob)
		if result.Status == jobModel.JobStatusError {
			t.Fatalf("question failed: %+v", result.Error)
		}
		turn := result.JobPayload.Turn
		if turn == nil || turn.Answer == "" {
			t.Fatal("expected an answer")
		}
		if turn.Hedged || turn.Degraded {
			t.Errorf("covered question must not hedge or degrade: %+v", turn)
		}
		if len(turn.CitedChunkIds) == 0 {
			t.Error("grounded answer must cite at least one chunk")
		}
		if turn.Confidence <= 0.55 {
			t.Errorf("on-topic confidence too low: %v", turn.Confidence)
		}
	})

	t.Run("off-topic question hedges", func(t *testing.T) {
		askJob := jobModel.Job{
			Id:      "flow-offtopic",
			JobType: jobModel.JobTypeAsk,
			JobPayload: jobModel.JobPayload{
				Question: "Summarize medieval castle siege warfare",
			},
		}
		result := s.ProcessQuestion(ctx, askJob)
		if result.Status == jobModel.JobStatusError {
			t.Fatalf("question failed: %+v", result.Error)
		}
		turn := result.JobPayload.Turn
		if turn == nil || !turn.Hedged {
			t.Fatalf("uncovered question must come back hedged: %+v", turn)
		}
		if len(turn.CitedChunkIds) != 0 {
			t.Errorf("hedged answer has nothing to cite, got %v", turn.CitedChunkIds)
		}
	})

	t.Run("conversation history accumulates", func(t *testing.T) {
		turns, err := session.RecentTurns(ctx)
		if err != nil {
			t.Fatalf("RecentTurns failed: %v", err)
		}
		if len(turns) != 2 {
			t.Errorf("expected 2 recorded turns, got %d", len(turns))
		}
	})

	var generatedQuiz commonModels.Quiz

	t.Run("quiz covers the topic in full", func(t *testing.T) {
		quizJob := jobModel.Job{
			Id:      "flow-quiz",
			JobType: jobModel.JobTypeQuiz,
			JobPayload: jobModel.JobPayload{
				TopicQuery: "photosynthesis",
				ItemCount:  3,
				ItemTypes:  []commonModels.QuizItemType{commonModels.QuizItemMCQ},
			},
		}
		result := s.GenerateQuiz(ctx, quizJob)
		if result.Status == jobModel.JobStatusError {
			t.Fatalf("quiz generation failed: %+v", result.Error)
		}
		quiz := result.JobPayload.Quiz
		if quiz == nil {
			t.Fatal("expected a quiz payload")
		}
		if len(quiz.Items) != 3 || quiz.Shortfall != 0 {
			t.Fatalf("got %d items, shortfall %d; want 3 and 0", len(quiz.Items), quiz.Shortfall)
		}
		for _, item := range quiz.Items {
			if len(item.GroundingChunkIds) == 0 {
				t.Error("every item must be grounded")
			}
		}
		generatedQuiz = *quiz
	})

	t.Run("perfect attempt grades to the maximum", func(t *testing.T) {
		var attempts []commonModels.QuizAttempt
		for _, item := range generatedQuiz.Items {
			attempts = append(attempts, commonModels.QuizAttempt{ItemId: item.Id, Answer: "Light Energy"})
		}

		results, err := s.Grade(ctx, generatedQuiz, attempts)
		if err != nil {
			t.Fatalf("Grade failed: %v", err)
		}

		var total float64
		for _, r := range results {
			if r.Ungraded || !r.Correct {
				t.Errorf("expected full marks, got %+v", r)
			}
			total += r.Score
		}
		if total != 3*config.GradeScoreMax {
			t.Errorf("total score got %v, want %v", total, 3*config.GradeScoreMax)
		}

		profile, err := session.GetProfile(ctx)
		if err != nil {
			t.Fatalf("GetProfile failed: %v", err)
		}
		if len(profile.QuizScores) != 1 || profile.QuizScores[0].Concept != "photosynthesis" {
			t.Errorf("quiz outcome should land in the profile, got %+v", profile.QuizScores)
		}
	})

	t.Run("quiz on an uncovered topic reports full shortfall", func(t *testing.T) {
		quizJob := jobModel.Job{
			Id:      "flow-quiz-uncovered",
			JobType: jobModel.JobTypeQuiz,
			JobPayload: jobModel.JobPayload{
				TopicQuery: "medieval jousting",
				ItemCount:  3,
			},
		}
		result := s.GenerateQuiz(ctx, quizJob)
		if result.Status == jobModel.JobStatusError {
			t.Fatalf("quiz generation failed: %+v", result.Error)
		}
		quiz := result.JobPayload.Quiz
		if quiz == nil || len(quiz.Items) != 0 || quiz.Shortfall != 3 {
			t.Errorf("uncovered topic should yield an empty quiz with full shortfall, got %+v", quiz)
		}
	})

	t.Run("reset forgets the corpus but not the learner", func(t *testing.T) {
		if err := s.ResetCorpus(ctx); err != nil {
			t.Fatalf("ResetCorpus failed: %v", err)
		}
		if index.size() != 0 {
			t.Error("reset must empty the index")
		}

		// the ledger forgot the hash, so the same notes index again
		result := s.IngestDocument(ctx, ingestJob)
		if result.Status != jobModel.JobStatusComplete || result.JobPayload.IngestSummary.Ingested != 1 {
			t.Errorf("post-reset ingest should re-index, got %+v", result.JobPayload.IngestSummary)
		}

		profile, err := session.GetProfile(ctx)
		if err != nil {
			t.Fatalf("GetProfile failed: %v", err)
		}
		if len(profile.QuizScores) != 1 {
			t.Error("reset must not erase the learner profile")
		}
	})
}

func TestQuality_MetricsRecorded(t *testing.T) {
	t.Setenv("CONFIDENCE_THRESHOLD", "0.55")

	index := &memoryIndex{}
	embedder := newWordEmbedder()
	s := tutor.NewService(index, scriptedLLM(t), embedder, store.InitInMemorySessionStore(), store.InitInMemoryDocumentLedger())

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "quality-trace")

	ingestJob := jobModel.Job{
		Id:      "quality-ingest",
		JobType: jobModel.JobTypeIngest,
		JobPayload: jobModel.JobPayload{
			IngestDocName: "bio-notes.txt",
			IngestText:    bioNotes,
		},
	}
	if result := s.IngestDocument(ctx, ingestJob); result.Status != jobModel.JobStatusComplete {
		t.Fatalf("ingestion failed: %+v", result.Error)
	}

	askJob := jobModel.Job{
		Id:      "quality-ask",
		JobType: jobModel.JobTypeAsk,
		JobPayload: jobModel.JobPayload{
			Question: "How do plants convert light energy during photosynthesis?",
		},
	}
	if result := s.ProcessQuestion(ctx, askJob); result.Status == jobModel.JobStatusError {
		t.Fatalf("question failed: %+v", result.Error)
	}

	names := make(map[string]bool)
	for _, r := range s.Quality().Records() {
		names[r.Name] = true
	}
	if !names["answer_rouge_l"] || !names["answer_bleu"] {
		t.Errorf("answer quality metrics missing, recorded: %v", names)
	}
}
