package answer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/edumentor/edumentor/internal/config"
	"github.com/edumentor/edumentor/internal/domain/commonModels"
	"github.com/edumentor/edumentor/internal/domain/errs"
	"github.com/edumentor/edumentor/internal/tutor/personalize"
)

type mockLLM struct {
	generateFunc func(ctx context.Context, prompt, system string, temperature float32) (string, error)
}

func (m *mockLLM) Generate(ctx context.Context, prompt, system string, temperature float32) (string, error) {
	return m.generateFunc(ctx, prompt, system, temperature)
}

func retrievalWith(ids ...string) commonModels.RetrievalResult {
	var chunks []commonModels.ScoredChunk
	for _, id := range ids {
		chunks = append(chunks, commonModels.ScoredChunk{
			Chunk: commonModels.Chunk{ChunkId: id, Text: "text of " + id},
			Score: 0.9,
		})
	}
	return commonModels.RetrievalResult{Chunks: chunks, Confidence: 0.9}
}

func testCtx() context.Context {
	return context.WithValue(context.Background(), config.TRACE_ID_KEY, "answer-trace")
}

func TestParsePayload(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"plain json", `{"answer":"a","cited_chunk_ids":["c1"],"follow_ups":[]}`, false},
		{"fenced json", "```json\n{\"answer\":\"a\"}\n```", false},
		{"bare fence", "```\n{\"answer\":\"a\"}\n```", false},
		{"not json", "here is your answer in prose", true},
		{"empty answer field", `{"answer":"  "}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePayload(tt.raw)
			if tt.wantErr && !errors.Is(err, errs.ErrMalformedOutput) {
				t.Errorf("want ErrMalformedOutput, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestCompose_CitationsFilteredToRetrievedSet(t *testing.T) {
	c := &Composer{LLM: &mockLLM{
		generateFunc: func(ctx context.Context, prompt, system string, temp float32) (string, error) {
			return `{"answer":"grounded answer","cited_chunk_ids":["c1","hallucinated","c2","c1"],"follow_ups":["next?"]}`, nil
		},
	}}

	turn, err := c.Compose(testCtx(), "q", retrievalWith("c1", "c2", "c3"), personalize.Directives{}, nil)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	if len(turn.CitedChunkIds) != 2 || turn.CitedChunkIds[0] != "c1" || turn.CitedChunkIds[1] != "c2" {
		t.Errorf("citations must be deduped and restricted to the retrieved set, got %v", turn.CitedChunkIds)
	}
	if turn.Degraded || turn.Hedged {
		t.Errorf("clean turn flagged: %+v", turn)
	}
}

func TestCompose_FallbackMarksTurnHedged(t *testing.T) {
	c := &Composer{LLM: &mockLLM{
		generateFunc: func(ctx context.Context, prompt, system string, temp float32) (string, error) {
			if !strings.Contains(prompt, "weak match") {
				t.Error("fallback prompt must instruct the model to hedge")
			}
			return `{"answer":"the material may not cover this"}`, nil
		},
	}}

	retrieval := retrievalWith("c1")
	retrieval.Confidence = 0.1
	retrieval.Fallback = true

	turn, err := c.Compose(testCtx(), "q", retrieval, personalize.Directives{}, nil)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if !turn.Hedged {
		t.Error("fallback retrieval must produce a hedged turn")
	}
}

func TestCompose_RetriesOnceThenDegrades(t *testing.T) {
	calls := 0
	c := &Composer{LLM: &mockLLM{
		generateFunc: func(ctx context.Context, prompt, system string, temp float32) (string, error) {
			calls++
			return "not json at all", nil
		},
	}}

	turn, err := c.Compose(testCtx(), "q", retrievalWith("c1"), personalize.Directives{}, nil)
	if err != nil {
		t.Fatalf("Compose should degrade rather than fail: %v", err)
	}

	if calls != config.AnswerParseRetries+1 {
		t.Errorf("expected %d generation calls, got %d", config.AnswerParseRetries+1, calls)
	}
	if !turn.Degraded {
		t.Error("turn must be marked degraded")
	}
	if turn.Answer != "not json at all" {
		t.Errorf("degraded turn should carry the raw text, got %q", turn.Answer)
	}
	if len(turn.CitedChunkIds) != 0 {
		t.Error("degraded turn must not carry citations")
	}
}

func TestCompose_RecoversOnRetry(t *testing.T) {
	calls := 0
	c := &Composer{LLM: &mockLLM{
		generateFunc: func(ctx context.Context, prompt, system string, temp float32) (string, error) {
			calls++
			if calls == 1 {
				return "garbage", nil
			}
			return `{"answer":"second try worked"}`, nil
		},
	}}

	turn, err := c.Compose(testCtx(), "q", retrievalWith("c1"), personalize.Directives{}, nil)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if turn.Degraded || turn.Answer != "second try worked" {
		t.Errorf("retry should recover cleanly, got %+v", turn)
	}
}

func TestCompose_ProviderErrorSurfaces(t *testing.T) {
	c := &Composer{LLM: &mockLLM{
		generateFunc: func(ctx context.Context, prompt, system string, temp float32) (string, error) {
			return "", errs.ErrGenerationService
		},
	}}

	_, err := c.Compose(testCtx(), "q", retrievalWith("c1"), personalize.Directives{}, nil)
	if !errors.Is(err, errs.ErrGenerationService) {
		t.Errorf("want ErrGenerationService, got %v", err)
	}
}

func TestBuildPrompt_IncludesHistoryAndExcerpts(t *testing.T) {
	history := []commonModels.ConversationTurn{
		{Question: "what is a cell?", Answer: "the basic unit of life"},
	}
	prompt := BuildPrompt("and a membrane?", retrievalWith("c9"), personalize.Directives{}, history)

	if !strings.Contains(prompt, "what is a cell?") {
		t.Error("prompt should include prior turns")
	}
	if !strings.Contains(prompt, "[c9]") {
		t.Error("prompt should tag excerpts with their chunk ids")
	}
	if !strings.Contains(prompt, "and a membrane?") {
		t.Error("prompt should end with the question")
	}
}
