package store_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/edumentor/edumentor/internal/config"
	"github.com/edumentor/edumentor/internal/data/store"
	"github.com/edumentor/edumentor/internal/domain/commonModels"
)

func TestRedisSessionStore_ProfileDefaults(t *testing.T) {
	sessionStore := store.TestSessionStore(newTestStore(t))
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "session-trace")

	profile, err := sessionStore.GetProfile(ctx)
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if profile.SkillLevel != config.SkillIntermediate {
		t.Errorf("fresh session should default to intermediate, got %q", profile.SkillLevel)
	}
}

func TestRedisSessionStore_ProfileRoundTrip(t *testing.T) {
	sessionStore := store.TestSessionStore(newTestStore(t))
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "session-trace")

	saved := commonModels.LearnerProfile{
		Name:       "Asha",
		Course:     "Biology 101",
		SkillLevel: config.SkillAdvanced,
		Goals:      "pass the final",
		QuizScores: []commonModels.QuizScore{{Concept: "osmosis", Score: 1, MaxScore: 4}},
	}
	if err := sessionStore.SaveProfile(ctx, saved); err != nil {
		t.Fatalf("SaveProfile failed: %v", err)
	}

	got, err := sessionStore.GetProfile(ctx)
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if got.Name != saved.Name || got.SkillLevel != saved.SkillLevel {
		t.Errorf("profile mismatch: got %+v", got)
	}
	if len(got.QuizScores) != 1 || got.QuizScores[0].Concept != "osmosis" {
		t.Errorf("quiz history lost in round trip: %+v", got.QuizScores)
	}
}

func TestRedisSessionStore_RecentTurnsWindow(t *testing.T) {
	sessionStore := store.TestSessionStore(newTestStore(t))
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "session-trace")

	total := config.ConversationHistoryDepth + 3
	for i := 0; i < total; i++ {
		turn := commonModels.ConversationTurn{
			Question: fmt.Sprintf("question %d", i),
			Answer:   fmt.Sprintf("answer %d", i),
		}
		if err := sessionStore.AppendTurn(ctx, turn); err != nil {
			t.Fatalf("AppendTurn failed: %v", err)
		}
	}

	turns, err := sessionStore.RecentTurns(ctx)
	if err != nil {
		t.Fatalf("RecentTurns failed: %v", err)
	}
	if len(turns) != config.ConversationHistoryDepth {
		t.Fatalf("got %d turns, want %d", len(turns), config.ConversationHistoryDepth)
	}

	// oldest of the kept window first, newest last
	wantFirst := fmt.Sprintf("question %d", total-config.ConversationHistoryDepth)
	wantLast := fmt.Sprintf("question %d", total-1)
	if turns[0].Question != wantFirst || turns[len(turns)-1].Question != wantLast {
		t.Errorf("window misaligned: first=%q last=%q", turns[0].Question, turns[len(turns)-1].Question)
	}
}

func TestRedisSessionStore_Reset(t *testing.T) {
	sessionStore := store.TestSessionStore(newTestStore(t))
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "session-trace")

	if err := sessionStore.SaveProfile(ctx, commonModels.LearnerProfile{Name: "Asha", SkillLevel: config.SkillBeginner}); err != nil {
		t.Fatalf("SaveProfile failed: %v", err)
	}
	if err := sessionStore.AppendTurn(ctx, commonModels.ConversationTurn{Question: "q", Answer: "a"}); err != nil {
		t.Fatalf("AppendTurn failed: %v", err)
	}

	if err := sessionStore.Reset(ctx); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	profile, err := sessionStore.GetProfile(ctx)
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if profile.Name != "" || profile.SkillLevel != config.SkillIntermediate {
		t.Errorf("reset should return the store to defaults, got %+v", profile)
	}

	turns, err := sessionStore.RecentTurns(ctx)
	if err != nil {
		t.Fatalf("RecentTurns failed: %v", err)
	}
	if len(turns) != 0 {
		t.Errorf("reset should drop the conversation, got %d turns", len(turns))
	}
}
