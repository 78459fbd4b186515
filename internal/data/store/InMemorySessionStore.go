package store

import (
	"context"
	"sync"

	"github.com/edumentor/edumentor/internal/config"
	"github.com/edumentor/edumentor/internal/domain/commonModels"
)

type InMemorySessionStore struct {
	lock    *sync.RWMutex
	profile commonModels.LearnerProfile
	hasProf bool
	turns   []commonModels.ConversationTurn
}

func InitInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{
		lock: new(sync.RWMutex),
	}
}

func (store *InMemorySessionStore) GetProfile(ctx context.Context) (commonModels.LearnerProfile, error) {
	store.lock.RLock()
	defer store.lock.RUnlock()
	if !store.hasProf {
		return commonModels.LearnerProfile{SkillLevel: config.SkillIntermediate}, nil
	}
	return store.profile, nil
}

func (store *InMemorySessionStore) SaveProfile(ctx context.Context, profile commonModels.LearnerProfile) error {
	store.lock.Lock()
	defer store.lock.Unlock()
	store.profile = profile
	store.hasProf = true
	return nil
}

func (store *InMemorySessionStore) AppendTurn(ctx context.Context, turn commonModels.ConversationTurn) error {
	store.lock.Lock()
	defer store.lock.Unlock()
	store.turns = append(store.turns, turn)
	return nil
}

func (store *InMemorySessionStore) RecentTurns(ctx context.Context) ([]commonModels.ConversationTurn, error) {
	store.lock.RLock()
	defer store.lock.RUnlock()

	start := len(store.turns) - config.ConversationHistoryDepth
	if start < 0 {
		start = 0
	}
	out := make([]commonModels.ConversationTurn, len(store.turns)-start)
	copy(out, store.turns[start:])
	return out, nil
}

func (store *InMemorySessionStore) Reset(ctx context.Context) error {
	store.lock.Lock()
	defer store.lock.Unlock()
	store.profile = commonModels.LearnerProfile{}
	store.hasProf = false
	store.turns = nil
	return nil
}
