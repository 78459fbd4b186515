package store

import (
	"context"
	"encoding/json"

	"github.com/edumentor/edumentor/internal/config"
	"github.com/edumentor/edumentor/internal/data/redisStore"
	"github.com/edumentor/edumentor/internal/domain/commonModels"
	"github.com/edumentor/edumentor/pkg/logger_i"
)

const (
	profileKey = "learner:profile"
	turnsKey   = "learner:turns"
)

// RedisSessionStore keeps the single learner's profile and conversation in
// their own redis database, separate from job state.
type RedisSessionStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisSessionStore(ctx context.Context) *RedisSessionStore {
	return &RedisSessionStore{
		store:  redisStore.GetRedisStore(ctx, config.RedisSessionStore),
		logger: logger_i.NewLogger("SessionStore"),
	}
}

func (s *RedisSessionStore) GetProfile(ctx context.Context) (commonModels.LearnerProfile, error) {
	var profile commonModels.LearnerProfile
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	val, err := s.store.Get(ctx, profileKey)
	if s.store.IsNil(err) {
		// fresh session, intermediate defaults
		return commonModels.LearnerProfile{SkillLevel: config.SkillIntermediate}, nil
	} else if err != nil {
		return profile, err
	}

	if err := json.Unmarshal([]byte(val), &profile); err != nil {
		log.Error("Stored profile unreadable", "error", err)
		return commonModels.LearnerProfile{SkillLevel: config.SkillIntermediate}, nil
	}
	return profile, nil
}

func (s *RedisSessionStore) SaveProfile(ctx context.Context, profile commonModels.LearnerProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, profileKey, data, config.RedisSessionStoreTTL)
}

func (s *RedisSessionStore) AppendTurn(ctx context.Context, turn commonModels.ConversationTurn) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))
	data, err := json.Marshal(turn)
	if err != nil {
		return err
	}
	if err := s.store.ListPush(ctx, turnsKey, data); err != nil {
		log.Error("error saving turn", "error", err)
		return err
	}
	log.Debug("Saved turn successfully")
	return nil
}

// RecentTurns returns up to the configured depth of past turns, oldest first,
// which is the order the prompt wants them in.
func (s *RedisSessionStore) RecentTurns(ctx context.Context) ([]commonModels.ConversationTurn, error) {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	raw, err := s.store.ListTail(ctx, turnsKey, config.ConversationHistoryDepth)
	if err != nil {
		log.Error("Error getting history", "error", err)
		return nil, err
	}

	turns := make([]commonModels.ConversationTurn, 0, len(raw))
	for _, r := range raw {
		var turn commonModels.ConversationTurn
		if err := json.Unmarshal([]byte(r), &turn); err != nil {
			log.Error("Stored turn unreadable, skipping", "error", err)
			continue
		}
		turns = append(turns, turn)
	}
	return turns, nil
}

func (s *RedisSessionStore) Reset(ctx context.Context) error {
	return s.store.Del(ctx, profileKey, turnsKey)
}

func TestSessionStore(store *redisStore.Store) *RedisSessionStore {
	return &RedisSessionStore{
		store:  store,
		logger: logger_i.NewLogger("test session"),
	}
}
