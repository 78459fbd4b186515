package store

import (
	"context"

	"github.com/edumentor/edumentor/internal/config"
	"github.com/edumentor/edumentor/internal/data/redisStore"
	"github.com/edumentor/edumentor/pkg/logger_i"
)

const ledgerKeyPrefix = "doc:"

// RedisDocumentLedger remembers the content hash of every fully indexed
// document. Entries never expire; re-uploading last semester's notes should
// still be a no-op.
type RedisDocumentLedger struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisDocumentLedger(ctx context.Context) *RedisDocumentLedger {
	return &RedisDocumentLedger{
		store:  redisStore.GetRedisStore(ctx, config.RedisDocumentLedger),
		logger: logger_i.NewLogger("DocumentLedger"),
	}
}

func (s *RedisDocumentLedger) Seen(ctx context.Context, contentHash string) (bool, error) {
	return s.store.Exists(ctx, ledgerKeyPrefix+contentHash)
}

func (s *RedisDocumentLedger) Record(ctx context.Context, contentHash string, docName string) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))
	log.Debug("Recording document", "hash", contentHash, "name", docName)
	return s.store.Set(ctx, ledgerKeyPrefix+contentHash, docName, 0)
}

func (s *RedisDocumentLedger) Clear(ctx context.Context) error {
	return s.store.FlushDB(ctx)
}

func TestDocumentLedger(store *redisStore.Store) *RedisDocumentLedger {
	return &RedisDocumentLedger{
		store:  store,
		logger: logger_i.NewLogger("test ledger"),
	}
}
