package qdrantDB

import (
	"context"
	"encoding/json"
	"time"

	"github.com/edumentor/edumentor/internal/config"
	"github.com/edumentor/edumentor/internal/domain/commonModels"
	"github.com/qdrant/go-client/qdrant"
)

func initCacheCollection(ctx context.Context, client *qdrant.Client) {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))
	err := createCollection(ctx, client, config.AnswerCacheCollectionName)
	if err != nil {
		loggr.Error("Answer cache collection creation failed", "error", err)
	}
}

// GetCachedTurn answers a semantically near-identical question from a prior
// turn without re-running generation. Cache hits still carry their original
// citations, so grounding is preserved.
func (db *ClientHolder) GetCachedTurn(ctx context.Context, queryVector []float32) (commonModels.ConversationTurn, bool, error) {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))
	var turn commonModels.ConversationTurn

	searchResult, err := db.QObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: config.AnswerCacheCollectionName,
		Query:          qdrant.NewQuery(queryVector...),
		Limit:          qdrant.PtrOf(uint64(1)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil || len(searchResult) == 0 {
		return turn, false, err
	}

	if searchResult[0].Score < config.CacheSimilarityCutoff {
		return turn, false, nil
	}

	raw := searchResult[0].Payload["turn"].GetStringValue()
	if err := json.Unmarshal([]byte(raw), &turn); err != nil {
		loggr.Error("Cached turn payload unreadable", "error", err)
		return turn, false, nil
	}

	loggr.Info("Answer cache hit", "score", searchResult[0].Score)
	return turn, true, nil
}

func (db *ClientHolder) SaveTurnToCache(ctx context.Context, id string, vector []float32, turn commonModels.ConversationTurn) error {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	data, err := json.Marshal(turn)
	if err != nil {
		return err
	}

	_, err = db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: config.AnswerCacheCollectionName,
		Points: []*qdrant.PointStruct{
			{
				Id:      qdrant.NewID(id),
				Vectors: qdrant.NewVectors(vector...),
				Payload: qdrant.NewValueMap(map[string]any{
					"turn":      string(data),
					"timestamp": time.Now().Unix(),
				}),
			},
		},
	})
	if err != nil {
		loggr.Error("Saving turn to cache failed", "error", err)
	}
	return err
}
