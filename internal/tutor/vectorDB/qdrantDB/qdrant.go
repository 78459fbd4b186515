package qdrantDB

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/edumentor/edumentor/internal/config"
	"github.com/edumentor/edumentor/internal/domain/commonModels"
	"github.com/edumentor/edumentor/internal/domain/errs"
	"github.com/edumentor/edumentor/pkg/logger_i"
	"github.com/qdrant/go-client/qdrant"
)

var logger *logger_i.Logger
var qdrantInstance *qdrant.Client
var once sync.Once
var dimension = uint64(config.EmbeddingOutputDimensionality)

type ClientHolder struct {
	QObj *qdrant.Client
}

func GetQdrantClient(ctx context.Context) *ClientHolder {
	once.Do(func() {
		logger = logger_i.NewLogger("Qdrant")
		res := newClient()
		if res != nil {
			qdrantInstance = res
			initCacheCollection(ctx, qdrantInstance)
			go closeQdrant(ctx, qdrantInstance)
		}
	})

	if qdrantInstance == nil {
		return nil
	}
	return &ClientHolder{
		QObj: qdrantInstance,
	}
}

func newClient() *qdrant.Client {
	host := os.Getenv("QDRANT_HOST")
	port, er := strconv.Atoi(os.Getenv("QDRANT_PORT"))

	if host == "" || er != nil {
		host = config.QdrantHost
		port = config.QdrantGrpcPort
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     host,
		Port:     port,
		UseTLS:   config.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		logger.Error("could not instantiate: ", "error:", err)
		return nil
	}

	err = createCollection(context.Background(), client, config.CourseCollectionName)
	if err != nil {
		logger.Error("could not create collection: ", "collectionName", config.CourseCollectionName, "error:", err)
		return nil
	}

	return client
}

func closeQdrant(ctx context.Context, qi *qdrant.Client) {
	<-ctx.Done()
	logger.Info("Shutting down Qdrant")
	err := qi.Close()
	if err != nil {
		logger.Error("could not close Qdrant: ", "error:", err)
	}
	logger.Info("Closed Qdrant")
}

// Query returns the k nearest stored chunks with their raw cosine scores.
func (db *ClientHolder) Query(ctx context.Context, vectorFloat []float32, k uint64) ([]commonModels.ScoredChunk, error) {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))
	result, err := db.QObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: config.CourseCollectionName,
		Query:          qdrant.NewQuery(vectorFloat...),
		Limit:          qdrant.PtrOf(k),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		loggr.Error("Error querying Qdrant: ", "error:", err)
		return nil, fmt.Errorf("%w: %v", errs.ErrIndexUnavailable, err)
	}

	matches := make([]commonModels.ScoredChunk, 0, len(result))
	for _, hit := range result {
		matches = append(matches, commonModels.ScoredChunk{
			Chunk: chunkFromPayload(hit.Payload),
			Score: float64(hit.Score),
		})
	}

	loggr.Debug("Query hits", "count", len(matches))
	return matches, nil
}

func chunkFromPayload(payload map[string]*qdrant.Value) commonModels.Chunk {
	return commonModels.Chunk{
		Doc: commonModels.Document{
			ContentHash: payload["doc_hash"].GetStringValue(),
			Name:        payload["doc_name"].GetStringValue(),
			IngestedAt:  time.Unix(payload["ingested_at"].GetIntegerValue(), 0),
		},
		ChunkId:  payload["chunk_id"].GetStringValue(),
		Text:     payload["content"].GetStringValue(),
		Start:    int(payload["start_offset"].GetIntegerValue()),
		End:      int(payload["end_offset"].GetIntegerValue()),
		SeqIndex: int(payload["seq_index"].GetIntegerValue()),
	}
}

func (db *ClientHolder) CreateCollection(ctx context.Context, collectionName string) error {
	return createCollection(ctx, db.QObj, collectionName)
}

// UpsertDocument writes every chunk of one document in a single waited
// upsert. Point ids are derived from content hash + sequence index, so
// re-ingesting the same content replaces rather than duplicates.
func (db *ClientHolder) UpsertDocument(ctx context.Context, collectionName string, chunks []commonModels.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("mismatch: got %d chunks but %d vectors", len(chunks), len(vectors))
	}

	qdrantPoints := make([]*qdrant.PointStruct, len(chunks))
	for i, chunk := range chunks {
		qdrantPoints[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(chunk.ChunkId),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: qdrant.NewValueMap(map[string]any{
				"content":      chunk.Text,
				"chunk_id":     chunk.ChunkId,
				"doc_hash":     chunk.Doc.ContentHash,
				"doc_name":     chunk.Doc.Name,
				"seq_index":    chunk.SeqIndex,
				"start_offset": chunk.Start,
				"end_offset":   chunk.End,
				"ingested_at":  chunk.Doc.IngestedAt.Unix(),
			}),
		}
	}

	_, err := db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collectionName,
		Points:         qdrantPoints,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("%w: upsert failed: %v", errs.ErrIndexUnavailable, err)
	}

	return nil
}

// DropCorpus clears the course material and the answer cache. Used only by
// the explicit reset endpoint. Collections are recreated empty so the index
// keeps serving after a reset.
func (db *ClientHolder) DropCorpus(ctx context.Context) error {
	for _, name := range []string{config.CourseCollectionName, config.AnswerCacheCollectionName} {
		if err := db.QObj.DeleteCollection(ctx, name); err != nil {
			return fmt.Errorf("%w: dropping %s: %v", errs.ErrIndexUnavailable, name, err)
		}
		if err := createCollection(ctx, db.QObj, name); err != nil {
			return err
		}
	}
	return nil
}

func createCollection(ctx context.Context, client *qdrant.Client, collectionName string) error {
	if collectionName == "" {
		return errors.New("empty collection name")
	}

	exists, err := client.CollectionExists(ctx, collectionName)
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrIndexUnavailable, err)
	}
	if exists {
		return nil
	}

	err = client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrIndexUnavailable, err)
	}
	return nil
}
