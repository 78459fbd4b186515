package openaiEmbedding

import (
	"context"
	"fmt"
	"sync"

	"github.com/edumentor/edumentor/internal/config"
	"github.com/edumentor/edumentor/internal/domain/errs"
	"github.com/edumentor/edumentor/internal/tutor/embedding"
	"github.com/edumentor/edumentor/pkg/logger_i"
	"github.com/edumentor/edumentor/pkg/retry"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

var logger *logger_i.Logger
var once sync.Once
var embeddingClient *client

type client struct {
	api   openai.Client
	model string
}

// GetOpenAIEmbeddingClient is the drop-in alternative to the Google
// embedder. The pipeline only ever sees the Embedder interface.
func GetOpenAIEmbeddingClient(modelName string, apikey string) embedding.Embedder {
	once.Do(func() {
		logger = logger_i.NewLogger("openai_embedding")
		if apikey == "" {
			logger.Error("Missing OpenAI API key")
			return
		}
		embeddingClient = &client{
			api:   openai.NewClient(option.WithAPIKey(apikey)),
			model: modelName,
		}
		logger.Info("OpenAI Embedding client created", "model", modelName)
	})

	if embeddingClient == nil {
		return nil
	}
	return &client{api: embeddingClient.api, model: embeddingClient.model}
}

func (c *client) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	vectors, err := c.BatchEmbedding(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (c *client) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	cfg := retry.DefaultConfig()
	cfg.MaxAttempts = config.ServiceRetryBudget
	cfg.InitialDelay = config.RetryInitialDelay
	cfg.MaxDelay = config.RetryMaxDelay
	cfg.Logger = log

	res, err := retry.DoWithResult(ctx, cfg, func() (*openai.CreateEmbeddingResponse, error) {
		callCtx, cancel := context.WithTimeout(ctx, config.ExternalCallTimeout)
		defer cancel()
		return c.api.Embeddings.New(callCtx, openai.EmbeddingNewParams{
			Model: openai.EmbeddingModel(c.model),
			Input: openai.EmbeddingNewParamsInputUnion{
				OfArrayOfStrings: chunks,
			},
			Dimensions: openai.Int(int64(config.EmbeddingOutputDimensionality)),
		})
	})
	if err != nil {
		log.Error("Error getting embeddings from OpenAI", "error", err)
		return nil, fmt.Errorf("%w: %v", errs.ErrEmbeddingService, err)
	}
	if len(res.Data) != len(chunks) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d inputs", errs.ErrEmbeddingService, len(res.Data), len(chunks))
	}

	vectors := make([][]float32, len(res.Data))
	for i, d := range res.Data {
		vec := make([]float32, len(d.Embedding))
		for j, v := range d.Embedding {
			vec[j] = float32(v)
		}
		vectors[i] = vec
	}
	return vectors, nil
}
