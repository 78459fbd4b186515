package googleEmbedding

import (
	"context"
	"fmt"
	"sync"

	"github.com/edumentor/edumentor/internal/config"
	"github.com/edumentor/edumentor/internal/domain/errs"
	"github.com/edumentor/edumentor/internal/tutor/embedding"
	"github.com/edumentor/edumentor/pkg/logger_i"
	"github.com/edumentor/edumentor/pkg/retry"
	"google.golang.org/genai"
)

var logger *logger_i.Logger
var once sync.Once
var embeddingClient *client
var dimension int32 = config.EmbeddingOutputDimensionality

type client struct {
	genAi *genai.Client
	model string
}

func newGoogleEmbedder(ctx context.Context, modelName string, apikey string) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey})
	if err != nil {
		logger.Error("Error creating Google Embedding client:", "error", err)
	}
	if c != nil {
		embeddingClient = &client{
			genAi: c,
			model: modelName,
		}
		logger.Info("Google Embedding client created", "model", modelName)
		go closeClient(ctx, embeddingClient)
	}
}

func closeClient(ctx context.Context, embeddingClient *client) {
	<-ctx.Done()
	logger.Info("Closing Google Embedding client")
	embeddingClient.genAi = nil
	embeddingClient.model = ""
}

func GetGoogleEmbeddingClient(ctx context.Context, modelName string, apikey string) embedding.Embedder {
	once.Do(func() {
		logger = logger_i.NewLogger("google_embedding")
		newGoogleEmbedder(ctx, modelName, apikey)
	})

	//if init still fails
	if embeddingClient == nil {
		return nil
	}
	return &client{genAi: embeddingClient.genAi, model: embeddingClient.model}
}

func (c *client) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	cfg := retryConfig(log)
	result, err := retry.DoWithResult(ctx, cfg, func() (*genai.EmbedContentResponse, error) {
		return c.doCall(ctx, genai.Text(query))
	})
	if err != nil {
		log.Error("Error getting embedding from Google", "error", err)
		return nil, fmt.Errorf("%w: %v", errs.ErrEmbeddingService, err)
	}
	if len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("%w: empty embedding response", errs.ErrEmbeddingService)
	}
	return result.Embeddings[0].Values, nil
}

func (c *client) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	cfg := retryConfig(log)
	res, err := retry.DoWithResult(ctx, cfg, func() (*genai.EmbedContentResponse, error) {
		return c.doCall(ctx, getContent(chunks))
	})
	if err != nil {
		if IsRateLimited(err) {
			log.Error("Rate limit hit on batch embedding", "error", err)
		} else {
			log.Error("Error getting batch embeddings from Google", "error", err)
		}
		return nil, fmt.Errorf("%w: %v", errs.ErrEmbeddingService, err)
	}

	var embeddingResults [][]float32
	for _, r := range res.Embeddings {
		embeddingResults = append(embeddingResults, r.Values)
	}
	return embeddingResults, nil
}

func (c *client) doCall(ctx context.Context, content []*genai.Content) (*genai.EmbedContentResponse, error) {
	callCtx, cancel := context.WithTimeout(ctx, config.ExternalCallTimeout)
	defer cancel()
	return c.genAi.Models.EmbedContent(callCtx, c.model, content, &genai.EmbedContentConfig{OutputDimensionality: &dimension, TaskType: "RETRIEVAL_DOCUMENT"})
}

func retryConfig(log *logger_i.Logger) retry.Config {
	cfg := retry.DefaultConfig()
	cfg.MaxAttempts = config.ServiceRetryBudget
	cfg.InitialDelay = config.RetryInitialDelay
	cfg.MaxDelay = config.RetryMaxDelay
	cfg.Logger = log
	return cfg
}
