package gemini

import (
	"context"
	"fmt"
	"sync"

	"github.com/edumentor/edumentor/internal/config"
	"github.com/edumentor/edumentor/internal/domain/errs"
	"github.com/edumentor/edumentor/internal/tutor/llm"
	"github.com/edumentor/edumentor/pkg/logger_i"
	"github.com/edumentor/edumentor/pkg/retry"
	"google.golang.org/genai"
)

var logger *logger_i.Logger
var once sync.Once
var llmClient *client

type client struct {
	genAi *genai.Client
	model string
}

func newGeminiClient(ctx context.Context, modelName string, apikey string) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey})
	if err != nil {
		logger.Error("Error creating Gemini client:", "error", err)
	}
	if c != nil {
		llmClient = &client{
			genAi: c,
			model: modelName,
		}
		logger.Info("Gemini client created", "model", modelName)
		go closeClient(ctx, llmClient)
	}
}

func closeClient(ctx context.Context, llmClient *client) {
	<-ctx.Done()
	logger.Info("Closing Gemini client")
	llmClient.genAi = nil
	llmClient.model = ""
}

func GetGeminiClient(ctx context.Context, modelName string, apikey string) llm.Provider {
	once.Do(func() {
		logger = logger_i.NewLogger("gemini_llm")
		newGeminiClient(ctx, modelName, apikey)
	})

	//if init still fails
	if llmClient == nil {
		return nil
	}
	return &client{genAi: llmClient.genAi, model: llmClient.model}
}

func (c *client) Generate(ctx context.Context, prompt string, system string, temperature float32) (string, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	cfg := retry.DefaultConfig()
	cfg.MaxAttempts = config.ServiceRetryBudget
	cfg.InitialDelay = config.RetryInitialDelay
	cfg.MaxDelay = config.RetryMaxDelay
	cfg.Logger = log

	result, err := retry.DoWithResult(ctx, cfg, func() (*genai.GenerateContentResponse, error) {
		callCtx, cancel := context.WithTimeout(ctx, config.ExternalCallTimeout)
		defer cancel()
		return c.genAi.Models.GenerateContent(callCtx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
			Temperature:       genai.Ptr(temperature),
			SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		})
	})
	if err != nil {
		log.Error("Error generating content from Gemini", "error", err)
		return "", fmt.Errorf("%w: %v", errs.ErrGenerationService, err)
	}

	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("%w: empty completion", errs.ErrGenerationService)
	}
	return text, nil
}
