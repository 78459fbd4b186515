package openaiLLM

import (
	"context"
	"fmt"
	"sync"

	"github.com/edumentor/edumentor/internal/config"
	"github.com/edumentor/edumentor/internal/domain/errs"
	"github.com/edumentor/edumentor/internal/tutor/llm"
	"github.com/edumentor/edumentor/pkg/logger_i"
	"github.com/edumentor/edumentor/pkg/retry"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

var logger *logger_i.Logger
var once sync.Once
var llmClient *client

type client struct {
	api   openai.Client
	model string
}

func GetOpenAIClient(modelName string, apikey string) llm.Provider {
	once.Do(func() {
		logger = logger_i.NewLogger("openai_llm")
		if apikey == "" {
			logger.Error("Missing OpenAI API key")
			return
		}
		llmClient = &client{
			api:   openai.NewClient(option.WithAPIKey(apikey)),
			model: modelName,
		}
		logger.Info("OpenAI client created", "model", modelName)
	})

	if llmClient == nil {
		return nil
	}
	return &client{api: llmClient.api, model: llmClient.model}
}

func (c *client) Generate(ctx context.Context, prompt string, system string, temperature float32) (string, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	cfg := retry.DefaultConfig()
	cfg.MaxAttempts = config.ServiceRetryBudget
	cfg.InitialDelay = config.RetryInitialDelay
	cfg.MaxDelay = config.RetryMaxDelay
	cfg.Logger = log

	result, err := retry.DoWithResult(ctx, cfg, func() (*openai.ChatCompletion, error) {
		callCtx, cancel := context.WithTimeout(ctx, config.ExternalCallTimeout)
		defer cancel()
		return c.api.Chat.Completions.New(callCtx, openai.ChatCompletionNewParams{
			Model: openai.ChatModel(c.model),
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.SystemMessage(system),
				openai.UserMessage(prompt),
			},
			Temperature: openai.Float(float64(temperature)),
		})
	})
	if err != nil {
		log.Error("Error generating completion from OpenAI", "error", err)
		return "", fmt.Errorf("%w: %v", errs.ErrGenerationService, err)
	}

	if len(result.Choices) == 0 || result.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: empty completion", errs.ErrGenerationService)
	}
	return result.Choices[0].Message.Content, nil
}
