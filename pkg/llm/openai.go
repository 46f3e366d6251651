package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// translationSchema constrains the response to an object with the single
// required string field sql_query.
var translationSchema = json.RawMessage(`{
	"type": "object",
	"properties": {"sql_query": {"type": "string"}},
	"required": ["sql_query"],
	"additionalProperties": false
}`)

// Config holds settings shared by the inference backends.
type Config struct {
	Endpoint    string  // Base URL, e.g. "http://localhost:8080/v1"
	Model       string  // Model name
	APIKey      string  // Optional for local endpoints
	Temperature float64 // Low values favor reproducible SQL
	MaxTokens   int
}

// OpenAIClient talks to any OpenAI-compatible endpoint (llama.cpp server,
// vLLM, Ollama, or the hosted API) and requests JSON-schema constrained
// output.
type OpenAIClient struct {
	client *openai.Client
	cfg    Config
	logger *zap.Logger
}

// NewOpenAIClient creates an OpenAI-compatible structured inference client.
func NewOpenAIClient(cfg Config, logger *zap.Logger) (*OpenAIClient, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = strings.TrimSuffix(cfg.Endpoint, "/")

	return &OpenAIClient{
		client: openai.NewClientWithConfig(clientConfig),
		cfg:    cfg,
		logger: logger.Named("llm"),
	}, nil
}

// Infer sends the chat prompt and returns the raw model output.
func (c *OpenAIClient) Infer(ctx context.Context, messages []Message) (string, error) {
	chatMessages := make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		chatMessages[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}

	c.logger.Debug("LLM request",
		zap.String("model", c.cfg.Model),
		zap.Int("messages", len(chatMessages)),
		zap.Float64("temperature", c.cfg.Temperature))

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		Messages:    chatMessages,
		Temperature: float32(c.cfg.Temperature),
		MaxTokens:   c.cfg.MaxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "sql_translation",
				Schema: translationSchema,
				Strict: true,
			},
		},
	})
	if err != nil {
		classified := classifyError(err)
		c.logger.Error("LLM request failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.String("error_type", string(classified.Type)),
			zap.Error(err))
		return "", classified
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	c.logger.Info("LLM request completed",
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.Duration("elapsed", time.Since(start)))

	return resp.Choices[0].Message.Content, nil
}
