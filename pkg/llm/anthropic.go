package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/liushuangls/go-anthropic/v2"
	"go.uber.org/zap"
)

// AnthropicClient uses the Anthropic Messages API. The API has no JSON-schema
// response format, so the system message carries the output contract and the
// caller falls back to balanced-brace extraction on the raw text.
type AnthropicClient struct {
	client *anthropic.Client
	cfg    Config
	logger *zap.Logger
}

// NewAnthropicClient creates an Anthropic structured inference client.
func NewAnthropicClient(cfg Config, logger *zap.Logger) (*AnthropicClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	var opts []anthropic.ClientOption
	if cfg.Endpoint != "" {
		opts = append(opts, anthropic.WithBaseURL(strings.TrimSuffix(cfg.Endpoint, "/")))
	}

	return &AnthropicClient{
		client: anthropic.NewClient(cfg.APIKey, opts...),
		cfg:    cfg,
		logger: logger.Named("llm"),
	}, nil
}

// Infer sends the chat prompt and returns the raw model output.
func (c *AnthropicClient) Infer(ctx context.Context, messages []Message) (string, error) {
	var system string
	chatMessages := make([]anthropic.Message, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			system = m.Content
		case RoleAssistant:
			chatMessages = append(chatMessages, anthropic.NewAssistantTextMessage(m.Content))
		default:
			chatMessages = append(chatMessages, anthropic.NewUserTextMessage(m.Content))
		}
	}

	// The Messages API has no structured-output mode: spell the contract out.
	system += "\nRespond with a JSON object of the form " +
		`{"sql_query": "<the SQL query>"} and nothing else.`

	temperature := float32(c.cfg.Temperature)
	maxTokens := c.cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	start := time.Now()
	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:       anthropic.Model(c.cfg.Model),
		System:      system,
		Messages:    chatMessages,
		MaxTokens:   maxTokens,
		Temperature: &temperature,
	})
	if err != nil {
		classified := classifyError(err)
		c.logger.Error("LLM request failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.String("error_type", string(classified.Type)),
			zap.Error(err))
		return "", classified
	}

	content := resp.GetFirstContentText()
	if content == "" {
		return "", fmt.Errorf("no content in response")
	}

	c.logger.Info("LLM request completed",
		zap.Int("input_tokens", resp.Usage.InputTokens),
		zap.Int("output_tokens", resp.Usage.OutputTokens),
		zap.Duration("elapsed", time.Since(start)))

	return content, nil
}
