package llm

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/JinsuaFeito-dev/REAL-STATE-QA/pkg/config"
)

// NewEngine creates the structured inference engine selected by the model
// configuration. Returns the interface to enable injection of mocks.
func NewEngine(cfg *config.ModelConfig, logger *zap.Logger) (StructuredInferenceEngine, error) {
	clientCfg := Config{
		Endpoint:    cfg.Endpoint,
		Model:       cfg.Name,
		APIKey:      cfg.APIKey,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	}

	switch cfg.Provider {
	case config.ProviderOpenAI:
		return NewOpenAIClient(clientCfg, logger)
	case config.ProviderAnthropic:
		return NewAnthropicClient(clientCfg, logger)
	default:
		return nil, fmt.Errorf("unsupported model provider %q", cfg.Provider)
	}
}
