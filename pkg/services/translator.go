package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/JinsuaFeito-dev/REAL-STATE-QA/pkg/llm"
	"github.com/JinsuaFeito-dev/REAL-STATE-QA/pkg/models"
	"github.com/JinsuaFeito-dev/REAL-STATE-QA/pkg/prompts"
)

// QueryTranslator turns a natural-language question plus schema context into
// a SQL statement via structured model output.
type QueryTranslator struct {
	engine llm.StructuredInferenceEngine
	logger *zap.Logger
}

// NewQueryTranslator creates a translator bound to an inference engine.
func NewQueryTranslator(engine llm.StructuredInferenceEngine, logger *zap.Logger) *QueryTranslator {
	return &QueryTranslator{
		engine: engine,
		logger: logger.Named("translator"),
	}
}

// translationPayload is the structured output shape requested from the
// model. The pointer distinguishes an absent sql_query field from a
// valid-but-empty query.
type translationPayload struct {
	SQLQuery *string `json:"sql_query"`
}

// Translate builds the few-shot prompt and parses the model's structured
// output. It never returns an error: any inference or parsing failure yields
// the TranslationFailed sentinel so the pipeline stays total, and the raw
// model output is preserved for diagnosis. No guessed query is ever
// substituted.
func (t *QueryTranslator) Translate(ctx context.Context, promptContext, question string) models.TranslationResult {
	messages, err := t.buildPrompt(promptContext, question)
	if err != nil {
		t.logger.Error("failed to build translation prompt", zap.Error(err))
		return models.TranslationResult{SQLQuery: models.TranslationFailed}
	}

	raw, err := t.engine.Infer(ctx, messages)
	if err != nil {
		t.logger.Error("inference failed", zap.Error(err))
		return models.TranslationResult{SQLQuery: models.TranslationFailed}
	}

	payload, err := llm.ParseJSONResponse[translationPayload](raw)
	if err != nil {
		t.logger.Warn("model output is not valid structured data",
			zap.String("raw", raw),
			zap.Error(err))
		return models.TranslationResult{SQLQuery: models.TranslationFailed, Raw: raw}
	}
	if payload.SQLQuery == nil {
		t.logger.Warn("model output omits sql_query field", zap.String("raw", raw))
		return models.TranslationResult{SQLQuery: models.TranslationFailed, Raw: raw}
	}

	t.logger.Info("question translated",
		zap.String("question", question),
		zap.String("sql", *payload.SQLQuery))

	return models.TranslationResult{SQLQuery: *payload.SQLQuery, Raw: raw}
}

// buildPrompt assembles system instruction, few-shot exemplars, and the
// final question. Every user turn repeats the schema context, matching the
// shape the exemplars were authored against.
func (t *QueryTranslator) buildPrompt(promptContext, question string) ([]llm.Message, error) {
	exemplars, err := prompts.Exemplars()
	if err != nil {
		return nil, err
	}

	messages := make([]llm.Message, 0, 2*len(exemplars)+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: prompts.SystemInstruction})
	for _, ex := range exemplars {
		messages = append(messages,
			llm.Message{Role: llm.RoleUser, Content: prompts.UserTurn(promptContext, ex.Question)},
			llm.Message{Role: llm.RoleAssistant, Content: ex.SQL},
		)
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: prompts.UserTurn(promptContext, question)})
	return messages, nil
}
