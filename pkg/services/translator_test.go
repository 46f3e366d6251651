package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/JinsuaFeito-dev/REAL-STATE-QA/pkg/llm"
	"github.com/JinsuaFeito-dev/REAL-STATE-QA/pkg/models"
	"github.com/JinsuaFeito-dev/REAL-STATE-QA/pkg/prompts"
)

func TestTranslate(t *testing.T) {
	engine := &llm.MockEngine{
		InferFunc: func(ctx context.Context, messages []llm.Message) (string, error) {
			return `{"sql_query": "SELECT COUNT(*) AS total FROM home WHERE province = 'Madrid'"}`, nil
		},
	}
	translator := NewQueryTranslator(engine, zap.NewNop())

	got := translator.Translate(context.Background(), "Table 0: home", "count houses in Madrid")
	assert.False(t, got.Failed())
	assert.Equal(t, "SELECT COUNT(*) AS total FROM home WHERE province = 'Madrid'", got.SQLQuery)
	assert.NotEmpty(t, got.Raw)
}

func TestTranslatePromptShape(t *testing.T) {
	engine := &llm.MockEngine{
		InferFunc: func(ctx context.Context, messages []llm.Message) (string, error) {
			return `{"sql_query": "SELECT 1"}`, nil
		},
	}
	translator := NewQueryTranslator(engine, zap.NewNop())
	translator.Translate(context.Background(), "SCHEMA-CTX", "the question")

	exemplars, err := prompts.Exemplars()
	require.NoError(t, err)

	msgs := engine.LastMessages
	require.Len(t, msgs, 2*len(exemplars)+2)

	assert.Equal(t, llm.RoleSystem, msgs[0].Role)
	assert.Equal(t, prompts.SystemInstruction, msgs[0].Content)

	// Exemplars alternate user/assistant, and every user turn carries the
	// schema context.
	for i, ex := range exemplars {
		userMsg := msgs[1+2*i]
		assistantMsg := msgs[2+2*i]
		assert.Equal(t, llm.RoleUser, userMsg.Role)
		assert.Contains(t, userMsg.Content, "SCHEMA-CTX")
		assert.Contains(t, userMsg.Content, ex.Question)
		assert.Equal(t, llm.RoleAssistant, assistantMsg.Role)
		assert.Equal(t, ex.SQL, assistantMsg.Content)
	}

	final := msgs[len(msgs)-1]
	assert.Equal(t, llm.RoleUser, final.Role)
	assert.Contains(t, final.Content, "the question")
}

func TestTranslateMalformedOutput(t *testing.T) {
	tests := []struct {
		name   string
		output string
	}{
		{name: "not json", output: "SELECT COUNT(*) FROM home"},
		{name: "empty output", output: ""},
		{name: "truncated json", output: `{"sql_query": "SELECT`},
		{name: "missing field", output: `{"query": "SELECT 1"}`},
		{name: "null field", output: `{"sql_query": null}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &llm.MockEngine{
				InferFunc: func(ctx context.Context, messages []llm.Message) (string, error) {
					return tt.output, nil
				},
			}
			translator := NewQueryTranslator(engine, zap.NewNop())

			got := translator.Translate(context.Background(), "ctx", "question")
			assert.True(t, got.Failed())
			assert.Equal(t, models.TranslationFailed, got.SQLQuery)
		})
	}
}

func TestTranslateEmptyQueryIsNotFailure(t *testing.T) {
	engine := &llm.MockEngine{
		InferFunc: func(ctx context.Context, messages []llm.Message) (string, error) {
			return `{"sql_query": ""}`, nil
		},
	}
	translator := NewQueryTranslator(engine, zap.NewNop())

	got := translator.Translate(context.Background(), "ctx", "question")
	// A present-but-empty field is a valid (if useless) translation, which
	// must stay distinguishable from the sentinel.
	assert.False(t, got.Failed())
	assert.Empty(t, got.SQLQuery)
}

func TestTranslateInferenceError(t *testing.T) {
	engine := &llm.MockEngine{
		InferFunc: func(ctx context.Context, messages []llm.Message) (string, error) {
			return "", errors.New("connection refused")
		},
	}
	translator := NewQueryTranslator(engine, zap.NewNop())

	got := translator.Translate(context.Background(), "ctx", "question")
	assert.True(t, got.Failed())
}
