package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{
			name:     "bare object",
			input:    `{"sql_query": "SELECT 1"}`,
			expected: `{"sql_query": "SELECT 1"}`,
		},
		{
			name:     "markdown fenced",
			input:    "```json\n{\"sql_query\": \"SELECT 1\"}\n```",
			expected: `{"sql_query": "SELECT 1"}`,
		},
		{
			name:     "think tag preamble",
			input:    "<think>the user wants a count</think>\n{\"sql_query\": \"SELECT COUNT(*) FROM home\"}",
			expected: `{"sql_query": "SELECT COUNT(*) FROM home"}`,
		},
		{
			name:     "surrounding prose",
			input:    "Here is the query:\n{\"sql_query\": \"SELECT 1\"}\nHope that helps!",
			expected: `{"sql_query": "SELECT 1"}`,
		},
		{
			name:     "nested braces inside string",
			input:    `{"sql_query": "SELECT '{\"a\": 1}' AS j"}`,
			expected: `{"sql_query": "SELECT '{\"a\": 1}' AS j"}`,
		},
		{
			name:    "no object",
			input:   "SELECT 1",
			wantErr: true,
		},
		{
			name:    "unterminated object",
			input:   `{"sql_query": "SELECT 1"`,
			wantErr: true,
		},
		{
			name:    "empty response",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSONObject(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseJSONResponse(t *testing.T) {
	type payload struct {
		SQLQuery string `json:"sql_query"`
	}

	got, err := ParseJSONResponse[payload](`{"sql_query": "SELECT 1"}`)
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1", got.SQLQuery)

	_, err = ParseJSONResponse[payload]("no json here")
	require.Error(t, err)

	// Valid JSON, wrong shape: field simply stays empty.
	got, err = ParseJSONResponse[payload](`{"query": "SELECT 1"}`)
	require.NoError(t, err)
	assert.Empty(t, got.SQLQuery)
}
