// Package llm provides structured-output inference clients for SQL
// translation, with OpenAI-compatible and Anthropic backends.
package llm

import "context"

// Message roles for chat-style prompts.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a chat prompt.
type Message struct {
	Role    string
	Content string
}

// StructuredInferenceEngine invokes the model with a chat prompt and returns
// its raw output. Implementations request output constrained to an object
// with a single required string field sql_query, but callers must still
// treat the result as untrusted text: there is no guarantee of validity.
// Use this interface for dependency injection to enable mocking in tests.
type StructuredInferenceEngine interface {
	Infer(ctx context.Context, messages []Message) (string, error)
}

// Compile-time interface checks.
var (
	_ StructuredInferenceEngine = (*OpenAIClient)(nil)
	_ StructuredInferenceEngine = (*AnthropicClient)(nil)
	_ StructuredInferenceEngine = (*MockEngine)(nil)
)
