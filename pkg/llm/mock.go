package llm

import "context"

// MockEngine is a configurable mock for testing translation behavior.
// Set InferFunc to control responses; calls are counted for verification.
type MockEngine struct {
	// InferFunc is called when Infer is invoked. If nil, returns an empty
	// string and nil error.
	InferFunc func(ctx context.Context, messages []Message) (string, error)

	// InferCalls counts invocations.
	InferCalls int

	// LastMessages holds the prompt of the most recent call.
	LastMessages []Message
}

// Infer implements StructuredInferenceEngine.
func (m *MockEngine) Infer(ctx context.Context, messages []Message) (string, error) {
	m.InferCalls++
	m.LastMessages = messages
	if m.InferFunc != nil {
		return m.InferFunc(ctx, messages)
	}
	return "", nil
}
