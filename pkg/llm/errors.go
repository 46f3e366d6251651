package llm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// ErrorType classifies inference failures.
type ErrorType string

const (
	ErrorTypeAuth     ErrorType = "auth"
	ErrorTypeEndpoint ErrorType = "endpoint"
	ErrorTypeModel    ErrorType = "model"
	ErrorTypeUnknown  ErrorType = "unknown"
)

// Error is a structured inference error with classification.
type Error struct {
	Type      ErrorType
	Message   string
	Retryable bool
	Cause     error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *Error) Unwrap() error { return e.Cause }

// classifyError categorizes a backend error for consistent logging.
func classifyError(err error) *Error {
	if err == nil {
		return nil
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == 401 || apiErr.HTTPStatusCode == 403:
			return &Error{Type: ErrorTypeAuth, Message: "authentication failed", Cause: err}
		case apiErr.HTTPStatusCode == 404:
			return &Error{Type: ErrorTypeModel, Message: "model not found", Cause: err}
		case apiErr.HTTPStatusCode == 429 || apiErr.HTTPStatusCode >= 500:
			return &Error{Type: ErrorTypeEndpoint, Message: "endpoint unavailable", Retryable: true, Cause: err}
		}
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "connection refused") || strings.Contains(msg, "no such host") {
		return &Error{Type: ErrorTypeEndpoint, Message: "endpoint unreachable", Retryable: true, Cause: err}
	}

	return &Error{Type: ErrorTypeUnknown, Message: "inference failed", Cause: err}
}
