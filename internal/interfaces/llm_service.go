package interfaces

import (
	"context"
)

// Message represents a single message in a chat conversation
type Message struct {
	// Role identifies the message sender: "user", "assistant", or "system"
	Role string `json:"role"`

	// Content contains the text content of the message
	Content string `json:"content"`
}

// LLMService generates narrative text from a compiled prompt.
//
// Implementations make exactly one request per call and never retry.
// Failures are returned as *llm.GenerationError so callers can tell a
// timeout from a transport or service failure.
type LLMService interface {
	// Generate sends the prompt as a single user message and returns the reply
	Generate(ctx context.Context, prompt string) (string, error)

	// Model returns the configured model identifier
	Model() string

	// Close releases provider resources
	Close() error
}
