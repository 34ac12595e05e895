// Package llm abstracts the model backend behind a minimal chat contract.
package llm

import "context"

// Chat is a single conversational session with a model. Sessions are cheap
// and short-lived: every phase entry opens a fresh one.
type Chat interface {
	Send(ctx context.Context, message string) (string, error)
}

// Provider supplies fresh chat sessions for a named model.
type Provider interface {
	NewChat(model string) Chat
	Close() error
}
