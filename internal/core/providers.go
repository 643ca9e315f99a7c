package core

import "context"

// AIProvider is the completion service boundary. Implementations send the
// assembled prompt and return the first generated candidate.
type AIProvider interface {
	Chat(ctx context.Context, messages []Message) (Message, error)
}
