package domain

import "context"

// Chat roles.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// ChatMessage is one turn of a chat completion prompt.
type ChatMessage struct {
	Role    string
	Content string
}

// ChatResult is a completion with its token usage.
type ChatResult struct {
	Content          string
	Model            string
	PromptTokens     int
	CompletionTokens int
}

// ChatCompleter is the answer-generation contract between layers.
type ChatCompleter interface {
	Complete(ctx context.Context, messages []ChatMessage) (ChatResult, error)
	Model() string
}
