package sakhi

import (
	"context"
	"time"
)

// Role identifies the author of a conversation turn or prompt message.
type Role string

const (
	// RoleSystem is the instruction message at the head of every prompt.
	RoleSystem Role = "system"
	// RoleUser marks messages written by the farmer.
	RoleUser Role = "user"
	// RoleAssistant marks messages written by the model.
	RoleAssistant Role = "assistant"
)

// Turn is one persisted conversation message. Turns are immutable once
// stored; the orchestrator only appends new ones and reads ordered slices.
type Turn struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// PromptMessage is one entry of the message list sent to the completion
// provider. Built fresh per turn, never persisted.
type PromptMessage struct {
	Role    Role
	Content string
}

// Direction identifies a translation direction between Malayalam and the
// English pivot language.
type Direction string

const (
	// DirectionMLToEN translates Malayalam input into English.
	DirectionMLToEN Direction = "ml-en"
	// DirectionENToML translates English replies back to Malayalam.
	DirectionENToML Direction = "en-ml"
)

// Reverse returns the opposite translation direction.
func (d Direction) Reverse() Direction {
	if d == DirectionMLToEN {
		return DirectionENToML
	}
	return DirectionMLToEN
}

// FewShotExample is a fixed question/answer pair injected into every prompt
// to steer model behavior. Loaded once at startup, read-only afterwards.
type FewShotExample struct {
	User      string `yaml:"user"`
	Assistant string `yaml:"assistant"`
}

// HistoryStore persists conversation turns. An empty result from LoadRecent
// is valid; implementations return a StorageError only when the backing
// store itself fails.
type HistoryStore interface {
	// Append persists one turn at the end of the conversation.
	Append(ctx context.Context, conversationID string, role Role, content string) error

	// LoadRecent returns up to limit most recent turns, oldest first.
	LoadRecent(ctx context.Context, conversationID string, limit int) ([]Turn, error)

	// Clear removes every turn of the conversation.
	Clear(ctx context.Context, conversationID string) error
}

// Translator converts text between Malayalam and English. The contract is
// fail-open: on any unrecoverable upstream failure implementations return
// the input text unchanged instead of an error.
type Translator interface {
	Translate(ctx context.Context, dir Direction, text string) string
}

// CompletionProvider generates an assistant reply for an ordered message
// list. Exhausted retries surface as a ServiceUnavailableError.
type CompletionProvider interface {
	Complete(ctx context.Context, messages []PromptMessage) (string, error)
}
