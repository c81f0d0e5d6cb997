package sakhi

import (
	"context"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

const (
	// DefaultHistoryLimit is how many recent turns feed the prompt.
	DefaultHistoryLimit = 8
	// DefaultMaxInputLen bounds the accepted user text, in runes.
	DefaultMaxInputLen = 4096
)

// turnState tracks where a turn is in its pipeline. A turn always ends in
// stateReplied or stateFailed; no partial result is exposed to the caller.
type turnState int

const (
	stateReceived turnState = iota
	stateDetected
	stateTranslatingIn
	stateHistoryLoaded
	statePromptBuilt
	stateCompleting
	stateTranslatingOut
	stateReplied
	stateFailed
)

func (s turnState) String() string {
	switch s {
	case stateReceived:
		return "received"
	case stateDetected:
		return "detected"
	case stateTranslatingIn:
		return "translating_in"
	case stateHistoryLoaded:
		return "history_loaded"
	case statePromptBuilt:
		return "prompt_built"
	case stateCompleting:
		return "completing"
	case stateTranslatingOut:
		return "translating_out"
	case stateReplied:
		return "replied"
	case stateFailed:
		return "failed"
	}
	return "unknown"
}

// Orchestrator drives one chat turn end-to-end: detect script, translate
// inbound, persist, assemble prompt, complete, persist, translate outbound.
// Concurrent turns from different conversations run independently; the only
// shared resource between them is the translation gateway's queue and cache.
type Orchestrator struct {
	store        HistoryStore
	translator   Translator
	completer    CompletionProvider
	prompts      *PromptConfig
	historyLimit int
	maxInputLen  int
	log          *zap.Logger
}

// OrchestratorOption is a functional option for configuring the Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithHistoryLimit sets how many recent turns feed the prompt.
func WithHistoryLimit(n int) OrchestratorOption {
	return func(o *Orchestrator) {
		if n > 0 {
			o.historyLimit = n
		}
	}
}

// WithMaxInputLen sets the maximum accepted user text length, in runes.
func WithMaxInputLen(n int) OrchestratorOption {
	return func(o *Orchestrator) {
		if n > 0 {
			o.maxInputLen = n
		}
	}
}

// WithPromptConfig replaces the built-in system prompt and examples.
func WithPromptConfig(cfg *PromptConfig) OrchestratorOption {
	return func(o *Orchestrator) {
		if cfg != nil {
			o.prompts = cfg
		}
	}
}

// WithLogger sets the structured logger. Defaults to a no-op logger.
func WithLogger(log *zap.Logger) OrchestratorOption {
	return func(o *Orchestrator) {
		if log != nil {
			o.log = log
		}
	}
}

// NewOrchestrator creates an orchestrator over the given collaborators.
// translator may be nil, in which case all input is treated as English.
func NewOrchestrator(store HistoryStore, translator Translator, completer CompletionProvider, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		store:        store,
		translator:   translator,
		completer:    completer,
		prompts:      DefaultPromptConfig(),
		historyLimit: DefaultHistoryLimit,
		maxInputLen:  DefaultMaxInputLen,
		log:          zap.NewNop(),
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// HandleTurn runs one conversation turn and returns the final reply text.
// Translation failures degrade to the untranslated text; completion and
// storage failures fail the whole turn. The user turn stays persisted even
// when completion fails, so the conversation keeps its continuity.
func (o *Orchestrator) HandleTurn(ctx context.Context, conversationID, text string) (string, error) {
	o.trace(conversationID, stateReceived)

	if err := o.validateTurn(conversationID, text); err != nil {
		o.trace(conversationID, stateFailed)
		return "", err
	}

	needsTranslation := o.translator != nil && NeedsTranslation(text)
	o.trace(conversationID, stateDetected)

	pivotText := text
	if needsTranslation {
		o.trace(conversationID, stateTranslatingIn)
		pivotText = o.translator.Translate(ctx, DirectionMLToEN, text)
	}

	if err := o.store.Append(ctx, conversationID, RoleUser, pivotText); err != nil {
		o.trace(conversationID, stateFailed)
		return "", &StorageError{Message: "appending user turn", Cause: err}
	}

	history, err := o.store.LoadRecent(ctx, conversationID, o.historyLimit)
	if err != nil {
		o.trace(conversationID, stateFailed)
		return "", &StorageError{Message: "loading history", Cause: err}
	}
	o.trace(conversationID, stateHistoryLoaded)

	messages := BuildPrompt(o.prompts, history, o.historyLimit, pivotText)
	o.trace(conversationID, statePromptBuilt)

	o.trace(conversationID, stateCompleting)
	reply, err := o.completer.Complete(ctx, messages)
	if err != nil {
		o.trace(conversationID, stateFailed)
		o.log.Error("completion failed",
			zap.String("conversation_id", conversationID),
			zap.Error(err))
		return "", err
	}

	if err := o.store.Append(ctx, conversationID, RoleAssistant, reply); err != nil {
		o.trace(conversationID, stateFailed)
		return "", &StorageError{Message: "appending assistant turn", Cause: err}
	}

	finalReply := reply
	if needsTranslation {
		o.trace(conversationID, stateTranslatingOut)
		finalReply = o.translator.Translate(ctx, DirectionENToML, reply)
	}

	o.trace(conversationID, stateReplied)
	return finalReply, nil
}

// ClearHistory deletes every turn of the conversation.
func (o *Orchestrator) ClearHistory(ctx context.Context, conversationID string) error {
	if strings.TrimSpace(conversationID) == "" {
		return &ValidationError{Field: "conversationId", Message: "must not be empty"}
	}
	if err := o.store.Clear(ctx, conversationID); err != nil {
		return &StorageError{Message: "clearing history", Cause: err}
	}
	return nil
}

// History returns up to limit recent turns, oldest first. A non-positive
// limit falls back to the orchestrator's history limit.
func (o *Orchestrator) History(ctx context.Context, conversationID string, limit int) ([]Turn, error) {
	if strings.TrimSpace(conversationID) == "" {
		return nil, &ValidationError{Field: "conversationId", Message: "must not be empty"}
	}
	if limit <= 0 {
		limit = o.historyLimit
	}
	turns, err := o.store.LoadRecent(ctx, conversationID, limit)
	if err != nil {
		return nil, &StorageError{Message: "loading history", Cause: err}
	}
	return turns, nil
}

func (o *Orchestrator) validateTurn(conversationID, text string) error {
	if strings.TrimSpace(conversationID) == "" {
		return &ValidationError{Field: "conversationId", Message: "must not be empty"}
	}
	if strings.TrimSpace(text) == "" {
		return &ValidationError{Field: "text", Message: "must not be empty"}
	}
	if utf8.RuneCountInString(text) > o.maxInputLen {
		return &ValidationError{Field: "text", Message: "exceeds maximum length"}
	}
	return nil
}

func (o *Orchestrator) trace(conversationID string, state turnState) {
	o.log.Debug("turn state",
		zap.String("conversation_id", conversationID),
		zap.Stringer("state", state))
}
