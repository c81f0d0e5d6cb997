package provider

import (
	"context"

	"github.com/KrishiLabs/sakhi"
)

// MockProvider is a scripted completion provider for testing.
type MockProvider struct {
	Reply        string          // Reply returned on success
	Err          error           // Error returned instead, when set
	CallCount    int             // Number of times Complete was called
	LastMessages []PromptMessage // Last message list received
}

// NewMockProvider creates a mock provider with a canned reply.
func NewMockProvider(reply string) *MockProvider {
	return &MockProvider{Reply: reply}
}

// Complete returns the scripted reply or error.
func (m *MockProvider) Complete(_ context.Context, messages []PromptMessage) (string, error) {
	m.CallCount++
	m.LastMessages = messages

	if m.Err != nil {
		return "", m.Err
	}
	return m.Reply, nil
}

// FailWith makes every subsequent call fail as service-unavailable.
func (m *MockProvider) FailWith(cause error) *MockProvider {
	m.Err = &sakhi.ServiceUnavailableError{Cause: cause}
	return m
}

// Reset resets the call count and last messages.
func (m *MockProvider) Reset() {
	m.CallCount = 0
	m.LastMessages = nil
}

// Verify MockProvider implements CompletionProvider
var _ CompletionProvider = (*MockProvider)(nil)
