package sakhi

import (
	"fmt"
	"testing"
)

func testPromptConfig(examples int) *PromptConfig {
	cfg := &PromptConfig{SystemPrompt: "You are a farming assistant."}
	for i := 0; i < examples; i++ {
		cfg.Examples = append(cfg.Examples, FewShotExample{
			User:      fmt.Sprintf("question %d", i),
			Assistant: fmt.Sprintf("answer %d", i),
		})
	}
	return cfg
}

func testHistory(n int) []Turn {
	turns := make([]Turn, n)
	for i := range turns {
		role := RoleUser
		if i%2 == 1 {
			role = RoleAssistant
		}
		turns[i] = Turn{Role: role, Content: fmt.Sprintf("turn %d", i)}
	}
	return turns
}

func TestBuildPrompt_Length(t *testing.T) {
	tests := []struct {
		name     string
		examples int
		history  int
		limit    int
	}{
		{"no examples, no history", 0, 0, 8},
		{"examples only", 3, 0, 8},
		{"history under limit", 2, 5, 8},
		{"history at limit", 2, 8, 8},
		{"history over limit", 2, 20, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testPromptConfig(tt.examples)
			msgs := BuildPrompt(cfg, testHistory(tt.history), tt.limit, "current question")

			historyCount := tt.history
			if historyCount > tt.limit {
				historyCount = tt.limit
			}
			want := 1 + 2*tt.examples + historyCount + 1

			if len(msgs) != want {
				t.Errorf("Expected %d messages, got %d", want, len(msgs))
			}
		})
	}
}

func TestBuildPrompt_Order(t *testing.T) {
	cfg := testPromptConfig(2)
	history := []Turn{
		{Role: RoleUser, Content: "old question"},
		{Role: RoleAssistant, Content: "old answer"},
	}

	msgs := BuildPrompt(cfg, history, 8, "new question")

	if msgs[0].Role != RoleSystem || msgs[0].Content != cfg.SystemPrompt {
		t.Error("Expected system message first")
	}

	// Example pairs come flattened in configured order, never split.
	if msgs[1].Role != RoleUser || msgs[1].Content != "question 0" {
		t.Errorf("Expected first example user message, got %+v", msgs[1])
	}
	if msgs[2].Role != RoleAssistant || msgs[2].Content != "answer 0" {
		t.Errorf("Expected first example assistant message, got %+v", msgs[2])
	}
	if msgs[3].Content != "question 1" || msgs[4].Content != "answer 1" {
		t.Error("Expected second example pair after first")
	}

	if msgs[5].Content != "old question" || msgs[6].Content != "old answer" {
		t.Error("Expected history turns after examples, in chronological order")
	}

	last := msgs[len(msgs)-1]
	if last.Role != RoleUser || last.Content != "new question" {
		t.Errorf("Expected current text as final user message, got %+v", last)
	}
}

func TestBuildPrompt_CapsKeepMostRecent(t *testing.T) {
	cfg := testPromptConfig(0)
	history := testHistory(10)

	msgs := BuildPrompt(cfg, history, 4, "now")

	// system + 4 history + current
	if len(msgs) != 6 {
		t.Fatalf("Expected 6 messages, got %d", len(msgs))
	}

	if msgs[1].Content != "turn 6" {
		t.Errorf("Expected oldest kept turn to be 'turn 6', got %q", msgs[1].Content)
	}
	if msgs[4].Content != "turn 9" {
		t.Errorf("Expected newest kept turn to be 'turn 9', got %q", msgs[4].Content)
	}
}

func TestBuildPrompt_NormalizesUnknownRole(t *testing.T) {
	cfg := testPromptConfig(0)
	history := []Turn{{Role: Role("tool"), Content: "odd turn"}}

	msgs := BuildPrompt(cfg, history, 8, "now")

	if msgs[1].Role != RoleUser {
		t.Errorf("Expected unknown role normalized to user, got %q", msgs[1].Role)
	}
}

func BenchmarkBuildPrompt(b *testing.B) {
	cfg := DefaultPromptConfig()
	history := testHistory(8)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		BuildPrompt(cfg, history, 8, "How do I grow rice?")
	}
}
