package sakhi

// BuildPrompt assembles the ordered message list for one turn:
// one system message, the few-shot examples flattened into user/assistant
// pairs, at most historyLimit history turns in chronological order, and the
// current (possibly translated) user text last. Examples are atomic pairs
// and are never split or truncated.
func BuildPrompt(cfg *PromptConfig, history []Turn, historyLimit int, currentText string) []PromptMessage {
	if historyLimit > 0 && len(history) > historyLimit {
		history = history[len(history)-historyLimit:]
	}

	messages := make([]PromptMessage, 0, 2+2*len(cfg.Examples)+len(history))
	messages = append(messages, PromptMessage{Role: RoleSystem, Content: cfg.SystemPrompt})

	for _, ex := range cfg.Examples {
		messages = append(messages,
			PromptMessage{Role: RoleUser, Content: ex.User},
			PromptMessage{Role: RoleAssistant, Content: ex.Assistant},
		)
	}

	for _, turn := range history {
		role := turn.Role
		if role != RoleUser && role != RoleAssistant {
			role = RoleUser
		}
		messages = append(messages, PromptMessage{Role: role, Content: turn.Content})
	}

	return append(messages, PromptMessage{Role: RoleUser, Content: currentText})
}
