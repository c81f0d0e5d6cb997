package provider

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/KrishiLabs/sakhi"
)

// OpenAIProvider implements CompletionProvider using OpenAI's chat API.
type OpenAIProvider struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	retry       sakhi.RetryConfig
}

// OpenAIConfig holds configuration for the OpenAI provider.
type OpenAIConfig struct {
	APIKey      string            // OpenAI API key
	Model       string            // Model to use (default: "gpt-4o-mini")
	Temperature float32           // Temperature for generation (default: 0.2)
	MaxTokens   int               // Reply token budget (default: 500)
	BaseURL     string            // Custom base URL (optional)
	Retry       sakhi.RetryConfig // Retry policy (default: 3 attempts, 1s base)
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.2
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 500
	}

	retry := cfg.Retry
	if retry.MaxAttempts <= 0 {
		retry = sakhi.DefaultRetryConfig()
	}

	return &OpenAIProvider{
		client:      openai.NewClientWithConfig(config),
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		retry:       retry,
	}
}

// Complete generates a reply for the ordered message list. Rate limiting
// and server errors are retried per the configured policy; once retries are
// exhausted the failure surfaces as a ServiceUnavailableError. This gateway
// is not fail-open: the assistant cannot fabricate a completion.
func (p *OpenAIProvider) Complete(ctx context.Context, messages []PromptMessage) (string, error) {
	chatMessages := make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		chatMessages[i] = openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		}
	}

	reply, err := sakhi.WithRetry(ctx, p.retry, func() (string, error) {
		resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       p.model,
			Messages:    chatMessages,
			Temperature: p.temperature,
			MaxTokens:   p.maxTokens,
		})
		if err != nil {
			return "", classifyError(err)
		}

		if len(resp.Choices) == 0 {
			return FallbackReply, nil
		}

		content := strings.TrimSpace(resp.Choices[0].Message.Content)
		if content == "" {
			return FallbackReply, nil
		}
		return content, nil
	})
	if err != nil {
		return "", &sakhi.ServiceUnavailableError{Cause: err}
	}

	return reply, nil
}

// classifyError maps an OpenAI client error onto the retry taxonomy:
// 429 retries with exponential backoff, 5xx with linear backoff, any other
// 4xx aborts immediately. Network-level failures count as transient.
func classifyError(err error) error {
	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	if status != 0 {
		switch {
		case status == http.StatusTooManyRequests:
			return &sakhi.ProviderError{
				Message:   "completion rate limited",
				Cause:     err,
				Retryable: true,
				Backoff:   sakhi.BackoffExponential,
			}
		case status >= 500:
			return &sakhi.ProviderError{
				Message:   "completion server error",
				Cause:     err,
				Retryable: true,
				Backoff:   sakhi.BackoffLinear,
			}
		default:
			return &sakhi.ProviderError{
				Message:   "completion request rejected",
				Cause:     err,
				Retryable: false,
			}
		}
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &sakhi.ProviderError{
			Message:   "completion request cancelled",
			Cause:     err,
			Retryable: false,
		}
	}

	return &sakhi.ProviderError{
		Message:   "completion request failed",
		Cause:     err,
		Retryable: true,
		Backoff:   sakhi.BackoffLinear,
	}
}

// Verify OpenAIProvider implements CompletionProvider
var _ CompletionProvider = (*OpenAIProvider)(nil)
