// Package ai adapts the OpenAI chat completion API to the chatbot's
// Completer port.
package ai

import (
	"context"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/shibbu04/scaler-apm/platform/apperr"
	"github.com/shibbu04/scaler-apm/platform/config"
	"github.com/shibbu04/scaler-apm/platform/logger"
)

// OpenAICompleter calls the chat completions endpoint with a bounded
// timeout. Callers treat any error as a cue to use their fallback.
type OpenAICompleter struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	log     *logger.Logger
}

// NewOpenAICompleter builds the adapter, or returns nil when no API key is
// configured so callers can wire the nil-completer fallback path.
func NewOpenAICompleter(cfg config.AIConfig, log *logger.Logger) *OpenAICompleter {
	if !cfg.IsAIEnabled() {
		return nil
	}

	clientCfg := openai.DefaultConfig(cfg.GetOpenAIAPIKey())
	if cfg.GetOpenAIBaseURL() != "" {
		clientCfg.BaseURL = cfg.GetOpenAIBaseURL()
	}

	return &OpenAICompleter{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   cfg.GetOpenAIModel(),
		timeout: cfg.GetAITimeout(),
		log:     log,
	}
}

// Complete runs one system+user chat completion.
func (c *OpenAICompleter) Complete(ctx context.Context, system, user string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		MaxTokens:   300,
		Temperature: 0.8,
	})
	if err != nil {
		c.log.UpstreamError("openai", "chat completion", err)
		return "", apperr.Upstream("AI provider unavailable", 0)
	}
	if len(resp.Choices) == 0 {
		return "", apperr.Upstream("AI provider returned no choices", 0)
	}

	return resp.Choices[0].Message.Content, nil
}
