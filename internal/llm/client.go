package llm

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// Completer is the narrow text-generation contract used by the analyzer and
// the fix generator.
type Completer interface {
	Complete(ctx context.Context, system, user string, temperature float32) (string, error)
}

// Client wraps the OpenAI chat-completion API.
type Client struct {
	api       *openai.Client
	model     string
	maxTokens int
}

// NewClient creates a chat-completion client. An empty model falls back to
// gpt-4o.
func NewClient(apiKey, model string, maxTokens int) *Client {
	if model == "" {
		model = openai.GPT4o
	}
	return &Client{
		api:       openai.NewClient(apiKey),
		model:     model,
		maxTokens: maxTokens,
	}
}

// Complete sends one system+user exchange and returns the completion text.
func (c *Client) Complete(ctx context.Context, system, user string, temperature float32) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from model")
	}
	return resp.Choices[0].Message.Content, nil
}
