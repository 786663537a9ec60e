// Package llm wraps an OpenAI-compatible chat-completion API for
// personalized question generation.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/anaya-patel/llm-disability-dashboard/internal/llm/prompts"
	"github.com/anaya-patel/llm-disability-dashboard/internal/model"
)

// DefaultTimeout bounds a single provider call when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// Client wraps an OpenAI-compatible API client. It is stateless apart from
// configuration and safe for concurrent use.
type Client struct {
	api     *openai.Client
	model   string
	timeout time.Duration
}

// New creates a new completion client. An empty baseURL uses the official
// OpenAI endpoint; any OpenAI-compatible URL works.
func New(baseURL, apiKey, modelName string, timeout time.Duration) *Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		api:     openai.NewClientWithConfig(config),
		model:   modelName,
		timeout: timeout,
	}
}

// GenerateQuestion builds the prompt for the given profile, issues one
// chat-completion request, and parses the JSON reply. The reply is validated
// against the expected shape before unmarshalling; any transport, provider,
// or parse failure wraps model.ErrGeneration.
func (c *Client) GenerateQuestion(ctx context.Context, profile model.StudentProfile) (*model.GeneratedQuestion, error) {
	prompt, err := prompts.Build(profile)
	if err != nil {
		return nil, fmt.Errorf("%w: build prompt: %v", model.ErrGeneration, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompts.SystemPersona},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: provider call timed out after %s", model.ErrGeneration, c.timeout)
		}
		return nil, fmt.Errorf("%w: provider call: %v", model.ErrGeneration, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: provider returned no choices", model.ErrGeneration)
	}

	raw := resp.Choices[0].Message.Content
	slog.Debug("provider reply", "raw", raw)

	if err := validateReply([]byte(raw)); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrGeneration, err)
	}

	var q model.GeneratedQuestion
	if err := json.Unmarshal([]byte(raw), &q); err != nil {
		return nil, fmt.Errorf("%w: parse provider reply: %v", model.ErrGeneration, err)
	}
	return &q, nil
}

// TestConnection issues a minimal fixed-prompt call and reports the outcome.
// Provider failure is captured in the result, never returned as an error.
func (c *Client) TestConnection(ctx context.Context) model.ConnectionResult {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompts.PingPersona},
			{Role: openai.ChatMessageRoleUser, Content: prompts.PingPrompt},
		},
	})
	if err != nil {
		return model.ConnectionResult{Error: err.Error()}
	}
	if len(resp.Choices) == 0 {
		return model.ConnectionResult{Error: "provider returned no choices"}
	}
	return model.ConnectionResult{Success: true, Message: resp.Choices[0].Message.Content}
}

// Ping verifies the provider is reachable. Used as a startup health check.
func (c *Client) Ping(ctx context.Context) error {
	if res := c.TestConnection(ctx); !res.Success {
		return fmt.Errorf("provider ping: %s", res.Error)
	}
	return nil
}
