package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Client is the opaque text-completion collaborator: a prompt goes in,
// drafted analysis text comes out. Retry policy lives in the SDK, not here.
type Client interface {
	Complete(ctx context.Context, prompt string) (Completion, error)
}

// Completion carries the drafted text plus token usage for the audit log.
type Completion struct {
	Text         string
	InputTokens  int64
	OutputTokens int64
}

type anthropicClient struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	logger    *slog.Logger
}

// NewAnthropicClient creates a completion client backed by the Anthropic
// Messages API.
func NewAnthropicClient(logger *slog.Logger, apiKey, model string, maxTokens int64) Client {
	return &anthropicClient{
		client:    anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:     model,
		maxTokens: maxTokens,
		logger:    logger.With("component", "llm_client"),
	}
}

func (c *anthropicClient) Complete(ctx context.Context, prompt string) (Completion, error) {
	startTime := time.Now()

	c.logger.Info("Sending analysis request", "model", c.model, "prompt_chars", len(prompt))

	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	duration := time.Since(startTime).Seconds()
	if err != nil {
		RecordRequest(c.model, duration, false, 0, 0)
		return Completion{}, fmt.Errorf("anthropic API error: %w", err)
	}

	completion := Completion{
		InputTokens:  message.Usage.InputTokens,
		OutputTokens: message.Usage.OutputTokens,
	}
	for _, block := range message.Content {
		if block.Type == "text" {
			completion.Text = block.Text
			break
		}
	}
	if completion.Text == "" {
		RecordRequest(c.model, duration, false, completion.InputTokens, completion.OutputTokens)
		return Completion{}, fmt.Errorf("no text content in response")
	}

	RecordRequest(c.model, duration, true, completion.InputTokens, completion.OutputTokens)
	c.logger.Info("Analysis received",
		"model", c.model,
		"input_tokens", completion.InputTokens,
		"output_tokens", completion.OutputTokens,
		"duration_s", duration,
	)
	return completion, nil
}
