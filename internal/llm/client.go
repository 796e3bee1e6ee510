// Package llm invokes the external completion service to extract structured
// deadline fields from task text. The completion is requested at temperature
// zero and parsed tolerantly: the first top-level JSON object is located
// inside whatever prose or fencing surrounds it. There are no retries; one
// failed call fails one extraction attempt and nothing else.
package llm

import (
	"context"
	"errors"
	"log/slog"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/avasilev/taskpulse/internal/config"
	"github.com/avasilev/taskpulse/internal/deadline"
)

// Client is a deadline.Extractor backed by the Anthropic Messages API.
type Client struct {
	anthropic anthropic.Client
	model     string
	maxTokens int64
	timeout   time.Duration
	log       *slog.Logger
}

// NewClient builds a Client from configuration.
func NewClient(cfg config.LLMConfig, log *slog.Logger) *Client {
	return &Client{
		anthropic: anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		timeout:   cfg.Timeout,
		log:       log.With("component", "llm_client"),
	}
}

// Extract sends the extraction prompt and decodes the model's claims.
// The call is capped by the configured timeout; a stuck upstream delays only
// this caller, never anything else.
func (c *Client) Extract(ctx context.Context, taskText string, snap deadline.Snapshot) (*deadline.RawExtraction, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	prompt := deadline.BuildPrompt(taskText, snap)

	msg, err := c.anthropic.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   c.maxTokens,
		Temperature: anthropic.Float(0),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return nil, &ExtractionError{Stage: "call", Err: err}
	}

	if len(msg.Content) == 0 {
		return nil, &ExtractionError{Stage: "empty", Err: errors.New("completion has no content blocks")}
	}

	raw, err := decodeExtraction(msg.Content[0].Text)
	if err != nil {
		c.log.Debug("undecodable completion", "text", msg.Content[0].Text)
		return nil, err
	}

	return raw, nil
}
