// Package llm wraps the Anthropic SDK behind a narrow interface so the
// scoring engine (C7) never imports anthropic-sdk-go directly, following
// the provider-wrapping shape used elsewhere in the pack for third-party
// model providers.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/jexpert/profile-enrichment/pkg/logger"
)

// Client is the narrow surface the scoring engine depends on.
type Client interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, model string, maxTokens int, temperature float64) (text string, tokensUsed int, err error)
}

// Config configures the Anthropic-backed client.
type Config struct {
	APIKey  string
	Timeout time.Duration
}

// AnthropicClient implements Client using the real Anthropic API.
type AnthropicClient struct {
	client  anthropic.Client
	timeout time.Duration
}

func New(cfg Config) (*AnthropicClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &AnthropicClient{
		client:  anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		timeout: timeout,
	}, nil
}

// Complete issues a single-turn completion request. An empty systemPrompt
// omits the System parameter. The returned tokensUsed is the sum of input
// and output tokens reported by the API, for persistence against the job
// (§4.7 step 7).
func (c *AnthropicClient) Complete(ctx context.Context, systemPrompt, userPrompt string, model string, maxTokens int, temperature float64) (string, int, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	}
	if temperature > 0 {
		params.Temperature = anthropic.Float(temperature)
	}
	if systemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: systemPrompt}}
	}

	resp, err := c.client.Messages.New(timeoutCtx, params)
	if err != nil {
		logger.Log.Error("anthropic completion failed", "error", err, "model", model)
		return "", 0, classifyAnthropicError(err)
	}

	tokensUsed := int(resp.Usage.InputTokens + resp.Usage.OutputTokens)

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == anthropic.ContentBlockTypeText {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", tokensUsed, fmt.Errorf("anthropic returned no text content")
	}
	return sb.String(), tokensUsed, nil
}
