package llm

import (
	"context"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/leadflow/leadflow/retry"
)

// AnthropicConfig configures the Anthropic-backed Completer.
type AnthropicConfig struct {
	APIKey    string
	Model     string
	MaxTokens int64
	Retry     retry.Config
}

// Anthropic implements Completer on top of the official SDK. All
// pipeline prompts run at temperature 0: extraction and summarization
// want the most deterministic reply available.
type Anthropic struct {
	client    sdk.Client
	model     string
	maxTokens int64
	retry     retry.Config
}

// NewAnthropic builds the client from config.
func NewAnthropic(cfg AnthropicConfig) *Anthropic {
	if cfg.Model == "" {
		cfg.Model = "claude-haiku-4-5-20251001"
	}

	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1024
	}

	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry = retry.Default()
	}

	return &Anthropic{
		client:    sdk.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		retry:     cfg.Retry,
	}
}

func (a *Anthropic) Complete(ctx context.Context, prompt string) (string, error) {
	msg, err := retry.DoVal(ctx, a.retry, "anthropic complete", func(ctx context.Context) (*sdk.Message, error) {
		return a.client.Messages.New(ctx, sdk.MessageNewParams{
			Model:       sdk.Model(a.model),
			MaxTokens:   a.maxTokens,
			Temperature: sdk.Float(0),
			Messages: []sdk.MessageParam{
				sdk.NewUserMessage(sdk.NewTextBlock(prompt)),
			},
		})
	})
	if err != nil {
		return "", eris.Wrap(err, "llm: create message")
	}

	zap.L().Debug("completion",
		zap.String("model", a.model),
		zap.Int64("input_tokens", msg.Usage.InputTokens),
		zap.Int64("output_tokens", msg.Usage.OutputTokens),
	)

	var sb strings.Builder

	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	return sb.String(), nil
}
