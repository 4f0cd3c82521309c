// Package anthropic implements direct content generation against the
// Anthropic API, for deployments that bypass the workflow engine. The
// generator walks the feature's model chain so an overloaded primary
// degrades to its fallback instead of failing the job.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/ssestream"

	"github.com/readykit/report-api/config"
	"github.com/readykit/report-api/internal/core"
	"github.com/readykit/report-api/internal/domain/model"
	"github.com/readykit/report-api/internal/modelpolicy"
)

// messageAPI is the slice of the SDK the generator uses. The SDK's
// MessageService satisfies it.
type messageAPI interface {
	NewStreaming(ctx context.Context, params sdk.MessageNewParams, opts ...option.RequestOption) *ssestream.Stream[sdk.MessageStreamEventUnion]
}

// GeneratorOptions groups dependencies for Generator.
type GeneratorOptions struct {
	Config config.GenerationConfig // Required: API key and request timeout
	Logger *slog.Logger            // Optional

	// Messages overrides the SDK client, for tests.
	Messages messageAPI
}

// Generator produces report content by calling the model directly.
type Generator struct {
	messages messageAPI
	timeout  time.Duration
	log      *slog.Logger
}

// NewGenerator constructs a new Generator.
func NewGenerator(opts GeneratorOptions) (*Generator, error) {
	messages := opts.Messages
	if messages == nil {
		if opts.Config.AnthropicAPIKey == "" {
			return nil, errors.New("AnthropicAPIKey is required")
		}
		client := sdk.NewClient(option.WithAPIKey(opts.Config.AnthropicAPIKey))
		messages = &client.Messages
	}
	return &Generator{
		messages: messages,
		timeout:  opts.Config.Timeout,
		log:      opts.Logger,
	}, nil
}

// MustNewGenerator constructs a new Generator and panics on error.
func MustNewGenerator(opts GeneratorOptions) *Generator {
	g, err := NewGenerator(opts)
	if err != nil {
		panic(fmt.Sprintf("failed to create generator: %v", err))
	}
	return g
}

func (g *Generator) logger() *slog.Logger {
	if g.log != nil {
		return g.log
	}
	return slog.Default()
}

// Generate runs the feature's prompt against its model chain and
// returns the first successful completion.
func (g *Generator) Generate(ctx context.Context, feature model.Feature, input []byte) (*core.GenerationResult, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	prompt, err := buildPrompt(feature, input)
	if err != nil {
		return nil, fmt.Errorf("build prompt: %w", err)
	}

	policy := modelpolicy.ForFeature(feature)
	var lastErr error
	for _, m := range policy.Chain() {
		res, err := g.invoke(ctx, m, policy, prompt)
		if err == nil {
			return res, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			// An interrupted stream still carries the tokens consumed
			// so far; surface them alongside the error so usage is not
			// lost on cancellation.
			return res, fmt.Errorf("generation interrupted for %s: %w", feature, lastErr)
		}
		g.logger().WarnContext(ctx, "model invocation failed, trying fallback",
			"feature", feature, "model", m, "error", err)
	}
	return nil, fmt.Errorf("all models failed for %s: %w", feature, lastErr)
}

// invoke streams one completion, accumulating text deltas as they
// arrive. On a stream error it returns the partial result together
// with the error so the caller can still account for consumed tokens.
func (g *Generator) invoke(ctx context.Context, modelName string, policy modelpolicy.Policy, p *featurePrompt) (*core.GenerationResult, error) {
	start := time.Now()
	stream := g.messages.NewStreaming(ctx, sdk.MessageNewParams{
		Model:       sdk.Model(modelName),
		MaxTokens:   int64(policy.MaxTokens),
		Temperature: sdk.Float(policy.Temperature),
		System:      []sdk.TextBlockParam{{Text: p.System}},
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(p.User)),
		},
	})
	defer stream.Close()

	var (
		text strings.Builder
		acc  sdk.Message
	)
	for stream.Next() {
		event := stream.Current()
		if err := acc.Accumulate(event); err != nil {
			return nil, fmt.Errorf("accumulate stream event: %w", err)
		}
		if delta, ok := event.AsAny().(sdk.ContentBlockDeltaEvent); ok {
			if td, ok := delta.Delta.AsAny().(sdk.TextDelta); ok {
				text.WriteString(td.Text)
			}
		}
	}

	result := &core.GenerationResult{
		Content:      text.String(),
		Model:        modelName,
		InputTokens:  int(acc.Usage.InputTokens),
		OutputTokens: int(acc.Usage.OutputTokens),
		Duration:     time.Since(start),
	}
	if err := stream.Err(); err != nil {
		return result, fmt.Errorf("stream message: %w", err)
	}
	if text.Len() == 0 {
		return nil, errors.New("response contained no text content")
	}
	return result, nil
}
