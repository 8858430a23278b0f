package completion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/tbxark/calltaker/types"
)

// ErrGeneration reports that the completion service could not produce text.
var ErrGeneration = errors.New("generation failed")

// Completer turns a prompt into text using the model configured for tier.
type Completer interface {
	Generate(ctx context.Context, tier types.Tier, prompt string) (string, error)
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, tier types.Tier, prompt string) (string, error)

func (f CompleterFunc) Generate(ctx context.Context, tier types.Tier, prompt string) (string, error) {
	return f(ctx, tier, prompt)
}

// ModelCompleter sends prompts to one eino chat model per tier.
type ModelCompleter struct {
	models map[types.Tier]model.BaseChatModel
}

func NewModelCompleter(quality, fast model.BaseChatModel) *ModelCompleter {
	return &ModelCompleter{models: map[types.Tier]model.BaseChatModel{
		types.TierQuality: quality,
		types.TierFast:    fast,
	}}
}

func (c *ModelCompleter) Generate(ctx context.Context, tier types.Tier, prompt string) (string, error) {
	m, ok := c.models[tier]
	if !ok || m == nil {
		return "", fmt.Errorf("%w: no model for tier %q", ErrGeneration, tier)
	}
	resp, err := m.Generate(ctx, []*schema.Message{schema.UserMessage(prompt)})
	if err != nil {
		return "", fmt.Errorf("%w: LLM call failed: %w", ErrGeneration, err)
	}
	if resp == nil {
		return "", fmt.Errorf("%w: empty response", ErrGeneration)
	}
	return strings.TrimSpace(resp.Content), nil
}

// FailbackCompleter retries once on the other tier when the requested tier
// fails or returns empty text.
type FailbackCompleter struct {
	next Completer
}

func NewFailbackCompleter(next Completer) *FailbackCompleter {
	return &FailbackCompleter{next: next}
}

func (c *FailbackCompleter) Generate(ctx context.Context, tier types.Tier, prompt string) (string, error) {
	var lastErr error
	for _, t := range []types.Tier{tier, tier.Other()} {
		text, err := c.next.Generate(ctx, t, prompt)
		if err == nil && strings.TrimSpace(text) != "" {
			return text, nil
		}
		if err == nil {
			err = errors.New("empty text")
		}
		slog.Warn("completion attempt failed", "tier", t, "err", err)
		lastErr = err
	}
	return "", fmt.Errorf("%w: all tiers failed: %w", ErrGeneration, lastErr)
}

var (
	_ Completer = (*ModelCompleter)(nil)
	_ Completer = (*FailbackCompleter)(nil)
	_ Completer = CompleterFunc(nil)
)
