package llm

import (
	"context"
	"fmt"

	"github.com/sandevgo/banterbot/internal/config"
	"github.com/sandevgo/banterbot/internal/core"
	"github.com/sandevgo/banterbot/pkg/log"
)

// NewProvider creates the appropriate AIProvider based on configuration.
func NewProvider(ctx context.Context, provider string, cfg *config.CompletionConfig) (core.AIProvider, error) {
	log.FromCtx(ctx).Info().
		Str("provider", provider).
		Str("model", cfg.Model).
		Msg("starting llm provider")

	switch provider {
	case "xai":
		return NewXAI(cfg.APIKey, cfg.Model), nil
	case "openai":
		return NewOpenAI(cfg.APIKey, cfg.Model), nil
	case "custom":
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("custom provider requires COMPLETION_BASE_URL")
		}
		return NewCustomOpenAI(cfg.BaseURL, cfg.APIKey, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", provider)
	}
}
