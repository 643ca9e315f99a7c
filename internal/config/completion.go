package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/banterbot/pkg/log"
)

type CompletionConfig struct {
	APIKey string `env:"XAI_API_KEY,required,notEmpty"`
	Model  string `env:"COMPLETION_MODEL" envDefault:"grok-2-1212"`
	// BaseURL is only consulted by the "custom" provider.
	BaseURL string `env:"COMPLETION_BASE_URL"`
}

func NewCompletionConfig(ctx context.Context) *CompletionConfig {
	c := &CompletionConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Completion config")
	}
	return c
}
