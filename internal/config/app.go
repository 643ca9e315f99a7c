package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/banterbot/pkg/log"
)

type AppConfig struct {
	RuntimePath string `env:"BANTERBOT_RUNTIME_PATH" envDefault:".banterbot"`
	LLMProvider string `env:"LLM_PROVIDER" envDefault:"xai"`

	// Conversation memory
	WindowSize    int `env:"CONTEXT_WINDOW_SIZE" envDefault:"10"`
	WindowMinFill int `env:"CONTEXT_MIN_FILL" envDefault:"5"`
	AnsweredBound int `env:"ANSWERED_SET_SIZE" envDefault:"512"`

	// Generation policy
	Persona         string        `env:"BOT_PERSONA" envDefault:"You are a funny and slightly mean AI that speaks Persian."`
	FallbackReply   string        `env:"FALLBACK_REPLY" envDefault:"مشکلی برای ربات پیش اومده ولی بازم از تو بهترم"`
	GenerateTimeout time.Duration `env:"GENERATE_TIMEOUT" envDefault:"60s"`
	GenerateRetries int           `env:"GENERATE_RETRIES" envDefault:"0"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	return c
}
