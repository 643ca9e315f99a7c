package gateway

import (
	"context"
	"time"

	"github.com/sandevgo/banterbot/internal/core"
	"github.com/sandevgo/banterbot/pkg/log"
	"github.com/sandevgo/banterbot/pkg/retry"
)

const defaultTimeout = 60 * time.Second

type Config struct {
	Persona       string
	FallbackReply string
	Timeout       time.Duration
	// Retries is the number of extra attempts after the first call.
	// Zero keeps the single-shot policy.
	Retries int
}

// Gateway fronts the completion service. It never returns an error: any
// failure of the external call collapses into the fixed fallback reply, so
// the chat always gets an answer.
type Gateway struct {
	provider core.AIProvider
	cfg      Config
	retrier  *retry.Retrier
}

func New(provider core.AIProvider, cfg Config) *Gateway {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	rc := retry.NewDefaultConfig()
	rc.MaxRetries = cfg.Retries

	return &Gateway{
		provider: provider,
		cfg:      cfg,
		retrier:  retry.NewRetrier(rc),
	}
}

// Generate sends the persona plus userContent to the provider and returns the
// first candidate's text verbatim. Timeouts, transport errors, and malformed
// responses all degrade to the fallback reply; the cause is only logged.
func (g *Gateway) Generate(ctx context.Context, userContent string) string {
	logger := log.FromCtx(ctx)

	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	messages := []core.Message{
		{Role: core.RoleSystem, Content: g.cfg.Persona},
		{Role: core.RoleUser, Content: userContent},
	}

	var reply core.Message
	err := g.retrier.Do(ctx, func() error {
		var chatErr error
		reply, chatErr = g.provider.Chat(ctx, messages)
		return chatErr
	})
	if err != nil {
		logger.Error().Err(err).Msg("completion call failed, sending fallback reply")
		return g.cfg.FallbackReply
	}

	return reply.Content
}
