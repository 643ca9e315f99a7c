package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sandevgo/banterbot/internal/config"
	"github.com/sandevgo/banterbot/internal/providers/llm"
	"github.com/sandevgo/banterbot/internal/service/gateway"
	"github.com/sandevgo/banterbot/internal/service/memory"
	"github.com/sandevgo/banterbot/internal/service/relay"
	"github.com/sandevgo/banterbot/internal/transport/telegram"
	"github.com/sandevgo/banterbot/pkg/log"
	"github.com/sandevgo/banterbot/pkg/srv"
)

func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration. Missing credentials abort here; everything past
	// startup degrades instead of crashing.
	appCfg := config.NewAppConfig(ctx)
	completionCfg := config.NewCompletionConfig(ctx)
	tgCfg := config.NewTelegramConfig(ctx)

	// 2. AI Provider
	aiProvider, err := llm.NewProvider(ctx, appCfg.LLMProvider, completionCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize LLM provider")
	}

	// 3. Completion Gateway
	gw := gateway.New(aiProvider, gateway.Config{
		Persona:       appCfg.Persona,
		FallbackReply: appCfg.FallbackReply,
		Timeout:       appCfg.GenerateTimeout,
		Retries:       appCfg.GenerateRetries,
	})

	// 4. Conversation Memory
	window := memory.NewWindow(appCfg.WindowSize)
	answered := memory.NewAnsweredSet(appCfg.AnsweredBound)

	// 5. Transport + Relay
	bot, err := telegram.NewBot(ctx, tgCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize telegram bot")
	}

	rel := relay.New(window, answered, gw, bot.Sender(), appCfg.WindowMinFill)
	rel.SetSelfID(bot.SelfID())
	bot.Attach(rel)

	services = append(services, bot)

	return services
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
