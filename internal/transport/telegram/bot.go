package telegram

import (
	"context"
	"fmt"
	"time"

	"github.com/sandevgo/banterbot/internal/config"
	"github.com/sandevgo/banterbot/internal/service/relay"
	"github.com/sandevgo/banterbot/pkg/log"
	tele "gopkg.in/telebot.v3"
)

const baseContextKey = "base_context"

type Bot struct {
	bot   *tele.Bot
	cfg   *config.TelegramConfig
	relay *relay.Relay
}

func NewBot(ctx context.Context, cfg *config.TelegramConfig) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot: b,
		cfg: cfg,
	}

	// Carry the process context (with logger) into every handler
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	// Middleware: multi-party chats only
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			chat := c.Chat()
			if chat == nil {
				return nil
			}
			if chat.Type != tele.ChatGroup && chat.Type != tele.ChatSuperGroup {
				return nil // Ignore private chats and channels
			}
			return next(c)
		}
	})

	return bot, nil
}

// Sender returns the outbound side of the transport for the relay to use.
func (b *Bot) Sender() relay.Sender {
	return newSender(b.bot)
}

// SelfID is the bot's own Telegram account id.
func (b *Bot) SelfID() int64 {
	return b.bot.Me.ID
}

// Attach registers the relay as the text-message handler.
func (b *Bot) Attach(r *relay.Relay) {
	b.relay = r
	b.bot.Handle(tele.OnText, b.handleText)
}

func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

func (b *Bot) handleText(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)

	msg := c.Message()
	if msg == nil || c.Sender() == nil {
		return nil
	}

	in := relay.Inbound{
		ID:       msg.ID,
		ChatID:   msg.Chat.ID,
		ChatType: relay.ChatType(msg.Chat.Type),
		SenderID: c.Sender().ID,
		Text:     msg.Text,
	}
	if msg.ReplyTo != nil {
		in.ReplyToID = msg.ReplyTo.ID
	}

	return b.relay.Handle(ctx, in)
}
