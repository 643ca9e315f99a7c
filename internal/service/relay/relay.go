package relay

import (
	"context"
	"strings"
	"time"

	"github.com/sandevgo/banterbot/internal/service/gateway"
	"github.com/sandevgo/banterbot/internal/service/memory"
	"github.com/sandevgo/banterbot/pkg/log"
)

type ChatType string

const (
	ChatPrivate    ChatType = "private"
	ChatGroup      ChatType = "group"
	ChatSuperGroup ChatType = "supergroup"
	ChatChannel    ChatType = "channel"
)

// Inbound is one message event as seen by the relay, already detached from
// the transport's update type.
type Inbound struct {
	ID       int
	ChatID   int64
	ChatType ChatType
	SenderID int64
	Text     string
	// ReplyToID references the parent message when the event is a reply,
	// zero otherwise.
	ReplyToID int
}

// Sender delivers one outbound message and returns the platform id it was
// assigned, so the relay can retain its own replies for threading.
type Sender interface {
	Send(ctx context.Context, chatID int64, text string) (int, error)
}

// Generator produces a reply for the assembled context. It never fails; the
// gateway absorbs completion errors into a fallback string.
type Generator interface {
	Generate(ctx context.Context, userContent string) string
}

// Relay routes eligible inbound messages through conversation memory to the
// completion gateway. Per eligible event it performs at most one generation
// and at most one outbound send.
type Relay struct {
	window   *memory.Window
	answered *memory.AnsweredSet
	gen      Generator
	sender   Sender
	minFill  int
	selfID   int64
}

func New(window *memory.Window, answered *memory.AnsweredSet, gen Generator, sender Sender, minFill int) *Relay {
	return &Relay{
		window:   window,
		answered: answered,
		gen:      gen,
		sender:   sender,
		minFill:  minFill,
	}
}

// SetSelfID tells the relay the bot's own account id, used to author-stamp
// its replies in the window. The transport calls this once it knows it.
func (r *Relay) SetSelfID(id int64) {
	r.selfID = id
}

// Eligible reports whether an inbound event is processed at all: plain
// non-empty text, not a slash command, sent in a multi-party chat.
func Eligible(in Inbound) bool {
	if strings.TrimSpace(in.Text) == "" {
		return false
	}
	if strings.HasPrefix(in.Text, "/") {
		return false
	}
	return in.ChatType == ChatGroup || in.ChatType == ChatSuperGroup
}

// Handle processes one inbound event. Ineligible events drop silently with
// no side effects.
func (r *Relay) Handle(ctx context.Context, in Inbound) error {
	logger := log.FromCtx(ctx)

	if !Eligible(in) {
		logger.Debug().Int("id", in.ID).Str("chat_type", string(in.ChatType)).Msg("dropping ineligible message")
		return nil
	}

	if in.ReplyToID != 0 {
		return r.handleReply(ctx, in)
	}
	return r.handleFresh(ctx, in)
}

func (r *Relay) handleFresh(ctx context.Context, in Inbound) error {
	logger := log.FromCtx(ctx)

	r.window.Record(memory.StoredMessage{
		ID:         in.ID,
		AuthorID:   in.SenderID,
		Text:       in.Text,
		ReceivedAt: time.Now(),
	})

	if r.window.Len() < r.minFill {
		logger.Debug().Int("have", r.window.Len()).Int("want", r.minFill).Msg("window below fill threshold, staying quiet")
		return nil
	}

	logger.Debug().Int("id", in.ID).Int64("sender", in.SenderID).Msg("generating reply from window context")

	reply := r.gen.Generate(ctx, gateway.WindowPrompt(r.window.Texts()))
	r.deliver(ctx, in.ChatID, reply)
	return nil
}

func (r *Relay) handleReply(ctx context.Context, in Inbound) error {
	logger := log.FromCtx(ctx)

	parent, ok := r.window.Lookup(in.ReplyToID)
	if !ok {
		// Evicted or never recorded: an untracked reference, not an error.
		logger.Debug().Int("parent_id", in.ReplyToID).Msg("reply references unknown message, ignoring")
		return nil
	}

	if r.answered.Seen(parent.ID) {
		logger.Debug().Int("parent_id", parent.ID).Msg("parent already answered, ignoring")
		return nil
	}
	r.answered.Mark(parent.ID)

	logger.Debug().Int("id", in.ID).Int("parent_id", parent.ID).Msg("generating threaded reply")

	reply := r.gen.Generate(ctx, gateway.ReplyPrompt(parent.Text, in.Text))
	r.deliver(ctx, in.ChatID, reply)
	return nil
}

// deliver sends the reply and retains it so users can thread off bot
// messages. Delivery failures are logged and swallowed; the transport owns
// retries, the relay never re-sends.
func (r *Relay) deliver(ctx context.Context, chatID int64, text string) {
	sentID, err := r.sender.Send(ctx, chatID, text)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Int64("chat", chatID).Msg("failed to deliver reply")
		return
	}

	r.window.Record(memory.StoredMessage{
		ID:         sentID,
		AuthorID:   r.selfID,
		Text:       text,
		ReceivedAt: time.Now(),
	})
}
