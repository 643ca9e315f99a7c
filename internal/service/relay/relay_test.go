package relay

import (
	"context"
	"errors"
	"testing"

	"github.com/sandevgo/banterbot/internal/core"
	"github.com/sandevgo/banterbot/internal/service/gateway"
	"github.com/sandevgo/banterbot/internal/service/memory"
)

type mockSender struct {
	sent   []string
	chats  []int64
	nextID int
	err    error
}

func (m *mockSender) Send(ctx context.Context, chatID int64, text string) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.sent = append(m.sent, text)
	m.chats = append(m.chats, chatID)
	m.nextID++
	return 100000 + m.nextID, nil
}

type mockGen struct {
	prompts []string
	reply   string
}

func (m *mockGen) Generate(ctx context.Context, userContent string) string {
	m.prompts = append(m.prompts, userContent)
	return m.reply
}

func groupMsg(id int, text string) Inbound {
	return Inbound{ID: id, ChatID: -100, ChatType: ChatSuperGroup, SenderID: int64(id), Text: text}
}

func replyMsg(id, parentID int, text string) Inbound {
	in := groupMsg(id, text)
	in.ReplyToID = parentID
	return in
}

func newTestRelay(gen Generator, sender Sender, capacity, minFill int) *Relay {
	r := New(memory.NewWindow(capacity), memory.NewAnsweredSet(64), gen, sender, minFill)
	r.SetSelfID(999)
	return r
}

func TestEligible(t *testing.T) {
	tests := []struct {
		name string
		in   Inbound
		want bool
	}{
		{"group text", groupMsg(1, "hello"), true},
		{"supergroup text", Inbound{ID: 1, ChatType: ChatSuperGroup, Text: "hi"}, true},
		{"basic group text", Inbound{ID: 1, ChatType: ChatGroup, Text: "hi"}, true},
		{"private chat", Inbound{ID: 1, ChatType: ChatPrivate, Text: "hi"}, false},
		{"channel post", Inbound{ID: 1, ChatType: ChatChannel, Text: "hi"}, false},
		{"slash command", Inbound{ID: 1, ChatType: ChatGroup, Text: "/start"}, false},
		{"empty text", Inbound{ID: 1, ChatType: ChatGroup, Text: ""}, false},
		{"whitespace only", Inbound{ID: 1, ChatType: ChatGroup, Text: "   "}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Eligible(tt.in); got != tt.want {
				t.Errorf("Eligible(%+v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestHandle_IneligibleHasNoSideEffects(t *testing.T) {
	ctx := context.Background()
	gen := &mockGen{reply: "generated"}
	sender := &mockSender{}
	window := memory.NewWindow(10)
	r := New(window, memory.NewAnsweredSet(64), gen, sender, 1)

	if err := r.Handle(ctx, Inbound{ID: 1, ChatType: ChatPrivate, Text: "hi"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Handle(ctx, Inbound{ID: 2, ChatType: ChatGroup, Text: "/help"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if window.Len() != 0 {
		t.Errorf("ineligible messages must not be recorded, window has %d", window.Len())
	}
	if len(gen.prompts) != 0 || len(sender.sent) != 0 {
		t.Errorf("ineligible messages must not generate or send")
	}
}

func TestHandle_FreshBelowThresholdStaysQuiet(t *testing.T) {
	ctx := context.Background()
	gen := &mockGen{reply: "generated"}
	sender := &mockSender{}
	r := newTestRelay(gen, sender, 10, 5)

	for i, text := range []string{"one", "two", "three", "four"} {
		if err := r.Handle(ctx, groupMsg(i+1, text)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if len(gen.prompts) != 0 {
		t.Fatalf("expected no generation below threshold, got %d", len(gen.prompts))
	}
	if len(sender.sent) != 0 {
		t.Fatalf("expected no sends below threshold, got %d", len(sender.sent))
	}
}

func TestHandle_FreshAtThresholdGeneratesFromWindow(t *testing.T) {
	ctx := context.Background()
	gen := &mockGen{reply: "generated"}
	sender := &mockSender{}
	r := newTestRelay(gen, sender, 10, 5)

	for i, text := range []string{"one", "two", "three", "four", "five"} {
		if err := r.Handle(ctx, groupMsg(i+1, text)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if len(gen.prompts) != 1 {
		t.Fatalf("expected exactly 1 generation, got %d", len(gen.prompts))
	}
	want := "one\ntwo\nthree\nfour\nfive"
	if gen.prompts[0] != want {
		t.Errorf("context = %q, want %q", gen.prompts[0], want)
	}
	if len(sender.sent) != 1 || sender.sent[0] != "generated" {
		t.Errorf("expected one send of the generated reply, got %v", sender.sent)
	}
	if sender.chats[0] != -100 {
		t.Errorf("reply went to chat %d, want -100", sender.chats[0])
	}
}

func TestHandle_BotReplyIsThreadable(t *testing.T) {
	ctx := context.Background()
	gen := &mockGen{reply: "bot says"}
	sender := &mockSender{}
	r := newTestRelay(gen, sender, 10, 1)

	if err := r.Handle(ctx, groupMsg(1, "hello")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected one send, got %d", len(sender.sent))
	}

	// The sent message id from the mock sender is 100001; replying to it
	// must resolve against the bot's own retained reply.
	if err := r.Handle(ctx, replyMsg(2, 100001, "no you")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(gen.prompts) != 2 {
		t.Fatalf("expected 2 generations, got %d", len(gen.prompts))
	}
	want := "Message: bot says\nReply: no you"
	if gen.prompts[1] != want {
		t.Errorf("reply prompt = %q, want %q", gen.prompts[1], want)
	}
}

func TestHandle_ReplyToUnknownParentIsSilent(t *testing.T) {
	ctx := context.Background()
	gen := &mockGen{reply: "generated"}
	sender := &mockSender{}
	r := newTestRelay(gen, sender, 10, 5)

	if err := r.Handle(ctx, replyMsg(1, 42, "what did you mean")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(gen.prompts) != 0 {
		t.Errorf("unresolved reply must not call the gateway, got %d calls", len(gen.prompts))
	}
	if len(sender.sent) != 0 {
		t.Errorf("unresolved reply must not send, got %d sends", len(sender.sent))
	}
}

func TestHandle_ReplyToEvictedParentIsSilent(t *testing.T) {
	ctx := context.Background()
	gen := &mockGen{reply: "generated"}
	sender := &mockSender{}
	r := newTestRelay(gen, sender, 3, 99)

	// id 1 is pushed out by ids 2..4 (capacity 3)
	for i, text := range []string{"one", "two", "three", "four"} {
		if err := r.Handle(ctx, groupMsg(i+1, text)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if err := r.Handle(ctx, replyMsg(5, 1, "re: one")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(gen.prompts) != 0 || len(sender.sent) != 0 {
		t.Error("reply to evicted parent must produce zero generations and zero sends")
	}
}

func TestHandle_SecondReplyToSameParentSuppressed(t *testing.T) {
	ctx := context.Background()
	gen := &mockGen{reply: "generated"}
	sender := &mockSender{}
	r := newTestRelay(gen, sender, 10, 99)

	if err := r.Handle(ctx, groupMsg(7, "parent message")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := r.Handle(ctx, replyMsg(8, 7, "first reply")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Handle(ctx, replyMsg(9, 7, "second reply")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sender.sent) != 1 {
		t.Fatalf("expected exactly 1 send for two replies to parent 7, got %d", len(sender.sent))
	}
	if len(gen.prompts) != 1 {
		t.Fatalf("expected exactly 1 generation, got %d", len(gen.prompts))
	}
	want := "Message: parent message\nReply: first reply"
	if gen.prompts[0] != want {
		t.Errorf("prompt = %q, want %q", gen.prompts[0], want)
	}
}

type failingProvider struct{}

func (failingProvider) Chat(ctx context.Context, messages []core.Message) (core.Message, error) {
	return core.Message{}, errors.New("connection refused")
}

func TestHandle_FailedGenerationSendsFallback(t *testing.T) {
	ctx := context.Background()
	sender := &mockSender{}
	gw := gateway.New(failingProvider{}, gateway.Config{
		Persona:       "persona",
		FallbackReply: "the fallback",
	})
	r := newTestRelay(gw, sender, 10, 1)

	if err := r.Handle(ctx, groupMsg(1, "hello")); err != nil {
		t.Fatalf("generation failure must not escape the handler: %v", err)
	}

	if len(sender.sent) != 1 {
		t.Fatalf("expected exactly 1 send, got %d", len(sender.sent))
	}
	if sender.sent[0] != "the fallback" {
		t.Errorf("expected fallback text, got %q", sender.sent[0])
	}
}

func TestHandle_SendFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	gen := &mockGen{reply: "generated"}
	sender := &mockSender{err: errors.New("blocked by user")}
	r := newTestRelay(gen, sender, 10, 1)

	if err := r.Handle(ctx, groupMsg(1, "hello")); err != nil {
		t.Fatalf("delivery failure must not escape the handler: %v", err)
	}
}
