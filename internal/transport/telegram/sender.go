package telegram

import (
	"context"
	"strings"

	"github.com/sandevgo/banterbot/pkg/conv"
	"github.com/sandevgo/banterbot/pkg/log"
	tele "gopkg.in/telebot.v3"
)

const maxTelegramMsgLen = 4000 // Safety margin below 4096

type sender struct {
	bot *tele.Bot
}

func newSender(bot *tele.Bot) *sender {
	return &sender{bot: bot}
}

// Send converts model output to Telegram HTML and delivers it, chunked when
// over the length limit. It returns the platform id of the first chunk, the
// message users will reply-thread against.
func (s *sender) Send(ctx context.Context, chatID int64, text string) (int, error) {
	logger := log.FromCtx(ctx)

	html := strings.TrimSpace(conv.MarkdownToTelegramHTML([]byte(text)))
	if html == "" {
		// Sanitizer ate everything, fall back to the raw text
		html = text
	}

	firstID := 0
	for i, chunk := range splitHTML(html, maxTelegramMsgLen) {
		sent, err := s.bot.Send(tele.ChatID(chatID), chunk, tele.ModeHTML)
		if err != nil {
			logger.Error().Err(err).Int("chunk", i).Int("len", len(chunk)).Msg("failed to send telegram chunk")
			return 0, err
		}
		if i == 0 {
			firstID = sent.ID
		}
	}
	return firstID, nil
}

// splitHTML splits text into chunks respecting Telegram's limit.
// It tries to split at newlines to preserve formatting.
func splitHTML(text string, maxLen int) []string {
	if len(text) <= maxLen {
		return []string{text}
	}

	var chunks []string
	for len(text) > 0 {
		if len(text) <= maxLen {
			chunks = append(chunks, text)
			break
		}

		cut := maxLen
		// Try to find a good break point (newline) in the second half of the chunk
		if idx := strings.LastIndex(text[:maxLen], "\n"); idx > maxLen/3 {
			cut = idx
		}

		chunks = append(chunks, text[:cut])
		text = strings.TrimSpace(text[cut:])
	}
	return chunks
}
