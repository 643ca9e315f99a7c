package gateway

import (
	"fmt"
	"strings"
)

// WindowPrompt joins the retained message texts, oldest first, into the user
// turn of a completion request.
func WindowPrompt(texts []string) string {
	return strings.Join(texts, "\n")
}

// ReplyPrompt renders a two-turn exchange for reply threading.
func ReplyPrompt(parent, reply string) string {
	return fmt.Sprintf("Message: %s\nReply: %s", parent, reply)
}
