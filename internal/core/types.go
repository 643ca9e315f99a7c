package core

const (
	BanterName          = "BanterBot"
	BanterUserAgent     = "BanterBot/0.1"
	BanterRepositoryURL = "https://github.com/sandevgo/banterbot"
	BanterVersion       = "0.1.0"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single chat-completion turn in the wire format the
// OpenAI-compatible APIs expect.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Model struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
