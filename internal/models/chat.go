package models

type MessageType string

const (
	MessageTypeUser MessageType = "user"
	MessageTypeBot  MessageType = "bot"
)

// ChatMessage is an entry of the in-memory chat log. It is never modified
// after it has been appended.
type ChatMessage struct {
	ID        int64       `json:"id"`
	Name      string      `json:"name"`
	Message   string      `json:"message"`
	Timestamp string      `json:"timestamp"`
	Type      MessageType `json:"type"`
}
