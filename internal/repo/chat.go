package repo

import (
	"cloud-chat-backend/internal/models"
	"sync"
)

// DefaultChatHistoryLimit is the number of messages kept by the chat log
const DefaultChatHistoryLimit = 100

// ChatRepo is the in-memory chat log. It keeps only the most recent
// messages, in insertion order, and lives as long as the process.
type ChatRepo struct {
	mu       sync.RWMutex
	messages []models.ChatMessage
	limit    int
}

type ChatRepoInterface interface {
	Transaction(fn func(tx *ChatTx) error) error
	GetAll() []models.ChatMessage
	Count() int
}

// ChatTx is the view of the log handed to a Transaction callback
type ChatTx struct {
	messages []models.ChatMessage
}

func NewChatRepository(limit int) *ChatRepo {
	if limit <= 0 {
		limit = DefaultChatHistoryLimit
	}
	return &ChatRepo{
		messages: make([]models.ChatMessage, 0, limit),
		limit:    limit,
	}
}

// Transaction runs fn with exclusive access to the log. Messages appended
// through tx become visible only if fn returns nil; afterwards the log is
// trimmed to its limit.
func (r *ChatRepo) Transaction(fn func(tx *ChatTx) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx := &ChatTx{messages: make([]models.ChatMessage, len(r.messages), len(r.messages)+2)}
	copy(tx.messages, r.messages)

	if err := fn(tx); err != nil {
		return err
	}

	msgs := tx.messages
	if len(msgs) > r.limit {
		trimmed := make([]models.ChatMessage, r.limit)
		copy(trimmed, msgs[len(msgs)-r.limit:])
		msgs = trimmed
	}
	r.messages = msgs
	return nil
}

// GetAll returns a copy of the log in insertion order
func (r *ChatRepo) GetAll() []models.ChatMessage {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cp := make([]models.ChatMessage, len(r.messages))
	copy(cp, r.messages)
	return cp
}

func (r *ChatRepo) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.messages)
}

func (r *ChatRepo) Limit() int {
	return r.limit
}

// Append adds a message at the end of the log
func (tx *ChatTx) Append(msg models.ChatMessage) {
	tx.messages = append(tx.messages, msg)
}

// Len returns the number of messages including the ones appended in tx
func (tx *ChatTx) Len() int {
	return len(tx.messages)
}

// LastID returns the id of the newest message, or 0 for an empty log
func (tx *ChatTx) LastID() int64 {
	if len(tx.messages) == 0 {
		return 0
	}
	return tx.messages[len(tx.messages)-1].ID
}
