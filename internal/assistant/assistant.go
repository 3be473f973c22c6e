// Package assistant implements the support chat: it appends user messages
// to the chat log and answers them with canned replies.
package assistant

import (
	"cloud-chat-backend/internal/logger"
	"cloud-chat-backend/internal/metrics"
	"cloud-chat-backend/internal/models"
	"cloud-chat-backend/internal/repo"
	"context"
	"errors"
	"time"
)

// TimestampLayout formats the display timestamp of chat messages
const TimestampLayout = "2006-01-02 15:04:05"

// welcomeMaxLogLen is the largest log length, counted after the user
// message is appended, at which the welcome reply is still sent.
const welcomeMaxLogLen = 2

var ErrInvalidInput = errors.New("name and message are required")

// Notifier receives every message appended to the log
type Notifier interface {
	PublishChatMessages(msgs ...models.ChatMessage)
}

type Service struct {
	chatRepo repo.ChatRepoInterface
	table    KeywordTable
	now      func() time.Time
	notifier Notifier
	metrics  *metrics.Metrics
	log      *logger.Logger
}

type Option func(*Service)

func WithKeywordTable(table KeywordTable) Option {
	return func(s *Service) { s.table = table }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithLogger(l *logger.Logger) Option {
	return func(s *Service) { s.log = l }
}

func NewService(chatRepo repo.ChatRepoInterface, opts ...Option) *Service {
	s := &Service{
		chatRepo: chatRepo,
		table:    DefaultKeywordTable(),
		now:      time.Now,
		log:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PostMessage appends a user message and at most one bot reply to the log.
// The reply is nil when neither a keyword nor the welcome rule applied.
func (s *Service) PostMessage(ctx context.Context, name, message string) (models.ChatMessage, *models.ChatMessage, error) {
	if name == "" || message == "" {
		return models.ChatMessage{}, nil, ErrInvalidInput
	}
	if err := ctx.Err(); err != nil {
		return models.ChatMessage{}, nil, err
	}

	var (
		userMsg     models.ChatMessage
		autoReply   *models.ChatMessage
		replySource string
	)

	err := s.chatRepo.Transaction(func(tx *repo.ChatTx) error {
		now := s.now()
		stamp := now.Format(TimestampLayout)

		id := now.UnixMilli()
		if last := tx.LastID(); id <= last {
			id = last + 1
		}

		userMsg = models.ChatMessage{
			ID:        id,
			Name:      name,
			Message:   message,
			Timestamp: stamp,
			Type:      models.MessageTypeUser,
		}
		tx.Append(userMsg)

		reply, ok := s.table.Match(message)
		switch {
		case ok:
			replySource = "keyword"
		case tx.Len() <= welcomeMaxLogLen:
			reply = WelcomeReply
			replySource = "welcome"
		}

		if replySource != "" {
			autoReply = &models.ChatMessage{
				ID:        id + 1,
				Name:      BotName,
				Message:   reply,
				Timestamp: stamp,
				Type:      models.MessageTypeBot,
			}
			tx.Append(*autoReply)
		}

		return nil
	})
	if err != nil {
		return models.ChatMessage{}, nil, err
	}

	s.metrics.RecordChat(replySource, s.chatRepo.Count())

	s.log.Debug().
		Int64("id", userMsg.ID).
		Str("name", name).
		Str("reply_source", replySource).
		Msg("chat message posted")

	if s.notifier != nil {
		published := []models.ChatMessage{userMsg}
		if autoReply != nil {
			published = append(published, *autoReply)
		}
		s.notifier.PublishChatMessages(published...)
	}

	return userMsg, autoReply, nil
}

// ListMessages returns a snapshot of the chat log in insertion order
func (s *Service) ListMessages(ctx context.Context) []models.ChatMessage {
	return s.chatRepo.GetAll()
}
