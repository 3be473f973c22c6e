package libraries

import (
	"cloud-chat-backend/internal/assistant"
	"cloud-chat-backend/internal/logger"
	"cloud-chat-backend/internal/models"
	"cloud-chat-backend/internal/repo"
	"context"
	"encoding/json"
	"testing"
	"time"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(logger.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub
}

func receive(t *testing.T, client *Client) WebSocketMessage {
	t.Helper()
	select {
	case b, ok := <-client.Send:
		if !ok {
			t.Fatal("client channel closed")
		}
		var raw struct {
			Type WebSocketMessageType `json:"type"`
			Data json.RawMessage      `json:"data"`
		}
		if err := json.Unmarshal(b, &raw); err != nil {
			t.Fatalf("invalid event %s: %v", b, err)
		}
		msg := WebSocketMessage{Type: raw.Type}
		if len(raw.Data) > 0 {
			switch raw.Type {
			case WebSocketMessageTypeNewMessage:
				var m models.ChatMessage
				if err := json.Unmarshal(raw.Data, &m); err != nil {
					t.Fatal(err)
				}
				msg.Data = m
			default:
				var e ErrorPayload
				if err := json.Unmarshal(raw.Data, &e); err != nil {
					t.Fatal(err)
				}
				msg.Data = e
			}
		}
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return WebSocketMessage{}
}

func TestHubBroadcastsChatMessages(t *testing.T) {
	hub := startHub(t)

	a, b := NewClient(nil), NewClient(nil)
	hub.Register(a)
	hub.Register(b)

	hub.PublishChatMessages(models.ChatMessage{ID: 1, Name: "n", Message: "hi", Type: models.MessageTypeUser})

	for _, c := range []*Client{a, b} {
		ev := receive(t, c)
		if ev.Type != WebSocketMessageTypeNewMessage {
			t.Fatalf("type = %q", ev.Type)
		}
		if m := ev.Data.(models.ChatMessage); m.ID != 1 || m.Message != "hi" {
			t.Errorf("unexpected message %+v", m)
		}
	}
}

func TestHubUnregisterClosesClient(t *testing.T) {
	hub := startHub(t)
	c := NewClient(nil)
	hub.Register(c)
	hub.Unregister(c)

	select {
	case _, ok := <-c.Send:
		if ok {
			t.Error("expected closed channel")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("client channel not closed")
	}
}

func TestHandleClientMessagePing(t *testing.T) {
	c := NewClient(nil)
	handleClientMessage(context.Background(), nil, c, []byte(`{"type":"ping"}`), logger.Nop())

	if ev := receive(t, c); ev.Type != WebSocketMessageTypePong {
		t.Errorf("type = %q, want pong", ev.Type)
	}
}

func TestHandleClientMessageErrors(t *testing.T) {
	svc := assistant.NewService(repo.NewChatRepository(10))

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"invalid json", `{`, "Invalid JSON format"},
		{"unknown type", `{"type":"nope"}`, "Type is invalid or not provided"},
		{"missing payload", `{"type":"chat_message"}`, "Chat message payload is required"},
		{"missing name", `{"type":"chat_message","data":{"message":"hi"}}`, "الاسم والرسالة مطلوبان"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient(nil)
			handleClientMessage(context.Background(), svc, c, []byte(tt.raw), logger.Nop())
			ev := receive(t, c)
			if ev.Type != WebSocketMessageTypeError {
				t.Fatalf("type = %q, want error", ev.Type)
			}
			if got := ev.Data.(ErrorPayload).Error; got != tt.want {
				t.Errorf("error = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHandleClientMessagePostsThroughHub(t *testing.T) {
	hub := startHub(t)
	chatRepo := repo.NewChatRepository(10)
	svc := assistant.NewService(chatRepo, assistant.WithNotifier(hub))

	listener := NewClient(nil)
	hub.Register(listener)

	sender := NewClient(nil)
	handleClientMessage(context.Background(), svc, sender, []byte(`{"type":"chat_message","data":{"name":"a","message":"مرحبا"}}`), logger.Nop())

	user := receive(t, listener).Data.(models.ChatMessage)
	bot := receive(t, listener).Data.(models.ChatMessage)
	if user.Type != models.MessageTypeUser || bot.Type != models.MessageTypeBot {
		t.Errorf("unexpected events %+v %+v", user, bot)
	}
	if chatRepo.Count() != 2 {
		t.Errorf("log length = %d, want 2", chatRepo.Count())
	}
}
