package libraries

import (
	"cloud-chat-backend/internal/assistant"
	"cloud-chat-backend/internal/logger"
	"cloud-chat-backend/internal/models"
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// WebSocketMessageType names the events exchanged on /ws
type WebSocketMessageType string

const (
	WebSocketMessageTypePing       WebSocketMessageType = "ping"
	WebSocketMessageTypePong       WebSocketMessageType = "pong"
	WebSocketMessageTypeError      WebSocketMessageType = "error"
	WebSocketMessageTypeMessage    WebSocketMessageType = "chat_message"
	WebSocketMessageTypeNewMessage WebSocketMessageType = "new_message"
)

const clientSendBuffer = 256

type Client struct {
	ID   string
	Conn *websocket.Conn
	Send chan []byte
	once sync.Once
}

func NewClient(conn *websocket.Conn) *Client {
	return &Client{
		ID:   uuid.NewString(),
		Conn: conn,
		Send: make(chan []byte, clientSendBuffer),
	}
}

func (c *Client) close() {
	c.once.Do(func() {
		close(c.Send)
	})
}

// Hub fans chat messages out to every connected websocket client. The
// client map is owned by the Run goroutine.
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
	log        *logger.Logger
}

// WebSocketMessage is the envelope of every websocket message
type WebSocketMessage struct {
	Type WebSocketMessageType `json:"type"`
	Data interface{}          `json:"data,omitempty"`
}

// ChatMessagePayload is sent by clients to post a chat message
type ChatMessagePayload struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}

func NewHub(log *logger.Logger) *Hub {
	if log == nil {
		log = logger.Nop()
	}
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Run serves the hub until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for id, client := range h.clients {
				delete(h.clients, id)
				client.close()
			}
			return
		case client := <-h.register:
			h.clients[client.ID] = client
		case client := <-h.unregister:
			if _, exists := h.clients[client.ID]; exists {
				delete(h.clients, client.ID)
				client.close()
			}
		case message := <-h.broadcast:
			for id, client := range h.clients {
				select {
				case client.Send <- message:
				default:
					// slow client, drop it instead of stalling the hub
					h.log.Warn().Str("client", id).Msg("dropping slow websocket client")
					delete(h.clients, id)
					client.close()
				}
			}
		}
	}
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		client.close()
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) BroadcastMessage(message []byte) {
	select {
	case h.broadcast <- message:
	case <-h.done:
	}
}

// PublishChatMessages broadcasts each message as a new_message event
func (h *Hub) PublishChatMessages(msgs ...models.ChatMessage) {
	for _, msg := range msgs {
		b, err := json.Marshal(WebSocketMessage{Type: WebSocketMessageTypeNewMessage, Data: msg})
		if err != nil {
			h.log.Error().Err(err).Msg("failed to marshal chat message event")
			continue
		}
		h.BroadcastMessage(b)
	}
}

// sendToClient queues a message for one client without blocking
func sendToClient(client *Client, message []byte) {
	defer func() {
		// Send may already be closed by the hub
		recover()
	}()
	select {
	case client.Send <- message:
	default:
	}
}

// SendErrorMessage sends a standardized error message to a client
func SendErrorMessage(client *Client, errorMsg string) {
	b, err := json.Marshal(WebSocketMessage{
		Type: WebSocketMessageTypeError,
		Data: &ErrorPayload{Error: errorMsg},
	})
	if err != nil {
		return
	}
	sendToClient(client, b)
}

func sendPongMessage(client *Client) {
	b, _ := json.Marshal(WebSocketMessage{Type: WebSocketMessageTypePong})
	sendToClient(client, b)
}

// parseWebSocketMessage parses an incoming websocket message
func parseWebSocketMessage(msg []byte) (*WebSocketMessage, error) {
	var rawMessage struct {
		Type WebSocketMessageType `json:"type"`
		Data json.RawMessage      `json:"data,omitempty"`
	}
	if err := json.Unmarshal(msg, &rawMessage); err != nil {
		return nil, err
	}

	message := &WebSocketMessage{Type: rawMessage.Type}

	if len(rawMessage.Data) > 0 {
		switch rawMessage.Type {
		case WebSocketMessageTypeMessage:
			var chatPayload ChatMessagePayload
			if err := json.Unmarshal(rawMessage.Data, &chatPayload); err != nil {
				return nil, err
			}
			message.Data = &chatPayload
		default:
			var data interface{}
			if err := json.Unmarshal(rawMessage.Data, &data); err != nil {
				return nil, err
			}
			message.Data = data
		}
	}

	return message, nil
}

// ChatPoster posts chat messages received over the websocket
type ChatPoster interface {
	PostMessage(ctx context.Context, name, message string) (models.ChatMessage, *models.ChatMessage, error)
}

// handleClientMessage processes one inbound message of client
func handleClientMessage(ctx context.Context, poster ChatPoster, client *Client, raw []byte, log *logger.Logger) {
	message, err := parseWebSocketMessage(raw)
	if err != nil {
		SendErrorMessage(client, "Invalid JSON format")
		return
	}

	switch message.Type {
	case WebSocketMessageTypePing:
		sendPongMessage(client)
	case WebSocketMessageTypeMessage:
		chatPayload, ok := message.Data.(*ChatMessagePayload)
		if !ok {
			SendErrorMessage(client, "Chat message payload is required")
			return
		}
		// the resulting messages reach every client through the hub
		if _, _, err := poster.PostMessage(ctx, chatPayload.Name, chatPayload.Message); err != nil {
			if errors.Is(err, assistant.ErrInvalidInput) {
				SendErrorMessage(client, "الاسم والرسالة مطلوبان")
				return
			}
			log.Error().Err(err).Str("client", client.ID).Msg("websocket chat error")
			SendErrorMessage(client, "حدث خطأ في إرسال الرسالة")
		}
	default:
		SendErrorMessage(client, "Type is invalid or not provided")
	}
}

// WebSocketUpgrade rejects plain HTTP requests on the websocket route
func WebSocketUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

func WebSocketHandler(hub *Hub, poster ChatPoster) fiber.Handler {
	log := hub.log.Component("websocket")

	return websocket.New(func(conn *websocket.Conn) {
		client := NewClient(conn)
		hub.Register(client)

		// Write loop
		go func() {
			defer conn.Close()
			for msg := range client.Send {
				if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					log.Debug().Err(err).Str("client", client.ID).Msg("write error")
					hub.Unregister(client)
					return
				}
			}
		}()

		// Read loop
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				log.Debug().Err(err).Str("client", client.ID).Msg("read error")
				break
			}
			handleClientMessage(context.Background(), poster, client, msg, log)
		}

		hub.Unregister(client)
	})
}
