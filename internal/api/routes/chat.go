package routes

import (
	"cloud-chat-backend/internal/handlers"
	"cloud-chat-backend/internal/libraries"

	"github.com/gofiber/fiber/v2"
)

func registerChat(r fiber.Router, deps Dependencies) {
	chatHandler := handlers.NewChatHandler(deps.Chat, deps.Logger)

	r.Get("/chat", chatHandler.GetMessages)
	r.Post("/chat", chatHandler.PostMessage)

	if deps.Hub != nil {
		r.Use("/ws", libraries.WebSocketUpgrade)
		r.Get("/ws", libraries.WebSocketHandler(deps.Hub, deps.Chat))
	}
}
