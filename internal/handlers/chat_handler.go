package handlers

import (
	"cloud-chat-backend/internal/assistant"
	"cloud-chat-backend/internal/logger"
	"cloud-chat-backend/internal/models"
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
)

// ChatService is the chat behaviour the handler needs
type ChatService interface {
	PostMessage(ctx context.Context, name, message string) (models.ChatMessage, *models.ChatMessage, error)
	ListMessages(ctx context.Context) []models.ChatMessage
}

type ChatHandler struct {
	chat ChatService
	log  *logger.Logger
}

func NewChatHandler(chat ChatService, log *logger.Logger) *ChatHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &ChatHandler{chat: chat, log: log.Component("chat")}
}

// get the chat log
func (h *ChatHandler) GetMessages(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"messages": h.chat.ListMessages(c.UserContext()),
	})
}

// post a message and return the auto reply, if any
func (h *ChatHandler) PostMessage(c *fiber.Ctx) error {
	var dto struct {
		Name    string `json:"name"`
		Message string `json:"message"`
	}
	if err := c.BodyParser(&dto); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "الاسم والرسالة مطلوبان",
		})
	}

	_, autoReply, err := h.chat.PostMessage(c.UserContext(), dto.Name, dto.Message)
	if errors.Is(err, assistant.ErrInvalidInput) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "الاسم والرسالة مطلوبان",
		})
	}
	if err != nil {
		h.log.Error().Err(err).Msg("chat error")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "حدث خطأ في إرسال الرسالة",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":   true,
		"message":   "تم إرسال الرسالة",
		"autoReply": autoReply,
	})
}
