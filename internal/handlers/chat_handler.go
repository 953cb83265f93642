package handlers

import (
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ChatHandler struct {
	chatService *services.ChatService
}

func NewChatHandler(chatService *services.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

func (h *ChatHandler) List(c *fiber.Ctx) error {
	msgs, err := h.chatService.Recent(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(msgs)
}

func (h *ChatHandler) Send(c *fiber.Ctx) error {
	var req dto.SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	msg, err := h.chatService.Send(c.UserContext(), identity.UserID(c), req.Content)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(msg)
}
