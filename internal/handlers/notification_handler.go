package handlers

import (
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

// NotificationHandler only ever touches the caller's own notifications; an id
// that belongs to someone else behaves like a missing one.
type NotificationHandler struct {
	notificationService *services.NotificationService
}

func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	list, unread, err := h.notificationService.List(c.UserContext(), identity.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.NotificationsResponse{Notifications: list, UnreadCount: unread})
}

func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	n, err := h.notificationService.UnreadCount(c.UserContext(), identity.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"unreadCount": n})
}

func (h *NotificationHandler) MarkAsRead(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid notification id")
	}
	if err := h.notificationService.MarkAsRead(c.UserContext(), id, identity.UserID(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Notification marked as read"})
}

func (h *NotificationHandler) MarkAllAsRead(c *fiber.Ctx) error {
	if err := h.notificationService.MarkAllAsRead(c.UserContext(), identity.UserID(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "All notifications marked as read"})
}

func (h *NotificationHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid notification id")
	}
	if err := h.notificationService.Delete(c.UserContext(), id, identity.UserID(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Notification deleted"})
}
