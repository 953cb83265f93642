package handlers

import (
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	adminService *services.AdminService
}

func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	st, err := h.adminService.Stats(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(st)
}

func (h *AdminHandler) Users(c *fiber.Ctx) error {
	users, err := h.adminService.ListUsers(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.UsersResponse{Users: users})
}

func (h *AdminHandler) SetStatus(c *fiber.Ctx) error {
	userID, err := paramID(c, "userId")
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.Error("User not found"))
	}
	var req dto.SetBlockedRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if req.IsBlocked == nil {
		return badRequest(c, "isBlocked is required")
	}

	user, err := h.adminService.SetBlocked(c.UserContext(), identity.UserID(c), userID, *req.IsBlocked)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.UserResponse{Message: "User status updated", User: user})
}
