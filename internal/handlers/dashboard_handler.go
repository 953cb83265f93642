package handlers

import (
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
}

func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (h *DashboardHandler) Seeker(c *fiber.Ctx) error {
	d, err := h.dashboardService.Seeker(c.UserContext(), identity.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(d)
}

func (h *DashboardHandler) Employer(c *fiber.Ctx) error {
	d, err := h.dashboardService.Employer(c.UserContext(), identity.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(d)
}
