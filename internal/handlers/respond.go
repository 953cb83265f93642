package handlers

import (
	"errors"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/services"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var errInvalidID = errors.New("invalid id")

func statusFor(k services.Kind) int {
	switch k {
	case services.KindValidation, services.KindConflict:
		return fiber.StatusBadRequest
	case services.KindUnauthenticated:
		return fiber.StatusUnauthorized
	case services.KindForbidden:
		return fiber.StatusForbidden
	case services.KindNotFound:
		return fiber.StatusNotFound
	}
	return fiber.StatusInternalServerError
}

// fail writes err as a JSON error. Errors that are not services.Error are
// logged, reported to Sentry and hidden behind a generic message.
func fail(c *fiber.Ctx, err error) error {
	if e, ok := services.AsError(err); ok {
		if len(e.Fields) == 0 {
			return c.Status(statusFor(e.Kind)).JSON(dto.Error(e.Message))
		}
		body := fiber.Map{"error": e.Message, "message": e.Message}
		for k, v := range e.Fields {
			body[k] = v
		}
		return c.Status(statusFor(e.Kind)).JSON(body)
	}

	slog.Error("request failed",
		"request_id", c.Locals("requestid"),
		"user_id", identity.UserID(c),
		"method", c.Method(),
		"path", c.Path(),
		"error", err,
	)
	if hub := sentryfiber.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.Error("Server error"))
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.Error(msg))
}

func invalidBody(c *fiber.Ctx) error {
	return badRequest(c, "Invalid request body")
}

func paramID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, errInvalidID
	}
	return id, nil
}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02"}

// parseDate reads an optional date; values without a zone are taken as UTC.
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, services.Validation("Invalid interview date")
}
