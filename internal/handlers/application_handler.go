package handlers

import (
	"fmt"

	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

// MaxResumeSize bounds the multipart "resume" part.
const MaxResumeSize = 8 << 20

type ApplicationHandler struct {
	applicationService *services.ApplicationService
}

func NewApplicationHandler(applicationService *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applicationService: applicationService}
}

// resumeUpload reads the named multipart file. A missing file yields nil, nil.
func resumeUpload(c *fiber.Ctx, field string) (*services.Upload, func(), error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, func() {}, nil
	}
	if fh.Size > MaxResumeSize {
		return nil, func() {}, services.Validation(fmt.Sprintf("Resume must be at most %d MB", MaxResumeSize>>20))
	}
	f, err := fh.Open()
	if err != nil {
		return nil, func() {}, fmt.Errorf("open upload: %w", err)
	}
	return &services.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Size:        fh.Size,
		Body:        f,
	}, func() { f.Close() }, nil
}

func (h *ApplicationHandler) Apply(c *fiber.Ctx) error {
	jobID, err := paramID(c, "jobId")
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.Error("Job not found"))
	}
	resume, closeResume, err := resumeUpload(c, "resume")
	if err != nil {
		return fail(c, err)
	}
	defer closeResume()

	app, err := h.applicationService.Apply(c.UserContext(), jobID, identity.UserID(c), resume, c.FormValue("coverLetter"))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ApplicationResponse{
		Message:     "Job application submitted successfully",
		Application: app,
	})
}

func (h *ApplicationHandler) Mine(c *fiber.Ctx) error {
	apps, err := h.applicationService.ListMine(c.UserContext(), identity.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.ApplicationsResponse{Applications: apps})
}

func (h *ApplicationHandler) ForJob(c *fiber.Ctx) error {
	jobID, err := paramID(c, "jobId")
	if err != nil {
		return c.Status(fiber.StatusForbidden).JSON(dto.Error("Unauthorized access"))
	}
	apps, err := h.applicationService.ListForJob(c.UserContext(), jobID, identity.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.ApplicationsResponse{Applications: apps})
}

func (h *ApplicationHandler) UpdateStatus(c *fiber.Ctx) error {
	return h.updateStatus(c, true)
}

// LegacyUpdate backs PUT /application/update/:applicationId, which only ever changed the status
// and notifies with the older applicationUpdate event.
func (h *ApplicationHandler) LegacyUpdate(c *fiber.Ctx) error {
	return h.updateStatus(c, false)
}

func (h *ApplicationHandler) updateStatus(c *fiber.Ctx, withDate bool) error {
	appID, err := paramID(c, "applicationId")
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.Error("Application not found"))
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	var app *models.Application
	if withDate {
		date, dateErr := parseDate(req.InterviewDate)
		if dateErr != nil {
			return fail(c, dateErr)
		}
		app, err = h.applicationService.UpdateStatus(c.UserContext(), appID, identity.UserID(c), req.Status, date)
	} else {
		app, err = h.applicationService.LegacyUpdateStatus(c.UserContext(), appID, identity.UserID(c), req.Status)
	}
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.ApplicationResponse{
		Message:     "Application status updated successfully",
		Application: app,
	})
}
