package handlers

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type JobHandler struct {
	jobService *services.JobService
}

func NewJobHandler(jobService *services.JobService) *JobHandler {
	return &JobHandler{jobService: jobService}
}

func (h *JobHandler) Post(c *fiber.Ctx) error {
	var req dto.PostJobRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	job, err := h.jobService.Post(c.UserContext(), identity.UserID(c), services.JobInput{
		Title:        req.Title,
		Description:  req.Description,
		Location:     req.Location,
		Salary:       req.Salary,
		CompanyName:  req.CompanyName,
		Requirements: req.Requirements,
		JobType:      req.JobType,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.JobResponse{
		Message: "Job posted successfully and pending admin approval",
		Job:     job,
	})
}

func (h *JobHandler) List(c *fiber.Ctx) error {
	var q dto.JobListQuery
	if err := c.QueryParser(&q); err != nil {
		return badRequest(c, "Invalid query parameters")
	}

	page, err := h.jobService.ListApproved(c.UserContext(), services.JobQuery{
		Location:  q.Location,
		JobType:   q.JobType,
		MinSalary: q.MinSalary,
		MaxSalary: q.MaxSalary,
		Page:      q.Page,
		Limit:     q.Limit,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(page)
}

func (h *JobHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "jobId")
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.Error("Job not found"))
	}
	job, err := h.jobService.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(job)
}

func (h *JobHandler) Pending(c *fiber.Ctx) error {
	jobs, err := h.jobService.ListPending(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.JobsResponse{Jobs: jobs})
}

func (h *JobHandler) Approve(c *fiber.Ctx) error {
	return h.review(c, h.jobService.Approve, "Job approved successfully")
}

func (h *JobHandler) Reject(c *fiber.Ctx) error {
	return h.review(c, h.jobService.Reject, "Job rejected successfully")
}

type reviewFunc = func(ctx context.Context, id uuid.UUID, remarks string) (*models.Job, error)

func (h *JobHandler) review(c *fiber.Ctx, fn reviewFunc, msg string) error {
	id, err := paramID(c, "jobId")
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.Error("Job not found"))
	}
	var req dto.ReviewJobRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return invalidBody(c)
		}
	}

	job, err := fn(c.UserContext(), id, req.Remarks)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.JobResponse{Message: msg, Job: job})
}

func (h *JobHandler) Save(c *fiber.Ctx) error {
	id, err := paramID(c, "jobId")
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.Error("Job not found"))
	}
	if err := h.jobService.Save(c.UserContext(), identity.UserID(c), id); err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Job saved successfully"})
}

func (h *JobHandler) Unsave(c *fiber.Ctx) error {
	id, err := paramID(c, "jobId")
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.Error("Job not found"))
	}
	if err := h.jobService.Unsave(c.UserContext(), identity.UserID(c), id); err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Job unsaved successfully"})
}

func (h *JobHandler) Saved(c *fiber.Ctx) error {
	jobs, err := h.jobService.ListSaved(c.UserContext(), identity.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.JobsResponse{Jobs: jobs})
}
