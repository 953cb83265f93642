package handlers

import (
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ProfileHandler struct {
	profileService *services.ProfileService
}

func NewProfileHandler(profileService *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	view, err := h.profileService.Get(c.UserContext(), identity.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(view)
}

func (h *ProfileHandler) UpdateBasic(c *fiber.Ctx) error {
	var req dto.UpdateBasicRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	user, err := h.profileService.UpdateBasic(c.UserContext(), identity.UserID(c), req.Name, req.Email)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.UserResponse{Message: "Profile updated successfully", User: user})
}

func (h *ProfileHandler) UpdateExperience(c *fiber.Ctx) error {
	var req dto.ExperienceRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	exp, err := h.profileService.UpdateExperience(c.UserContext(), identity.UserID(c), req.Experience)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Experience updated successfully", "experience": exp})
}

func (h *ProfileHandler) UpdateEducation(c *fiber.Ctx) error {
	var req dto.EducationRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	edu, err := h.profileService.UpdateEducation(c.UserContext(), identity.UserID(c), req.Education)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Education updated successfully", "education": edu})
}

func (h *ProfileHandler) UpdateSkills(c *fiber.Ctx) error {
	var req dto.SkillsRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	skills, err := h.profileService.UpdateSkills(c.UserContext(), identity.UserID(c), req.Skills)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Skills updated successfully", "skills": skills})
}

func (h *ProfileHandler) UploadResume(c *fiber.Ctx) error {
	resume, closeResume, err := resumeUpload(c, "resume")
	if err != nil {
		return fail(c, err)
	}
	defer closeResume()

	key, err := h.profileService.UploadResume(c.UserContext(), identity.UserID(c), resume)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Resume uploaded successfully", "resumeUrl": key})
}
