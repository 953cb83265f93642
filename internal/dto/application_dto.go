package dto

import "github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/models"

// UpdateStatusRequest.InterviewDate accepts RFC 3339 or a datetime-local value read as UTC.
type UpdateStatusRequest struct {
	Status        string `json:"status"`
	InterviewDate string `json:"interviewDate"`
}

type ApplicationResponse struct {
	Message     string              `json:"message"`
	Application *models.Application `json:"application"`
}

type ApplicationsResponse struct {
	Applications []models.Application `json:"applications"`
}
