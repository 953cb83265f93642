package dto

import "github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/models"

type PostJobRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Location     string   `json:"location"`
	Salary       *float64 `json:"salary"`
	CompanyName  string   `json:"companyName"`
	Requirements []string `json:"requirements"`
	JobType      string   `json:"jobType"`
}

// JobListQuery is bound from the query string of GET /job/all.
type JobListQuery struct {
	Location  string   `query:"location"`
	JobType   string   `query:"jobType"`
	MinSalary *float64 `query:"minSalary"`
	MaxSalary *float64 `query:"maxSalary"`
	Page      int      `query:"page"`
	Limit     int      `query:"limit"`
}

type ReviewJobRequest struct {
	Remarks string `json:"remarks"`
}

type JobResponse struct {
	Message string      `json:"message"`
	Job     *models.Job `json:"job"`
}

type JobsResponse struct {
	Jobs []models.Job `json:"jobs"`
}
