package services

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/repository"
	"github.com/google/uuid"
)

const recentApplicationsLimit = 5

type SeekerDashboard struct {
	TotalApplications  int64                `json:"totalApplications"`
	RecentApplications []models.Application `json:"recentApplications"`
	SavedJobs          []models.Job         `json:"savedJobs"`
}

type EmployerDashboard struct {
	TotalJobs          int                  `json:"totalJobs"`
	ActiveJobs         int                  `json:"activeJobs"`
	TotalApplications  int64                `json:"totalApplications"`
	RecentApplications []models.Application `json:"recentApplications"`
}

type DashboardService struct {
	jobs  repository.JobRepository
	apps  repository.ApplicationRepository
	saved repository.SavedJobRepository
}

func NewDashboardService(jobs repository.JobRepository, apps repository.ApplicationRepository, saved repository.SavedJobRepository) *DashboardService {
	return &DashboardService{jobs: jobs, apps: apps, saved: saved}
}

func (s *DashboardService) Seeker(ctx context.Context, seekerID uuid.UUID) (*SeekerDashboard, error) {
	total, err := s.apps.CountBySeeker(ctx, seekerID)
	if err != nil {
		return nil, wrap("count applications", err)
	}
	recent, err := s.apps.ListBySeeker(ctx, seekerID, recentApplicationsLimit)
	if err != nil {
		return nil, wrap("recent applications", err)
	}
	saved, err := s.saved.ListJobs(ctx, seekerID)
	if err != nil {
		return nil, wrap("saved jobs", err)
	}
	return &SeekerDashboard{
		TotalApplications:  total,
		RecentApplications: nonNil(recent),
		SavedJobs:          nonNil(saved),
	}, nil
}

func (s *DashboardService) Employer(ctx context.Context, employerID uuid.UUID) (*EmployerDashboard, error) {
	jobs, err := s.jobs.ListByPoster(ctx, employerID)
	if err != nil {
		return nil, wrap("list jobs", err)
	}
	total, err := s.apps.CountForEmployer(ctx, employerID)
	if err != nil {
		return nil, wrap("count applications", err)
	}
	recent, err := s.apps.ListForEmployer(ctx, employerID, recentApplicationsLimit)
	if err != nil {
		return nil, wrap("recent applications", err)
	}

	d := &EmployerDashboard{
		TotalJobs:          len(jobs),
		TotalApplications:  total,
		RecentApplications: nonNil(recent),
	}
	for _, j := range jobs {
		if j.Status == models.JobStatusApproved {
			d.ActiveJobs++
		}
	}
	return d, nil
}
