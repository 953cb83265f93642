package services

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/repository"
	"github.com/google/uuid"
)

type Stats struct {
	TotalUsers        int64 `json:"totalUsers"`
	TotalJobs         int64 `json:"totalJobs"`
	TotalApplications int64 `json:"totalApplications"`
}

// AdminService covers platform-wide reads and account blocking. Job moderation
// lives on JobService.
type AdminService struct {
	users repository.UserRepository
	jobs  repository.JobRepository
	apps  repository.ApplicationRepository
}

func NewAdminService(users repository.UserRepository, jobs repository.JobRepository, apps repository.ApplicationRepository) *AdminService {
	return &AdminService{users: users, jobs: jobs, apps: apps}
}

func (s *AdminService) Stats(ctx context.Context) (*Stats, error) {
	var st Stats
	var err error
	if st.TotalUsers, err = s.users.Count(ctx); err != nil {
		return nil, wrap("count users", err)
	}
	if st.TotalJobs, err = s.jobs.Count(ctx); err != nil {
		return nil, wrap("count jobs", err)
	}
	if st.TotalApplications, err = s.apps.Count(ctx); err != nil {
		return nil, wrap("count applications", err)
	}
	return &st, nil
}

func (s *AdminService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	return nonNil(users), nil
}

// SetBlocked takes effect on the user's next request since the auth gate re-reads the user.
func (s *AdminService) SetBlocked(ctx context.Context, adminID, userID uuid.UUID, blocked bool) (*models.User, error) {
	if adminID == userID && blocked {
		return nil, Validation("You cannot block your own account")
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, NotFound("User not found")
	}
	user.IsBlocked = blocked
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
