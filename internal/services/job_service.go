package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/repository"
	"github.com/google/uuid"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 50
)

type JobInput struct {
	Title        string
	Description  string
	Location     string
	Salary       *float64
	CompanyName  string
	Requirements []string
	JobType      string
}

type JobQuery struct {
	Location  string
	JobType   string
	MinSalary *float64
	MaxSalary *float64
	Page      int
	Limit     int
}

type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalJobs   int64 `json:"totalJobs"`
}

type JobPage struct {
	Jobs       []models.Job `json:"jobs"`
	Pagination Pagination   `json:"pagination"`
}

type JobService struct {
	jobs     repository.JobRepository
	users    repository.UserRepository
	saved    repository.SavedJobRepository
	notifier Notifier
}

func NewJobService(jobs repository.JobRepository, users repository.UserRepository, saved repository.SavedJobRepository, notifier Notifier) *JobService {
	return &JobService{jobs: jobs, users: users, saved: saved, notifier: notifier}
}

// Post creates a pending job and tells every admin about it.
func (s *JobService) Post(ctx context.Context, employerID uuid.UUID, in JobInput) (*models.Job, error) {
	employer, err := s.users.FindByID(ctx, employerID)
	if err != nil {
		return nil, err
	}
	if employer == nil || employer.Role != models.RoleEmployer {
		return nil, Forbidden("Access denied. Only employers can post jobs.")
	}
	if err := validateJob(&in); err != nil {
		return nil, err
	}

	job := &models.Job{
		Title:        in.Title,
		Description:  in.Description,
		Location:     in.Location,
		Salary:       in.Salary,
		CompanyName:  in.CompanyName,
		PostedBy:     employer.ID,
		Requirements: in.Requirements,
		JobType:      in.JobType,
		Status:       models.JobStatusPending,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, wrap("create job", err)
	}

	s.notifyAdmins(ctx, employer, job)
	return job, nil
}

// notifyAdmins runs after the job is committed, so a failed notice is logged
// rather than turned into an error the client would retry.
func (s *JobService) notifyAdmins(ctx context.Context, employer *models.User, job *models.Job) {
	admins, err := s.users.ListByRole(ctx, models.RoleAdmin)
	if err != nil {
		slog.Error("list admins for job notice failed", "job_id", job.ID, "error", err)
		return
	}
	company := employer.Company.Name
	if company == "" {
		company = job.CompanyName
	}
	for i := range admins {
		_, err := s.notifier.Notify(ctx, Notice{
			Recipient: &admins[i],
			Type:      models.NotificationNewJobPending,
			Title:     "New Job Pending Approval",
			Message:   fmt.Sprintf("%s has posted a new job: %s", company, job.Title),
			RelatedID: &job.ID,
			OnModel:   models.OnModelJob,
		})
		if err != nil {
			slog.Error("new job notice failed", "job_id", job.ID, "admin_id", admins[i].ID, "error", err)
		}
	}
}

func validateJob(in *JobInput) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Location = strings.TrimSpace(in.Location)
	in.CompanyName = strings.TrimSpace(in.CompanyName)

	switch {
	case in.Title == "":
		return Validation("Title is required")
	case in.Description == "":
		return Validation("Description is required")
	case in.Location == "":
		return Validation("Location is required")
	case in.CompanyName == "":
		return Validation("Company name is required")
	case !models.ValidJobType(in.JobType):
		return Validation("Job type must be one of " + strings.Join(models.JobTypes, ", "))
	case in.Salary != nil && *in.Salary < 0:
		return Validation("Salary cannot be negative")
	}

	reqs := make([]string, 0, len(in.Requirements))
	for _, r := range in.Requirements {
		if r = strings.TrimSpace(r); r != "" {
			reqs = append(reqs, r)
		}
	}
	in.Requirements = reqs
	return nil
}

// ListApproved is the public job board. It never returns a job that is not approved.
func (s *JobService) ListApproved(ctx context.Context, q JobQuery) (*JobPage, error) {
	page, limit := q.Page, q.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if q.MinSalary != nil && q.MaxSalary != nil && *q.MinSalary > *q.MaxSalary {
		return nil, Validation("minSalary cannot exceed maxSalary")
	}

	jobs, total, err := s.jobs.ListApproved(ctx, repository.JobFilter{
		Location:  strings.TrimSpace(q.Location),
		JobType:   q.JobType,
		MinSalary: q.MinSalary,
		MaxSalary: q.MaxSalary,
		Offset:    (page - 1) * limit,
		Limit:     limit,
	})
	if err != nil {
		return nil, err
	}

	return &JobPage{
		Jobs: nonNil(jobs),
		Pagination: Pagination{
			CurrentPage: page,
			TotalPages:  int((total + int64(limit) - 1) / int64(limit)),
			TotalJobs:   total,
		},
	}, nil
}

func (s *JobService) Get(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	job, err := s.jobs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil || job.Status != models.JobStatusApproved {
		return nil, NotFound("Job not found")
	}
	return job, nil
}

func (s *JobService) ListPending(ctx context.Context) ([]models.Job, error) {
	jobs, err := s.jobs.ListPending(ctx)
	if err != nil {
		return nil, err
	}
	return nonNil(jobs), nil
}

func (s *JobService) Approve(ctx context.Context, id uuid.UUID, remarks string) (*models.Job, error) {
	return s.review(ctx, id, models.JobStatusApproved, remarks)
}

func (s *JobService) Reject(ctx context.Context, id uuid.UUID, remarks string) (*models.Job, error) {
	return s.review(ctx, id, models.JobStatusRejected, remarks)
}

// review moves a pending job to a terminal status. A job that was already
// reviewed, even by a concurrent call, is reported as a conflict.
func (s *JobService) review(ctx context.Context, id uuid.UUID, status, remarks string) (*models.Job, error) {
	job, err := s.jobs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, NotFound("Job not found")
	}

	remarks = strings.TrimSpace(remarks)
	ok, err := s.jobs.Review(ctx, id, status, remarks)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, Conflict("Job has already been reviewed")
	}
	job.Status = status
	job.AdminRemarks = remarks

	poster, err := s.users.FindByID(ctx, job.PostedBy)
	if err != nil {
		return nil, err
	}
	if poster == nil {
		slog.Warn("job poster missing, skipping review notification", "job_id", job.ID)
		return job, nil
	}

	n := Notice{
		Recipient: poster,
		RelatedID: &job.ID,
		OnModel:   models.OnModelJob,
	}
	if status == models.JobStatusApproved {
		n.Type = models.NotificationJobApproved
		n.Title = "Job Posting Approved"
		n.Message = fmt.Sprintf(`Your job posting "%s" has been approved`, job.Title)
	} else {
		reason := remarks
		if reason == "" {
			reason = "No reason provided"
		}
		n.Type = models.NotificationJobRejected
		n.Title = "Job Posting Rejected"
		n.Message = fmt.Sprintf(`Your job posting "%s" has been rejected. Reason: %s`, job.Title, reason)
	}
	if _, err := s.notifier.Notify(ctx, n); err != nil {
		return nil, err
	}
	return job, nil
}

func (s *JobService) Save(ctx context.Context, seekerID, jobID uuid.UUID) error {
	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return err
	}
	if job == nil {
		return NotFound("Job not found")
	}
	if err := s.saved.Add(ctx, seekerID, jobID); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return Conflict("Job already saved")
		}
		return wrap("save job", err)
	}
	return nil
}

// Unsave is a no-op when the job was not saved.
func (s *JobService) Unsave(ctx context.Context, seekerID, jobID uuid.UUID) error {
	return s.saved.Remove(ctx, seekerID, jobID)
}

func (s *JobService) ListSaved(ctx context.Context, seekerID uuid.UUID) ([]models.Job, error) {
	jobs, err := s.saved.ListJobs(ctx, seekerID)
	if err != nil {
		return nil, err
	}
	return nonNil(jobs), nil
}
