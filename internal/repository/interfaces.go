// Package repository defines the persistence ports used by the services and
// their GORM implementations.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/models"
	"github.com/google/uuid"
)

// ErrDuplicate is returned when a write violates a unique index.
var ErrDuplicate = errors.New("duplicate record")

// UserRepository persists users. Find* methods return nil, nil when nothing matches.
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	// FindByProviderID looks a user up by the OAuth provider's own user id.
	FindByProviderID(ctx context.Context, provider, providerID string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	// Save writes every column of user.
	Save(ctx context.Context, user *models.User) error
	List(ctx context.Context) ([]models.User, error)
	ListByRole(ctx context.Context, role string) ([]models.User, error)
	Count(ctx context.Context) (int64, error)
}

// JobFilter narrows the public job listing. Zero values mean "no filter".
type JobFilter struct {
	Location  string
	JobType   string
	MinSalary *float64
	MaxSalary *float64
	Offset    int
	Limit     int
}

// JobRepository persists job postings.
type JobRepository interface {
	Create(ctx context.Context, job *models.Job) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Job, error)
	// ListApproved returns one page of approved jobs, newest first, and the total match count.
	ListApproved(ctx context.Context, filter JobFilter) ([]models.Job, int64, error)
	// ListPending returns pending jobs newest first with Poster loaded.
	ListPending(ctx context.Context) ([]models.Job, error)
	ListByPoster(ctx context.Context, posterID uuid.UUID) ([]models.Job, error)
	// Review moves a pending job to status. It reports false when the job was not pending.
	Review(ctx context.Context, id uuid.UUID, status, remarks string) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// ApplicationRepository persists job applications.
type ApplicationRepository interface {
	// Create returns ErrDuplicate when (job, seeker) already has an application.
	Create(ctx context.Context, app *models.Application) error
	// FindByID returns the application with Job and Seeker loaded.
	FindByID(ctx context.Context, id uuid.UUID) (*models.Application, error)
	FindByJobAndSeeker(ctx context.Context, jobID, seekerID uuid.UUID) (*models.Application, error)
	// ListByJob returns applications for a job newest first with Seeker loaded.
	ListByJob(ctx context.Context, jobID uuid.UUID) ([]models.Application, error)
	// ListBySeeker returns the seeker's applications newest first with Job loaded.
	// limit <= 0 means no limit.
	ListBySeeker(ctx context.Context, seekerID uuid.UUID, limit int) ([]models.Application, error)
	CountBySeeker(ctx context.Context, seekerID uuid.UUID) (int64, error)
	// ListForEmployer returns applications to any job posted by employerID, newest first,
	// with Job and Seeker loaded. limit <= 0 means no limit.
	ListForEmployer(ctx context.Context, employerID uuid.UUID, limit int) ([]models.Application, error)
	CountForEmployer(ctx context.Context, employerID uuid.UUID) (int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, interviewDate *time.Time) error
	Count(ctx context.Context) (int64, error)
}

// SavedJobRepository persists job seekers' bookmarks.
type SavedJobRepository interface {
	// Add returns ErrDuplicate when the job is already saved.
	Add(ctx context.Context, userID, jobID uuid.UUID) error
	Remove(ctx context.Context, userID, jobID uuid.UUID) error
	Exists(ctx context.Context, userID, jobID uuid.UUID) (bool, error)
	ListJobs(ctx context.Context, userID uuid.UUID) ([]models.Job, error)
}

// NotificationRepository persists notifications. Mutations are scoped to the recipient
// and affect zero rows when the id belongs to someone else.
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByRecipient(ctx context.Context, recipientID uuid.UUID) ([]models.Notification, error)
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, id, recipientID uuid.UUID) error
	MarkAllRead(ctx context.Context, recipientID uuid.UUID) error
	Delete(ctx context.Context, id, recipientID uuid.UUID) error
}

// MessageRepository persists community chat messages.
type MessageRepository interface {
	// Create stores the message and loads its Sender.
	Create(ctx context.Context, msg *models.Message) error
	// ListRecent returns the newest limit messages, newest first, with Sender loaded.
	ListRecent(ctx context.Context, limit int) ([]models.Message, error)
}
