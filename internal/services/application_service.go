package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/mailer"
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

// Real-time events for the application lifecycle.
const (
	EventNewApplication     = "newApplication"
	EventApplicationStatus  = "applicationStatusUpdate"
	EventInterviewScheduled = "interviewScheduled"
	// EventApplicationUpdate is what PUT /application/update clients listen for.
	EventApplicationUpdate = "applicationUpdate"
)

const (
	contentTypePDF    = "application/pdf"
	interviewDuration = time.Hour
)

type ApplicationService struct {
	apps        repository.ApplicationRepository
	jobs        repository.JobRepository
	users       repository.UserRepository
	files       FileStore
	notifier    Notifier
	policy      *bluemonday.Policy
	frontendURL string
	now         func() time.Time
}

func NewApplicationService(
	apps repository.ApplicationRepository,
	jobs repository.JobRepository,
	users repository.UserRepository,
	files FileStore,
	notifier Notifier,
	frontendURL string,
) *ApplicationService {
	return &ApplicationService{
		apps:        apps,
		jobs:        jobs,
		users:       users,
		files:       files,
		notifier:    notifier,
		policy:      bluemonday.StrictPolicy(),
		frontendURL: frontendURL,
		now:         time.Now,
	}
}

// Apply submits seekerID's application to jobID with a PDF resume.
func (s *ApplicationService) Apply(ctx context.Context, jobID, seekerID uuid.UUID, resume *Upload, coverLetter string) (*models.Application, error) {
	if resume == nil || resume.Body == nil {
		return nil, Validation("Resume file is required")
	}
	if !isPDF(resume.ContentType) {
		return nil, Validation("Only PDF resumes are allowed")
	}

	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil || job.Status != models.JobStatusApproved {
		return nil, NotFound("Job not found")
	}

	employer, err := s.users.FindByID(ctx, job.PostedBy)
	if err != nil {
		return nil, err
	}
	if employer == nil {
		return nil, NotFound("Employer not found")
	}

	seeker, err := s.users.FindByID(ctx, seekerID)
	if err != nil {
		return nil, err
	}
	if seeker == nil || seeker.Role != models.RoleJobSeeker {
		return nil, Forbidden("Only job seekers can apply for jobs")
	}

	existing, err := s.apps.FindByJobAndSeeker(ctx, jobID, seekerID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, Conflict("You have already applied for this job")
	}

	now := s.now()
	key := fmt.Sprintf("resume/%d-%s", now.UnixMilli(), cleanFilename(resume.Filename))
	if err := s.files.Put(ctx, key, contentTypePDF, resume.Body, resume.Size); err != nil {
		return nil, wrap("upload resume", err)
	}

	app := &models.Application{
		JobID:       jobID,
		SeekerID:    seekerID,
		Resume:      key,
		CoverLetter: strings.TrimSpace(s.policy.Sanitize(coverLetter)),
		Status:      models.ApplicationApplied,
	}
	if err := s.apps.Create(ctx, app); err != nil {
		// A concurrent identical apply won the unique index.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, Conflict("You have already applied for this job")
		}
		return nil, wrap("create application", err)
	}

	email := mailer.Compose(employer.Email, "New Job Application Received", mailer.Content{
		Heading:  "New Application Received",
		Greeting: employer.Name,
		Paragraphs: []string{
			"You have received a new application for " + job.Title,
			"Applicant: " + seeker.Name,
			"Position: " + job.Title,
		},
	})
	_, err = s.notifier.Notify(ctx, Notice{
		Recipient: employer,
		Type:      models.NotificationApplicationReceived,
		Title:     "New Application Received",
		Message:   fmt.Sprintf("%s has applied for %s", seeker.Name, job.Title),
		RelatedID: &app.ID,
		OnModel:   models.OnModelApplication,
		Event:     EventNewApplication,
		Payload: map[string]any{
			"type":          "application",
			"jobTitle":      job.Title,
			"applicantName": seeker.Name,
			"timestamp":     now,
		},
		Email: &email,
	})
	if err != nil {
		return nil, err
	}
	return app, nil
}

// UpdateStatus lets the job's poster move an application to any status.
// interviewDate is only applied together with "Interview Scheduled".
func (s *ApplicationService) UpdateStatus(ctx context.Context, applicationID, callerID uuid.UUID, status string, interviewDate *time.Time) (*models.Application, error) {
	return s.updateStatus(ctx, applicationID, callerID, status, interviewDate, false)
}

// LegacyUpdateStatus is UpdateStatus without an interview date. The seeker's
// room gets applicationUpdate {applicationId, status, jobTitle} instead of
// applicationStatusUpdate.
func (s *ApplicationService) LegacyUpdateStatus(ctx context.Context, applicationID, callerID uuid.UUID, status string) (*models.Application, error) {
	return s.updateStatus(ctx, applicationID, callerID, status, nil, true)
}

func (s *ApplicationService) updateStatus(ctx context.Context, applicationID, callerID uuid.UUID, status string, interviewDate *time.Time, legacy bool) (*models.Application, error) {
	app, err := s.apps.FindByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, NotFound("Application not found")
	}
	job := app.Job
	if job == nil || job.PostedBy != callerID {
		return nil, Forbidden("Unauthorized access")
	}
	if !models.ValidApplicationStatus(status) {
		return nil, Validation("Invalid application status")
	}
	seeker := app.Seeker
	if seeker == nil {
		return nil, NotFound("Applicant not found")
	}

	scheduled := status == models.ApplicationInterviewScheduled && interviewDate != nil
	var date *time.Time
	if scheduled {
		d := interviewDate.UTC()
		date = &d
	}
	if err := s.apps.UpdateStatus(ctx, app.ID, status, date); err != nil {
		return nil, err
	}
	app.Status = status
	if scheduled {
		app.InterviewDate = date
	}

	now := s.now()
	if scheduled {
		_, err := s.notifier.Notify(ctx, Notice{
			Recipient: seeker,
			Type:      models.NotificationInterviewScheduled,
			Title:     "Interview Scheduled",
			Message:   fmt.Sprintf("Your interview for %s has been scheduled", job.Title),
			RelatedID: &app.ID,
			OnModel:   models.OnModelApplication,
			Event:     EventInterviewScheduled,
			Payload: map[string]any{
				"type":          "interview",
				"jobTitle":      job.Title,
				"interviewDate": *date,
				"timestamp":     now,
			},
			NoEmail: true,
		})
		if err != nil {
			return nil, err
		}
	}

	email := s.statusEmail(app, job, seeker, scheduled)
	notice := Notice{
		Recipient: seeker,
		Type:      models.NotificationApplicationStatus,
		Title:     "Application Status Updated",
		Message:   fmt.Sprintf("Your application for %s has been %s", job.Title, status),
		RelatedID: &app.ID,
		OnModel:   models.OnModelApplication,
		Event:     EventApplicationStatus,
		Payload: map[string]any{
			"type":      "status",
			"jobTitle":  job.Title,
			"status":    status,
			"timestamp": now,
		},
		Email: &email,
	}
	if legacy {
		notice.Event = EventApplicationUpdate
		notice.Payload = map[string]any{
			"applicationId": app.ID,
			"status":        status,
			"jobTitle":      job.Title,
		}
	}
	_, err = s.notifier.Notify(ctx, notice)
	if err != nil {
		return nil, err
	}
	return app, nil
}

// statusEmail is the single email sent per status change. It carries the
// interview invite when one was scheduled.
func (s *ApplicationService) statusEmail(app *models.Application, job *models.Job, seeker *models.User, scheduled bool) mailer.Email {
	content := mailer.Content{
		Heading:  "Application Status Update",
		Greeting: seeker.Name,
		Paragraphs: []string{
			fmt.Sprintf("Your application for %s at %s has been %s.", job.Title, job.CompanyName, app.Status),
		},
	}
	if scheduled {
		content.Paragraphs = append(content.Paragraphs,
			"Your interview is scheduled for "+app.InterviewDate.Format("Mon, 02 Jan 2006 15:04 MST")+". A calendar invite is attached.")
	}
	if app.Status == models.ApplicationRejected {
		content.Paragraphs = append(content.Paragraphs, "Don't be discouraged! Keep applying to other opportunities.")
		content.Button = mailer.Button{Label: "Browse More Jobs", URL: s.frontendURL + "/jobs"}
	}

	email := mailer.Compose(seeker.Email, "Application Status Update", content)
	if scheduled {
		email.Attachments = append(email.Attachments, mailer.CalendarAttachment(mailer.Invite{
			UID:         app.ID.String() + "@careerhub",
			Summary:     "Interview for " + job.Title,
			Description: fmt.Sprintf("Interview for %s position", job.Title),
			Location:    job.Location,
			Start:       *app.InterviewDate,
			Duration:    interviewDuration,
		}))
	}
	return email
}

// ListForJob returns a job's applications to its poster only.
func (s *ApplicationService) ListForJob(ctx context.Context, jobID, callerID uuid.UUID) ([]models.Application, error) {
	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil || job.PostedBy != callerID {
		return nil, Forbidden("Unauthorized access")
	}
	apps, err := s.apps.ListByJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	return nonNil(apps), nil
}

func (s *ApplicationService) ListMine(ctx context.Context, seekerID uuid.UUID) ([]models.Application, error) {
	apps, err := s.apps.ListBySeeker(ctx, seekerID, 0)
	if err != nil {
		return nil, err
	}
	return nonNil(apps), nil
}

func isPDF(contentType string) bool {
	mt, _, _ := strings.Cut(contentType, ";")
	return strings.EqualFold(strings.TrimSpace(mt), contentTypePDF)
}

func cleanFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, " ", "_")
	if name == "." || name == "/" || name == "" {
		return "resume.pdf"
	}
	return name
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
