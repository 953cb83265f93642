package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ApplicationApplied            = "Applied"
	ApplicationShortlisted        = "Shortlisted"
	ApplicationInterviewScheduled = "Interview Scheduled"
	ApplicationRejected           = "Rejected"
	ApplicationHired              = "Hired"
)

var ApplicationStatuses = []string{
	ApplicationApplied,
	ApplicationShortlisted,
	ApplicationInterviewScheduled,
	ApplicationRejected,
	ApplicationHired,
}

// Application is unique per (job, seeker); the compound index backs up the service pre-check.
type Application struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	JobID         uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_applications_job_seeker,priority:1" json:"jobId"`
	SeekerID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_applications_job_seeker,priority:2;index" json:"seekerId"`
	Resume        string     `gorm:"size:512;not null" json:"resume"`
	CoverLetter   string     `gorm:"type:text" json:"coverLetter,omitempty"`
	Status        string     `gorm:"size:30;not null;default:'Applied'" json:"status"`
	InterviewDate *time.Time `json:"interviewDate,omitempty"`
	CreatedAt     time.Time  `gorm:"index" json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	Job           *Job       `gorm:"foreignKey:JobID" json:"job,omitempty"`
	Seeker        *User      `gorm:"foreignKey:SeekerID" json:"seeker,omitempty"`
}

func ValidApplicationStatus(s string) bool {
	for _, st := range ApplicationStatuses {
		if st == s {
			return true
		}
	}
	return false
}
