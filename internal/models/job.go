package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const (
	JobStatusPending  = "pending"
	JobStatusApproved = "approved"
	JobStatusRejected = "rejected"
)

var JobTypes = []string{"Full-time", "Part-time", "Contract"}

type Job struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title        string         `gorm:"size:255;not null" json:"title"`
	Description  string         `gorm:"type:text;not null" json:"description"`
	Location     string         `gorm:"size:255;not null;index" json:"location"`
	Salary       *float64       `json:"salary,omitempty"`
	CompanyName  string         `gorm:"size:255;not null" json:"companyName"`
	PostedBy     uuid.UUID      `gorm:"type:uuid;not null;index" json:"postedBy"`
	Requirements pq.StringArray `gorm:"type:text[]" json:"requirements"`
	JobType      string         `gorm:"size:20;not null;index" json:"jobType"`
	Status       string         `gorm:"size:20;not null;default:'pending';index" json:"status"`
	AdminRemarks string         `gorm:"type:text" json:"adminRemarks,omitempty"`
	CreatedAt    time.Time      `gorm:"index" json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	Poster       *User          `gorm:"foreignKey:PostedBy" json:"poster,omitempty"`
}

func ValidJobType(t string) bool {
	for _, jt := range JobTypes {
		if jt == t {
			return true
		}
	}
	return false
}
