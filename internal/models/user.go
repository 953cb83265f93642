package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	RoleJobSeeker = "job_seeker"
	RoleEmployer  = "employer"
	RoleAdmin     = "admin"
)

const (
	ProviderLocal  = "local"
	ProviderGoogle = "google"
	ProviderGitHub = "github"
)

// User covers all three actors; Role decides which routes the auth gate lets through.
type User struct {
	ID                   uuid.UUID                   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name                 string                      `gorm:"size:255;not null" json:"name"`
	Email                string                      `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password             string                      `gorm:"not null;default:''" json:"-"`
	Provider             string                      `gorm:"size:20;default:'local'" json:"provider"`
	GoogleID             string                      `gorm:"size:255;index" json:"-"`
	GitHubID             string                      `gorm:"column:github_id;size:255;index" json:"-"`
	Role                 string                      `gorm:"size:20;not null;default:'job_seeker';index" json:"role"`
	IsBlocked            bool                        `gorm:"default:false" json:"isBlocked"`
	IsEmailVerified      bool                        `gorm:"default:false" json:"isEmailVerified"`
	OTP                  string                      `gorm:"size:6" json:"-"`
	OTPExpires           *time.Time                  `json:"-"`
	ResetPasswordToken   string                      `gorm:"size:64;index" json:"-"`
	ResetPasswordExpires *time.Time                  `json:"-"`
	Profile              datatypes.JSONType[Profile] `gorm:"type:jsonb;default:'{}'" json:"profile"`
	Company              Company                     `gorm:"embedded;embeddedPrefix:company_" json:"company"`
	CreatedAt            time.Time                   `json:"createdAt"`
	UpdatedAt            time.Time                   `json:"updatedAt"`
}

// Profile is the job seeker's self-service sub-document.
type Profile struct {
	Experience     []Experience `json:"experience"`
	Education      []Education  `json:"education"`
	Skills         []string     `json:"skills"`
	Certifications []string     `json:"certifications"`
	Resume         string       `json:"resume,omitempty"`
}

type Experience struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Years       int    `json:"years"`
	Description string `json:"description"`
}

type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        int    `json:"year"`
}

type Company struct {
	Name        string `gorm:"size:255" json:"name"`
	Website     string `gorm:"size:255" json:"website"`
	Location    string `gorm:"size:255" json:"location"`
	Description string `gorm:"type:text" json:"description"`
}

// EmptyProfile returns a profile with non-nil lists so clients never see null arrays.
func EmptyProfile() Profile {
	return Profile{
		Experience:     []Experience{},
		Education:      []Education{},
		Skills:         []string{},
		Certifications: []string{},
	}
}

// SavedJob is a job seeker's bookmark on a job.
type SavedJob struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"userId"`
	JobID     uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"jobId"`
	CreatedAt time.Time `json:"createdAt"`
}
