package models

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationApplicationReceived NotificationType = "APPLICATION_RECEIVED"
	NotificationApplicationStatus   NotificationType = "APPLICATION_STATUS"
	NotificationInterviewScheduled  NotificationType = "INTERVIEW_SCHEDULED"
	NotificationJobRecommendation   NotificationType = "JOB_RECOMMENDATION"
	NotificationNewJobMatch         NotificationType = "NEW_JOB_MATCH"
	NotificationNewJobPending       NotificationType = "NEW_JOB_PENDING"
	NotificationJobApproved         NotificationType = "JOB_APPROVED"
	NotificationJobRejected         NotificationType = "JOB_REJECTED"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationApplicationReceived, NotificationApplicationStatus, NotificationInterviewScheduled,
		NotificationJobRecommendation, NotificationNewJobMatch, NotificationNewJobPending,
		NotificationJobApproved, NotificationJobRejected:
		return true
	}
	return false
}

// Models a Notification may point at through RelatedID.
const (
	OnModelJob         = "Job"
	OnModelApplication = "Application"
)

type Notification struct {
	ID          uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RecipientID uuid.UUID        `gorm:"type:uuid;not null;index:idx_notifications_recipient_read,priority:1" json:"recipient"`
	Type        NotificationType `gorm:"size:40;not null" json:"type"`
	Title       string           `gorm:"size:255;not null" json:"title"`
	Message     string           `gorm:"type:text;not null" json:"message"`
	RelatedID   *uuid.UUID       `gorm:"type:uuid" json:"relatedId,omitempty"`
	OnModel     string           `gorm:"size:20" json:"onModel,omitempty"`
	IsRead      bool             `gorm:"default:false;index:idx_notifications_recipient_read,priority:2" json:"isRead"`
	CreatedAt   time.Time        `gorm:"index" json:"createdAt"`
}
