package dto

import "github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/models"

type SetBlockedRequest struct {
	IsBlocked *bool `json:"isBlocked"`
}

type UsersResponse struct {
	Users []models.User `json:"users"`
}

type UpdateBasicRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ExperienceRequest struct {
	Experience []models.Experience `json:"experience"`
}

type EducationRequest struct {
	Education []models.Education `json:"education"`
}

type SkillsRequest struct {
	Skills []string `json:"skills"`
}

type NotificationsResponse struct {
	Notifications []models.Notification `json:"notifications"`
	UnreadCount   int64                 `json:"unreadCount"`
}

type SendMessageRequest struct {
	Content string `json:"content"`
}
