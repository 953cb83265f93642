package dto

import (
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/models"
	"github.com/google/uuid"
)

type RegisterRequest struct {
	Name     string         `json:"name"`
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Role     string         `json:"role"`
	Company  models.Company `json:"company"`
}

type RegisterResponse struct {
	Message string    `json:"message"`
	UserID  uuid.UUID `json:"userId"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    *models.User `json:"user"`
}

type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// EmailRequest is the body of resend-otp and forgot-password.
type EmailRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// UpdateAccountRequest only carries the fields a user may change through /auth/update.
type UpdateAccountRequest struct {
	Name    *string         `json:"name"`
	Company *models.Company `json:"company"`
}

type UserResponse struct {
	Message string       `json:"message"`
	User    *models.User `json:"user"`
}
