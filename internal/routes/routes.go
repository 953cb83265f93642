package routes

import (
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
)

const (
	authPerMinute   = 10
	globalPerMinute = 120
)

// Handlers groups everything Setup mounts.
type Handlers struct {
	Auth         *handlers.AuthHandler
	Job          *handlers.JobHandler
	Application  *handlers.ApplicationHandler
	Admin        *handlers.AdminHandler
	Profile      *handlers.ProfileHandler
	Dashboard    *handlers.DashboardHandler
	Notification *handlers.NotificationHandler
	Chat         *handlers.ChatHandler
	Health       *handlers.HealthHandler

	// Metrics serves the Prometheus exposition; Socket is the /ws upgrade chain.
	Metrics fiber.Handler
	Socket  []fiber.Handler
}

// Setup mounts the API at the root paths the web client already uses.
func Setup(app *fiber.App, gate *middleware.Gate, h Handlers) {
	app.Get("/", h.Health.Banner)
	app.Get("/api/health", h.Health.Check)
	if h.Metrics != nil {
		app.Get("/metrics", h.Metrics)
	}
	if len(h.Socket) > 0 {
		app.Get("/ws", append([]fiber.Handler{gate.Socket()}, h.Socket...)...)
	}

	app.Use(middleware.RateLimit(globalPerMinute))

	seeker := gate.Require(middleware.Seekers...)
	employer := gate.Require(middleware.Employers...)
	admin := gate.Require(middleware.Admins...)
	member := gate.Require(middleware.Members...)
	anyone := gate.Require()

	auth := app.Group("/auth", middleware.RateLimit(authPerMinute))
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/verify-otp", h.Auth.VerifyOTP)
	auth.Post("/resend-otp", h.Auth.ResendOTP)
	auth.Post("/forgot-password", h.Auth.ForgotPassword)
	auth.Post("/reset-password", h.Auth.ResetPassword)
	auth.Post("/reset-password/:token", h.Auth.ResetPassword)
	auth.Put("/update", member, h.Auth.Update)
	auth.Get("/logout", h.Auth.Logout)
	auth.Get("/:provider", h.Auth.OAuthStart)
	auth.Get("/:provider/callback", h.Auth.OAuthCallback)

	job := app.Group("/job")
	job.Get("/all", h.Job.List)
	job.Get("/saved", seeker, h.Job.Saved)
	job.Get("/pending", admin, h.Job.Pending)
	job.Post("/post", employer, h.Job.Post)
	job.Post("/save/:jobId", seeker, h.Job.Save)
	job.Delete("/unsave/:jobId", seeker, h.Job.Unsave)
	job.Patch("/approve/:jobId", admin, h.Job.Approve)
	job.Patch("/reject/:jobId", admin, h.Job.Reject)
	job.Get("/:jobId", h.Job.Get)

	application := app.Group("/application")
	application.Post("/apply/:jobId", seeker, h.Application.Apply)
	application.Get("/myapplications", seeker, h.Application.Mine)
	application.Patch("/updatestatus/:applicationId", employer, h.Application.UpdateStatus)
	application.Put("/update/:applicationId", employer, h.Application.LegacyUpdate)
	application.Get("/:jobId", employer, h.Application.ForJob)

	adminGroup := app.Group("/admin", admin)
	adminGroup.Get("/stats", h.Admin.Stats)
	adminGroup.Get("/users", h.Admin.Users)
	adminGroup.Patch("/users/:userId/status", h.Admin.SetStatus)
	adminGroup.Get("/jobs/pending", h.Job.Pending)
	adminGroup.Patch("/jobs/:jobId/approve", h.Job.Approve)
	adminGroup.Patch("/jobs/:jobId/reject", h.Job.Reject)

	profile := app.Group("/profile", seeker)
	profile.Get("/", h.Profile.Get)
	profile.Put("/basic", h.Profile.UpdateBasic)
	profile.Put("/experience", h.Profile.UpdateExperience)
	profile.Put("/education", h.Profile.UpdateEducation)
	profile.Put("/skills", h.Profile.UpdateSkills)
	profile.Post("/resume", h.Profile.UploadResume)

	dashboard := app.Group("/dashboard")
	dashboard.Get("/jobseeker", seeker, h.Dashboard.Seeker)
	dashboard.Get("/employer", employer, h.Dashboard.Employer)

	notification := app.Group("/notification", anyone)
	notification.Get("/", h.Notification.List)
	notification.Get("/unread-count", h.Notification.UnreadCount)
	notification.Put("/mark-all-read", h.Notification.MarkAllAsRead)
	notification.Put("/:id/read", h.Notification.MarkAsRead)
	notification.Delete("/:id", h.Notification.Delete)

	chat := app.Group("/chat", seeker)
	chat.Get("/messages", h.Chat.List)
	chat.Post("/messages", h.Chat.Send)
}
