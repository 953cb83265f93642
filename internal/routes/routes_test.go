package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/repository"
	"github.com/gofiber/fiber/v2"
)

func newApp() *fiber.App {
	cfg := &config.Config{JWTSecret: "routes-secret"}
	var users repository.UserRepository
	app := fiber.New()
	Setup(app, middleware.NewGate(cfg, users), Handlers{
		Auth:         handlers.NewAuthHandler(nil, nil, cfg),
		Job:          handlers.NewJobHandler(nil),
		Application:  handlers.NewApplicationHandler(nil),
		Admin:        handlers.NewAdminHandler(nil),
		Profile:      handlers.NewProfileHandler(nil),
		Dashboard:    handlers.NewDashboardHandler(nil),
		Notification: handlers.NewNotificationHandler(nil),
		Chat:         handlers.NewChatHandler(nil),
		Health:       handlers.NewHealthHandler(func() error { return nil }),
	})
	return app
}

// Every protected route must reach the gate, not a public wildcard.
func TestProtectedRoutesRequireToken(t *testing.T) {
	app := newApp()
	tests := []struct{ method, path string }{
		{http.MethodGet, "/job/saved"},
		{http.MethodGet, "/job/pending"},
		{http.MethodPost, "/job/post"},
		{http.MethodPost, "/job/save/00000000-0000-0000-0000-000000000001"},
		{http.MethodGet, "/application/myapplications"},
		{http.MethodGet, "/application/00000000-0000-0000-0000-000000000001"},
		{http.MethodPatch, "/application/updatestatus/00000000-0000-0000-0000-000000000001"},
		{http.MethodGet, "/admin/stats"},
		{http.MethodGet, "/profile"},
		{http.MethodGet, "/dashboard/employer"},
		{http.MethodGet, "/notification/unread-count"},
		{http.MethodPost, "/chat/messages"},
		{http.MethodPut, "/auth/update"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(tt.method, tt.path, nil))
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != fiber.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", resp.StatusCode)
			}
		})
	}
}

func TestPublicRoutes(t *testing.T) {
	app := newApp()
	for _, path := range []string{"/", "/api/health", "/auth/logout"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("%s status = %d", path, resp.StatusCode)
		}
	}
}
