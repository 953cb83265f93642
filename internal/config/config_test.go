package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_EXPIRY", "")
	t.Setenv("FRONTEND_URL", "")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("OUTBOX_WORKERS", "")

	cfg := Load()

	if cfg.JWTExpiry != 24*time.Hour {
		t.Errorf("JWTExpiry = %v, want 24h", cfg.JWTExpiry)
	}
	if cfg.ResetTokenExpiry != time.Hour {
		t.Errorf("ResetTokenExpiry = %v, want 1h", cfg.ResetTokenExpiry)
	}
	if cfg.FrontendURL != "http://localhost:5173" {
		t.Errorf("FrontendURL = %q", cfg.FrontendURL)
	}
	if cfg.CORSOrigins != cfg.FrontendURL {
		t.Errorf("CORSOrigins = %q, want frontend url", cfg.CORSOrigins)
	}
	if cfg.OutboxWorkers != 2 {
		t.Errorf("OutboxWorkers = %d, want 2", cfg.OutboxWorkers)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("JWT_EXPIRY", "2h")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("FRONTEND_URL", "https://careerhub.example/")

	cfg := Load()

	if cfg.JWTExpiry != 2*time.Hour {
		t.Errorf("JWTExpiry = %v, want 2h", cfg.JWTExpiry)
	}
	if cfg.SMTPPort != 2525 {
		t.Errorf("SMTPPort = %d, want 2525", cfg.SMTPPort)
	}
	if cfg.FrontendURL != "https://careerhub.example" {
		t.Errorf("FrontendURL = %q, trailing slash should be trimmed", cfg.FrontendURL)
	}
}

func TestParseDuration_Fallback(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"30m", 30 * time.Minute},
		{"bogus", time.Minute},
		{"-5s", time.Minute},
		{"", time.Minute},
	}
	for _, tt := range tests {
		if got := parseDuration(tt.in, time.Minute); got != tt.want {
			t.Errorf("parseDuration(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestAdminEmailList(t *testing.T) {
	cfg := &Config{AdminEmails: " Boss@Example.com, ,ops@example.com "}
	got := cfg.AdminEmailList()
	if len(got) != 2 || got[0] != "boss@example.com" || got[1] != "ops@example.com" {
		t.Errorf("AdminEmailList() = %v", got)
	}
	if (&Config{}).AdminEmailList() != nil {
		t.Error("empty ADMIN_EMAILS should yield nil")
	}
}
