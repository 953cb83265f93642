package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/models"
	"golang.org/x/oauth2"
)

// newProviderServer fakes a GitHub-style provider: a token endpoint, a profile
// without an email and an email list.
func newProviderServer(t *testing.T, id int, primaryEmail string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil || r.Form.Get("code") != "good-code" {
			http.Error(w, `{"error":"bad_verification_code"}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "at-123", "token_type": "bearer"})
	})
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer at-123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"id": id, "login": "octo", "name": "", "email": nil})
	})
	mux.HandleFunc("/emails", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"email": "other@example.com", "primary": false, "verified": true},
			{"email": primaryEmail, "primary": true, "verified": true},
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func oauthEnv(t *testing.T, srv *httptest.Server) (*env, *OAuthService) {
	e := newEnv()
	svc := NewOAuthService(e.cfg, fakeUsers{e.db}, e.auth)
	svc.Register(&OAuthProvider{
		Name: models.ProviderGitHub,
		Config: &oauth2.Config{
			ClientID:     "client",
			ClientSecret: "secret",
			Endpoint: oauth2.Endpoint{
				AuthURL:   srv.URL + "/authorize",
				TokenURL:  srv.URL + "/token",
				AuthStyle: oauth2.AuthStyleInParams,
			},
			RedirectURL: e.cfg.PublicURL + "/auth/github/callback",
		},
		UserURL:   srv.URL + "/user",
		EmailsURL: srv.URL + "/emails",
	})
	return e, svc
}

func TestOAuth_AuthCodeURL(t *testing.T) {
	srv := newProviderServer(t, 7, "octo@example.com")
	_, svc := oauthEnv(t, srv)

	raw, err := svc.AuthCodeURL(models.ProviderGitHub, "state-xyz")
	if err != nil {
		t.Fatal(err)
	}
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	if u.Query().Get("state") != "state-xyz" || u.Query().Get("client_id") != "client" {
		t.Errorf("auth url = %s", raw)
	}
	if _, err := svc.AuthCodeURL(models.ProviderGoogle, "s"); !IsKind(err, KindNotFound) {
		t.Errorf("unconfigured provider err = %v", err)
	}
}

func TestOAuth_CompleteCreatesVerifiedSeeker(t *testing.T) {
	srv := newProviderServer(t, 42, "Octo@Example.com")
	e, svc := oauthEnv(t, srv)

	token, err := svc.Complete(context.Background(), models.ProviderGitHub, "good-code")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	id, err := identity.Parse(e.cfg.JWTSecret, token, identity.TypeAccess)
	if err != nil {
		t.Fatal(err)
	}
	u := e.db.user(id)
	if u.Email != "octo@example.com" || u.GitHubID != "42" || u.Role != models.RoleJobSeeker || !u.IsEmailVerified || u.Name != "octo" {
		t.Errorf("created = %+v", u)
	}

	again, err := svc.Complete(context.Background(), models.ProviderGitHub, "good-code")
	if err != nil {
		t.Fatal(err)
	}
	if id2, _ := identity.Parse(e.cfg.JWTSecret, again, identity.TypeAccess); id2 != id {
		t.Errorf("second sign-in made a new user")
	}
	if n, _ := (fakeUsers{e.db}).Count(context.Background()); n != 1 {
		t.Errorf("users = %d, want 1", n)
	}
}

func TestOAuth_CompleteLinksExistingEmail(t *testing.T) {
	srv := newProviderServer(t, 9, "erin@example.com")
	e, svc := oauthEnv(t, srv)
	existing := e.db.addUser("erin", models.RoleEmployer)

	token, err := svc.Complete(context.Background(), models.ProviderGitHub, "good-code")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if id, _ := identity.Parse(e.cfg.JWTSecret, token, identity.TypeAccess); id != existing.ID {
		t.Fatalf("signed in as %v, want %v", id, existing.ID)
	}
	if got := e.db.user(existing.ID); got.GitHubID != "9" || got.Role != models.RoleEmployer {
		t.Errorf("linked = %+v", got)
	}
}

func TestOAuth_CompleteFailures(t *testing.T) {
	srv := newProviderServer(t, 9, "erin@example.com")
	e, svc := oauthEnv(t, srv)

	if _, err := svc.Complete(context.Background(), models.ProviderGitHub, "bad-code"); err == nil {
		t.Error("bad code accepted")
	}

	blocked := e.db.addUser("erin", models.RoleJobSeeker)
	b := e.db.user(blocked.ID)
	b.IsBlocked = true
	_ = fakeUsers{e.db}.Save(context.Background(), &b)
	if _, err := svc.Complete(context.Background(), models.ProviderGitHub, "good-code"); !IsKind(err, KindForbidden) {
		t.Errorf("blocked err = %v", err)
	}
}
