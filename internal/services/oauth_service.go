package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/repository"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
	"gorm.io/datatypes"
)

// OAuthProvider is one configured sign-in provider.
type OAuthProvider struct {
	Name   string
	Config *oauth2.Config
	// UserURL returns the profile; EmailsURL is consulted when the profile has no email.
	UserURL   string
	EmailsURL string
}

// OAuthIdentity is the normalized profile returned by a provider.
type OAuthIdentity struct {
	ID    string
	Email string
	Name  string
}

type OAuthService struct {
	providers map[string]*OAuthProvider
	users     repository.UserRepository
	auth      *AuthService
}

// NewOAuthService registers every provider whose client id is set.
func NewOAuthService(cfg *config.Config, users repository.UserRepository, auth *AuthService) *OAuthService {
	s := &OAuthService{providers: map[string]*OAuthProvider{}, users: users, auth: auth}

	if cfg.GoogleClientID != "" {
		s.Register(&OAuthProvider{
			Name: models.ProviderGoogle,
			Config: &oauth2.Config{
				ClientID:     cfg.GoogleClientID,
				ClientSecret: cfg.GoogleClientSecret,
				Endpoint:     endpoints.Google,
				RedirectURL:  cfg.PublicURL + "/auth/google/callback",
				Scopes:       []string{"openid", "profile", "email"},
			},
			UserURL: "https://www.googleapis.com/oauth2/v2/userinfo",
		})
	}
	if cfg.GitHubClientID != "" {
		s.Register(&OAuthProvider{
			Name: models.ProviderGitHub,
			Config: &oauth2.Config{
				ClientID:     cfg.GitHubClientID,
				ClientSecret: cfg.GitHubClientSecret,
				Endpoint:     endpoints.GitHub,
				RedirectURL:  cfg.PublicURL + "/auth/github/callback",
				Scopes:       []string{"user:email"},
			},
			UserURL:   "https://api.github.com/user",
			EmailsURL: "https://api.github.com/user/emails",
		})
	}
	return s
}

func (s *OAuthService) Register(p *OAuthProvider) {
	s.providers[p.Name] = p
}

func (s *OAuthService) provider(name string) (*OAuthProvider, error) {
	p, ok := s.providers[name]
	if !ok {
		return nil, NotFound("Sign-in with " + name + " is not available")
	}
	return p, nil
}

// AuthCodeURL is where the browser is sent to start the flow.
func (s *OAuthService) AuthCodeURL(provider, state string) (string, error) {
	p, err := s.provider(provider)
	if err != nil {
		return "", err
	}
	return p.Config.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "select_account")), nil
}

// Complete exchanges code, finds or creates the matching user and returns an access token.
func (s *OAuthService) Complete(ctx context.Context, provider, code string) (string, error) {
	p, err := s.provider(provider)
	if err != nil {
		return "", err
	}
	tok, err := p.Config.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("oauth exchange: %w", err)
	}
	client := p.Config.Client(ctx, tok)

	who, err := fetchIdentity(client, p)
	if err != nil {
		return "", err
	}
	user, err := s.findOrCreate(ctx, p.Name, who)
	if err != nil {
		return "", err
	}
	if user.IsBlocked {
		return "", Forbidden("Your account has been blocked")
	}
	return s.auth.IssueToken(user)
}

func (s *OAuthService) findOrCreate(ctx context.Context, provider string, who *OAuthIdentity) (*models.User, error) {
	user, err := s.users.FindByProviderID(ctx, provider, who.ID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	email := normalizeEmail(who.Email)
	user, err = s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user != nil {
		linkProvider(user, provider, who.ID)
		user.IsEmailVerified = true
		if err := s.users.Save(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	}

	name := strings.TrimSpace(who.Name)
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}
	user = &models.User{
		Name:            name,
		Email:           email,
		Provider:        provider,
		Role:            models.RoleJobSeeker,
		IsEmailVerified: true,
		Profile:         datatypes.NewJSONType(models.EmptyProfile()),
	}
	linkProvider(user, provider, who.ID)
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create oauth user: %w", err)
	}
	return user, nil
}

func linkProvider(u *models.User, provider, id string) {
	switch provider {
	case models.ProviderGoogle:
		u.GoogleID = id
	case models.ProviderGitHub:
		u.GitHubID = id
	}
}

func fetchIdentity(client *http.Client, p *OAuthProvider) (*OAuthIdentity, error) {
	var raw struct {
		ID    json.Number `json:"id"`
		Email string      `json:"email"`
		Name  string      `json:"name"`
		Login string      `json:"login"`
	}
	if err := getJSON(client, p.UserURL, &raw); err != nil {
		return nil, fmt.Errorf("fetch %s profile: %w", p.Name, err)
	}

	who := &OAuthIdentity{ID: raw.ID.String(), Email: raw.Email, Name: raw.Name}
	if who.Name == "" {
		who.Name = raw.Login
	}
	if who.Email == "" && p.EmailsURL != "" {
		var emails []struct {
			Email    string `json:"email"`
			Primary  bool   `json:"primary"`
			Verified bool   `json:"verified"`
		}
		if err := getJSON(client, p.EmailsURL, &emails); err != nil {
			return nil, fmt.Errorf("fetch %s emails: %w", p.Name, err)
		}
		for _, e := range emails {
			if e.Verified && (e.Primary || who.Email == "") {
				who.Email = e.Email
			}
		}
	}
	if who.ID == "" || who.Email == "" {
		return nil, fmt.Errorf("%s profile has no id or email", p.Name)
	}
	return who, nil
}

func getJSON(client *http.Client, url string, v any) error {
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	return dec.Decode(v)
}
