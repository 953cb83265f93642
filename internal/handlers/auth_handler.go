package handlers

import (
	"log/slog"
	"net/url"
	"time"

	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	stateCookie = "careerhub_oauth_state"
	stateTTL    = 10 * time.Minute
)

type AuthHandler struct {
	authService  *services.AuthService
	oauthService *services.OAuthService
	frontendURL  string
	secureCookie bool
}

func NewAuthHandler(authService *services.AuthService, oauthService *services.OAuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		oauthService: oauthService,
		frontendURL:  cfg.FrontendURL,
		secureCookie: cfg.AppEnv == "production",
	}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	user, err := h.authService.Register(c.UserContext(), services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Company:  req.Company,
	})
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.RegisterResponse{
		Message: "Registration successful! Please check your email for OTP verification.",
		UserID:  user.ID,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	token, user, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.LoginResponse{Message: "Login successful", Token: token, User: user})
}

func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req dto.VerifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if req.Email == "" || req.OTP == "" {
		return badRequest(c, "Email and OTP are required")
	}

	if err := h.authService.VerifyOTP(c.UserContext(), req.Email, req.OTP); err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Email verified successfully! You can now login."})
}

func (h *AuthHandler) ResendOTP(c *fiber.Ctx) error {
	var req dto.EmailRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	if err := h.authService.ResendOTP(c.UserContext(), req.Email); err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "New OTP sent successfully"})
}

func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req dto.EmailRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	if err := h.authService.ForgotPassword(c.UserContext(), req.Email); err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Password reset link sent to your email"})
}

// ResetPassword takes the token from the body or, for links opened directly, the path.
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if t := c.Params("token"); t != "" {
		req.Token = t
	}

	if err := h.authService.ResetPassword(c.UserContext(), req.Token, req.NewPassword); err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Password reset successful"})
}

func (h *AuthHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	user, err := h.authService.UpdateAccount(c.UserContext(), identity.UserID(c), services.AccountUpdate{
		Name:    req.Name,
		Company: req.Company,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.UserResponse{Message: "Profile updated successfully!", User: user})
}

// Logout has nothing to revoke; tokens are stateless and the client drops its copy.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	return c.JSON(dto.MessageResponse{Message: "Logged out successfully"})
}

// OAuthStart redirects to the provider named in the path. The state is kept in
// a short-lived cookie and checked on the way back.
func (h *AuthHandler) OAuthStart(c *fiber.Ctx) error {
	state := uuid.NewString()
	target, err := h.oauthService.AuthCodeURL(c.Params("provider"), state)
	if err != nil {
		return fail(c, err)
	}

	h.setState(c, state, time.Now().Add(stateTTL))
	return c.Redirect(target, fiber.StatusTemporaryRedirect)
}

func (h *AuthHandler) OAuthCallback(c *fiber.Ctx) error {
	provider := c.Params("provider")
	want := c.Cookies(stateCookie)
	h.setState(c, "", time.Unix(0, 0))

	if want == "" || c.Query("state") != want {
		slog.Warn("oauth state mismatch", "provider", provider)
		return h.authFailed(c)
	}
	if c.Query("error") != "" || c.Query("code") == "" {
		return h.authFailed(c)
	}

	token, err := h.oauthService.Complete(c.UserContext(), provider, c.Query("code"))
	if err != nil {
		slog.Error("oauth sign-in failed", "provider", provider, "error", err)
		return h.authFailed(c)
	}
	return c.Redirect(h.frontendURL+"/auth/callback?token="+url.QueryEscape(token), fiber.StatusFound)
}

func (h *AuthHandler) setState(c *fiber.Ctx, value string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     stateCookie,
		Value:    value,
		Path:     "/auth",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (h *AuthHandler) authFailed(c *fiber.Ctx) error {
	return c.Redirect(h.frontendURL+"/login?error=auth_failed", fiber.StatusFound)
}
