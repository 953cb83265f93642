package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"net/mail"
	"slices"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/mailer"
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/repository"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
)

const minPasswordLength = 6

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
	Company  models.Company
}

type AccountUpdate struct {
	Name    *string
	Company *models.Company
}

type AuthService struct {
	users  repository.UserRepository
	emails EmailQueue
	cfg    *config.Config
	admins []string
	now    func() time.Time
}

func NewAuthService(users repository.UserRepository, emails EmailQueue, cfg *config.Config) *AuthService {
	return &AuthService{
		users:  users,
		emails: emails,
		cfg:    cfg,
		admins: cfg.AdminEmailList(),
		now:    time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an unverified local account and emails it a one-time code.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return nil, Validation("All fields are required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, Validation("Please provide a valid email")
	}
	if len(in.Password) < minPasswordLength {
		return nil, Validation(fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
	}

	role := in.Role
	if role == "" {
		role = models.RoleJobSeeker
	}
	if role != models.RoleJobSeeker && role != models.RoleEmployer {
		return nil, Validation("Role must be job_seeker or employer")
	}
	if slices.Contains(s.admins, email) {
		role = models.RoleAdmin
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, Conflict("User already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	otp, err := generateOTP()
	if err != nil {
		return nil, err
	}
	expires := s.now().Add(s.cfg.OTPExpiry)

	user := &models.User{
		Name:       name,
		Email:      email,
		Password:   string(hash),
		Provider:   models.ProviderLocal,
		Role:       role,
		OTP:        otp,
		OTPExpires: &expires,
		Profile:    datatypes.NewJSONType(models.EmptyProfile()),
		Company:    in.Company,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, Conflict("User already exists")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// The account exists either way; resend-otp recovers a lost code.
	if err := s.emails.Enqueue(ctx, mailer.VerificationCode(email, name, otp, s.cfg.OTPExpiry, false)); err != nil {
		slog.Error("failed to queue verification email", "user_id", user.ID, "error", err)
	}
	return user, nil
}

// Login returns a signed access token for valid, verified, unblocked credentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return "", nil, err
	}
	if user == nil || user.Password == "" ||
		bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return "", nil, Unauthenticated("Invalid credentials")
	}
	if user.IsBlocked {
		return "", nil, Forbidden("Your account has been blocked")
	}
	if !user.IsEmailVerified {
		return "", nil, &Error{
			Kind:    KindUnauthenticated,
			Message: "Please verify your email before logging in",
			Fields:  map[string]any{"needsVerification": true},
		}
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// IssueToken signs an access token for user.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	token, err := identity.Sign(s.cfg.JWTSecret, user.ID, user.Role, identity.TypeAccess, s.cfg.JWTExpiry)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

func (s *AuthService) VerifyOTP(ctx context.Context, email, otp string) error {
	otp = strings.TrimSpace(otp)
	if !isSixDigits(otp) {
		return Validation("OTP must be a 6-digit number")
	}

	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}
	if user == nil || user.OTP == "" || user.OTP != otp ||
		user.OTPExpires == nil || !s.now().Before(*user.OTPExpires) {
		return Validation("Invalid or expired OTP")
	}

	user.IsEmailVerified = true
	user.OTP = ""
	user.OTPExpires = nil
	return s.users.Save(ctx, user)
}

func (s *AuthService) ResendOTP(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}
	if user == nil {
		return NotFound("User not found")
	}
	if user.IsEmailVerified {
		return Validation("Email already verified")
	}

	otp, err := generateOTP()
	if err != nil {
		return err
	}
	expires := s.now().Add(s.cfg.OTPExpiry)
	user.OTP = otp
	user.OTPExpires = &expires
	if err := s.users.Save(ctx, user); err != nil {
		return err
	}

	if err := s.emails.Enqueue(ctx, mailer.VerificationCode(user.Email, user.Name, otp, s.cfg.OTPExpiry, true)); err != nil {
		return fmt.Errorf("failed to queue verification email: %w", err)
	}
	return nil
}

// ForgotPassword emails a single-use reset link. Only the token's hash is stored.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}
	if user == nil {
		return NotFound("User not found with this email")
	}

	token, err := identity.Sign(s.cfg.JWTSecret, user.ID, user.Role, identity.TypeReset, s.cfg.ResetTokenExpiry)
	if err != nil {
		return fmt.Errorf("failed to sign reset token: %w", err)
	}
	expires := s.now().Add(s.cfg.ResetTokenExpiry)
	user.ResetPasswordToken = hashToken(token)
	user.ResetPasswordExpires = &expires
	if err := s.users.Save(ctx, user); err != nil {
		return err
	}

	resetURL := s.cfg.FrontendURL + "/reset-password/" + token
	if err := s.emails.Enqueue(ctx, mailer.PasswordReset(user.Email, user.Name, resetURL, s.cfg.ResetTokenExpiry)); err != nil {
		return fmt.Errorf("failed to queue password reset email: %w", err)
	}
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return Validation(fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
	}
	invalid := Validation("Invalid or expired reset token")

	userID, err := identity.Parse(s.cfg.JWTSecret, token, identity.TypeReset)
	if err != nil {
		return invalid
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil || user.ResetPasswordToken == "" || user.ResetPasswordToken != hashToken(token) ||
		user.ResetPasswordExpires == nil || !s.now().Before(*user.ResetPasswordExpires) {
		return invalid
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hash)
	user.ResetPasswordToken = ""
	user.ResetPasswordExpires = nil
	return s.users.Save(ctx, user)
}

// UpdateAccount changes the fields a user may edit about themselves outside the profile.
func (s *AuthService) UpdateAccount(ctx context.Context, userID uuid.UUID, in AccountUpdate) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, NotFound("User not found")
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, Validation("Name cannot be empty")
		}
		user.Name = name
	}
	if in.Company != nil {
		user.Company = *in.Company
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func isSixDigits(s string) bool {
	if len(s) != 6 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}
