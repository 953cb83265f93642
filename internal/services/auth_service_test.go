package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/models"
)

func register(t *testing.T, e *env, email, role string) *models.User {
	t.Helper()
	u, err := e.auth.Register(context.Background(), RegisterInput{Name: "Sam", Email: email, Password: "secret1", Role: role})
	if err != nil {
		t.Fatalf("Register(%s): %v", email, err)
	}
	return u
}

func TestRegister_VerifyAndLogin(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	u := register(t, e, " Sam@Example.com ", "")

	if u.Email != "sam@example.com" || u.Role != models.RoleJobSeeker || u.IsEmailVerified {
		t.Fatalf("registered = %+v", u)
	}
	stored := e.db.user(u.ID)
	if !isSixDigits(stored.OTP) || stored.OTPExpires == nil {
		t.Fatalf("otp = %q expires %v", stored.OTP, stored.OTPExpires)
	}
	if stored.Password == "secret1" {
		t.Error("password stored in clear")
	}
	emails := e.queue.sent()
	if len(emails) != 1 || !strings.Contains(emails[0].HTML, stored.OTP) {
		t.Fatalf("verification email = %+v", emails)
	}

	_, _, err := e.auth.Login(ctx, "sam@example.com", "secret1")
	appErr, ok := AsError(err)
	if !ok || appErr.Kind != KindUnauthenticated || appErr.Fields["needsVerification"] != true {
		t.Fatalf("unverified login err = %v", err)
	}

	if err := e.auth.VerifyOTP(ctx, "sam@example.com", "12ab56"); !IsKind(err, KindValidation) {
		t.Fatalf("malformed otp err = %v", err)
	}
	wrong := "000000"
	if stored.OTP == wrong {
		wrong = "111111"
	}
	if err := e.auth.VerifyOTP(ctx, "sam@example.com", wrong); !IsKind(err, KindValidation) {
		t.Fatalf("wrong otp err = %v", err)
	}
	if err := e.auth.VerifyOTP(ctx, "sam@example.com", stored.OTP); err != nil {
		t.Fatalf("VerifyOTP: %v", err)
	}

	token, user, err := e.auth.Login(ctx, "SAM@example.com", "secret1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	id, err := identity.Parse(e.cfg.JWTSecret, token, identity.TypeAccess)
	if err != nil || id != user.ID {
		t.Fatalf("token subject = %v, %v", id, err)
	}
}

func TestRegister_Rejections(t *testing.T) {
	e := newEnv()
	register(t, e, "taken@example.com", "")

	tests := []struct {
		name string
		in   RegisterInput
		kind Kind
	}{
		{"missing name", RegisterInput{Email: "a@example.com", Password: "secret1"}, KindValidation},
		{"bad email", RegisterInput{Name: "A", Email: "not-an-email", Password: "secret1"}, KindValidation},
		{"short password", RegisterInput{Name: "A", Email: "a@example.com", Password: "12345"}, KindValidation},
		{"admin role", RegisterInput{Name: "A", Email: "a@example.com", Password: "secret1", Role: models.RoleAdmin}, KindValidation},
		{"duplicate", RegisterInput{Name: "A", Email: "TAKEN@example.com", Password: "secret1"}, KindConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := e.auth.Register(context.Background(), tt.in); !IsKind(err, tt.kind) {
				t.Fatalf("err = %v, want kind %d", err, tt.kind)
			}
		})
	}
}

func TestRegister_AdminEmailBecomesAdmin(t *testing.T) {
	e := newEnv()
	u := register(t, e, "boss@example.com", models.RoleEmployer)
	if u.Role != models.RoleAdmin {
		t.Errorf("role = %q, want admin", u.Role)
	}
}

func TestLogin_Failures(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	u := register(t, e, "sam@example.com", "")
	stored := e.db.user(u.ID)
	if err := e.auth.VerifyOTP(ctx, u.Email, stored.OTP); err != nil {
		t.Fatal(err)
	}

	if _, _, err := e.auth.Login(ctx, "sam@example.com", "wrong"); !IsKind(err, KindUnauthenticated) {
		t.Errorf("wrong password err = %v", err)
	}
	if _, _, err := e.auth.Login(ctx, "nobody@example.com", "secret1"); !IsKind(err, KindUnauthenticated) {
		t.Errorf("unknown user err = %v", err)
	}

	if _, err := e.admin.SetBlocked(ctx, e.db.addUser("ada", models.RoleAdmin).ID, u.ID, true); err != nil {
		t.Fatal(err)
	}
	_, _, err := e.auth.Login(ctx, "sam@example.com", "secret1")
	if !IsKind(err, KindForbidden) || err.Error() != "Your account has been blocked" {
		t.Errorf("blocked login err = %v", err)
	}
}

func TestVerifyOTP_Expired(t *testing.T) {
	e := newEnv()
	u := register(t, e, "sam@example.com", "")
	otp := e.db.user(u.ID).OTP

	e.auth.now = func() time.Time { return time.Now().Add(time.Hour) }
	if err := e.auth.VerifyOTP(context.Background(), u.Email, otp); !IsKind(err, KindValidation) {
		t.Fatalf("expired otp err = %v", err)
	}
}

func TestResendOTP(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	u := register(t, e, "sam@example.com", "")

	if err := e.auth.ResendOTP(ctx, "ghost@example.com"); !IsKind(err, KindNotFound) {
		t.Errorf("unknown user err = %v", err)
	}
	if err := e.auth.ResendOTP(ctx, u.Email); err != nil {
		t.Fatalf("ResendOTP: %v", err)
	}
	emails := e.queue.sent()
	if len(emails) != 2 || emails[1].Subject != "New OTP Verification - CareerHub" {
		t.Fatalf("emails = %+v", emails)
	}
	if err := e.auth.VerifyOTP(ctx, u.Email, e.db.user(u.ID).OTP); err != nil {
		t.Fatal(err)
	}
	if err := e.auth.ResendOTP(ctx, u.Email); !IsKind(err, KindValidation) {
		t.Errorf("verified resend err = %v", err)
	}
}

func resetTokenFrom(t *testing.T, html string) string {
	t.Helper()
	const marker = "/reset-password/"
	i := strings.Index(html, marker)
	if i < 0 {
		t.Fatalf("no reset link in %s", html)
	}
	rest := html[i+len(marker):]
	end := strings.IndexAny(rest, "\"< ")
	if end < 0 {
		end = len(rest)
	}
	return rest[:end]
}

func TestForgotAndResetPassword(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	u := register(t, e, "sam@example.com", "")
	if err := e.auth.VerifyOTP(ctx, u.Email, e.db.user(u.ID).OTP); err != nil {
		t.Fatal(err)
	}

	if err := e.auth.ForgotPassword(ctx, "ghost@example.com"); !IsKind(err, KindNotFound) {
		t.Errorf("unknown user err = %v", err)
	}
	if err := e.auth.ForgotPassword(ctx, u.Email); err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}
	emails := e.queue.sent()
	token := resetTokenFrom(t, emails[len(emails)-1].HTML)

	if e.db.user(u.ID).ResetPasswordToken == token {
		t.Error("reset token stored in clear")
	}
	if _, err := identity.Parse(e.cfg.JWTSecret, token, identity.TypeAccess); err == nil {
		t.Error("reset token accepted as an access token")
	}

	if err := e.auth.ResetPassword(ctx, "garbage", "newpass1"); !IsKind(err, KindValidation) {
		t.Errorf("garbage token err = %v", err)
	}
	if err := e.auth.ResetPassword(ctx, token, "newpass1"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
	if err := e.auth.ResetPassword(ctx, token, "another1"); !IsKind(err, KindValidation) {
		t.Errorf("reused token err = %v", err)
	}

	if _, _, err := e.auth.Login(ctx, u.Email, "secret1"); !IsKind(err, KindUnauthenticated) {
		t.Errorf("old password err = %v", err)
	}
	if _, _, err := e.auth.Login(ctx, u.Email, "newpass1"); err != nil {
		t.Errorf("new password: %v", err)
	}
}

func TestUpdateAccount(t *testing.T) {
	e := newEnv()
	u := e.db.addUser("erin", models.RoleEmployer)
	name := "  Erin Ltd  "

	got, err := e.auth.UpdateAccount(context.Background(), u.ID, AccountUpdate{
		Name:    &name,
		Company: &models.Company{Name: "Erin Ltd", Website: "https://erin.test"},
	})
	if err != nil {
		t.Fatalf("UpdateAccount: %v", err)
	}
	if got.Name != "Erin Ltd" || e.db.user(u.ID).Company.Website != "https://erin.test" {
		t.Errorf("updated = %+v", got)
	}

	blank := " "
	if _, err := e.auth.UpdateAccount(context.Background(), u.ID, AccountUpdate{Name: &blank}); !IsKind(err, KindValidation) {
		t.Errorf("blank name err = %v", err)
	}
}
