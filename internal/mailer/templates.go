package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

var layout = template.Must(template.New("email").Parse(`<div style="max-width: 600px; margin: 0 auto; padding: 20px; font-family: Arial, sans-serif;">
  <h2 style="color: #2563EB; text-align: center;">{{.Heading}}</h2>
  {{if .Greeting}}<p>Hello {{.Greeting}},</p>{{end}}
  {{range .Paragraphs}}<p>{{.}}</p>
  {{end}}{{if .Code}}<div style="text-align: center; margin: 30px 0;">
    <h1 style="color: #2563EB; font-size: 36px; letter-spacing: 5px;">{{.Code}}</h1>
  </div>
  {{end}}{{if .Button.URL}}<div style="text-align: center; margin: 30px 0;">
    <a href="{{.Button.URL}}" style="background-color: #4F46E5; color: white; padding: 12px 24px; text-decoration: none; border-radius: 5px; display: inline-block; font-weight: bold;">{{.Button.Label}}</a>
  </div>
  {{end}}{{range .Footnotes}}<p style="color: #6B7280;">{{.}}</p>
  {{end}}<hr style="margin: 20px 0; border: none; border-top: 1px solid #E5E7EB;">
  <p style="color: #6B7280; font-size: 14px; text-align: center;">CareerHub Team</p>
</div>`))

// Button is a call-to-action link rendered under the body.
type Button struct {
	Label string
	URL   string
}

// Content is the data every CareerHub email is rendered from. All fields are escaped.
type Content struct {
	Heading    string
	Greeting   string
	Paragraphs []string
	Code       string
	Button     Button
	Footnotes  []string
}

func Render(c Content) string {
	var buf bytes.Buffer
	if err := layout.Execute(&buf, c); err != nil {
		return c.Heading
	}
	return buf.String()
}

// Compose renders c into an Email addressed to to.
func Compose(to, subject string, c Content) Email {
	return Email{To: to, Subject: subject, HTML: Render(c)}
}

func VerificationCode(to, name, code string, ttl time.Duration, resend bool) Email {
	subject, heading, intro := "Verify Your Email - CareerHub", "Welcome to CareerHub!",
		"Thank you for registering. Please verify your email using this OTP:"
	if resend {
		subject, heading, intro = "New OTP Verification - CareerHub", "New OTP Verification",
			"Your new verification OTP is:"
	}
	return Compose(to, subject, Content{
		Heading:    heading,
		Greeting:   name,
		Paragraphs: []string{intro},
		Code:       code,
		Footnotes: []string{
			fmt.Sprintf("This OTP will expire in %s.", humanDuration(ttl)),
			"If you didn't create an account, please ignore this email.",
		},
	})
}

func PasswordReset(to, name, resetURL string, ttl time.Duration) Email {
	return Compose(to, "Password Reset Request", Content{
		Heading:    "Password Reset Request",
		Greeting:   name,
		Paragraphs: []string{"You have requested to reset your password. Please click the button below to reset it:"},
		Button:     Button{Label: "Reset Password", URL: resetURL},
		Footnotes: []string{
			"Or copy and paste this link in your browser: " + resetURL,
			"If you didn't request this, please ignore this email.",
			fmt.Sprintf("This link will expire in %s.", humanDuration(ttl)),
		},
	})
}

func humanDuration(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		if d == time.Hour {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", d/time.Hour)
	case d >= time.Minute && d%time.Minute == 0:
		if d == time.Minute {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", d/time.Minute)
	}
	return fmt.Sprintf("%d seconds", int(d.Seconds()))
}
