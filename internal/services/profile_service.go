package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/repository"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const resumeLinkTTL = time.Hour

type ProfileService struct {
	users repository.UserRepository
	files FileStore
}

func NewProfileService(users repository.UserRepository, files FileStore) *ProfileService {
	return &ProfileService{users: users, files: files}
}

// ProfileView is a user with the stored resume key swapped for a short-lived link.
// Resume is nil when there is no resume or the link could not be signed.
type ProfileView struct {
	*models.User
	Profile ProfileDocument `json:"profile"`
}

type ProfileDocument struct {
	models.Profile
	Resume *string `json:"resume"`
}

func (s *ProfileService) load(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, NotFound("User not found")
	}
	return user, nil
}

func (s *ProfileService) Get(ctx context.Context, userID uuid.UUID) (*ProfileView, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	p := user.Profile.Data()
	view := &ProfileView{User: user, Profile: ProfileDocument{Profile: p}}
	if p.Resume != "" {
		url, err := s.files.PresignGet(ctx, p.Resume, resumeLinkTTL)
		if err != nil {
			slog.Error("failed to sign resume link", "user_id", userID, "error", err)
		} else {
			view.Profile.Resume = &url
		}
	}
	return view, nil
}

// UpdateBasic changes name and email; blank values keep the stored ones.
func (s *ProfileService) UpdateBasic(ctx context.Context, userID uuid.UUID, name, email string) (*models.User, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if name = strings.TrimSpace(name); name != "" {
		user.Name = name
	}
	if email = normalizeEmail(email); email != "" && email != user.Email {
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, Validation("Please provide a valid email")
		}
		user.Email = email
	}
	if err := s.users.Save(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, Conflict("Email is already in use")
		}
		return nil, err
	}
	return user, nil
}

func (s *ProfileService) UpdateExperience(ctx context.Context, userID uuid.UUID, exp []models.Experience) ([]models.Experience, error) {
	p, err := s.edit(ctx, userID, func(p *models.Profile) { p.Experience = nonNil(exp) })
	if err != nil {
		return nil, err
	}
	return p.Experience, nil
}

func (s *ProfileService) UpdateEducation(ctx context.Context, userID uuid.UUID, edu []models.Education) ([]models.Education, error) {
	p, err := s.edit(ctx, userID, func(p *models.Profile) { p.Education = nonNil(edu) })
	if err != nil {
		return nil, err
	}
	return p.Education, nil
}

func (s *ProfileService) UpdateSkills(ctx context.Context, userID uuid.UUID, skills []string) ([]string, error) {
	cleaned := make([]string, 0, len(skills))
	for _, sk := range skills {
		if sk = strings.TrimSpace(sk); sk != "" {
			cleaned = append(cleaned, sk)
		}
	}
	p, err := s.edit(ctx, userID, func(p *models.Profile) { p.Skills = cleaned })
	if err != nil {
		return nil, err
	}
	return p.Skills, nil
}

// UploadResume stores a PDF under resumes/<userId>/ and records its key on the profile.
func (s *ProfileService) UploadResume(ctx context.Context, userID uuid.UUID, resume *Upload) (string, error) {
	if resume == nil || resume.Body == nil {
		return "", Validation("No resume file uploaded")
	}
	if !isPDF(resume.ContentType) {
		return "", Validation("Only PDF resumes are allowed")
	}
	if _, err := s.load(ctx, userID); err != nil {
		return "", err
	}

	key := fmt.Sprintf("resumes/%s/%s", userID, cleanFilename(resume.Filename))
	if err := s.files.Put(ctx, key, contentTypePDF, resume.Body, resume.Size); err != nil {
		return "", wrap("upload resume", err)
	}
	if _, err := s.edit(ctx, userID, func(p *models.Profile) { p.Resume = key }); err != nil {
		return "", err
	}
	return key, nil
}

func (s *ProfileService) edit(ctx context.Context, userID uuid.UUID, fn func(*models.Profile)) (models.Profile, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return models.Profile{}, err
	}
	p := user.Profile.Data()
	fn(&p)
	user.Profile = datatypes.NewJSONType(p)
	if err := s.users.Save(ctx, user); err != nil {
		return models.Profile{}, err
	}
	return p, nil
}
