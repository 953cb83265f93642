package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GormApplicationRepo struct {
	db *gorm.DB
}

func NewGormApplicationRepo(db *gorm.DB) *GormApplicationRepo {
	return &GormApplicationRepo{db: db}
}

func (r *GormApplicationRepo) Create(ctx context.Context, app *models.Application) error {
	if err := r.db.WithContext(ctx).Create(app).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (r *GormApplicationRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	var app models.Application
	err := r.db.WithContext(ctx).Preload("Job").Preload("Seeker").First(&app, "id = ?", id).Error
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find application: %w", err)
	}
	return &app, nil
}

func (r *GormApplicationRepo) FindByJobAndSeeker(ctx context.Context, jobID, seekerID uuid.UUID) (*models.Application, error) {
	var app models.Application
	err := r.db.WithContext(ctx).Where("job_id = ? AND seeker_id = ?", jobID, seekerID).First(&app).Error
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find application: %w", err)
	}
	return &app, nil
}

func (r *GormApplicationRepo) ListByJob(ctx context.Context, jobID uuid.UUID) ([]models.Application, error) {
	var apps []models.Application
	err := r.db.WithContext(ctx).
		Preload("Seeker").
		Where("job_id = ?", jobID).
		Order("created_at DESC").
		Find(&apps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list applications by job: %w", err)
	}
	return apps, nil
}

func (r *GormApplicationRepo) ListBySeeker(ctx context.Context, seekerID uuid.UUID, limit int) ([]models.Application, error) {
	var apps []models.Application
	q := r.db.WithContext(ctx).
		Preload("Job").
		Where("seeker_id = ?", seekerID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("failed to list applications by seeker: %w", err)
	}
	return apps, nil
}

func (r *GormApplicationRepo) CountBySeeker(ctx context.Context, seekerID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Application{}).Where("seeker_id = ?", seekerID).Count(&n).Error
	return n, err
}

func employerApplications(db *gorm.DB, employerID uuid.UUID) *gorm.DB {
	return db.Model(&models.Application{}).
		Where("job_id IN (?)", db.Model(&models.Job{}).Select("id").Where("posted_by = ?", employerID))
}

func (r *GormApplicationRepo) ListForEmployer(ctx context.Context, employerID uuid.UUID, limit int) ([]models.Application, error) {
	db := r.db.WithContext(ctx)
	var apps []models.Application
	q := employerApplications(db, employerID).
		Preload("Job").
		Preload("Seeker").
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("failed to list employer applications: %w", err)
	}
	return apps, nil
}

func (r *GormApplicationRepo) CountForEmployer(ctx context.Context, employerID uuid.UUID) (int64, error) {
	var n int64
	err := employerApplications(r.db.WithContext(ctx), employerID).Count(&n).Error
	return n, err
}

func (r *GormApplicationRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string, interviewDate *time.Time) error {
	updates := map[string]any{"status": status}
	if interviewDate != nil {
		updates["interview_date"] = *interviewDate
	}
	err := r.db.WithContext(ctx).Model(&models.Application{}).Where("id = ?", id).Updates(updates).Error
	if err != nil {
		return fmt.Errorf("failed to update application status: %w", err)
	}
	return nil
}

func (r *GormApplicationRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Application{}).Count(&n).Error
	return n, err
}
