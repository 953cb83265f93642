package repository

import (
	"context"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GormSavedJobRepo struct {
	db *gorm.DB
}

func NewGormSavedJobRepo(db *gorm.DB) *GormSavedJobRepo {
	return &GormSavedJobRepo{db: db}
}

func (r *GormSavedJobRepo) Add(ctx context.Context, userID, jobID uuid.UUID) error {
	err := r.db.WithContext(ctx).Create(&models.SavedJob{UserID: userID, JobID: jobID}).Error
	if err != nil {
		return translate(err)
	}
	return nil
}

func (r *GormSavedJobRepo) Remove(ctx context.Context, userID, jobID uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND job_id = ?", userID, jobID).
		Delete(&models.SavedJob{}).Error
	if err != nil {
		return fmt.Errorf("failed to remove saved job: %w", err)
	}
	return nil
}

func (r *GormSavedJobRepo) Exists(ctx context.Context, userID, jobID uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.SavedJob{}).
		Where("user_id = ? AND job_id = ?", userID, jobID).
		Count(&n).Error
	return n > 0, err
}

func (r *GormSavedJobRepo) ListJobs(ctx context.Context, userID uuid.UUID) ([]models.Job, error) {
	var jobs []models.Job
	err := r.db.WithContext(ctx).
		Joins("JOIN saved_jobs ON saved_jobs.job_id = jobs.id").
		Where("saved_jobs.user_id = ?", userID).
		Order("saved_jobs.created_at DESC").
		Find(&jobs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list saved jobs: %w", err)
	}
	return jobs, nil
}
