package repository

import (
	"context"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GormJobRepo struct {
	db *gorm.DB
}

func NewGormJobRepo(db *gorm.DB) *GormJobRepo {
	return &GormJobRepo{db: db}
}

func (r *GormJobRepo) Create(ctx context.Context, job *models.Job) error {
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *GormJobRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	var job models.Job
	err := r.db.WithContext(ctx).First(&job, "id = ?", id).Error
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find job: %w", err)
	}
	return &job, nil
}

// approvedJobsQuery applies the public listing filters. Only approved jobs are ever visible.
func approvedJobsQuery(db *gorm.DB, f JobFilter) *gorm.DB {
	q := db.Model(&models.Job{}).Where("status = ?", models.JobStatusApproved)
	if f.Location != "" {
		q = q.Where("location ILIKE ?", containsPattern(f.Location))
	}
	if f.JobType != "" {
		q = q.Where("job_type = ?", f.JobType)
	}
	if f.MinSalary != nil {
		q = q.Where("salary >= ?", *f.MinSalary)
	}
	if f.MaxSalary != nil {
		q = q.Where("salary <= ?", *f.MaxSalary)
	}
	return q
}

func (r *GormJobRepo) ListApproved(ctx context.Context, f JobFilter) ([]models.Job, int64, error) {
	db := r.db.WithContext(ctx)

	var total int64
	if err := approvedJobsQuery(db, f).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count jobs: %w", err)
	}

	var jobs []models.Job
	q := approvedJobsQuery(db, f).Order("created_at DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	if err := q.Find(&jobs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list jobs: %w", err)
	}
	return jobs, total, nil
}

func (r *GormJobRepo) ListPending(ctx context.Context) ([]models.Job, error) {
	var jobs []models.Job
	err := r.db.WithContext(ctx).
		Preload("Poster").
		Where("status = ?", models.JobStatusPending).
		Order("created_at DESC").
		Find(&jobs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pending jobs: %w", err)
	}
	return jobs, nil
}

func (r *GormJobRepo) ListByPoster(ctx context.Context, posterID uuid.UUID) ([]models.Job, error) {
	var jobs []models.Job
	err := r.db.WithContext(ctx).
		Where("posted_by = ?", posterID).
		Order("created_at DESC").
		Find(&jobs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs by poster: %w", err)
	}
	return jobs, nil
}

// Review is a compare-and-set on status so two concurrent reviews cannot both win.
func (r *GormJobRepo) Review(ctx context.Context, id uuid.UUID, status, remarks string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Job{}).
		Where("id = ? AND status = ?", id, models.JobStatusPending).
		Updates(map[string]any{"status": status, "admin_remarks": remarks})
	if res.Error != nil {
		return false, fmt.Errorf("failed to review job: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *GormJobRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Job{}).Count(&n).Error
	return n, err
}
