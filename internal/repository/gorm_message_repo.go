package repository

import (
	"context"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/models"
	"gorm.io/gorm"
)

type GormMessageRepo struct {
	db *gorm.DB
}

func NewGormMessageRepo(db *gorm.DB) *GormMessageRepo {
	return &GormMessageRepo{db: db}
}

func (r *GormMessageRepo) Create(ctx context.Context, msg *models.Message) error {
	db := r.db.WithContext(ctx)
	if err := db.Create(msg).Error; err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	var sender models.User
	if err := db.Select("id", "name", "role").First(&sender, "id = ?", msg.SenderID).Error; err != nil {
		return fmt.Errorf("failed to load message sender: %w", err)
	}
	msg.Sender = &sender
	return nil
}

func (r *GormMessageRepo) ListRecent(ctx context.Context, limit int) ([]models.Message, error) {
	var msgs []models.Message
	err := r.db.WithContext(ctx).
		Preload("Sender", func(tx *gorm.DB) *gorm.DB { return tx.Select("id", "name", "role") }).
		Order("created_at DESC").
		Limit(limit).
		Find(&msgs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return msgs, nil
}
