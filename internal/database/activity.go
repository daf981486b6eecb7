package database

import (
	"context"
	"fmt"

	"waba-admin/internal/models"

	"gorm.io/gorm"
)

type ActivityStore struct {
	DB *gorm.DB
}

func NewActivityStore(db *gorm.DB) *ActivityStore {
	return &ActivityStore{DB: db}
}

func (s *ActivityStore) Record(ctx context.Context, activity *models.Activity) error {
	if err := s.DB.WithContext(ctx).Create(activity).Error; err != nil {
		return fmt.Errorf("failed to record activity %s: %w", activity.Action, err)
	}
	return nil
}

// Recent returns one page of activities, newest first, and the page count.
func (s *ActivityStore) Recent(ctx context.Context, page, limit int) ([]models.Activity, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	var total int64
	if err := s.DB.WithContext(ctx).Model(&models.Activity{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count activities: %w", err)
	}

	activities := []models.Activity{}
	err := s.DB.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&activities).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list activities: %w", err)
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	if totalPages < 1 {
		totalPages = 1
	}
	return activities, totalPages, nil
}
