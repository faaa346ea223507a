package service

import (
	"context"
	"errors"
	"fmt"

	"garrison/internal/model"

	"gorm.io/gorm"
)

type ApplicationService struct{ db *gorm.DB }

func NewApplicationService(db *gorm.DB) *ApplicationService { return &ApplicationService{db: db} }

// List returns every application, newest submission first, with the
// account created for it (if any) preloaded.
func (s *ApplicationService) List(ctx context.Context) ([]model.Application, error) {
	var apps []model.Application
	err := s.db.WithContext(ctx).
		Preload("Account").
		Order("submission_date DESC").Order("id DESC").
		Find(&apps).Error
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return apps, nil
}

func (s *ApplicationService) Get(ctx context.Context, id int) (*model.Application, error) {
	var app model.Application
	err := s.db.WithContext(ctx).Preload("Account").First(&app, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFound(msgNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get application %d: %w", id, err)
	}
	return &app, nil
}

// UpdateStatus overwrites the status when one is given and otherwise leaves
// the row untouched. Any text is accepted.
func (s *ApplicationService) UpdateStatus(ctx context.Context, id int, status *string) error {
	app, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if status == nil {
		return nil
	}
	return s.db.WithContext(ctx).Model(app).Update("status", *status).Error
}
