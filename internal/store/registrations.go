package store

import (
	"context"
	"strings"

	"github.com/gdg-garage/conference-registration-api/internal/models"
	"gorm.io/gorm/clause"
)

// CreateRegistration persists a new row; the store assigns id and created_at.
func (s *Store) CreateRegistration(ctx context.Context, reg *models.Registration) error {
	return wrap("create registration", s.db.WithContext(ctx).Omit(clause.Associations).Create(reg).Error)
}

// ListRegistrations returns every registration joined with its region and
// ministry, newest first.
func (s *Store) ListRegistrations(ctx context.Context) ([]models.Registration, error) {
	var regs []models.Registration
	err := s.db.WithContext(ctx).
		Preload("Region").
		Preload("Ministry").
		Order("created_at desc, id desc").
		Find(&regs).Error
	if err != nil {
		return nil, wrap("list registrations", err)
	}
	return regs, nil
}

func referrerKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Store) CountByReferrer(ctx context.Context, email string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Registration{}).
		Where("LOWER(referrer_email) = ?", referrerKey(email)).
		Count(&count).Error
	if err != nil {
		return 0, wrap("count referrals", err)
	}
	return count, nil
}

func (s *Store) ListByReferrer(ctx context.Context, email string) ([]models.Registration, error) {
	var regs []models.Registration
	err := s.db.WithContext(ctx).
		Preload("Region").
		Preload("Ministry").
		Where("LOWER(referrer_email) = ?", referrerKey(email)).
		Order("created_at desc, id desc").
		Find(&regs).Error
	if err != nil {
		return nil, wrap("list referrals", err)
	}
	return regs, nil
}
