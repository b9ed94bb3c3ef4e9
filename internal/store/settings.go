package store

import (
	"context"

	"github.com/gdg-garage/conference-registration-api/internal/models"
	"gorm.io/gorm/clause"
)

func (s *Store) GetSetting(ctx context.Context, key string) (string, error) {
	var setting models.Setting
	if err := s.db.WithContext(ctx).Where(&models.Setting{Key: key}).First(&setting).Error; err != nil {
		return "", wrap("get setting", err)
	}
	return setting.Value, nil
}

func (s *Store) PutSetting(ctx context.Context, key, value string) error {
	setting := models.Setting{Key: key, Value: value}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting).Error
	return wrap("put setting", err)
}
