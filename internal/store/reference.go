package store

import (
	"context"
	"strings"

	"github.com/gdg-garage/conference-registration-api/internal/forms"
	"github.com/gdg-garage/conference-registration-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (s *Store) ActiveRegions(ctx context.Context) ([]models.Region, error) {
	var regions []models.Region
	if err := s.db.WithContext(ctx).Where("is_active = ?", true).Order("name").Find(&regions).Error; err != nil {
		return nil, wrap("list active regions", err)
	}
	return regions, nil
}

func (s *Store) ListRegions(ctx context.Context) ([]models.Region, error) {
	var regions []models.Region
	if err := s.db.WithContext(ctx).Order("name").Find(&regions).Error; err != nil {
		return nil, wrap("list regions", err)
	}
	return regions, nil
}

func (s *Store) SetRegionActive(ctx context.Context, id string, active bool) (*models.Region, error) {
	var region models.Region
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&region, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Model(&region).Update("is_active", active).Error; err != nil {
			return err
		}
		region.IsActive = active
		return nil
	})
	if err != nil {
		return nil, wrap("toggle region", err)
	}
	s.changed()
	return &region, nil
}

// SeedRegions inserts active regions, skipping names that already exist.
func (s *Store) SeedRegions(ctx context.Context, names []string) (int, error) {
	rows := make([]models.Region, 0, len(names))
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			rows = append(rows, models.Region{Name: name, IsActive: true})
		}
	}
	if len(rows) == 0 {
		return 0, nil
	}
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&rows)
	if res.Error != nil {
		return 0, wrap("seed regions", res.Error)
	}
	s.changed()
	return int(res.RowsAffected), nil
}

func (s *Store) ActiveMinistries(ctx context.Context) ([]models.Ministry, error) {
	var ministries []models.Ministry
	if err := s.db.WithContext(ctx).Where("is_active = ?", true).Order("name").Find(&ministries).Error; err != nil {
		return nil, wrap("list active ministries", err)
	}
	return ministries, nil
}

func (s *Store) ListMinistries(ctx context.Context) ([]models.Ministry, error) {
	var ministries []models.Ministry
	if err := s.db.WithContext(ctx).Order("name").Find(&ministries).Error; err != nil {
		return nil, wrap("list ministries", err)
	}
	return ministries, nil
}

func (s *Store) CreateMinistry(ctx context.Context, name string) (*models.Ministry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &forms.ValidationError{Errors: []*forms.FieldError{forms.MissingRequiredField("name")}}
	}

	ministry := models.Ministry{Name: name, IsActive: true}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Ministry{}).Where("name = ?", name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return &forms.ValidationError{Errors: []*forms.FieldError{{
				Field: "name", Kind: forms.KindDuplicateName, Message: name + " already exists",
			}}}
		}
		return tx.Create(&ministry).Error
	})
	if err != nil {
		return nil, wrap("create ministry", err)
	}
	s.changed()
	return &ministry, nil
}

func (s *Store) SetMinistryActive(ctx context.Context, id string, active bool) (*models.Ministry, error) {
	var ministry models.Ministry
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&ministry, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Model(&ministry).Update("is_active", active).Error; err != nil {
			return err
		}
		ministry.IsActive = active
		return nil
	})
	if err != nil {
		return nil, wrap("toggle ministry", err)
	}
	s.changed()
	return &ministry, nil
}

// ImportResult reports what a bulk ministry upload did.
type ImportResult struct {
	Created []string `json:"created"`
	Skipped []string `json:"skipped"`
}

// ImportMinistries inserts the given names as active ministries. Names that
// already exist (exact, case-sensitive match) are skipped; the insert also
// ignores unique conflicts raised by concurrent uploads.
func (s *Store) ImportMinistries(ctx context.Context, names []string) (*ImportResult, error) {
	result := &ImportResult{Created: []string{}, Skipped: []string{}}
	if len(names) == 0 {
		return result, nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []string
		if err := tx.Model(&models.Ministry{}).Where("name IN ?", names).Pluck("name", &existing).Error; err != nil {
			return err
		}
		seen := make(map[string]bool, len(existing))
		for _, name := range existing {
			seen[name] = true
		}

		rows := make([]models.Ministry, 0, len(names))
		for _, name := range names {
			if seen[name] {
				result.Skipped = append(result.Skipped, name)
				continue
			}
			seen[name] = true
			rows = append(rows, models.Ministry{Name: name, IsActive: true})
			result.Created = append(result.Created, name)
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).Create(&rows).Error
	})
	if err != nil {
		return nil, wrap("import ministries", err)
	}
	if len(result.Created) > 0 {
		s.changed()
	}
	return result, nil
}
