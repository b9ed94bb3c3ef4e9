package store

import (
	"context"

	"github.com/gdg-garage/conference-registration-api/internal/forms"
	"github.com/gdg-garage/conference-registration-api/internal/models"
	"gorm.io/gorm"
)

const fieldOrder = "field_order asc, id asc"

func (s *Store) ActiveFields(ctx context.Context) ([]forms.Definition, error) {
	var fields []models.FormField
	if err := s.db.WithContext(ctx).Where("is_active = ?", true).Order(fieldOrder).Find(&fields).Error; err != nil {
		return nil, wrap("list active fields", err)
	}
	return models.Definitions(fields), nil
}

func (s *Store) ListFields(ctx context.Context) ([]models.FormField, error) {
	var fields []models.FormField
	if err := s.db.WithContext(ctx).Order(fieldOrder).Find(&fields).Error; err != nil {
		return nil, wrap("list fields", err)
	}
	return fields, nil
}

func (s *Store) CreateField(ctx context.Context, def forms.Definition) (*models.FormField, error) {
	def = def.Normalize()
	def.ID = ""

	var field models.FormField
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := validateAgainstActive(tx, def); err != nil {
			return err
		}
		field.Apply(def)
		return tx.Create(&field).Error
	})
	if err != nil {
		return nil, wrap("create field", err)
	}
	s.changed()
	return &field, nil
}

func (s *Store) UpdateField(ctx context.Context, id string, def forms.Definition, active *bool) (*models.FormField, error) {
	def = def.Normalize()
	def.ID = id

	var field models.FormField
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&field, "id = ?", id).Error; err != nil {
			return err
		}
		def.Active = field.IsActive
		if active != nil {
			def.Active = *active
		}
		if err := validateAgainstActive(tx, def); err != nil {
			return err
		}
		field.Apply(def)
		return tx.Save(&field).Error
	})
	if err != nil {
		return nil, wrap("update field", err)
	}
	s.changed()
	return &field, nil
}

// SetFieldActive toggles a definition. Re-activating runs the full definition
// check so an old key cannot shadow a newer active one.
func (s *Store) SetFieldActive(ctx context.Context, id string, active bool) (*models.FormField, error) {
	var field models.FormField
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&field, "id = ?", id).Error; err != nil {
			return err
		}
		if active {
			def := field.Definition()
			def.Active = true
			if err := validateAgainstActive(tx, def); err != nil {
				return err
			}
		}
		if err := tx.Model(&field).Update("is_active", active).Error; err != nil {
			return err
		}
		field.IsActive = active
		return nil
	})
	if err != nil {
		return nil, wrap("toggle field", err)
	}
	s.changed()
	return &field, nil
}

func validateAgainstActive(tx *gorm.DB, def forms.Definition) error {
	var active []models.FormField
	if err := tx.Where("is_active = ?", true).Find(&active).Error; err != nil {
		return err
	}
	return forms.ValidateDefinition(def, models.Definitions(active))
}
