package models

import (
	"github.com/gdg-garage/conference-registration-api/internal/forms"
	"gorm.io/datatypes"
)

type FormField struct {
	Base
	Label      string                      `gorm:"not null" json:"label"`
	Name       string                      `gorm:"index;not null" json:"name"`
	Type       string                      `gorm:"not null" json:"type"`
	Required   bool                        `json:"required"`
	Options    datatypes.JSONSlice[string] `json:"options"`
	FieldOrder int                         `gorm:"index" json:"field_order"`
	IsActive   bool                        `json:"is_active"`
}

func (f FormField) Definition() forms.Definition {
	var opts []string
	if len(f.Options) > 0 {
		opts = []string(f.Options)
	}
	return forms.Definition{
		ID:       f.ID,
		Label:    f.Label,
		Name:     f.Name,
		Type:     forms.FieldType(f.Type),
		Required: f.Required,
		Options:  opts,
		Order:    f.FieldOrder,
		Active:   f.IsActive,
	}
}

// Apply copies a normalized definition onto the row, leaving the id alone.
func (f *FormField) Apply(d forms.Definition) {
	f.Label = d.Label
	f.Name = d.Name
	f.Type = string(d.Type)
	f.Required = d.Required
	f.Options = nil
	if d.Type == forms.TypeSelect {
		f.Options = datatypes.JSONSlice[string](d.Options)
	}
	f.FieldOrder = d.Order
	f.IsActive = d.Active
}

func Definitions(fields []FormField) []forms.Definition {
	defs := make([]forms.Definition, len(fields))
	for i, f := range fields {
		defs[i] = f.Definition()
	}
	return defs
}
