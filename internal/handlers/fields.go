package handlers

import (
	"context"

	"github.com/gdg-garage/conference-registration-api/internal/auth"
	"github.com/gdg-garage/conference-registration-api/internal/forms"
	"github.com/gdg-garage/conference-registration-api/internal/models"
)

// FieldBody is the field editor payload. Options may come as a list or as the
// comma-separated text the editor shows.
type FieldBody struct {
	Label       string   `json:"label,omitempty"`
	Name        string   `json:"name,omitempty" doc:"Storage key; normalized to lowercase with underscores"`
	Type        string   `json:"type,omitempty"`
	Required    bool     `json:"required,omitempty"`
	Options     []string `json:"options,omitempty"`
	OptionsText string   `json:"options_text,omitempty"`
	FieldOrder  int      `json:"field_order,omitempty"`
	IsActive    *bool    `json:"is_active,omitempty" doc:"Defaults to true on create; an update keeps the stored value"`
}

func (b FieldBody) definition() forms.Definition {
	opts := b.Options
	if len(opts) == 0 && b.OptionsText != "" {
		opts = forms.ParseOptions(b.OptionsText)
	}
	active := true
	if b.IsActive != nil {
		active = *b.IsActive
	}
	return forms.Definition{
		Label:    b.Label,
		Name:     b.Name,
		Type:     forms.FieldType(b.Type),
		Required: b.Required,
		Options:  opts,
		Order:    b.FieldOrder,
		Active:   active,
	}
}

type ListFieldsOutput struct {
	Body []models.FormField
}

func (h *AdminHandler) HandleListFields(ctx context.Context, input *auth.AuthInput) (*ListFieldsOutput, error) {
	if _, err := h.authHandler.Authorize(ctx, input.Cookie); err != nil {
		return nil, err
	}
	fields, err := h.store.ListFields(ctx)
	if err != nil {
		return nil, apiError(ctx, h.log, err)
	}
	return &ListFieldsOutput{Body: fields}, nil
}

type CreateFieldInput struct {
	auth.AuthInput
	Body FieldBody
}

type UpdateFieldInput struct {
	auth.AuthInput
	ID   string `path:"id"`
	Body FieldBody
}

type FieldOutput struct {
	Body *models.FormField
}

func (h *AdminHandler) HandleCreateField(ctx context.Context, input *CreateFieldInput) (*FieldOutput, error) {
	if _, err := h.authHandler.Authorize(ctx, input.Cookie); err != nil {
		return nil, err
	}
	field, err := h.store.CreateField(ctx, input.Body.definition())
	if err != nil {
		return nil, apiError(ctx, h.log, err)
	}
	return &FieldOutput{Body: field}, nil
}

func (h *AdminHandler) HandleUpdateField(ctx context.Context, input *UpdateFieldInput) (*FieldOutput, error) {
	if _, err := h.authHandler.Authorize(ctx, input.Cookie); err != nil {
		return nil, err
	}
	field, err := h.store.UpdateField(ctx, input.ID, input.Body.definition(), input.Body.IsActive)
	if err != nil {
		return nil, apiError(ctx, h.log, err)
	}
	return &FieldOutput{Body: field}, nil
}

func (h *AdminHandler) HandleToggleField(ctx context.Context, input *ToggleInput) (*FieldOutput, error) {
	if _, err := h.authHandler.Authorize(ctx, input.Cookie); err != nil {
		return nil, err
	}
	field, err := h.store.SetFieldActive(ctx, input.ID, input.Body.IsActive)
	if err != nil {
		return nil, apiError(ctx, h.log, err)
	}
	return &FieldOutput{Body: field}, nil
}
