package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/conference-registration-api/internal/auth"
	"github.com/gdg-garage/conference-registration-api/internal/models"
	"github.com/gdg-garage/conference-registration-api/internal/reference"
	"github.com/gdg-garage/conference-registration-api/internal/store"
	"go.uber.org/zap"
)

type ListMinistriesOutput struct {
	Body []models.Ministry
}

func (h *AdminHandler) HandleListMinistries(ctx context.Context, input *auth.AuthInput) (*ListMinistriesOutput, error) {
	if _, err := h.authHandler.Authorize(ctx, input.Cookie); err != nil {
		return nil, err
	}
	ministries, err := h.store.ListMinistries(ctx)
	if err != nil {
		return nil, apiError(ctx, h.log, err)
	}
	return &ListMinistriesOutput{Body: ministries}, nil
}

type CreateMinistryInput struct {
	auth.AuthInput
	Body struct {
		Name string `json:"name,omitempty"`
	}
}

type MinistryOutput struct {
	Body *models.Ministry
}

func (h *AdminHandler) HandleCreateMinistry(ctx context.Context, input *CreateMinistryInput) (*MinistryOutput, error) {
	if _, err := h.authHandler.Authorize(ctx, input.Cookie); err != nil {
		return nil, err
	}
	ministry, err := h.store.CreateMinistry(ctx, input.Body.Name)
	if err != nil {
		return nil, apiError(ctx, h.log, err)
	}
	return &MinistryOutput{Body: ministry}, nil
}

func (h *AdminHandler) HandleToggleMinistry(ctx context.Context, input *ToggleInput) (*MinistryOutput, error) {
	if _, err := h.authHandler.Authorize(ctx, input.Cookie); err != nil {
		return nil, err
	}
	ministry, err := h.store.SetMinistryActive(ctx, input.ID, input.Body.IsActive)
	if err != nil {
		return nil, apiError(ctx, h.log, err)
	}
	return &MinistryOutput{Body: ministry}, nil
}

type BulkMinistriesInput struct {
	auth.AuthInput
	Body struct {
		Text string `json:"text" doc:"One ministry name per line"`
	}
}

type UploadMinistriesInput struct {
	auth.AuthInput
	RawBody []byte `contentType:"text/plain"`
}

type ImportMinistriesOutput struct {
	Body *store.ImportResult
}

func (h *AdminHandler) HandleBulkMinistries(ctx context.Context, input *BulkMinistriesInput) (*ImportMinistriesOutput, error) {
	if _, err := h.authHandler.Authorize(ctx, input.Cookie); err != nil {
		return nil, err
	}
	return h.importMinistries(ctx, reference.SplitMinistryNames(input.Body.Text))
}

func (h *AdminHandler) HandleUploadMinistries(ctx context.Context, input *UploadMinistriesInput) (*ImportMinistriesOutput, error) {
	if _, err := h.authHandler.Authorize(ctx, input.Cookie); err != nil {
		return nil, err
	}
	names, err := reference.ParseMinistryNames(string(input.RawBody))
	if err != nil {
		return nil, huma.Error400BadRequest("Failed to parse ministry list", err)
	}
	return h.importMinistries(ctx, names)
}

func (h *AdminHandler) importMinistries(ctx context.Context, names []string) (*ImportMinistriesOutput, error) {
	result, err := h.store.ImportMinistries(ctx, names)
	if err != nil {
		return nil, apiError(ctx, h.log, err)
	}
	h.log.WithContext(ctx).Info("ministries imported",
		zap.Int("created", len(result.Created)),
		zap.Int("skipped", len(result.Skipped)))
	return &ImportMinistriesOutput{Body: result}, nil
}
