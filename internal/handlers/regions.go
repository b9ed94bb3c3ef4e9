package handlers

import (
	"context"

	"github.com/gdg-garage/conference-registration-api/internal/auth"
	"github.com/gdg-garage/conference-registration-api/internal/models"
)

type ListRegionsOutput struct {
	Body []models.Region
}

func (h *AdminHandler) HandleListRegions(ctx context.Context, input *auth.AuthInput) (*ListRegionsOutput, error) {
	if _, err := h.authHandler.Authorize(ctx, input.Cookie); err != nil {
		return nil, err
	}
	regions, err := h.store.ListRegions(ctx)
	if err != nil {
		return nil, apiError(ctx, h.log, err)
	}
	return &ListRegionsOutput{Body: regions}, nil
}

type RegionOutput struct {
	Body *models.Region
}

func (h *AdminHandler) HandleToggleRegion(ctx context.Context, input *ToggleInput) (*RegionOutput, error) {
	if _, err := h.authHandler.Authorize(ctx, input.Cookie); err != nil {
		return nil, err
	}
	region, err := h.store.SetRegionActive(ctx, input.ID, input.Body.IsActive)
	if err != nil {
		return nil, apiError(ctx, h.log, err)
	}
	return &RegionOutput{Body: region}, nil
}
