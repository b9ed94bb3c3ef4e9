package handlers

import (
	"context"
	"errors"

	"github.com/gdg-garage/conference-registration-api/internal/auth"
	"github.com/gdg-garage/conference-registration-api/internal/forms"
	"github.com/gdg-garage/conference-registration-api/internal/store"
)

const (
	themeKey     = "theme"
	defaultTheme = "light"
)

type ThemeOutput struct {
	Body struct {
		Theme string `json:"theme"`
	}
}

func (h *AdminHandler) HandleGetTheme(ctx context.Context, input *struct{}) (*ThemeOutput, error) {
	theme, err := h.store.GetSetting(ctx, themeKey)
	if errors.Is(err, store.ErrNotFound) {
		theme = defaultTheme
	} else if err != nil {
		return nil, apiError(ctx, h.log, err)
	}
	resp := &ThemeOutput{}
	resp.Body.Theme = theme
	return resp, nil
}

type PutThemeInput struct {
	auth.AuthInput
	Body struct {
		Theme string `json:"theme" enum:"light,dark"`
	}
}

func (h *AdminHandler) HandlePutTheme(ctx context.Context, input *PutThemeInput) (*ThemeOutput, error) {
	if _, err := h.authHandler.Authorize(ctx, input.Cookie); err != nil {
		return nil, err
	}
	if input.Body.Theme != "light" && input.Body.Theme != "dark" {
		return nil, apiError(ctx, h.log, &forms.ValidationError{Errors: []*forms.FieldError{{
			Field: "theme", Kind: forms.KindInvalidOption, Message: "must be light or dark",
		}}})
	}
	if err := h.store.PutSetting(ctx, themeKey, input.Body.Theme); err != nil {
		return nil, apiError(ctx, h.log, err)
	}
	resp := &ThemeOutput{}
	resp.Body.Theme = input.Body.Theme
	return resp, nil
}
