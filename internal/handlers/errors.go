package handlers

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/conference-registration-api/internal/forms"
	"github.com/gdg-garage/conference-registration-api/internal/logger"
	"github.com/gdg-garage/conference-registration-api/internal/reference"
	"github.com/gdg-garage/conference-registration-api/internal/store"
	"go.uber.org/zap"
)

// apiError translates domain errors into huma status errors.
func apiError(ctx context.Context, log *logger.Logger, err error) error {
	if ve, ok := forms.AsValidationError(err); ok {
		details := make([]error, len(ve.Errors))
		for i, fe := range ve.Errors {
			details[i] = &huma.ErrorDetail{
				Message:  fe.Message,
				Location: "body." + fe.Field,
			}
		}
		return huma.Error422UnprocessableEntity("validation failed", details...)
	}
	if errors.Is(err, reference.ErrNoMinistries) {
		return huma.Error409Conflict(err.Error())
	}
	if errors.Is(err, store.ErrNotFound) {
		return huma.Error404NotFound("Not found")
	}

	log.WithContext(ctx).Error("request failed", zap.Error(err))
	var be *store.BackendError
	if errors.As(err, &be) {
		return huma.Error500InternalServerError("Failed to " + be.Op + ": " + be.Err.Error())
	}
	return huma.Error500InternalServerError(err.Error())
}

// mergeValidation folds several validation failures into one so a submission
// reports every problem at once. Any other error is returned as is.
func mergeValidation(errs ...error) error {
	merged := &forms.ValidationError{}
	for _, err := range errs {
		if err == nil {
			continue
		}
		ve, ok := forms.AsValidationError(err)
		if !ok {
			return err
		}
		merged.Errors = append(merged.Errors, ve.Errors...)
	}
	if len(merged.Errors) == 0 {
		return nil
	}
	return merged
}
