package store

import (
	"errors"
	"fmt"

	"github.com/gdg-garage/conference-registration-api/internal/forms"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a row addressed by id does not exist.
var ErrNotFound = errors.New("record not found")

// BackendError carries a data-store failure verbatim.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if _, ok := forms.AsValidationError(err); ok {
		return err
	}
	if errors.Is(err, ErrNotFound) {
		return err
	}
	return &BackendError{Op: op, Err: err}
}
