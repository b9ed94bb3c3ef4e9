package forms

import (
	"errors"
	"strings"
)

// ErrUnsupportedFieldType is returned when a definition carries a type outside
// the recognized set.
var ErrUnsupportedFieldType = errors.New("unsupported field type")

type ErrorKind string

const (
	KindMissingRequired ErrorKind = "missing_required"
	KindInvalidOption   ErrorKind = "invalid_option"
	KindInvalidValue    ErrorKind = "invalid_value"
	KindDuplicateName   ErrorKind = "duplicate_name"
	KindMissingOptions  ErrorKind = "missing_options"
	KindReservedName    ErrorKind = "reserved_name"
	KindUnsupportedType ErrorKind = "unsupported_type"
)

// FieldError describes one rejected input. Field is the json key of a fixed
// attribute, the name of a dynamic field, or a definition attribute.
type FieldError struct {
	Field   string    `json:"field"`
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

func MissingRequiredField(name string) *FieldError {
	return &FieldError{Field: name, Kind: KindMissingRequired, Message: "is required"}
}

// ValidationError aggregates every FieldError found in one pass.
type ValidationError struct {
	Errors []*FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		msgs[i] = fe.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Has reports whether an error of the given kind was recorded for field.
func (e *ValidationError) Has(kind ErrorKind, field string) bool {
	for _, fe := range e.Errors {
		if fe.Kind == kind && fe.Field == field {
			return true
		}
	}
	return false
}

func (e *ValidationError) add(fe *FieldError) {
	e.Errors = append(e.Errors, fe)
}

func (e *ValidationError) errOrNil() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// AsValidationError unwraps err into a *ValidationError.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
