// Package forms turns admin-configured field definitions into rendering
// directives and validated registration payloads.
package forms

import (
	"strings"
	"unicode"
)

type FieldType string

const (
	TypeText     FieldType = "text"
	TypeEmail    FieldType = "email"
	TypeNumber   FieldType = "number"
	TypeSelect   FieldType = "select"
	TypeCheckbox FieldType = "checkbox"
	TypeTextArea FieldType = "textarea"
	TypeDate     FieldType = "date"
)

// FieldTypes lists the recognized types in the order the admin console offers them.
var FieldTypes = []FieldType{TypeText, TypeEmail, TypeNumber, TypeSelect, TypeCheckbox, TypeTextArea, TypeDate}

// Definition is one dynamic form field.
type Definition struct {
	ID       string    `json:"id"`
	Label    string    `json:"label"`
	Name     string    `json:"name"`
	Type     FieldType `json:"type"`
	Required bool      `json:"required"`
	Options  []string  `json:"options"`
	Order    int       `json:"field_order"`
	Active   bool      `json:"is_active"`
}

// NormalizeName lowercases a key and replaces whitespace with underscores.
func NormalizeName(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '_'
		}
		return r
	}, strings.ToLower(strings.TrimSpace(name)))
}

// ParseOptions splits a comma separated options string, dropping blanks.
func ParseOptions(text string) []string {
	var opts []string
	for _, part := range strings.Split(text, ",") {
		if s := strings.TrimSpace(part); s != "" {
			opts = append(opts, s)
		}
	}
	return opts
}

// Normalize returns a copy with the label trimmed, the name normalized and
// options kept only for select fields.
func (d Definition) Normalize() Definition {
	d.Label = strings.TrimSpace(d.Label)
	d.Name = NormalizeName(d.Name)
	d.Type = FieldType(strings.ToLower(strings.TrimSpace(string(d.Type))))
	if d.Type != TypeSelect {
		d.Options = nil
		return d
	}
	opts := make([]string, 0, len(d.Options))
	for _, o := range d.Options {
		if s := strings.TrimSpace(o); s != "" {
			opts = append(opts, s)
		}
	}
	d.Options = opts
	return d
}

// ValidateDefinition checks a normalized definition before it is written.
// active holds the currently active definitions and is used for the
// unique-name rule; the definition itself may appear in it.
func ValidateDefinition(d Definition, active []Definition) error {
	ve := &ValidationError{}

	if d.Label == "" {
		ve.add(&FieldError{Field: "label", Kind: KindMissingRequired, Message: "is required"})
	}
	switch {
	case d.Name == "":
		ve.add(&FieldError{Field: "name", Kind: KindMissingRequired, Message: "is required"})
	case IsReservedName(d.Name):
		ve.add(&FieldError{Field: "name", Kind: KindReservedName, Message: "is reserved for " + d.Name})
	}

	if _, ok := controls[d.Type]; !ok {
		ve.add(&FieldError{Field: "type", Kind: KindUnsupportedType, Message: "unsupported field type " + string(d.Type)})
	} else if d.Type == TypeSelect && len(d.Options) == 0 {
		ve.add(&FieldError{Field: "options", Kind: KindMissingOptions, Message: "select fields need at least one option"})
	}

	if d.Active && d.Name != "" {
		for _, other := range active {
			if other.Active && other.Name == d.Name && other.ID != d.ID {
				ve.add(&FieldError{Field: "name", Kind: KindDuplicateName, Message: "is already used by " + other.Label})
				break
			}
		}
	}

	return ve.errOrNil()
}
