package forms

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"
)

type ControlKind string

const (
	ControlInput    ControlKind = "input"
	ControlTextArea ControlKind = "textarea"
	ControlSelect   ControlKind = "select"
	ControlCheckbox ControlKind = "checkbox"
)

const dateLayout = "2006-01-02"

// Directive tells a client how to render one field.
//
// Required mirrors the definition; Blocking reports whether an empty value
// actually rejects a submission. They differ only for checkboxes, which are
// never treated as missing.
type Directive struct {
	Name      string      `json:"name"`
	Label     string      `json:"label"`
	Control   ControlKind `json:"control"`
	InputType string      `json:"input_type,omitempty"`
	Required  bool        `json:"required"`
	Blocking  bool        `json:"blocking"`
	Multiline bool        `json:"multiline"`
	Options   []string    `json:"options,omitempty"`
}

// checkFunc validates a present value and returns the value to store.
type checkFunc func(def Definition, v any, strict bool) (any, *FieldError)

type control struct {
	kind      ControlKind
	inputType string
	multiline bool
	// canBlock is false for controls whose absence means "false".
	canBlock bool
	check    checkFunc
}

var controls = map[FieldType]control{
	TypeText:     {kind: ControlInput, inputType: "text", canBlock: true, check: checkText},
	TypeEmail:    {kind: ControlInput, inputType: "email", canBlock: true, check: checkEmail},
	TypeNumber:   {kind: ControlInput, inputType: "number", canBlock: true, check: checkNumber},
	TypeDate:     {kind: ControlInput, inputType: "date", canBlock: true, check: checkDate},
	TypeTextArea: {kind: ControlTextArea, multiline: true, canBlock: true, check: checkText},
	TypeSelect:   {kind: ControlSelect, canBlock: true, check: checkSelect},
	TypeCheckbox: {kind: ControlCheckbox, canBlock: false, check: checkCheckbox},
}

// Interpret maps a definition to its rendering directive.
func Interpret(def Definition) (Directive, error) {
	c, ok := controls[def.Type]
	if !ok {
		return Directive{}, fmt.Errorf("%w: %q", ErrUnsupportedFieldType, def.Type)
	}
	d := Directive{
		Name:      def.Name,
		Label:     def.Label,
		Control:   c.kind,
		InputType: c.inputType,
		Required:  def.Required,
		Blocking:  def.Required && c.canBlock,
		Multiline: c.multiline,
	}
	if def.Type == TypeSelect {
		d.Options = slices.Clone(def.Options)
	}
	return d, nil
}

// InterpretAll interprets definitions in order, skipping inactive ones.
func InterpretAll(defs []Definition) ([]Directive, error) {
	out := make([]Directive, 0, len(defs))
	for _, def := range defs {
		if !def.Active {
			continue
		}
		d, err := Interpret(def)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func invalid(def Definition, msg string) *FieldError {
	return &FieldError{Field: def.Name, Kind: KindInvalidValue, Message: msg}
}

func asString(def Definition, v any) (string, *FieldError) {
	s, ok := v.(string)
	if !ok {
		return "", invalid(def, "must be a string")
	}
	return strings.TrimSpace(s), nil
}

func checkText(def Definition, v any, _ bool) (any, *FieldError) {
	s, fe := asString(def, v)
	if fe != nil {
		return nil, fe
	}
	return s, nil
}

func checkEmail(def Definition, v any, _ bool) (any, *FieldError) {
	s, fe := asString(def, v)
	if fe != nil {
		return nil, fe
	}
	if s != "" && validate.Var(s, "email") != nil {
		return nil, invalid(def, "must be a valid email address")
	}
	return s, nil
}

func checkNumber(def Definition, v any, _ bool) (any, *FieldError) {
	switch n := v.(type) {
	case float64, int, int64:
		return n, nil
	case json.Number:
		if _, err := n.Float64(); err != nil {
			return nil, invalid(def, "must be a number")
		}
		return n.String(), nil
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return s, nil
		}
		if !isDecimal(s) {
			return nil, invalid(def, "must be a number")
		}
		return s, nil
	}
	return nil, invalid(def, "must be a number")
}

// isDecimal accepts finite decimal numbers only; ParseFloat alone also takes
// NaN, Inf and hex floats.
func isDecimal(s string) bool {
	if strings.ContainsAny(s, "xX_") {
		return false
	}
	f, err := strconv.ParseFloat(s, 64)
	return err == nil && !math.IsNaN(f) && !math.IsInf(f, 0)
}

func checkDate(def Definition, v any, _ bool) (any, *FieldError) {
	s, fe := asString(def, v)
	if fe != nil {
		return nil, fe
	}
	if s != "" {
		if _, err := time.Parse(dateLayout, s); err != nil {
			return nil, invalid(def, "must be a date formatted as YYYY-MM-DD")
		}
	}
	return s, nil
}

func checkSelect(def Definition, v any, strict bool) (any, *FieldError) {
	s, fe := asString(def, v)
	if fe != nil {
		return nil, fe
	}
	if strict && s != "" && !slices.Contains(def.Options, s) {
		return nil, &FieldError{Field: def.Name, Kind: KindInvalidOption, Message: fmt.Sprintf("%q is not one of the options", s)}
	}
	return s, nil
}

func checkCheckbox(def Definition, v any, _ bool) (any, *FieldError) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		s := strings.TrimSpace(b)
		if s == "on" {
			return true, nil
		}
		parsed, err := strconv.ParseBool(s)
		if err != nil {
			return nil, invalid(def, "must be true or false")
		}
		return parsed, nil
	}
	return nil, invalid(def, "must be true or false")
}
