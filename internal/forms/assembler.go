package forms

import (
	"reflect"
	"slices"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Reserved extra keys written by the server rather than by field definitions.
const (
	KeyRegionFallbackName = "region_fallback_name"
	KeyTownCity           = "town_city"
	KeyAlternatePhone     = "alternate_phone"
)

var reservedKeys = []string{KeyRegionFallbackName, KeyTownCity, KeyAlternatePhone}

// IsReservedKey reports whether name is one of the side-channel keys.
func IsReservedKey(name string) bool {
	return slices.Contains(reservedKeys, name)
}

// fixedNames are the fixed attributes and derived report columns. A field
// definition using one would be shadowed in listings and exports.
var fixedNames = []string{
	"id",
	"created_at",
	"referrer_email",
	"attendee_name",
	"attendee_email",
	"attendee_phone",
	"gender",
	"age_group_ministry",
	"region",
	"region_id",
	"ministry",
	"ministry_id",
}

// IsReservedName reports whether name cannot be used for a field definition.
func IsReservedName(name string) bool {
	return IsReservedKey(name) || slices.Contains(fixedNames, name)
}

var (
	Genders   = []string{"Male", "Female", "Prefer not to say"}
	AgeGroups = []string{"Adult Ministry", "Children Ministry"}
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FixedAttributes are the registration columns every submission carries.
// RegionID is empty when the region came from the fallback list.
type FixedAttributes struct {
	ReferrerEmail    string `json:"referrer_email" validate:"required,email"`
	AttendeeName     string `json:"attendee_name" validate:"required"`
	AttendeeEmail    string `json:"attendee_email" validate:"required,email"`
	AttendeePhone    string `json:"attendee_phone" validate:"required"`
	Gender           string `json:"gender" validate:"required"`
	AgeGroupMinistry string `json:"age_group_ministry" validate:"required"`
	RegionID         string `json:"region_id"`
	MinistryID       string `json:"ministry_id" validate:"required"`
}

func (f FixedAttributes) trimmed() FixedAttributes {
	f.ReferrerEmail = strings.TrimSpace(f.ReferrerEmail)
	f.AttendeeName = strings.TrimSpace(f.AttendeeName)
	f.AttendeeEmail = strings.TrimSpace(f.AttendeeEmail)
	f.AttendeePhone = strings.TrimSpace(f.AttendeePhone)
	f.Gender = strings.TrimSpace(f.Gender)
	f.AgeGroupMinistry = strings.TrimSpace(f.AgeGroupMinistry)
	f.RegionID = strings.TrimSpace(f.RegionID)
	f.MinistryID = strings.TrimSpace(f.MinistryID)
	return f
}

// Extra is the open key/value bag stored with a registration.
type Extra map[string]any

// Keys returns the keys in sorted order.
func (e Extra) Keys() []string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Submission is a validated registration candidate. It has no id or
// timestamp; both are assigned when the record is persisted.
type Submission struct {
	FixedAttributes
	Extra Extra
}

type AssembleOptions struct {
	// StrictOptions rejects select values that are not among the options.
	StrictOptions bool
}

// Assemble validates fixed attributes and dynamic values against the active
// definitions and merges them with side-channel values into one submission.
//
// Dynamic values without an active definition are dropped. Side-channel values
// are written after schema values, so a definition whose name collides with a
// reserved key loses to the side channel.
func Assemble(fixed FixedAttributes, defs []Definition, dynamic map[string]any, side map[string]string, opts AssembleOptions) (*Submission, error) {
	ve := &ValidationError{}

	fixed = fixed.trimmed()
	validateFixed(fixed, ve)

	extra := Extra{}
	for _, def := range defs {
		if !def.Active {
			continue
		}
		c, ok := controls[def.Type]
		if !ok {
			ve.add(&FieldError{Field: def.Name, Kind: KindUnsupportedType, Message: "unsupported field type " + string(def.Type)})
			continue
		}

		v, present := dynamic[def.Name]
		if !present || isBlank(v) {
			if def.Required && c.canBlock {
				ve.add(MissingRequiredField(def.Name))
			}
			continue
		}

		stored, fe := c.check(def, v, opts.StrictOptions)
		if fe != nil {
			ve.add(fe)
			continue
		}
		extra[def.Name] = stored
	}

	for key, value := range side {
		if !IsReservedKey(key) {
			ve.add(&FieldError{Field: key, Kind: KindInvalidValue, Message: "is not a reserved side-channel key"})
			continue
		}
		if s := strings.TrimSpace(value); s != "" {
			extra[key] = s
		}
	}

	if err := ve.errOrNil(); err != nil {
		return nil, err
	}
	return &Submission{FixedAttributes: fixed, Extra: extra}, nil
}

func validateFixed(fixed FixedAttributes, ve *ValidationError) {
	if err := validate.Struct(fixed); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range errs {
				ve.add(fixedFieldError(fe))
			}
		} else {
			ve.add(&FieldError{Field: "body", Kind: KindInvalidValue, Message: err.Error()})
		}
	}

	if fixed.Gender != "" && !slices.Contains(Genders, fixed.Gender) {
		ve.add(&FieldError{Field: "gender", Kind: KindInvalidOption, Message: "must be one of " + strings.Join(Genders, ", ")})
	}
	if fixed.AgeGroupMinistry != "" && !slices.Contains(AgeGroups, fixed.AgeGroupMinistry) {
		ve.add(&FieldError{Field: "age_group_ministry", Kind: KindInvalidOption, Message: "must be one of " + strings.Join(AgeGroups, ", ")})
	}
}

func fixedFieldError(fe validator.FieldError) *FieldError {
	switch fe.Tag() {
	case "required":
		return MissingRequiredField(fe.Field())
	case "email":
		return &FieldError{Field: fe.Field(), Kind: KindInvalidValue, Message: "must be a valid email address"}
	default:
		return &FieldError{Field: fe.Field(), Kind: KindInvalidValue, Message: "failed " + fe.Tag() + " check"}
	}
}

func isBlank(v any) bool {
	switch s := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(s) == ""
	}
	return false
}
