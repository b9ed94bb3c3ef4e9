// Package reference resolves region and ministry selections against the
// reference data that exists at submission time.
package reference

import (
	"slices"
	"strings"

	"github.com/gdg-garage/conference-registration-api/internal/forms"
	"github.com/gdg-garage/conference-registration-api/internal/models"
	"github.com/google/uuid"
)

type OptionKind string

const (
	KindCanonical OptionKind = "canonical"
	KindFallback  OptionKind = "fallback"
)

// RegionOption is one entry of the region picker. Value is the region id for
// canonical options and the display name for fallback options.
type RegionOption struct {
	Value string     `json:"value"`
	Name  string     `json:"name"`
	Kind  OptionKind `json:"kind"`
}

// RegionOptions lists the active canonical regions, or the static fallback
// names when none are seeded.
func RegionOptions(canonical []models.Region, fallback []string) []RegionOption {
	if len(canonical) > 0 {
		opts := make([]RegionOption, len(canonical))
		for i, r := range canonical {
			opts[i] = RegionOption{Value: r.ID, Name: r.Name, Kind: KindCanonical}
		}
		return opts
	}
	opts := make([]RegionOption, len(fallback))
	for i, name := range fallback {
		opts[i] = RegionOption{Value: name, Name: name, Kind: KindFallback}
	}
	return opts
}

// RegionChoice is a resolved region: either a canonical region id or a
// fallback display name, never both.
type RegionChoice struct {
	kind  OptionKind
	value string
}

func Canonical(id string) RegionChoice {
	return RegionChoice{kind: KindCanonical, value: id}
}

func Fallback(name string) RegionChoice {
	return RegionChoice{kind: KindFallback, value: name}
}

func (c RegionChoice) Kind() OptionKind { return c.kind }

// ID returns the region id, or "" for a fallback choice.
func (c RegionChoice) ID() string {
	if c.kind == KindCanonical {
		return c.value
	}
	return ""
}

// FallbackName returns the display name, or "" for a canonical choice.
func (c RegionChoice) FallbackName() string {
	if c.kind == KindFallback {
		return c.value
	}
	return ""
}

// Apply routes the choice into the fixed attributes or the side channel.
func (c RegionChoice) Apply(fixed *forms.FixedAttributes, side map[string]string) {
	switch c.kind {
	case KindCanonical:
		fixed.RegionID = c.value
		delete(side, forms.KeyRegionFallbackName)
	case KindFallback:
		fixed.RegionID = ""
		side[forms.KeyRegionFallbackName] = c.value
	}
}

func regionError(msg string) error {
	return &forms.ValidationError{Errors: []*forms.FieldError{{
		Field: "region_id", Kind: forms.KindInvalidOption, Message: msg,
	}}}
}

// ResolveRegion validates selection against whichever list RegionOptions
// would have offered. A region is required.
func ResolveRegion(selection string, canonical []models.Region, fallback []string) (*RegionChoice, error) {
	selection = strings.TrimSpace(selection)
	if selection == "" {
		return nil, &forms.ValidationError{Errors: []*forms.FieldError{forms.MissingRequiredField("region_id")}}
	}
	if len(canonical) > 0 {
		for _, r := range canonical {
			if r.ID == selection {
				choice := Canonical(r.ID)
				return &choice, nil
			}
		}
		return nil, regionError("is not an active region")
	}
	if slices.Contains(fallback, selection) {
		choice := Fallback(selection)
		return &choice, nil
	}
	return nil, regionError("is not a known region")
}

// LooksCanonical reports whether s has the shape of a stored region id. Only
// used to interpret payloads that predate the discriminated choice.
func LooksCanonical(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
