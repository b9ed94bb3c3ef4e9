package forms

import (
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var nameGen = rapid.StringMatching(`[a-z][a-z0-9_]{0,11}`)

// definitionsGen draws active definitions with distinct names.
func definitionsGen() *rapid.Generator[[]Definition] {
	return rapid.Custom(func(t *rapid.T) []Definition {
		names := rapid.SliceOfNDistinct(nameGen, 0, 8, rapid.ID[string]).Draw(t, "names")
		defs := make([]Definition, 0, len(names))
		for i, name := range names {
			if IsReservedName(name) {
				continue
			}
			typ := rapid.SampledFrom(FieldTypes).Draw(t, fmt.Sprintf("type_%d", i))
			d := Definition{
				ID:       fmt.Sprintf("id-%d", i),
				Name:     name,
				Type:     typ,
				Required: rapid.Bool().Draw(t, fmt.Sprintf("required_%d", i)),
				Active:   true,
				Order:    i,
			}
			if typ == TypeSelect {
				d.Options = []string{"alpha", "beta", "gamma"}
			}
			defs = append(defs, d)
		}
		return defs
	})
}

// validValue returns a non-blank value the definition accepts.
func validValue(d Definition) any {
	switch d.Type {
	case TypeEmail:
		return d.Name + "@example.com"
	case TypeNumber:
		return "42"
	case TypeDate:
		return "2026-10-17"
	case TypeSelect:
		return d.Options[0]
	case TypeCheckbox:
		return true
	}
	return "value for " + d.Name
}

func TestProperty_InterpretOneControlPerType(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		typ := FieldType(rapid.OneOf(
			rapid.SampledFrom(FieldTypes),
			rapid.Map(rapid.StringMatching(`[a-z]{1,10}`), func(s string) FieldType { return FieldType(s) }),
		).Draw(t, "type"))
		def := Definition{Name: "f", Type: typ, Options: []string{"x"}}

		first, err1 := Interpret(def)
		second, err2 := Interpret(def)

		if slices.Contains(FieldTypes, typ) {
			require.NoError(t, err1)
			require.NoError(t, err2)
			require.Equal(t, first.Control, second.Control)
			require.NotEmpty(t, first.Control)
		} else {
			require.ErrorIs(t, err1, ErrUnsupportedFieldType)
			require.ErrorIs(t, err2, ErrUnsupportedFieldType)
		}
	})
}

func TestProperty_RequiredNonCheckboxBlocks(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		defs := definitionsGen().Draw(t, "defs")
		forced := Definition{
			ID:       "forced",
			Name:     "must-fill",
			Type:     rapid.SampledFrom([]FieldType{TypeText, TypeEmail, TypeNumber, TypeDate, TypeTextArea}).Draw(t, "forced_type"),
			Required: true,
			Active:   true,
		}
		defs = append(defs, forced)

		var blocking []Definition
		for _, d := range defs {
			if d.Required && d.Type != TypeCheckbox {
				blocking = append(blocking, d)
			}
		}
		omitted := rapid.SampledFrom(blocking).Draw(t, "omitted")

		dynamic := map[string]any{}
		for _, d := range defs {
			if d.Name != omitted.Name {
				dynamic[d.Name] = validValue(d)
			}
		}

		sub, err := Assemble(validFixed(), defs, dynamic, nil, AssembleOptions{StrictOptions: true})
		require.Nil(t, sub)
		var ve *ValidationError
		require.True(t, errors.As(err, &ve))
		require.True(t, ve.Has(KindMissingRequired, omitted.Name))
	})
}

func TestProperty_CheckboxNeverBlocks(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		defs := definitionsGen().Draw(t, "defs")
		dynamic := map[string]any{}
		for _, d := range defs {
			if d.Type != TypeCheckbox {
				dynamic[d.Name] = validValue(d)
			}
		}

		sub, err := Assemble(validFixed(), defs, dynamic, nil, AssembleOptions{StrictOptions: true})
		require.NoError(t, err)
		for _, d := range defs {
			if d.Type == TypeCheckbox {
				require.NotContains(t, sub.Extra, d.Name)
			}
		}
	})
}

func TestProperty_ExtraRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		defs := definitionsGen().Draw(t, "defs")

		dynamic := map[string]any{}
		want := map[string]bool{}
		for i, d := range defs {
			include := d.Required && d.Type != TypeCheckbox
			if !include {
				include = rapid.Bool().Draw(t, fmt.Sprintf("include_%d", i))
			}
			if include {
				dynamic[d.Name] = validValue(d)
				want[d.Name] = true
			}
		}
		// Keys without an active definition never reach extra.
		dynamic["zz_not_a_field"] = "ignored"

		side := map[string]string{}
		if rapid.Bool().Draw(t, "town") {
			side[KeyTownCity] = "Kumasi"
			want[KeyTownCity] = true
		}
		if rapid.Bool().Draw(t, "fallback") {
			side[KeyRegionFallbackName] = "Northern Region"
			want[KeyRegionFallbackName] = true
		}

		sub, err := Assemble(validFixed(), defs, dynamic, side, AssembleOptions{StrictOptions: true})
		require.NoError(t, err)

		got := map[string]bool{}
		for _, k := range sub.Extra.Keys() {
			got[k] = true
		}
		require.Equal(t, want, got)
	})
}
