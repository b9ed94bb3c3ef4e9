package reference

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/gdg-garage/conference-registration-api/internal/forms"
	"github.com/gdg-garage/conference-registration-api/internal/models"
)

// ErrNoMinistries blocks submission until an admin adds at least one ministry.
var ErrNoMinistries = errors.New("no ministries available; registration is closed until an administrator adds one")

// ResolveMinistry checks that selection is one of the active ministries.
func ResolveMinistry(selection string, active []models.Ministry) (*models.Ministry, error) {
	if len(active) == 0 {
		return nil, ErrNoMinistries
	}
	selection = strings.TrimSpace(selection)
	if selection == "" {
		return nil, &forms.ValidationError{Errors: []*forms.FieldError{forms.MissingRequiredField("ministry_id")}}
	}
	for i := range active {
		if active[i].ID == selection {
			return &active[i], nil
		}
	}
	return nil, &forms.ValidationError{Errors: []*forms.FieldError{{
		Field: "ministry_id", Kind: forms.KindInvalidOption, Message: "is not an active ministry",
	}}}
}

// SplitMinistryNames reads one name per line. Names are trimmed; blanks and
// exact duplicates are dropped while the first occurrence keeps its position.
func SplitMinistryNames(text string) []string {
	return dedupeNames(strings.Split(text, "\n"))
}

// ParseMinistryNames reads CSV input and takes the first column of each
// record, with the same trimming and deduplication as SplitMinistryNames.
// Malformed quoting is an error.
func ParseMinistryNames(text string) ([]string, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var first []string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(record) > 0 {
			first = append(first, record[0])
		}
	}
	return dedupeNames(first), nil
}

func dedupeNames(raw []string) []string {
	names := []string{}
	seen := map[string]bool{}
	for _, name := range raw {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}
