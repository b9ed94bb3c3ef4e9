// Package report projects registrations into flat rows for the admin console:
// filtering, sorting and CSV export.
package report

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gdg-garage/conference-registration-api/internal/models"
)

// Row is one registration as the admin table shows it.
type Row struct {
	ID               string         `json:"id"`
	CreatedAt        time.Time      `json:"created_at"`
	ReferrerEmail    string         `json:"referrer_email"`
	AttendeeName     string         `json:"attendee_name"`
	AttendeeEmail    string         `json:"attendee_email"`
	AttendeePhone    string         `json:"attendee_phone"`
	Gender           string         `json:"gender"`
	AgeGroupMinistry string         `json:"age_group_ministry"`
	RegionID         string         `json:"region_id,omitempty"`
	Region           string         `json:"region"`
	MinistryID       string         `json:"ministry_id"`
	Ministry         string         `json:"ministry"`
	Extra            map[string]any `json:"extra_data"`
}

func NewRow(reg models.Registration) Row {
	row := Row{
		ID:               reg.ID,
		CreatedAt:        reg.CreatedAt,
		ReferrerEmail:    reg.ReferrerEmail,
		AttendeeName:     reg.AttendeeName,
		AttendeeEmail:    reg.AttendeeEmail,
		AttendeePhone:    reg.AttendeePhone,
		Gender:           reg.Gender,
		AgeGroupMinistry: reg.AgeGroupMinistry,
		Region:           reg.RegionName(),
		MinistryID:       reg.MinistryID,
		Ministry:         reg.MinistryName(),
		Extra:            map[string]any(reg.ExtraData),
	}
	if reg.RegionID != nil {
		row.RegionID = *reg.RegionID
	}
	if row.Extra == nil {
		row.Extra = map[string]any{}
	}
	return row
}

func NewRows(regs []models.Registration) []Row {
	rows := make([]Row, len(regs))
	for i, reg := range regs {
		rows[i] = NewRow(reg)
	}
	return rows
}

// Columns are the fixed export and sort columns, in display order.
var Columns = []string{
	"created_at",
	"referrer_email",
	"attendee_name",
	"attendee_email",
	"attendee_phone",
	"gender",
	"age_group_ministry",
	"region",
	"ministry",
}

// Value returns the display text of a fixed column or an extra key, and
// whether it is present at all.
func (r Row) Value(column string) (string, bool) {
	switch column {
	case "created_at":
		if r.CreatedAt.IsZero() {
			return "", false
		}
		return r.CreatedAt.UTC().Format(time.RFC3339), true
	case "referrer_email":
		return r.ReferrerEmail, r.ReferrerEmail != ""
	case "attendee_name":
		return r.AttendeeName, r.AttendeeName != ""
	case "attendee_email":
		return r.AttendeeEmail, r.AttendeeEmail != ""
	case "attendee_phone":
		return r.AttendeePhone, r.AttendeePhone != ""
	case "gender":
		return r.Gender, r.Gender != ""
	case "age_group_ministry":
		return r.AgeGroupMinistry, r.AgeGroupMinistry != ""
	case "region":
		return r.Region, r.Region != ""
	case "ministry":
		return r.Ministry, r.Ministry != ""
	}
	v, ok := r.Extra[column]
	if !ok || v == nil {
		return "", false
	}
	s := formatExtra(v)
	return s, s != ""
}

func formatExtra(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		if x {
			return "true"
		}
		return "false"
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}
