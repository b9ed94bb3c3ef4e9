package models

import (
	"github.com/gdg-garage/conference-registration-api/internal/forms"
	"gorm.io/datatypes"
)

// Registration is append-only: rows are created by the public form and never
// updated.
type Registration struct {
	Base
	ReferrerEmail    string            `gorm:"index;not null" json:"referrer_email"`
	AttendeeName     string            `gorm:"not null" json:"attendee_name"`
	AttendeeEmail    string            `gorm:"not null" json:"attendee_email"`
	AttendeePhone    string            `json:"attendee_phone"`
	Gender           string            `json:"gender"`
	AgeGroupMinistry string            `json:"age_group_ministry"`
	RegionID         *string           `gorm:"size:36;index" json:"region_id,omitempty"`
	Region           *Region           `json:"regions,omitempty"`
	MinistryID       string            `gorm:"size:36;index;not null" json:"ministry_id"`
	Ministry         *Ministry         `json:"ministries,omitempty"`
	ExtraData        datatypes.JSONMap `json:"extra_data"`
}

// NewRegistration builds an unsaved row from an assembled submission.
func NewRegistration(sub *forms.Submission) Registration {
	reg := Registration{
		ReferrerEmail:    sub.ReferrerEmail,
		AttendeeName:     sub.AttendeeName,
		AttendeeEmail:    sub.AttendeeEmail,
		AttendeePhone:    sub.AttendeePhone,
		Gender:           sub.Gender,
		AgeGroupMinistry: sub.AgeGroupMinistry,
		MinistryID:       sub.MinistryID,
		ExtraData:        datatypes.JSONMap(sub.Extra),
	}
	if sub.RegionID != "" {
		regionID := sub.RegionID
		reg.RegionID = &regionID
	}
	if reg.ExtraData == nil {
		reg.ExtraData = datatypes.JSONMap{}
	}
	return reg
}

// RegionName is the canonical region name, or the fallback name recorded in
// extra_data when the registration was filed without seeded regions.
func (r Registration) RegionName() string {
	if r.Region != nil {
		return r.Region.Name
	}
	if name, ok := r.ExtraData[forms.KeyRegionFallbackName].(string); ok {
		return name
	}
	return ""
}

func (r Registration) MinistryName() string {
	if r.Ministry != nil {
		return r.Ministry.Name
	}
	return ""
}
