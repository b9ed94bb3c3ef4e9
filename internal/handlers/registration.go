package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/conference-registration-api/internal/config"
	"github.com/gdg-garage/conference-registration-api/internal/forms"
	"github.com/gdg-garage/conference-registration-api/internal/logger"
	"github.com/gdg-garage/conference-registration-api/internal/models"
	"github.com/gdg-garage/conference-registration-api/internal/notifier"
	"github.com/gdg-garage/conference-registration-api/internal/reference"
	"github.com/gdg-garage/conference-registration-api/internal/store"
	"go.uber.org/zap"
)

// Catalog serves the active reference data the public form is built from.
type Catalog interface {
	ActiveFields(ctx context.Context) ([]forms.Definition, error)
	ActiveRegions(ctx context.Context) ([]models.Region, error)
	ActiveMinistries(ctx context.Context) ([]models.Ministry, error)
}

// RegistrationHandler serves the public form: its schema, submissions and
// referral lookups.
type RegistrationHandler struct {
	catalog  Catalog
	store    store.RegistrationStore
	notifier notifier.Notifier
	cfg      *config.Config
	log      *logger.Logger
}

func NewRegistrationHandler(catalog Catalog, s store.RegistrationStore, n notifier.Notifier, cfg *config.Config, log *logger.Logger) *RegistrationHandler {
	if n == nil {
		n = notifier.Nop{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &RegistrationHandler{catalog: catalog, store: s, notifier: n, cfg: cfg, log: log}
}

func (h *RegistrationHandler) fallbackRegions() []string {
	if len(h.cfg.FallbackRegions) > 0 {
		return h.cfg.FallbackRegions
	}
	return config.DefaultFallbackRegions
}

type MinistryOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type FormOutput struct {
	Body struct {
		Fields     []forms.Directive        `json:"fields"`
		Regions    []reference.RegionOption `json:"regions"`
		Ministries []MinistryOption         `json:"ministries"`
		Genders    []string                 `json:"genders"`
		AgeGroups  []string                 `json:"age_groups"`
		Blocked    string                   `json:"blocked,omitempty" doc:"Set when the form cannot be submitted"`
	}
}

func (h *RegistrationHandler) HandleForm(ctx context.Context, input *struct{}) (*FormOutput, error) {
	defs, err := h.catalog.ActiveFields(ctx)
	if err != nil {
		return nil, apiError(ctx, h.log, err)
	}
	regions, err := h.catalog.ActiveRegions(ctx)
	if err != nil {
		return nil, apiError(ctx, h.log, err)
	}
	ministries, err := h.catalog.ActiveMinistries(ctx)
	if err != nil {
		return nil, apiError(ctx, h.log, err)
	}

	directives, err := forms.InterpretAll(defs)
	if err != nil {
		return nil, apiError(ctx, h.log, err)
	}

	resp := &FormOutput{}
	resp.Body.Fields = directives
	resp.Body.Regions = reference.RegionOptions(regions, h.fallbackRegions())
	resp.Body.Ministries = make([]MinistryOption, len(ministries))
	for i, m := range ministries {
		resp.Body.Ministries[i] = MinistryOption{ID: m.ID, Name: m.Name}
	}
	resp.Body.Genders = forms.Genders
	resp.Body.AgeGroups = forms.AgeGroups
	if len(ministries) == 0 {
		resp.Body.Blocked = reference.ErrNoMinistries.Error()
	}
	return resp, nil
}

type RegisterInput struct {
	Body struct {
		ReferrerEmail    string         `json:"referrer_email,omitempty"`
		AttendeeName     string         `json:"attendee_name,omitempty"`
		AttendeeEmail    string         `json:"attendee_email,omitempty"`
		AttendeePhone    string         `json:"attendee_phone,omitempty"`
		AlternatePhone   string         `json:"alternate_phone,omitempty"`
		Gender           string         `json:"gender,omitempty"`
		AgeGroupMinistry string         `json:"age_group_ministry,omitempty"`
		RegionID         string         `json:"region_id,omitempty" doc:"Region option value from GET /form"`
		TownCity         string         `json:"town_city,omitempty"`
		MinistryID       string         `json:"ministry_id,omitempty"`
		ExtraData        map[string]any `json:"extra_data,omitempty" doc:"Values keyed by active field name"`
	}
}

type RegisterOutput struct {
	Body struct {
		ID            string    `json:"id"`
		ReferrerEmail string    `json:"referrer_email" doc:"Kept by clients to register another person"`
		CreatedAt     time.Time `json:"created_at"`
	}
}

func (h *RegistrationHandler) HandleRegister(ctx context.Context, input *RegisterInput) (*RegisterOutput, error) {
	reg, err := h.register(ctx, input)
	if err != nil {
		return nil, apiError(ctx, h.log, err)
	}

	if err := h.notifier.NotifyRegistration(*reg); err != nil {
		h.log.WithContext(ctx).Warn("registration notification failed", zap.String("registration_id", reg.ID), zap.Error(err))
	}

	resp := &RegisterOutput{}
	resp.Body.ID = reg.ID
	resp.Body.ReferrerEmail = reg.ReferrerEmail
	resp.Body.CreatedAt = reg.CreatedAt
	return resp, nil
}

func (h *RegistrationHandler) register(ctx context.Context, input *RegisterInput) (*models.Registration, error) {
	ministries, err := h.catalog.ActiveMinistries(ctx)
	if err != nil {
		return nil, err
	}
	if len(ministries) == 0 {
		return nil, reference.ErrNoMinistries
	}
	regions, err := h.catalog.ActiveRegions(ctx)
	if err != nil {
		return nil, err
	}
	defs, err := h.catalog.ActiveFields(ctx)
	if err != nil {
		return nil, err
	}

	body := input.Body
	fixed := forms.FixedAttributes{
		ReferrerEmail:    body.ReferrerEmail,
		AttendeeName:     body.AttendeeName,
		AttendeeEmail:    body.AttendeeEmail,
		AttendeePhone:    body.AttendeePhone,
		Gender:           body.Gender,
		AgeGroupMinistry: body.AgeGroupMinistry,
		MinistryID:       body.MinistryID,
	}
	side := map[string]string{
		forms.KeyTownCity:       body.TownCity,
		forms.KeyAlternatePhone: body.AlternatePhone,
	}

	region, regionErr := reference.ResolveRegion(body.RegionID, regions, h.fallbackRegions())
	if region != nil {
		region.Apply(&fixed, side)
	}
	ministry, ministryErr := reference.ResolveMinistry(body.MinistryID, ministries)
	if ministryErr != nil && strings.TrimSpace(body.MinistryID) == "" {
		// The assembler reports the missing fixed attribute.
		ministryErr = nil
	}

	sub, assembleErr := forms.Assemble(fixed, defs, body.ExtraData, side, forms.AssembleOptions{StrictOptions: h.cfg.FormStrictOptions})
	if err := mergeValidation(regionErr, ministryErr, assembleErr); err != nil {
		return nil, err
	}

	reg := models.NewRegistration(sub)
	if err := h.store.CreateRegistration(ctx, &reg); err != nil {
		return nil, err
	}
	reg.Ministry = ministry
	if region != nil && region.ID() != "" {
		for i := range regions {
			if regions[i].ID == region.ID() {
				reg.Region = &regions[i]
			}
		}
	}
	h.log.WithContext(ctx).Info("registration created",
		zap.String("registration_id", reg.ID),
		zap.String("referrer_email", reg.ReferrerEmail))
	return &reg, nil
}

type ReferralsInput struct {
	Email string `query:"email" doc:"Referrer email, matched case-insensitively"`
}

type Referral struct {
	AttendeeName     string    `json:"attendee_name"`
	Gender           string    `json:"gender"`
	AgeGroupMinistry string    `json:"age_group_ministry"`
	Region           string    `json:"region"`
	Ministry         string    `json:"ministry"`
	CreatedAt        time.Time `json:"created_at"`
}

type ReferralsOutput struct {
	Body struct {
		Count         int64      `json:"count"`
		Registrations []Referral `json:"registrations"`
	}
}

func (h *RegistrationHandler) HandleReferrals(ctx context.Context, input *ReferralsInput) (*ReferralsOutput, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" {
		return nil, huma.Error422UnprocessableEntity("validation failed", &huma.ErrorDetail{
			Message: "is required", Location: "query.email",
		})
	}

	count, err := h.store.CountByReferrer(ctx, email)
	if err != nil {
		return nil, apiError(ctx, h.log, err)
	}
	regs, err := h.store.ListByReferrer(ctx, email)
	if err != nil {
		return nil, apiError(ctx, h.log, err)
	}

	resp := &ReferralsOutput{}
	resp.Body.Count = count
	resp.Body.Registrations = make([]Referral, len(regs))
	for i, reg := range regs {
		resp.Body.Registrations[i] = Referral{
			AttendeeName:     reg.AttendeeName,
			Gender:           reg.Gender,
			AgeGroupMinistry: reg.AgeGroupMinistry,
			Region:           reg.RegionName(),
			Ministry:         reg.MinistryName(),
			CreatedAt:        reg.CreatedAt,
		}
	}
	return resp, nil
}
