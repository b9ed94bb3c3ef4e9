package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gdg-garage/conference-registration-api/internal/forms"
	"github.com/gdg-garage/conference-registration-api/internal/models"
	"github.com/gdg-garage/conference-registration-api/internal/reference"
)

func validRegisterInput(ministryID string) *RegisterInput {
	input := &RegisterInput{}
	input.Body.ReferrerEmail = "Ama@Example.com"
	input.Body.AttendeeName = "Kofi Mensah"
	input.Body.AttendeeEmail = "kofi@example.com"
	input.Body.AttendeePhone = "0244000000"
	input.Body.Gender = "Male"
	input.Body.AgeGroupMinistry = "Adult Ministry"
	input.Body.MinistryID = ministryID
	return input
}

func TestHandleForm(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp, err := env.h.Registration.HandleForm(ctx, &struct{}{})
	if err != nil {
		t.Fatalf("HandleForm returned error: %v", err)
	}
	if resp.Body.Blocked == "" {
		t.Error("expected the form to be blocked without ministries")
	}
	if len(resp.Body.Regions) != 2 || resp.Body.Regions[0].Kind != reference.KindFallback {
		t.Errorf("expected fallback regions, got %+v", resp.Body.Regions)
	}

	if _, err := env.store.CreateMinistry(ctx, "Choir"); err != nil {
		t.Fatalf("failed to create ministry: %v", err)
	}
	if _, err := env.store.SeedRegions(ctx, []string{"Ashanti Region"}); err != nil {
		t.Fatalf("failed to seed regions: %v", err)
	}
	if _, err := env.store.CreateField(ctx, forms.Definition{Label: "Shirt Size", Name: "shirt_size", Type: forms.TypeSelect, Options: []string{"S", "M"}, Required: true, Active: true}); err != nil {
		t.Fatalf("failed to create field: %v", err)
	}

	resp, err = env.h.Registration.HandleForm(ctx, &struct{}{})
	if err != nil {
		t.Fatalf("HandleForm returned error: %v", err)
	}
	if resp.Body.Blocked != "" {
		t.Errorf("expected the form to be open, got %q", resp.Body.Blocked)
	}
	if len(resp.Body.Regions) != 1 || resp.Body.Regions[0].Kind != reference.KindCanonical {
		t.Errorf("expected canonical regions, got %+v", resp.Body.Regions)
	}
	if len(resp.Body.Fields) != 1 || resp.Body.Fields[0].Control != forms.ControlSelect || !resp.Body.Fields[0].Blocking {
		t.Errorf("unexpected directives: %+v", resp.Body.Fields)
	}
	if len(resp.Body.Ministries) != 1 || len(resp.Body.Genders) == 0 || len(resp.Body.AgeGroups) == 0 {
		t.Errorf("unexpected choices: %+v", resp.Body)
	}
}

func TestHandleRegister_BlockedWithoutMinistries(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.h.Registration.HandleRegister(context.Background(), validRegisterInput("anything"))
	if statusOf(err) != http.StatusConflict {
		t.Fatalf("expected 409, got %v", err)
	}
}

func TestHandleRegister_MissingRegion(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	choir, _ := env.store.CreateMinistry(ctx, "Choir")

	_, err := env.h.Registration.HandleRegister(ctx, validRegisterInput(choir.ID))
	if statusOf(err) != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %v", err)
	}
	if !contains(errorLocations(err), "body.region_id") {
		t.Errorf("expected region error, got %v", errorLocations(err))
	}

	var count int64
	env.db.Model(&models.Registration{}).Count(&count)
	if count != 0 {
		t.Errorf("expected nothing persisted, got %d rows", count)
	}
}

func TestHandleRegister_FallbackRegion(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	choir, _ := env.store.CreateMinistry(ctx, "Choir")

	input := validRegisterInput(choir.ID)
	input.Body.RegionID = "Northern Region"
	input.Body.TownCity = " Tamale "

	resp, err := env.h.Registration.HandleRegister(ctx, input)
	if err != nil {
		t.Fatalf("HandleRegister returned error: %v", err)
	}
	if resp.Body.ID == "" || resp.Body.ReferrerEmail != "Ama@Example.com" {
		t.Errorf("unexpected response: %+v", resp.Body)
	}

	var stored models.Registration
	if err := env.db.First(&stored, "id = ?", resp.Body.ID).Error; err != nil {
		t.Fatalf("failed to find registration: %v", err)
	}
	if stored.RegionID != nil {
		t.Errorf("expected no region id, got %v", *stored.RegionID)
	}
	if stored.ExtraData[forms.KeyRegionFallbackName] != "Northern Region" {
		t.Errorf("expected fallback region in extra data, got %v", stored.ExtraData)
	}
	if stored.ExtraData[forms.KeyTownCity] != "Tamale" {
		t.Errorf("expected town in extra data, got %v", stored.ExtraData)
	}
	if _, ok := stored.ExtraData[forms.KeyAlternatePhone]; ok {
		t.Error("expected blank alternate phone to be omitted")
	}

	if len(env.notifier.sent) != 1 || env.notifier.sent[0].MinistryName() != "Choir" {
		t.Errorf("expected one notification naming the ministry, got %+v", env.notifier.sent)
	}
}

func TestHandleRegister_CanonicalRegionAndFields(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	choir, _ := env.store.CreateMinistry(ctx, "Choir")
	env.store.SeedRegions(ctx, []string{"Ashanti Region"})
	regions, _ := env.store.ActiveRegions(ctx)
	env.store.CreateField(ctx, forms.Definition{Label: "Shirt Size", Name: "shirt_size", Type: forms.TypeSelect, Options: []string{"S", "M"}, Required: true, Active: true})

	input := validRegisterInput(choir.ID)
	input.Body.RegionID = regions[0].ID
	input.Body.ExtraData = map[string]any{"shirt_size": "M", "not_a_field": "x"}

	resp, err := env.h.Registration.HandleRegister(ctx, input)
	if err != nil {
		t.Fatalf("HandleRegister returned error: %v", err)
	}

	var stored models.Registration
	env.db.Preload("Region").First(&stored, "id = ?", resp.Body.ID)
	if stored.RegionID == nil || *stored.RegionID != regions[0].ID || stored.RegionName() != "Ashanti Region" {
		t.Errorf("expected canonical region, got %+v", stored)
	}
	if stored.ExtraData["shirt_size"] != "M" {
		t.Errorf("expected shirt size, got %v", stored.ExtraData)
	}
	if _, ok := stored.ExtraData["not_a_field"]; ok {
		t.Error("expected unknown keys to be dropped")
	}
}

func TestHandleRegister_ValidationErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	choir, _ := env.store.CreateMinistry(ctx, "Choir")
	env.store.SeedRegions(ctx, []string{"Ashanti Region"})
	env.store.CreateField(ctx, forms.Definition{Label: "Shirt Size", Name: "shirt_size", Type: forms.TypeSelect, Options: []string{"S", "M"}, Required: true, Active: true})

	input := validRegisterInput(choir.ID)
	input.Body.AttendeeEmail = "not-an-email"
	input.Body.RegionID = "Northern Region"

	_, err := env.h.Registration.HandleRegister(ctx, input)
	if statusOf(err) != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %v", err)
	}
	locs := errorLocations(err)
	for _, want := range []string{"body.attendee_email", "body.region_id", "body.shirt_size"} {
		if !contains(locs, want) {
			t.Errorf("expected error at %s, got %v", want, locs)
		}
	}

	input = validRegisterInput("unknown-ministry")
	input.Body.ExtraData = map[string]any{"shirt_size": "S"}
	_, err = env.h.Registration.HandleRegister(ctx, input)
	if !contains(errorLocations(err), "body.ministry_id") {
		t.Errorf("expected ministry error, got %v", err)
	}

	var count int64
	env.db.Model(&models.Registration{}).Count(&count)
	if count != 0 {
		t.Errorf("expected nothing persisted, got %d rows", count)
	}
	if len(env.notifier.sent) != 0 {
		t.Errorf("expected no notifications, got %d", len(env.notifier.sent))
	}
}

func TestHandleReferrals(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	choir, _ := env.store.CreateMinistry(ctx, "Choir")

	for _, referrer := range []string{"Ama@Example.com", "ama@example.com", "kojo@example.com"} {
		input := validRegisterInput(choir.ID)
		input.Body.ReferrerEmail = referrer
		input.Body.RegionID = "Central Region"
		if _, err := env.h.Registration.HandleRegister(ctx, input); err != nil {
			t.Fatalf("HandleRegister returned error: %v", err)
		}
	}

	resp, err := env.h.Registration.HandleReferrals(ctx, &ReferralsInput{Email: " AMA@example.com "})
	if err != nil {
		t.Fatalf("HandleReferrals returned error: %v", err)
	}
	if resp.Body.Count != 2 || len(resp.Body.Registrations) != 2 {
		t.Fatalf("expected 2 referrals, got %+v", resp.Body)
	}
	r := resp.Body.Registrations[0]
	if r.Region != "Central Region" || r.Ministry != "Choir" || r.AttendeeName != "Kofi Mensah" {
		t.Errorf("unexpected referral row: %+v", r)
	}

	if _, err := env.h.Registration.HandleReferrals(ctx, &ReferralsInput{}); statusOf(err) != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 for missing email, got %v", err)
	}
}
