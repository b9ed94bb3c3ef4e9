package handlers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/conference-registration-api/internal/auth"
	"github.com/gdg-garage/conference-registration-api/internal/config"
	"github.com/gdg-garage/conference-registration-api/internal/database"
	"github.com/gdg-garage/conference-registration-api/internal/forms"
	"github.com/gdg-garage/conference-registration-api/internal/models"
	"github.com/gdg-garage/conference-registration-api/internal/store"
	"gorm.io/gorm"
)

type recordingNotifier struct {
	sent []models.Registration
}

func (n *recordingNotifier) NotifyRegistration(reg models.Registration) error {
	n.sent = append(n.sent, reg)
	return nil
}

type testEnv struct {
	db       *gorm.DB
	store    *store.Store
	cfg      *config.Config
	notifier *recordingNotifier
	h        Handlers
	cookie   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.OpenMemory()
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	cfg := &config.Config{
		JWTSecret:         "test-secret",
		FallbackRegions:   []string{"Central Region", "Northern Region"},
		FormStrictOptions: true,
	}
	s := store.New(db)
	catalog := store.NewCatalog(s, time.Minute)
	n := &recordingNotifier{}
	authHandler := auth.NewAuthHandler(cfg, db, nil)

	admin, err := auth.CreateAdmin(context.Background(), db, "admin@example.com", "s3cret")
	if err != nil {
		t.Fatalf("failed to create admin: %v", err)
	}
	token, err := authHandler.GenerateToken(admin.ID)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	return &testEnv{
		db:       db,
		store:    s,
		cfg:      cfg,
		notifier: n,
		h: Handlers{
			Auth:         authHandler,
			Registration: NewRegistrationHandler(catalog, s, n, cfg, nil),
			Admin:        NewAdminHandler(s, authHandler, nil),
			APIKeys:      NewAPIKeyHandler(db, authHandler),
		},
		cookie: auth.CookieName + "=" + token,
	}
}

func (e *testEnv) authInput() auth.AuthInput {
	return auth.AuthInput{Cookie: e.cookie}
}

func statusOf(err error) int {
	var se huma.StatusError
	if errors.As(err, &se) {
		return se.GetStatus()
	}
	return 0
}

func errorLocations(err error) []string {
	var em *huma.ErrorModel
	if !errors.As(err, &em) {
		return nil
	}
	locs := make([]string, len(em.Errors))
	for i, d := range em.Errors {
		locs[i] = d.Location
	}
	return locs
}

func contains(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}

func fieldDef(label, name string) forms.Definition {
	return forms.Definition{Label: label, Name: name, Type: forms.TypeText, Active: true}
}
