// Package store is the data-store collaborator: every read and write of
// reference data, field definitions, registrations and settings goes through it.
package store

import (
	"context"

	"github.com/gdg-garage/conference-registration-api/internal/forms"
	"github.com/gdg-garage/conference-registration-api/internal/models"
	"gorm.io/gorm"
)

// FieldStore is the field definition contract: ordered active reads for the
// public form and validated writes for the admin console.
type FieldStore interface {
	ActiveFields(ctx context.Context) ([]forms.Definition, error)
	ListFields(ctx context.Context) ([]models.FormField, error)
	CreateField(ctx context.Context, def forms.Definition) (*models.FormField, error)
	UpdateField(ctx context.Context, id string, def forms.Definition, active *bool) (*models.FormField, error)
	SetFieldActive(ctx context.Context, id string, active bool) (*models.FormField, error)
}

type RegionStore interface {
	ActiveRegions(ctx context.Context) ([]models.Region, error)
	ListRegions(ctx context.Context) ([]models.Region, error)
	SetRegionActive(ctx context.Context, id string, active bool) (*models.Region, error)
	SeedRegions(ctx context.Context, names []string) (int, error)
}

type MinistryStore interface {
	ActiveMinistries(ctx context.Context) ([]models.Ministry, error)
	ListMinistries(ctx context.Context) ([]models.Ministry, error)
	CreateMinistry(ctx context.Context, name string) (*models.Ministry, error)
	SetMinistryActive(ctx context.Context, id string, active bool) (*models.Ministry, error)
	ImportMinistries(ctx context.Context, names []string) (*ImportResult, error)
}

type RegistrationStore interface {
	CreateRegistration(ctx context.Context, reg *models.Registration) error
	ListRegistrations(ctx context.Context) ([]models.Registration, error)
	CountByReferrer(ctx context.Context, email string) (int64, error)
	ListByReferrer(ctx context.Context, email string) ([]models.Registration, error)
}

type SettingStore interface {
	GetSetting(ctx context.Context, key string) (string, error)
	PutSetting(ctx context.Context, key, value string) error
}

// Store implements every contract above on gorm.
type Store struct {
	db        *gorm.DB
	listeners []func()
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// OnChange registers fn to run after every successful admin write.
func (s *Store) OnChange(fn func()) {
	s.listeners = append(s.listeners, fn)
}

func (s *Store) changed() {
	for _, fn := range s.listeners {
		fn()
	}
}

var (
	_ FieldStore        = (*Store)(nil)
	_ RegionStore       = (*Store)(nil)
	_ MinistryStore     = (*Store)(nil)
	_ RegistrationStore = (*Store)(nil)
	_ SettingStore      = (*Store)(nil)
)
