package handlers

import (
	"github.com/gdg-garage/conference-registration-api/internal/auth"
	"github.com/gdg-garage/conference-registration-api/internal/logger"
	"github.com/gdg-garage/conference-registration-api/internal/store"
)

// AdminHandler serves the admin console: registrations, reference data,
// field definitions and preferences. Every operation requires a session.
type AdminHandler struct {
	store       *store.Store
	authHandler *auth.AuthHandler
	log         *logger.Logger
}

func NewAdminHandler(s *store.Store, authHandler *auth.AuthHandler, log *logger.Logger) *AdminHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &AdminHandler{store: s, authHandler: authHandler, log: log}
}

type ToggleInput struct {
	auth.AuthInput
	ID   string `path:"id"`
	Body struct {
		IsActive bool `json:"is_active"`
	}
}
