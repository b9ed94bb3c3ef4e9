package handlers

import (
	"net/http"
	"net/url"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/gdg-garage/conference-registration-api/internal/auth"
	"github.com/gdg-garage/conference-registration-api/internal/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Handlers struct {
	Auth         *auth.AuthHandler
	Registration *RegistrationHandler
	Admin        *AdminHandler
	APIKeys      *APIKeyHandler
}

func RegisterRoutes(r *chi.Mux, cfg *config.Config, h Handlers) huma.API {
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if cfg.EnableCORS {
		r.Use(corsHandler(cfg.FrontendURL))
	}
	r.Use(h.Auth.Middleware)

	humaConfig := huma.DefaultConfig("Conference Registration API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"cookieAuth": {
			Type: "apiKey",
			In:   "cookie",
			Name: auth.CookieName,
		},
		"apiKeyAuth": {
			Type: "apiKey",
			In:   "header",
			Name: auth.APIKeyHeader,
		},
	}
	api := humachi.New(r, humaConfig)

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	huma.Get(api, "/form", h.Registration.HandleForm)
	huma.Post(api, "/registrations", h.Registration.HandleRegister, created)
	huma.Get(api, "/referrals", h.Registration.HandleReferrals)
	huma.Get(api, "/preferences/theme", h.Admin.HandleGetTheme)

	// Auth routes
	huma.Post(api, "/admin/login", h.Auth.HandlePasswordLogin)
	huma.Post(api, "/admin/logout", h.Auth.HandleLogout)
	huma.Get(api, "/auth/discord/login", h.Auth.HandleDiscordLogin)
	huma.Get(api, "/auth/discord/callback", h.Auth.HandleDiscordCallback)

	// Admin routes
	huma.Get(api, "/admin/me", h.Auth.HandleMe, secured)
	huma.Put(api, "/preferences/theme", h.Admin.HandlePutTheme, secured)

	huma.Get(api, "/admin/registrations", h.Admin.HandleListRegistrations, secured)
	huma.Get(api, "/admin/registrations/export", h.Admin.HandleExportRegistrations, secured)

	huma.Get(api, "/admin/ministries", h.Admin.HandleListMinistries, secured)
	huma.Post(api, "/admin/ministries", h.Admin.HandleCreateMinistry, secured, created)
	huma.Patch(api, "/admin/ministries/{id}", h.Admin.HandleToggleMinistry, secured)
	huma.Post(api, "/admin/ministries/bulk", h.Admin.HandleBulkMinistries, secured)
	huma.Post(api, "/admin/ministries/upload", h.Admin.HandleUploadMinistries, secured)

	huma.Get(api, "/admin/regions", h.Admin.HandleListRegions, secured)
	huma.Patch(api, "/admin/regions/{id}", h.Admin.HandleToggleRegion, secured)

	huma.Get(api, "/admin/fields", h.Admin.HandleListFields, secured)
	huma.Post(api, "/admin/fields", h.Admin.HandleCreateField, secured, created)
	huma.Put(api, "/admin/fields/{id}", h.Admin.HandleUpdateField, secured)
	huma.Patch(api, "/admin/fields/{id}", h.Admin.HandleToggleField, secured)

	huma.Get(api, "/admin/api-keys", h.APIKeys.HandleList, secured)
	huma.Post(api, "/admin/api-keys", h.APIKeys.HandleCreate, secured, created)
	huma.Delete(api, "/admin/api-keys/{id}", h.APIKeys.HandleDelete, secured)

	return api
}

func secured(o *huma.Operation) {
	o.Security = []map[string][]string{{"cookieAuth": {}}, {"apiKeyAuth": {}}}
}

func created(o *huma.Operation) {
	o.DefaultStatus = http.StatusCreated
}

// corsHandler allows the admin console origin to call the API with credentials.
func corsHandler(frontendURL string) func(http.Handler) http.Handler {
	u, err := url.Parse(frontendURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		// An empty origin list would let cors allow every origin.
		return func(next http.Handler) http.Handler { return next }
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   []string{u.Scheme + "://" + u.Host},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", auth.APIKeyHeader},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
