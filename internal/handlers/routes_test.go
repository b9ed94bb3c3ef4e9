package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gdg-garage/conference-registration-api/internal/auth"
	"github.com/go-chi/chi/v5"
)

func TestRoutes(t *testing.T) {
	env := newTestEnv(t)
	env.cfg.EnableCORS = true
	env.cfg.FrontendURL = "http://localhost:4000/admin/registrations"
	r := chi.NewRouter()
	RegisterRoutes(r, env.cfg, env.h)

	do := func(method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
		var req *http.Request
		if body != "" {
			req = httptest.NewRequest(method, path, strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
		} else {
			req = httptest.NewRequest(method, path, nil)
		}
		req.Header.Set("Origin", "http://localhost:4000")
		for _, c := range cookies {
			req.AddCookie(c)
		}
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		return rr
	}

	if rr := do(http.MethodGet, "/health", ""); rr.Code != http.StatusOK || rr.Body.String() != "OK" {
		t.Errorf("health: %d %q", rr.Code, rr.Body.String())
	}

	rr := do(http.MethodGet, "/form", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("form: expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var form map[string]any
	json.Unmarshal(rr.Body.Bytes(), &form)
	if form["blocked"] == nil {
		t.Errorf("expected blocked reason, got %v", form)
	}
	if rr.Header().Get("Access-Control-Allow-Origin") != "http://localhost:4000" {
		t.Errorf("unexpected CORS origin %q", rr.Header().Get("Access-Control-Allow-Origin"))
	}
	if rr.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Errorf("expected credentialed CORS, got %v", rr.Header())
	}

	preflight := httptest.NewRequest(http.MethodOptions, "/admin/fields", nil)
	preflight.Header.Set("Origin", "http://localhost:4000")
	preflight.Header.Set("Access-Control-Request-Method", http.MethodPut)
	preflight.Header.Set("Access-Control-Request-Headers", "Content-Type")
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, preflight)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Header().Get("Access-Control-Allow-Methods"), http.MethodPut) {
		t.Errorf("preflight: %d %v", rr.Code, rr.Header())
	}

	foreign := httptest.NewRequest(http.MethodGet, "/health", nil)
	foreign.Header.Set("Origin", "http://evil.example")
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, foreign)
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("expected no CORS grant for a foreign origin, got %q", got)
	}

	if rr := do(http.MethodPost, "/registrations", `{"attendee_name":"Kofi"}`); rr.Code != http.StatusConflict {
		t.Errorf("register without ministries: expected 409, got %d: %s", rr.Code, rr.Body.String())
	}

	if rr := do(http.MethodGet, "/admin/registrations", ""); rr.Code != http.StatusUnauthorized {
		t.Errorf("admin without session: expected 401, got %d", rr.Code)
	}

	rr = do(http.MethodPost, "/admin/login", `{"email":"admin@example.com","password":"s3cret"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var session *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == auth.CookieName {
			session = c
		}
	}
	if session == nil {
		t.Fatal("login: expected session cookie")
	}

	if rr := do(http.MethodGet, "/admin/me", "", session); rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "admin@example.com") {
		t.Errorf("me: %d %s", rr.Code, rr.Body.String())
	}

	rr = do(http.MethodPost, "/admin/ministries", `{"name":"Choir"}`, session)
	if rr.Code != http.StatusCreated {
		t.Errorf("create ministry: expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	rr = do(http.MethodGet, "/admin/registrations/export", "", session)
	if rr.Code != http.StatusOK || !strings.HasPrefix(rr.Header().Get("Content-Type"), "text/csv") {
		t.Errorf("export: %d %q", rr.Code, rr.Header().Get("Content-Type"))
	}
	if !strings.HasPrefix(rr.Body.String(), `"created_at",`) {
		t.Errorf("export body: %q", rr.Body.String())
	}
}
