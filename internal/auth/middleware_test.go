package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gdg-garage/conference-registration-api/internal/models"
)

// serve runs the middleware and reports the session the next handler saw.
func serve(h *AuthHandler, req *http.Request) (*httptest.ResponseRecorder, *Session) {
	var seen *Session
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = SessionFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	rr := httptest.NewRecorder()
	h.Middleware(next).ServeHTTP(rr, req)
	return rr, seen
}

func sessionCookieFrom(rr *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	return nil
}

func TestMiddleware_SlidingSession(t *testing.T) {
	h, _, admin := setup(t)

	t.Run("TokenRenewed", func(t *testing.T) {
		// 11 hours left is under TokenDuration/2.
		token := signedToken(t, "test-secret", admin.ID, time.Now().Add(11*time.Hour))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: token})

		rr, s := serve(h, req)
		if s == nil || s.AdminID != admin.ID {
			t.Fatalf("expected session for %s, got %+v", admin.ID, s)
		}
		c := sessionCookieFrom(rr)
		if c == nil {
			t.Fatal("expected new auth_token cookie to be set")
		}
		if c.Value == token {
			t.Error("expected new token value, but got the old one")
		}
	})

	t.Run("TokenNotRenewed", func(t *testing.T) {
		token := signedToken(t, "test-secret", admin.ID, time.Now().Add(13*time.Hour))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: token})

		rr, s := serve(h, req)
		if s == nil {
			t.Fatal("expected a session")
		}
		if c := sessionCookieFrom(rr); c != nil {
			t.Errorf("expected no cookie refresh, got %v", c)
		}
	})

	t.Run("InvalidTokenPassesThrough", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: "garbage"})

		rr, s := serve(h, req)
		if rr.Code != http.StatusOK {
			t.Errorf("expected the request to reach the handler, got %d", rr.Code)
		}
		if s != nil {
			t.Errorf("expected no session, got %+v", s)
		}
	})
}

func TestMiddleware_APIKey(t *testing.T) {
	h, db, admin := setup(t)
	ctx := context.Background()

	valid := models.APIKey{AdminID: admin.ID, Key: "valid-key", Name: "ci"}
	past := time.Now().Add(-time.Hour)
	expired := models.APIKey{AdminID: admin.ID, Key: "expired-key", Name: "old", ExpiresAt: &past}
	if err := db.Create(&valid).Error; err != nil {
		t.Fatalf("failed to create key: %v", err)
	}
	if err := db.Create(&expired).Error; err != nil {
		t.Fatalf("failed to create key: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(APIKeyHeader, "valid-key")
	_, s := serve(h, req)
	if s == nil || s.AdminID != admin.ID || s.Via != "api_key" || s.Email != admin.Email {
		t.Fatalf("expected api key session, got %+v", s)
	}

	var reloaded models.APIKey
	db.WithContext(ctx).First(&reloaded, "id = ?", valid.ID)
	if reloaded.LastUsedAt == nil {
		t.Error("expected last_used_at to be recorded")
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(APIKeyHeader, "expired-key")
	if _, s := serve(h, req); s != nil {
		t.Errorf("expected expired key to be ignored, got %+v", s)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(APIKeyHeader, "unknown")
	if _, s := serve(h, req); s != nil {
		t.Errorf("expected unknown key to be ignored, got %+v", s)
	}
}
