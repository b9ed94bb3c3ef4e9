package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gdg-garage/conference-registration-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type contextKey string

const sessionKey contextKey = "admin_session"

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

func SessionFromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey).(*Session)
	return s, ok && s != nil
}

// Middleware resolves an API key or session cookie into a Session on the
// request context. It never rejects: public routes share the router, and
// admin operations call Authorize. Cookies past half their lifetime are
// re-issued.
func (h *AuthHandler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if key := r.Header.Get(APIKeyHeader); key != "" {
			s, err := h.apiKeySession(r.Context(), key)
			if err != nil {
				h.log.WithContext(r.Context()).Debug("api key rejected", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
			return
		}

		if r.Header.Get("Cookie") == "" {
			next.ServeHTTP(w, r)
			return
		}
		s, exp, err := h.cookieSession(r.Context(), r.Header.Get("Cookie"))
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		if time.Until(exp) < TokenDuration/2 {
			if cookie, err := h.newSessionCookie(s.AdminID); err == nil {
				http.SetCookie(w, &cookie)
			}
		}
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
	})
}

func (h *AuthHandler) apiKeySession(ctx context.Context, key string) (*Session, error) {
	var apiKey models.APIKey
	err := h.db.WithContext(ctx).Preload("Admin").Where(&models.APIKey{Key: key}).First(&apiKey).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}
	if apiKey.ExpiresAt != nil && time.Now().After(*apiKey.ExpiresAt) {
		return nil, ErrAPIKeyExpired
	}

	h.db.WithContext(ctx).Model(&apiKey).Update("last_used_at", time.Now())

	return &Session{AdminID: apiKey.AdminID, Email: apiKey.Admin.Email, Via: "api_key"}, nil
}
