// Package auth guards the admin console: password and Discord sign-in, a
// sliding JWT session cookie, and API keys for scripted access.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/conference-registration-api/internal/config"
	"github.com/gdg-garage/conference-registration-api/internal/logger"
	"github.com/gdg-garage/conference-registration-api/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

const (
	CookieName    = "auth_token"
	APIKeyHeader  = "X-API-KEY"
	LoginPath     = "/admin/login"
	TokenDuration = 24 * time.Hour
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSessionExpired     = errors.New("session expired")
	ErrUnauthenticated    = errors.New("not signed in")
	ErrAPIKeyExpired      = errors.New("api key expired")
)

// AuthInput is embedded in every admin operation input.
type AuthInput struct {
	Cookie string `header:"Cookie"`
}

// Session identifies the admin behind a request.
type Session struct {
	AdminID string
	Email   string
	Via     string
}

type AuthHandler struct {
	oauthConfig *oauth2.Config
	db          *gorm.DB
	cfg         *config.Config
	log         *logger.Logger

	userAPI   string
	guildsAPI string
}

func NewAuthHandler(cfg *config.Config, db *gorm.DB, log *logger.Logger) *AuthHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthHandler{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.DiscordClientID,
			ClientSecret: cfg.DiscordClientSecret,
			RedirectURL:  cfg.DiscordRedirectURL,
			Scopes:       []string{"identify", "email", "guilds"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  DiscordAuthorizeEndpoint,
				TokenURL: DiscordTokenEndpoint,
			},
		},
		db:        db,
		cfg:       cfg,
		log:       log,
		userAPI:   DiscordUserAPI,
		guildsAPI: DiscordUserGuildsAPI,
	}
}

func (h *AuthHandler) GenerateToken(adminID string) (string, error) {
	claims := jwt.MapClaims{
		"admin_id": adminID,
		"exp":      time.Now().Add(TokenDuration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.cfg.JWTSecret))
}

// parseToken returns the admin id and expiry carried by a session token.
func (h *AuthHandler) parseToken(tokenString string) (string, time.Time, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(h.cfg.JWTSecret), nil
	})
	if errors.Is(err, jwt.ErrTokenExpired) {
		return "", time.Time{}, ErrSessionExpired
	}
	if err != nil || !token.Valid {
		return "", time.Time{}, ErrUnauthenticated
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", time.Time{}, ErrUnauthenticated
	}
	adminID, ok := claims["admin_id"].(string)
	if !ok || adminID == "" {
		return "", time.Time{}, ErrUnauthenticated
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return "", time.Time{}, ErrUnauthenticated
	}
	return adminID, exp.Time, nil
}

func (h *AuthHandler) sessionCookie(value string, expires time.Time) http.Cookie {
	return http.Cookie{
		Name:     CookieName,
		Value:    value,
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
	}
}

func (h *AuthHandler) newSessionCookie(adminID string) (http.Cookie, error) {
	token, err := h.GenerateToken(adminID)
	if err != nil {
		return http.Cookie{}, err
	}
	return h.sessionCookie(token, time.Now().Add(TokenDuration)), nil
}

func (h *AuthHandler) loadAdmin(ctx context.Context, adminID string) (*models.Admin, error) {
	var admin models.Admin
	if err := h.db.WithContext(ctx).First(&admin, "id = ?", adminID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	return &admin, nil
}

// cookieSession resolves the auth_token cookie found in a raw Cookie header.
func (h *AuthHandler) cookieSession(ctx context.Context, cookieHeader string) (*Session, time.Time, error) {
	req := http.Request{Header: http.Header{"Cookie": {cookieHeader}}}
	cookie, err := req.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, time.Time{}, ErrUnauthenticated
	}
	adminID, exp, err := h.parseToken(cookie.Value)
	if err != nil {
		return nil, time.Time{}, err
	}
	admin, err := h.loadAdmin(ctx, adminID)
	if err != nil {
		return nil, time.Time{}, err
	}
	return &Session{AdminID: admin.ID, Email: admin.Email, Via: "cookie"}, exp, nil
}

// Authorize returns the admin session for a request. A session resolved by
// Middleware (cookie or API key) wins; otherwise the Cookie header is parsed.
func (h *AuthHandler) Authorize(ctx context.Context, cookieHeader string) (*Session, error) {
	if s, ok := SessionFromContext(ctx); ok {
		return s, nil
	}
	s, _, err := h.cookieSession(ctx, cookieHeader)
	if err != nil {
		return nil, unauthorized(err)
	}
	return s, nil
}

func unauthorized(err error) error {
	switch {
	case errors.Is(err, ErrSessionExpired), errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrUnauthenticated), errors.Is(err, ErrAPIKeyExpired):
		return huma.Error401Unauthorized(fmt.Sprintf("%s; sign in at %s", err.Error(), LoginPath))
	}
	return huma.Error500InternalServerError("failed to verify session", err)
}

// HashPassword returns the bcrypt hash stored on admin rows.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CreateAdmin inserts an admin or resets the password of an existing one.
func CreateAdmin(ctx context.Context, db *gorm.DB, email, password string) (*models.Admin, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, errors.New("email and password are required")
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var admin models.Admin
	if err := db.WithContext(ctx).FirstOrInit(&admin, models.Admin{Email: email}).Error; err != nil {
		return nil, fmt.Errorf("load admin: %w", err)
	}
	admin.PasswordHash = hash
	if err := db.WithContext(ctx).Save(&admin).Error; err != nil {
		return nil, fmt.Errorf("save admin: %w", err)
	}
	return &admin, nil
}

func (h *AuthHandler) checkPassword(ctx context.Context, email, password string) (*models.Admin, error) {
	var admin models.Admin
	err := h.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if admin.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return &admin, nil
}

type LoginInput struct {
	Body struct {
		Email    string `json:"email" format:"email"`
		Password string `json:"password" minLength:"1"`
	}
}

type AdminBody struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type LoginOutput struct {
	SetCookie http.Cookie `header:"Set-Cookie"`
	Body      AdminBody
}

func (h *AuthHandler) HandlePasswordLogin(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	admin, err := h.checkPassword(ctx, input.Body.Email, input.Body.Password)
	if err != nil {
		h.log.WithContext(ctx).Info("admin login rejected", zap.String("email", input.Body.Email), zap.Error(err))
		return nil, unauthorized(err)
	}

	cookie, err := h.newSessionCookie(admin.ID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to generate token")
	}
	h.log.WithContext(ctx).Info("admin signed in", zap.String("admin_id", admin.ID))
	return &LoginOutput{SetCookie: cookie, Body: AdminBody{ID: admin.ID, Email: admin.Email}}, nil
}

type LogoutOutput struct {
	SetCookie http.Cookie `header:"Set-Cookie"`
}

func (h *AuthHandler) HandleLogout(ctx context.Context, input *struct{}) (*LogoutOutput, error) {
	cookie := h.sessionCookie("", time.Unix(0, 0))
	cookie.MaxAge = -1
	return &LogoutOutput{SetCookie: cookie}, nil
}

type MeOutput struct {
	Body AdminBody
}

func (h *AuthHandler) HandleMe(ctx context.Context, input *AuthInput) (*MeOutput, error) {
	s, err := h.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	return &MeOutput{Body: AdminBody{ID: s.AdminID, Email: s.Email}}, nil
}
