package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/conference-registration-api/internal/models"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

const (
	DiscordAuthorizeEndpoint = "https://discord.com/api/oauth2/authorize"
	DiscordTokenEndpoint     = "https://discord.com/api/oauth2/token"
	DiscordUserAPI           = "https://discord.com/api/users/@me"
	DiscordUserGuildsAPI     = "https://discord.com/api/users/@me/guilds"

	stateCookieName = "oauth_state"
)

var errNotGuildMember = errors.New("not a member of the required guild")

type discordUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Verified bool   `json:"verified"`
}

type discordGuild struct {
	ID string `json:"id"`
}

type DiscordLoginOutput struct {
	Status    int
	Location  string      `header:"Location"`
	SetCookie http.Cookie `header:"Set-Cookie"`
}

func (h *AuthHandler) HandleDiscordLogin(ctx context.Context, input *struct{}) (*DiscordLoginOutput, error) {
	if !h.cfg.DiscordSSOEnabled() {
		return nil, huma.Error404NotFound("Discord sign-in is not configured")
	}
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return nil, huma.Error500InternalServerError("Failed to generate state")
	}
	state := hex.EncodeToString(b)

	return &DiscordLoginOutput{
		Status:   http.StatusTemporaryRedirect,
		Location: h.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOnline),
		SetCookie: http.Cookie{
			Name:     stateCookieName,
			Value:    state,
			Expires:  time.Now().Add(10 * time.Minute),
			HttpOnly: true,
			Secure:   h.cfg.SecureCookies,
			SameSite: http.SameSiteLaxMode,
			Path:     "/",
		},
	}, nil
}

type DiscordCallbackInput struct {
	AuthInput
	Code  string `query:"code"`
	State string `query:"state"`
}

type DiscordCallbackOutput struct {
	Status    int
	Location  string        `header:"Location"`
	SetCookie []http.Cookie `header:"Set-Cookie"`
}

func (h *AuthHandler) HandleDiscordCallback(ctx context.Context, input *DiscordCallbackInput) (*DiscordCallbackOutput, error) {
	if input.Code == "" {
		return nil, huma.Error400BadRequest("Code not found")
	}
	req := http.Request{Header: http.Header{"Cookie": {input.Cookie}}}
	if state, err := req.Cookie(stateCookieName); err != nil || state.Value == "" || state.Value != input.State {
		return nil, huma.Error400BadRequest("Invalid OAuth state")
	}

	token, err := h.oauthConfig.Exchange(ctx, input.Code)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to exchange token")
	}
	client := h.oauthConfig.Client(ctx, token)

	if h.cfg.DiscordGuildID != "" {
		if err := h.checkGuild(client); err != nil {
			if errors.Is(err, errNotGuildMember) {
				return nil, huma.Error403Forbidden("Access denied: You are not a member of the required guild.")
			}
			return nil, huma.Error500InternalServerError("Failed to get user guilds")
		}
	}

	var user discordUser
	if err := getJSON(client, h.userAPI, &user); err != nil {
		return nil, huma.Error500InternalServerError("Failed to get user info")
	}

	admin, err := h.linkDiscordAdmin(ctx, user)
	if err != nil {
		h.log.WithContext(ctx).Info("discord sign-in rejected", zap.String("discord_id", user.ID), zap.Error(err))
		return nil, unauthorized(err)
	}

	cookie, err := h.newSessionCookie(admin.ID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to generate token")
	}
	h.log.WithContext(ctx).Info("admin signed in with discord", zap.String("admin_id", admin.ID))
	return &DiscordCallbackOutput{
		Status:    http.StatusTemporaryRedirect,
		Location:  h.cfg.FrontendURL,
		SetCookie: []http.Cookie{cookie, {
			Name:     stateCookieName,
			Value:    "",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   h.cfg.SecureCookies,
			SameSite: http.SameSiteLaxMode,
			Path:     "/",
		}},
	}, nil
}

func (h *AuthHandler) checkGuild(client *http.Client) error {
	var guilds []discordGuild
	if err := getJSON(client, h.guildsAPI, &guilds); err != nil {
		return err
	}
	if !slices.ContainsFunc(guilds, func(g discordGuild) bool { return g.ID == h.cfg.DiscordGuildID }) {
		return errNotGuildMember
	}
	return nil
}

// linkDiscordAdmin finds the admin for a Discord account, first by linked id
// and then by verified email. Discord accounts never create admins.
func (h *AuthHandler) linkDiscordAdmin(ctx context.Context, user discordUser) (*models.Admin, error) {
	var admin models.Admin
	err := h.db.WithContext(ctx).Where("discord_id = ?", user.ID).First(&admin).Error
	if err == nil {
		return &admin, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(user.Email))
	if email == "" || !user.Verified {
		return nil, ErrUnauthenticated
	}
	err = h.db.WithContext(ctx).Where("email = ?", email).First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}
	if err := h.db.WithContext(ctx).Model(&admin).Update("discord_id", user.ID).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func getJSON(client *http.Client, url string, v any) error {
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: %s", url, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
