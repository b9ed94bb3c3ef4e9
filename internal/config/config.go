package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port                          string        `mapstructure:"PORT"`
	DatabaseDriver                string        `mapstructure:"DATABASE_DRIVER"`
	DatabasePath                  string        `mapstructure:"DATABASE_PATH"`
	DatabaseURL                   string        `mapstructure:"DATABASE_URL"`
	DiscordClientID               string        `mapstructure:"DISCORD_CLIENT_ID"`
	DiscordClientSecret           string        `mapstructure:"DISCORD_CLIENT_SECRET"`
	DiscordRedirectURL            string        `mapstructure:"DISCORD_REDIRECT_URL"`
	DiscordGuildID                string        `mapstructure:"DISCORD_GUILD_ID"`
	DiscordBotToken               string        `mapstructure:"DISCORD_BOT_TOKEN"`
	DiscordNotificationsChannelID string        `mapstructure:"DISCORD_NOTIFICATIONS_CHANNEL_ID"`
	JWTSecret                     string        `mapstructure:"JWT_SECRET"`
	SecureCookies                 bool          `mapstructure:"SECURE_COOKIES"`
	FrontendURL                   string        `mapstructure:"FRONTEND_URL"`
	EnableCORS                    bool          `mapstructure:"ENABLE_CORS"`
	FallbackRegions               []string      `mapstructure:"FALLBACK_REGIONS"`
	FormStrictOptions             bool          `mapstructure:"FORM_STRICT_OPTIONS"`
	CacheTTL                      time.Duration `mapstructure:"CACHE_TTL"`
	LogLevel                      string        `mapstructure:"LOG_LEVEL"`
	LogDevelopment                bool          `mapstructure:"LOG_DEVELOPMENT"`
}

// DefaultFallbackRegions is offered on the public form while no region rows
// have been seeded.
var DefaultFallbackRegions = []string{
	"Central Region",
	"Eastern Region",
	"Northern Region",
	"Southern Region",
	"Western Region",
}

func LoadConfig() *Config {
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DATABASE_DRIVER", "sqlite")
	viper.SetDefault("DATABASE_PATH", "registrations.db")
	viper.SetDefault("DISCORD_REDIRECT_URL", "http://127.0.0.1:8080/auth/discord/callback")
	viper.SetDefault("FRONTEND_URL", "http://127.0.0.1:4000/admin/registrations")
	viper.SetDefault("FALLBACK_REGIONS", DefaultFallbackRegions)
	viper.SetDefault("FORM_STRICT_OPTIONS", true)
	viper.SetDefault("CACHE_TTL", "1m")
	viper.SetDefault("LOG_LEVEL", "info")

	viper.BindEnv("DATABASE_URL")
	viper.BindEnv("DISCORD_CLIENT_ID")
	viper.BindEnv("DISCORD_CLIENT_SECRET")
	viper.BindEnv("DISCORD_GUILD_ID")
	viper.BindEnv("DISCORD_BOT_TOKEN")
	viper.BindEnv("DISCORD_NOTIFICATIONS_CHANNEL_ID")
	viper.BindEnv("JWT_SECRET")
	viper.BindEnv("SECURE_COOKIES")
	viper.BindEnv("ENABLE_CORS")
	viper.BindEnv("LOG_DEVELOPMENT")

	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}

	if config.JWTSecret == "" {
		log.Printf("JWT_SECRET is not set, admin sessions will not survive a restart")
		config.JWTSecret = randomSecret()
	}

	return &config
}

// DiscordSSOEnabled reports whether admins may sign in with Discord.
func (c *Config) DiscordSSOEnabled() bool {
	return c.DiscordClientID != "" && c.DiscordClientSecret != ""
}
