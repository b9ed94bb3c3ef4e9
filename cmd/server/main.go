package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/gdg-garage/conference-registration-api/internal/auth"
	"github.com/gdg-garage/conference-registration-api/internal/config"
	"github.com/gdg-garage/conference-registration-api/internal/database"
	"github.com/gdg-garage/conference-registration-api/internal/handlers"
	"github.com/gdg-garage/conference-registration-api/internal/logger"
	"github.com/gdg-garage/conference-registration-api/internal/notifier"
	"github.com/gdg-garage/conference-registration-api/internal/reference"
	"github.com/gdg-garage/conference-registration-api/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "server",
		Short:        "Conference registration API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP server (default)",
			RunE: func(cmd *cobra.Command, args []string) error {
				return serve(cmd.Context())
			},
		},
		newCreateAdminCmd(),
		newSeedRegionsCmd(),
		newImportMinistriesCmd(),
	)
	return root
}

func newLogger(cfg *config.Config) *logger.Logger {
	logCfg := logger.DefaultConfig()
	logCfg.Level = cfg.LogLevel
	logCfg.Development = cfg.LogDevelopment
	return logger.New(logCfg)
}

func newNotifier(cfg *config.Config, log *logger.Logger) notifier.Notifier {
	if cfg.DiscordBotToken == "" || cfg.DiscordNotificationsChannelID == "" {
		log.Info("Discord notifier not configured")
		return notifier.Nop{}
	}
	session, err := discordgo.New("Bot " + cfg.DiscordBotToken)
	if err != nil {
		log.Warn("Discord notifier not initialized", zap.Error(err))
		return notifier.Nop{}
	}
	return notifier.NewDiscordNotifier(session, cfg.DiscordNotificationsChannelID)
}

func serve(ctx context.Context) error {
	cfg := config.LoadConfig()
	log := newLogger(cfg)
	defer log.Sync()

	db := database.Connect(cfg)
	s := store.New(db)
	catalog := store.NewCatalog(s, cfg.CacheTTL)

	authHandler := auth.NewAuthHandler(cfg, db, log)
	h := handlers.Handlers{
		Auth:         authHandler,
		Registration: handlers.NewRegistrationHandler(catalog, s, newNotifier(cfg, log), cfg, log),
		Admin:        handlers.NewAdminHandler(s, authHandler, log),
		APIKeys:      handlers.NewAPIKeyHandler(db, authHandler),
	}

	r := chi.NewRouter()
	handlers.RegisterRoutes(r, cfg, h)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting server", zap.String("port", cfg.Port))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newCreateAdminCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account or reset its password",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("ADMIN_PASSWORD")
			}
			cfg := config.LoadConfig()
			db := database.Connect(cfg)
			admin, err := auth.CreateAdmin(cmd.Context(), db, email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "admin %s ready (%s)\n", admin.Email, admin.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&password, "password", "", "admin password (defaults to $ADMIN_PASSWORD)")
	cmd.MarkFlagRequired("email")
	return cmd
}

func newSeedRegionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-regions [name...]",
		Short: "Insert canonical regions, defaulting to FALLBACK_REGIONS",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			names := args
			if len(names) == 0 {
				names = cfg.FallbackRegions
			}
			s := store.New(database.Connect(cfg))
			n, err := s.SeedRegions(cmd.Context(), names)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d regions added\n", n)
			return nil
		},
	}
}

func newImportMinistriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import-ministries <file>",
		Short: "Import ministry names from a text or CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			names, err := reference.ParseMinistryNames(string(data))
			if err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}
			cfg := config.LoadConfig()
			s := store.New(database.Connect(cfg))
			result, err := s.ImportMinistries(cmd.Context(), names)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d created, %d skipped\n", len(result.Created), len(result.Skipped))
			return nil
		},
	}
}
