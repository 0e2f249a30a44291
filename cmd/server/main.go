// @title           Wallpaper Catalog API
// @version         1.0.0
// @description     Backend API for the wallpaper catalog: browsing, admin uploads with generated image variants, video wallpapers, admin authentication and the contact form.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:5001
// @BasePath  /api

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"wallpaper-catalog/docs"
	"wallpaper-catalog/internal/config"
	"wallpaper-catalog/internal/database"
	"wallpaper-catalog/internal/imageproc"
	"wallpaper-catalog/internal/logger"
	"wallpaper-catalog/internal/notify"
	"wallpaper-catalog/internal/routes"
	"wallpaper-catalog/internal/services"
	"wallpaper-catalog/internal/storage"
	"wallpaper-catalog/internal/supabase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logg := logger.Init(cfg.Environment, cfg.LogLevel)

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Update Swagger docs with dynamic base URL
	if cfg.BaseURL != "" {
		baseURL, err := url.Parse(cfg.BaseURL)
		if err == nil {
			docs.SwaggerInfo.Host = baseURL.Host
			if baseURL.Scheme == "https" {
				docs.SwaggerInfo.Schemes = []string{"https", "http"}
			} else {
				docs.SwaggerInfo.Schemes = []string{"http", "https"}
			}
		}
	}

	if err := run(cfg, logg); err != nil {
		logg.Error("server exited", "error", err)
		os.Exit(1)
	}
}

// run wires the server and blocks until a shutdown signal or a serve error.
// Deferred cleanup always runs before main exits.
func run(cfg *config.Config, logg *slog.Logger) error {
	// Database and migrations
	store, err := database.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		return fmt.Errorf("failed to open %s database: %w", cfg.DBDriver, err)
	}
	defer store.Close()

	migrateCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
	err = store.Migrate(migrateCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	// Uploads
	files, err := storage.NewLocal(cfg.UploadsDir, cfg.UploadsURLPrefix, cfg.MaxImageSize, cfg.MaxVideoSize)
	if err != nil {
		return fmt.Errorf("failed to prepare uploads directory %s: %w", cfg.UploadsDir, err)
	}

	wallpapers := services.NewWallpaperService(store, files, imageproc.NewProcessor(files), cfg.MaxBulkFiles, cfg.BulkConcurrency)
	if cfg.MirrorEnabled() {
		wallpapers.WithMirror(supabase.NewMirror(cfg.SupabaseURL, cfg.SupabaseServiceKey, cfg.SupabaseStorageBucket, files))
		logg.Info("supabase storage mirror enabled", "bucket", cfg.SupabaseStorageBucket)
	}

	contact := services.NewContactService(store)
	if cfg.EmailEnabled() {
		contact.WithEmail(notify.NewMailer(cfg.EmailHost, cfg.EmailPort, cfg.EmailUser, cfg.EmailPass, cfg.EmailSecure, cfg.ContactEmail))
	} else {
		logg.Warn("email notifications disabled: EMAIL_HOST, EMAIL_USER, EMAIL_PASS or CONTACT_EMAIL not set")
	}
	if cfg.SMSEnabled() {
		contact.WithSMS(notify.NewTwilio(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioPhoneNumber), notify.ContactSMSBody, cfg.BusinessPhones)
	} else {
		logg.Warn("SMS notifications disabled: Twilio credentials or business phones not set")
	}

	router := routes.New(cfg, routes.Services{
		Wallpapers: wallpapers,
		Auth:       services.NewAuthService(store, cfg.JWTSecret, cfg.TokenTTL),
		Contact:    contact,
	}, logg)

	// Start server
	listener, err := listen(cfg.Port, maxPortAttempts)
	if err != nil {
		return fmt.Errorf("failed to bind port %s: %w", cfg.Port, err)
	}
	if port := portOf(listener); port != cfg.Port {
		logg.Warn("preferred port in use, switched", "preferred", cfg.Port, "port", port)
	}

	srv := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info("server starting", "addr", listener.Addr().String(), "environment", cfg.Environment)
		serveErr <- srv.Serve(listener)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logg.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
