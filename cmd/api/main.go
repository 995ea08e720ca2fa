package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campusconnect/config"
	_ "campusconnect/docs"
	"campusconnect/internal/adapters/auth"
	"campusconnect/internal/adapters/email"
	"campusconnect/internal/adapters/genai"
	"campusconnect/internal/adapters/storage"
	httpDelivery "campusconnect/internal/delivery/http"
	"campusconnect/internal/delivery/http/controllers"
	"campusconnect/internal/delivery/http/middleware"
	"campusconnect/internal/domain"
	"campusconnect/internal/repository/postgres"
	"campusconnect/internal/services"
)

// @title CampusConnect API
// @version 1.0
// @description Campus event catalogue, registrations and AI helpers.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := config.NewLogger(cfg.Environment)
	slog.SetDefault(logger)

	ctx := context.Background()
	db, err := postgres.Open(ctx, cfg.DBUrl)
	if err != nil {
		logger.Error("database unavailable", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		logger.Error("migration failed", "err", err)
		os.Exit(1)
	}

	userRepo := postgres.NewUserRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	registrationRepo := postgres.NewRegistrationRepository(db)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret)
	mailer := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:             cfg.AWS.Region,
			AccessKeyID:        cfg.AWS.AccessKeyID,
			SecretAccessKey:    cfg.AWS.SecretAccessKey,
			InsecureSkipVerify: cfg.Email.InsecureSkipVerify,
		},
	}, logger)
	generator, err := genai.NewGenerator(ctx, genai.Config{
		APIKey:  cfg.GenAI.APIKey,
		Model:   cfg.GenAI.Model,
		BaseURL: cfg.GenAI.BaseURL,
	}, &http.Client{Timeout: cfg.RequestTimeout})
	if err != nil {
		logger.Error("genai client unavailable", "err", err)
		os.Exit(1)
	}

	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)
	userService := services.NewUserService(userRepo, auth.NewBcryptHasher(auth.DefaultBcryptCost), jwtManager, emailService, logger, services.UserServiceConfig{
		TokenExpiry: cfg.JWTExpiry,
		Timeout:     cfg.RequestTimeout,
		AdminEmails: cfg.AdminEmails,
	})
	eventService := services.NewEventService(eventRepo, registrationRepo, userRepo, posterStorage(cfg, logger), cfg.RequestTimeout)
	attendeeService := services.NewAttendeeService(eventRepo, registrationRepo, userRepo, emailService, logger, cfg.RequestTimeout)
	assistantService := services.NewAssistantService(generator, eventRepo, registrationRepo, cfg.RequestTimeout)

	mux := httpDelivery.NewRouter(httpDelivery.Controllers{
		Event:     controllers.NewEventController(logger, eventService),
		Attendee:  controllers.NewAttendeeController(logger, attendeeService),
		Assistant: controllers.NewAssistantController(logger, assistantService),
		Auth:      controllers.NewAuthController(logger, userService),
		Health:    controllers.NewHealthController(logger, db),
	}, jwtManager, logger)
	handler := middleware.CORS(cfg.AllowedOrigins, middleware.LoggingMiddleware(logger, mux))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", "err", err)
	}
	logger.Info("server exited")
}

func posterStorage(cfg *config.Config, logger *slog.Logger) domain.ObjectStorage {
	if cfg.Poster.Provider != "s3" {
		logger.Info("poster uploads disabled", "provider", cfg.Poster.Provider)
		return storage.NewDisabledStorage()
	}
	return storage.NewS3Storage(storage.S3Config{
		Region:          cfg.AWS.Region,
		AccessKeyID:     cfg.AWS.AccessKeyID,
		SecretAccessKey: cfg.AWS.SecretAccessKey,
		Bucket:          cfg.Poster.Bucket,
		Endpoint:        cfg.Poster.Endpoint,
		PublicURL:       cfg.Poster.PublicURL,
	})
}
