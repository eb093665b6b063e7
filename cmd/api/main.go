package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/refinesurgery/clinic-platform/internal/analytics"
	"github.com/refinesurgery/clinic-platform/internal/api/router"
	"github.com/refinesurgery/clinic-platform/internal/appointments"
	"github.com/refinesurgery/clinic-platform/internal/auth"
	"github.com/refinesurgery/clinic-platform/internal/blog"
	appconfig "github.com/refinesurgery/clinic-platform/internal/config"
	"github.com/refinesurgery/clinic-platform/internal/gallery"
	"github.com/refinesurgery/clinic-platform/internal/notify"
	"github.com/refinesurgery/clinic-platform/internal/observability/metrics"
	"github.com/refinesurgery/clinic-platform/internal/report"
	"github.com/refinesurgery/clinic-platform/internal/sanitize"
	"github.com/refinesurgery/clinic-platform/internal/team"
	"github.com/refinesurgery/clinic-platform/pkg/logging"
)

func main() {
	// .env is optional; real deployments configure the environment directly.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting clinic-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	reporter, err := report.NewSentryReporter(cfg.SentryDSN, cfg.Env, logger)
	if err != nil {
		logger.Error("failed to initialize error reporting", "error", err)
		os.Exit(1)
	}
	defer reporter.Flush(2 * time.Second)

	// Repositories: Postgres when configured, in-memory otherwise.
	var (
		apptRepo    appointments.Repository
		blogRepo    blog.Repository
		galleryRepo gallery.Repository
		teamRepo    team.Repository
		authRepo    auth.Repository
	)
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		apptRepo = appointments.NewPostgresRepository(pool)
		blogRepo = blog.NewPostgresRepository(pool)
		galleryRepo = gallery.NewPostgresRepository(pool)
		teamRepo = team.NewPostgresRepository(pool)
		authRepo = auth.NewPostgresRepository(pool)
		logger.Info("using postgres repositories")
	} else {
		apptRepo = appointments.NewInMemoryRepository()
		blogRepo = blog.NewInMemoryRepository()
		galleryRepo = gallery.NewInMemoryRepository()
		teamRepo = team.NewInMemoryRepository()
		authRepo = auth.NewInMemoryRepository()
		logger.Warn("DATABASE_URL not set, using in-memory repositories")
	}

	store := appointments.NewStore(apptRepo)

	// Email provider
	var sender notify.EmailSender
	switch cfg.EmailProvider {
	case "sendgrid":
		sender = notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger)
	case "ses":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			os.Exit(1)
		}
		sender = notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.SendGridFromEmail,
		}, logger)
	}
	if sender == nil {
		logger.Warn("email sending disabled, using stub sender", "provider", cfg.EmailProvider)
		sender = notify.NewStubEmailSender(logger)
	}

	// Dispatch rate limiter: Redis when configured, per-process otherwise.
	var limiter notify.RateLimiter
	if cfg.RedisAddr != "" {
		opts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		limiter = notify.NewRedisLimiter(rdb, cfg.DispatchMaxPerMinute, time.Minute, "notify:dispatch")
		logger.Info("using redis dispatch rate limiter", "addr", cfg.RedisAddr)
	} else {
		limiter = notify.NewWindowLimiter(cfg.DispatchMaxPerMinute, time.Minute)
	}

	intakeMetrics := metrics.NewIntakeMetrics(nil)

	createAppointment := func(ctx context.Context, form sanitize.FormInput) error {
		_, err := store.Create(ctx, appointments.NewAppointment{
			Name:          form.Name,
			Email:         form.Email,
			Phone:         form.Phone,
			Procedure:     form.Procedure,
			PreferredDate: form.Date,
			Message:       form.Message,
		})
		return err
	}
	dispatcher := notify.NewDispatcher(sender, cfg.OperatorEmail, createAppointment, logger)
	dispatcher.SetMetrics(intakeMetrics)
	dispatcher.SetContactPhone(cfg.WhatsAppNumber)
	emailHandler := notify.NewHandler(dispatcher, limiter, cfg.DispatcherOrigins(), intakeMetrics, logger)
	emailHandler.SetReporter(reporter)

	// Gallery storage
	var storage gallery.Storage
	if cfg.GalleryBucket != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			logger.Error("failed to load AWS config for gallery storage", "error", err)
			os.Exit(1)
		}
		storage = gallery.NewS3Storage(s3.NewFromConfig(awsCfg), cfg.GalleryBucket, cfg.GalleryPublicURL)
	}

	// Admin auth
	broadcaster := auth.NewBroadcaster(logger)
	authService := auth.NewService(authRepo, cfg.AdminJWTSecret,
		time.Duration(cfg.SessionTTLMinutes)*time.Minute, broadcaster, logger)

	routerCfg := &router.Config{
		Logger:              logger,
		AppointmentsHandler: appointments.NewHandler(store, logger),
		BlogHandler:         blog.NewHandler(blogRepo, logger),
		GalleryHandler:      gallery.NewHandler(galleryRepo, storage, logger),
		TeamHandler:         team.NewHandler(teamRepo, logger),
		AuthHandler:         auth.NewHandler(authService, logger),
		AnalyticsHandler:    analytics.NewHandler(store, logger),
		DashboardHandler:    analytics.NewDashboardHandler(store, blogRepo, galleryRepo, teamRepo, logger),
		AppointmentEmail:    emailHandler,
		SessionBroadcaster:  broadcaster,
		Verifier:            authService,
		MetricsHandler:      promhttp.Handler(),
		CORSAllowedOrigins:  cfg.DispatcherOrigins(),
		AdminRatePerSec:     cfg.AdminAPIRatePerSec,
		AdminBurst:          cfg.AdminAPIBurst,
	}
	r := router.New(routerCfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}
