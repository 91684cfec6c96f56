package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/ayurmitra/panchakarma-api/internal/config"
	"github.com/ayurmitra/panchakarma-api/internal/email"
	authHandler "github.com/ayurmitra/panchakarma-api/internal/handler/auth"
	availabilityHandler "github.com/ayurmitra/panchakarma-api/internal/handler/availability"
	catalogHandler "github.com/ayurmitra/panchakarma-api/internal/handler/catalog"
	healthHandler "github.com/ayurmitra/panchakarma-api/internal/handler/health"
	peopleHandler "github.com/ayurmitra/panchakarma-api/internal/handler/people"
	planHandler "github.com/ayurmitra/panchakarma-api/internal/handler/plan"
	realtimeHandler "github.com/ayurmitra/panchakarma-api/internal/handler/realtime"
	sessionHandler "github.com/ayurmitra/panchakarma-api/internal/handler/session"
	"github.com/ayurmitra/panchakarma-api/internal/middleware"
	"github.com/ayurmitra/panchakarma-api/internal/repository/postgres"
	"github.com/ayurmitra/panchakarma-api/internal/router"
	authService "github.com/ayurmitra/panchakarma-api/internal/service/auth"
	availabilityService "github.com/ayurmitra/panchakarma-api/internal/service/availability"
	eventService "github.com/ayurmitra/panchakarma-api/internal/service/event"
	notificationService "github.com/ayurmitra/panchakarma-api/internal/service/notification"
	planService "github.com/ayurmitra/panchakarma-api/internal/service/plan"
	sessionService "github.com/ayurmitra/panchakarma-api/internal/service/session"
	templateService "github.com/ayurmitra/panchakarma-api/internal/service/template"
	therapyService "github.com/ayurmitra/panchakarma-api/internal/service/therapy"
	pkgauth "github.com/ayurmitra/panchakarma-api/pkg/auth"
	"github.com/ayurmitra/panchakarma-api/pkg/messaging/redis"
	"github.com/ayurmitra/panchakarma-api/pkg/metrics"
	"github.com/ayurmitra/panchakarma-api/pkg/security"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	broker, err := redis.NewRedisBroker(cfg.Redis.ToBrokerConfig(), &log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	m := metrics.NewMetrics("ayurmitra", "api")

	// Repositories
	planRepo := postgres.NewPlanRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)
	availabilityRepo := postgres.NewAvailabilityRepository(db)
	therapyRepo := postgres.NewTherapyRepository(db)
	templateRepo := postgres.NewTemplateRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	therapistRepo := postgres.NewTherapistRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	// Services
	eventSvc := eventService.NewService(outboxRepo)
	mailer := email.NewService(email.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})
	notifier := notificationService.NewService(broker, mailer, cfg.SMTP.AlertRecipient, log.Logger)

	tokens := pkgauth.NewTokenService(cfg.JWT.Secret, cfg.JWT.ExpiryHours)
	authSvc := authService.NewService(therapistRepo, tokens, security.NewBcryptHasher(0))

	planSvc := planService.NewService(planRepo, sessionRepo, templateRepo, eventSvc, m, log.Logger)
	sessionSvc := sessionService.NewService(sessionRepo, notifier, eventSvc, m, log.Logger)
	availabilitySvc := availabilityService.NewService(availabilityRepo)
	therapySvc := therapyService.NewService(therapyRepo)
	templateSvc := templateService.NewService(templateRepo)

	// Middleware and handlers
	authMiddleware := middleware.NewAuthMiddleware(authSvc)

	r := router.NewRouter(
		authMiddleware,
		authHandler.NewHandler(authSvc),
		healthHandler.NewHandler(db, broker.Client()),
		planHandler.NewHandler(planSvc),
		sessionHandler.NewHandler(sessionSvc),
		realtimeHandler.NewHandler(sessionSvc, broker, log.Logger),
		availabilityHandler.NewHandler(availabilitySvc),
		catalogHandler.NewHandler(therapySvc, templateSvc),
		peopleHandler.NewHandler(patientRepo, therapistRepo),
		router.Config{
			RateLimit:         rate.Limit(cfg.RateLimit.RequestsPerSecond),
			RateBurst:         cfg.RateLimit.Burst,
			RateLimitEnabled:  cfg.RateLimit.Enabled,
			CORSConfig:        corsConfig(cfg),
			MetricsPrefix:     "ayurmitra_http",
			PrometheusEnabled: cfg.Monitoring.PrometheusEnabled,
			MetricsPath:       cfg.Monitoring.MetricsPath,
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        r.Engine(),
		ReadTimeout:    cfg.Server.ReadTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}

func corsConfig(cfg *config.Config) middleware.CORSConfig {
	corsCfg := middleware.DefaultCORSConfig()
	if len(cfg.Security.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.Security.AllowedOrigins
	}
	if len(cfg.Security.AllowedMethods) > 0 {
		corsCfg.AllowMethods = cfg.Security.AllowedMethods
	}
	if len(cfg.Security.AllowedHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.Security.AllowedHeaders
	}
	return corsCfg
}
