package main

import (
	"database/sql"
	"net/http"
	"os"
	"time"

	_ "github.com/lib/pq"

	"slotpoll/config"
	"slotpoll/internal/adapters/auth"
	"slotpoll/internal/adapters/cache"
	"slotpoll/internal/adapters/calendar"
	"slotpoll/internal/adapters/email"
	httpdelivery "slotpoll/internal/delivery/http"
	"slotpoll/internal/delivery/http/controllers"
	"slotpoll/internal/delivery/http/middleware"
	"slotpoll/internal/jobs"
	"slotpoll/internal/repository/postgres"
	"slotpoll/internal/services"
)

const serviceTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	logger := config.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("failed to connect to database", "err", err)
		os.Exit(1)
	}

	eventRepo := postgres.NewEventRepository(db)
	participantRepo := postgres.NewParticipantRepository(db)
	responseRepo := postgres.NewResponseRepository(db)
	userRepo := postgres.NewUserRepository(db)

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:          cfg.SESRegion,
			AccessKeyID:     cfg.SESAccessKeyID,
			SecretAccessKey: cfg.SESSecretAccessKey,
		},
	})
	if err != nil {
		logger.Error("failed to create mailer", "err", err)
		os.Exit(1)
	}

	aggregationCache := cache.NewMemoryCache()
	if cfg.RedisAddr != "" {
		aggregationCache = cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword)
		logger.Info("using redis aggregation cache", "addr", cfg.RedisAddr)
	}

	hasher := auth.NewBcryptHasher(0)
	tokenIssuer := auth.NewJWTIssuer(cfg.JWTSecret)
	tokenVerifier := auth.NewJWTVerifier(cfg.JWTSecret)
	calendarSource := calendar.NewICSSource(serviceTimeout)

	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer())
	userService := services.NewUserService(userRepo, hasher, tokenIssuer, cfg.TokenExpiry, serviceTimeout)
	eventService := services.NewScheduleService(eventRepo, userRepo, emailService, cfg.AppBaseURL, serviceTimeout)
	availabilityService := services.NewAvailabilityService(
		eventRepo, participantRepo, responseRepo,
		calendarSource, aggregationCache,
		cfg.CacheTTL, serviceTimeout, logger,
	)

	authController := controllers.NewAuthController(logger, userService)
	eventController := controllers.NewEventController(logger, eventService)
	availabilityController := controllers.NewAvailabilityController(logger, availabilityService)

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	mux := httpdelivery.NewRouter(authController, eventController, availabilityController, tokenVerifier, limiter)

	cleanup := jobs.NewCleanupJob(eventRepo, cfg.EventRetention, logger)
	scheduler, err := jobs.Schedule(cleanup, logger)
	if err != nil {
		logger.Error("failed to schedule cleanup job", "err", err)
		os.Exit(1)
	}
	defer scheduler.Stop()

	handler := middleware.CORS(cfg.AllowedOrigins, middleware.LoggingMiddleware(logger, mux))

	logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
	if err := http.ListenAndServe(":"+cfg.Port, handler); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
