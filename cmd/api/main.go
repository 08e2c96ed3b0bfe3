package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/diagnosis/gatherly/internal/http/handlers"
	imw "github.com/diagnosis/gatherly/internal/http/middleware"
	"github.com/diagnosis/gatherly/internal/notify"
	"github.com/diagnosis/gatherly/internal/platform/billing"
	"github.com/diagnosis/gatherly/internal/platform/mailer"
	"github.com/diagnosis/gatherly/internal/repo/postgres"
	"github.com/diagnosis/gatherly/internal/service"
	"github.com/diagnosis/gatherly/pkg/auth"
	"github.com/diagnosis/gatherly/pkg/config"
	"github.com/diagnosis/gatherly/pkg/database"
	"github.com/diagnosis/gatherly/pkg/events"
	"github.com/diagnosis/gatherly/pkg/logger"
	mw "github.com/diagnosis/gatherly/pkg/middleware"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// NATS is optional infrastructure: without it the API still serves, it
	// just stops publishing domain events and sending notification mail.
	var bus events.EventBus
	if natsBus, err := events.NewNATSEventBus(cfg.NATS.URL); err != nil {
		logger.Warn("NATS unavailable, domain events disabled", "error", err)
	} else {
		bus = natsBus
		defer natsBus.Close()
	}

	var rdb *redis.Client
	if opts, err := redis.ParseURL(cfg.Redis.URL); err != nil {
		logger.Warn("Invalid redis URL, rate limiting disabled", "error", err)
	} else {
		if cfg.Redis.Password != "" {
			opts.Password = cfg.Redis.Password
		}
		opts.DB = cfg.Redis.DB
		rdb = redis.NewClient(opts)
		defer rdb.Close()
	}

	// Repositories
	userRepo := postgres.NewUserRepo(pool)
	eventRepo := postgres.NewEventRepo(pool)
	rsvpRepo := postgres.NewRSVPRepo(pool)

	// Services
	issuer := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL)
	authService := service.NewAuthService(userRepo, issuer, cfg.Auth.AccessTokenTTL, bus)
	eventService := service.NewEventService(eventRepo, rsvpRepo, userRepo, bus, cfg.RSVP.FreeEventLimit)
	rsvpService := service.NewRSVPService(eventRepo, rsvpRepo, bus, cfg.RSVP.MaxPlusOnes)

	var billingService service.BillingService
	if cfg.Stripe.SecretKey != "" {
		stripeClient := billing.NewStripeClient(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret, cfg.Server.FrontendURL)
		billingService = service.NewBillingService(userRepo, stripeClient, cfg.Stripe.ProPriceID, bus)
	}

	// Notifications
	if bus != nil {
		notifier := notify.New(bus, buildMailer(cfg))
		if err := notifier.Start(); err != nil {
			logger.Error("Failed to start notifier", "error", err)
			os.Exit(1)
		}
	}

	// Middleware
	session := imw.NewSession(issuer)
	var authLimiter, rsvpLimiter *imw.RateLimiter
	if rdb != nil {
		authLimiter = imw.NewRateLimiter(rdb, imw.RateLimitConfig{
			Requests: 10,
			Window:   time.Minute,
			KeyFunc: func(r *http.Request) []string {
				return []string{"auth:" + imw.ClientIP(r)}
			},
		})
		rsvpLimiter = imw.NewRateLimiter(rdb, imw.RateLimitConfig{
			Requests: 30,
			Window:   time.Minute,
			KeyFunc: func(r *http.Request) []string {
				return []string{"rsvp:" + imw.ClientIP(r)}
			},
		})
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, session, authLimiter)
	eventHandler := handlers.NewEventHandler(eventService)
	rsvpHandler := handlers.NewRSVPHandler(rsvpService, rsvpLimiter)
	dashHandler := handlers.NewDashboardHandler(eventService, session)
	var billingHandler *handlers.BillingHandler
	if billingService != nil {
		billingHandler = handlers.NewBillingHandler(billingService, session)
	}

	// Router
	r := chi.NewRouter()
	r.Use(mw.RequestID)
	r.Use(mw.Logging)
	r.Use(mw.Health)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.Server.FrontendURL},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Mount("/", handlers.Routes(session, authHandler, eventHandler, rsvpHandler, dashHandler, billingHandler))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down API...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Shutdown error", "error", err)
		}
	}()

	logger.Info("Starting Gatherly API", "port", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
}

func buildMailer(cfg *config.Config) mailer.Service {
	switch {
	case cfg.Email.DevMode:
		return mailer.NewDevMailer()
	case cfg.Email.MailerSendKey != "":
		return mailer.NewMailerSend(cfg.Email.MailerSendKey, cfg.Email.FromName, cfg.Email.SMTPFrom)
	default:
		return mailer.NewSMTPMailer(cfg.Email.SMTPHost, cfg.Email.SMTPPort,
			cfg.Email.SMTPFrom, cfg.Email.SMTPUser, cfg.Email.SMTPPass, cfg.Email.SMTPUseTLS)
	}
}
