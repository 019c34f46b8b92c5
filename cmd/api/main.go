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

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shibbu04/scaler-apm/internal/adapters/ai"
	"github.com/shibbu04/scaler-apm/internal/adapters/calendar"
	"github.com/shibbu04/scaler-apm/internal/analytics"
	"github.com/shibbu04/scaler-apm/internal/booking"
	bookingcal "github.com/shibbu04/scaler-apm/internal/booking/calendar"
	"github.com/shibbu04/scaler-apm/internal/chatbot"
	"github.com/shibbu04/scaler-apm/internal/chatbot/responder"
	"github.com/shibbu04/scaler-apm/internal/email"
	"github.com/shibbu04/scaler-apm/internal/events"
	apphttp "github.com/shibbu04/scaler-apm/internal/http"
	"github.com/shibbu04/scaler-apm/internal/http/router"
	"github.com/shibbu04/scaler-apm/internal/leads"
	"github.com/shibbu04/scaler-apm/internal/notification"
	"github.com/shibbu04/scaler-apm/migrations"
	"github.com/shibbu04/scaler-apm/platform/config"
	"github.com/shibbu04/scaler-apm/platform/db"
	"github.com/shibbu04/scaler-apm/platform/logger"
	"github.com/shibbu04/scaler-apm/platform/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, migrations.FS)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	sender, err := email.NewSender(cfg)
	if err != nil {
		log.Error("failed to initialize email sender", "error", err)
		panic("failed to initialize email sender: " + err.Error())
	}

	// Shared validator instance for dependency injection
	val := validator.New()

	// Collaborator adapters. Both return nil when unconfigured; assigning a
	// nil pointer straight into the interface would make it non-nil, so the
	// guards keep the disabled paths honest.
	var completer responder.Completer
	if c := ai.NewOpenAICompleter(cfg, log); c != nil {
		completer = c
		log.Info("AI completer initialized", "model", cfg.GetOpenAIModel())
	} else {
		log.Warn("OPENAI_API_KEY not configured; chatbot uses canned responses only")
	}

	var provider bookingcal.Provider
	if c := calendar.NewCalendly(cfg, log); c != nil {
		provider = c
		log.Info("calendar provider initialized")
	} else {
		log.Warn("CALENDLY_API_TOKEN not configured; booking endpoints disabled")
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	leadsModule := leads.NewModule(pool, eventBus, val)

	chatbotModule, err := chatbot.NewModule(leadsModule.Service(), completer, eventBus, val, log)
	if err != nil {
		log.Error("failed to initialize chatbot module", "error", err)
		panic("failed to initialize chatbot module: " + err.Error())
	}

	analyticsModule := analytics.NewModule(pool, leadsModule.Service())
	bookingModule := booking.NewModule(leadsModule.Service(), provider, eventBus, val)
	emailModule := email.NewModule(leadsModule.Service(), sender, cfg, val, log)

	// Notification module subscribes to domain events (not HTTP-facing)
	notificationModule := notification.New(leadsModule.Service(), emailModule.Service(), cfg, log)
	notificationModule.RegisterHandlers(eventBus)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			leadsModule,
			chatbotModule,
			analyticsModule,
			bookingModule,
			emailModule,
		},
	}

	engine := router.New(app)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
