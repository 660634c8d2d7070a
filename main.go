package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gamecentre/config"
	"gamecentre/cron"
	"gamecentre/database"
	customerRepo "gamecentre/database/repository/customer"
	deviceRepo "gamecentre/database/repository/device"
	sessionRepo "gamecentre/database/repository/session"
	"gamecentre/handlers"
	"gamecentre/middleware"
	"gamecentre/models"
	"gamecentre/routes"
	"gamecentre/services/device"
	"gamecentre/services/notification"
	"gamecentre/services/otp"
	"gamecentre/services/payment"
	"gamecentre/services/session"
	"gamecentre/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitOTPCache()
	stripe.Key = config.AppConfig.StripeKey

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	router.Use(cors.Default())

	// repositories.
	custRepo := customerRepo.NewMongoCustomerRepo()
	devRepo := deviceRepo.NewMongoDeviceRepo()
	sessRepo := sessionRepo.NewMongoSessionRepo(devRepo)

	// services.
	registry := device.NewRegistry(devRepo, logger)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := registry.Provision(ctx,
		config.AppConfig.DevicePoolSize,
		config.AppConfig.DeviceIDPrefix,
		config.AppConfig.DeviceNamePrefix,
	); err != nil {
		logger.Sugar().Fatalf("main: failed to provision device pool: %v", err)
	}
	cancel()

	issuer := otp.NewDefaultIssuer(utils.GetOTPCacheClient(), logger)
	notifier := notification.NewLogNotificationService(logger)
	processor := payment.NewUnifiedPaymentProcessor(logger, "pm_card_visa")
	reminders := cron.NewReminderScheduler()

	engine := &session.DefaultEngine{
		Sessions:  sessRepo,
		Customers: custRepo,
		Registry:  registry,
		Issuer:    issuer,
		Payments:  processor,
		Notifier:  notifier,
		Timers:    session.NewTimers(),
		Reminders: reminders,
		Logger:    logger,
	}

	// Background worker for the five-minutes-remaining warnings.
	cron.InitExpiryWarningWorker(sessRepo, notifier)

	// Change-stream feed the dashboard subscribes through; view refresh only.
	watchCtx, stopWatch := context.WithCancel(context.Background())
	go func() {
		if err := database.WatchCollection(watchCtx, "sessions", func(evt database.ChangeEvent) {
			logger.Debug("session change",
				zap.String("operation", evt.Operation),
				zap.Any("documentId", evt.DocumentID))
		}); err != nil && watchCtx.Err() == nil {
			logger.Warn("session change stream closed", zap.Error(err))
		}
	}()

	// Re-arm timers for sessions that were in flight when the process last
	// stopped: lapsed codes expire, running sessions keep their countdown.
	rearmTimers(engine, sessRepo, logger)

	// handlers.
	handlerBundle := &routes.HandlerBundle{
		Session: handlers.NewSessionHandler(engine, logger),
		Admin:   handlers.NewAdminHandler(engine, registry, logger),
		Device:  handlers.NewDeviceHandler(registry),
	}
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")
	stopWatch()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

// rearmTimers restores the per-session timers after a restart. Approved
// sessions get their remaining code-expiry window back (or expire on the
// spot), active sessions get their remaining duration (or end on the spot).
func rearmTimers(engine *session.DefaultEngine, sessions sessionRepo.SessionRepository, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	approved, err := sessions.ListByStatus(ctx, models.SessionApproved)
	if err != nil {
		logger.Warn("main: failed to list approved sessions for re-arm", zap.Error(err))
	}
	for _, s := range approved {
		s := s
		remaining := time.Duration(0)
		if s.OTPExpiresAt != nil {
			remaining = time.Until(*s.OTPExpiresAt)
		}
		engine.Timers.Arm(s.ID, remaining, func() {
			if err := engine.Expire(context.Background(), s.ID); err != nil {
				logger.Error("re-armed expiry failed", zap.String("sessionId", s.ID), zap.Error(err))
			}
		})
	}

	active, err := sessions.ListByStatus(ctx, models.SessionActive)
	if err != nil {
		logger.Warn("main: failed to list active sessions for re-arm", zap.Error(err))
	}
	for _, s := range active {
		s := s
		remaining := time.Duration(0)
		if s.EndTime != nil {
			remaining = time.Until(*s.EndTime)
		}
		engine.Timers.Arm(s.ID, remaining, func() {
			if err := engine.End(context.Background(), s.ID, "timer"); err != nil {
				logger.Error("re-armed end failed", zap.String("sessionId", s.ID), zap.Error(err))
			}
		})
	}
}
