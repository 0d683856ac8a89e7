package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/surajacharya12/E-commerce-web-sub000/apperrors"
	"github.com/surajacharya12/E-commerce-web-sub000/checkout"
	"github.com/surajacharya12/E-commerce-web-sub000/clients"
	"github.com/surajacharya12/E-commerce-web-sub000/config"
	"github.com/surajacharya12/E-commerce-web-sub000/controllers"
	"github.com/surajacharya12/E-commerce-web-sub000/logger"
	"github.com/surajacharya12/E-commerce-web-sub000/middleware"
	awspkg "github.com/surajacharya12/E-commerce-web-sub000/pkg/aws"
	"github.com/surajacharya12/E-commerce-web-sub000/routes"
	"github.com/surajacharya12/E-commerce-web-sub000/services"
	"github.com/surajacharya12/E-commerce-web-sub000/session"
	"github.com/surajacharya12/E-commerce-web-sub000/storage"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	serviceName = "storefront"

	sweepInterval   = time.Minute
	sessionMaxIdle  = 30 * time.Minute
	checkoutMaxIdle = time.Hour
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// ── CloudWatch Logs + Metrics ──
	var metrics awspkg.MetricsRecorder
	if cfg.CloudWatchEnabled {
		cwLogs, err := awspkg.NewCloudWatchLogsClient(ctx, serviceName)
		if err != nil {
			log.Printf("CloudWatch Logs init failed: %v", err)
			logger.Initialize(cfg.LogEnv)
		} else {
			logger.InitializeWithWriter(cfg.LogEnv, cwLogs)
		}
		if mc, err := awspkg.NewMetricsClient(ctx); err != nil {
			logger.Log.Warn("CloudWatch metrics client init failed (non-fatal)", zap.Error(err))
		} else {
			metrics = mc
		}
	} else {
		logger.Initialize(cfg.LogEnv)
	}
	defer logger.Log.Sync()
	zapLogger := logger.Log

	// ── Order events ──
	var events awspkg.SNSPublisher
	if cfg.OrderEventsTopicARN != "" {
		awsCfg, err := awspkg.LoadAWSConfig(ctx)
		if err != nil {
			zapLogger.Warn("SNS disabled: AWS config unavailable", zap.Error(err))
		} else {
			events = awspkg.NewSNSClient(awsCfg)
		}
	}

	backend := clients.NewBackendClient(cfg.BackendURL, cfg.RequestTimeout).WithMetrics(metrics)

	// ── Session storage: Redis when configured, memory otherwise ──
	origin := uuid.NewString()
	var st storage.Storage
	if cfg.RedisURL != "" {
		redisClient, err := storage.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			zapLogger.Fatal("failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		st = storage.NewRedisStorage(redisClient, cfg.SessionTTL, origin, zapLogger)
		zapLogger.Info("Connected to Redis")
	} else {
		st = storage.NewMemoryStorage()
		zapLogger.Warn("REDIS_URL not set, sessions are kept in memory")
	}

	sessions := session.NewManager(st, backend, origin, zapLogger)
	if cfg.RedisURL != "" {
		if err := sessions.Follow(ctx); err != nil {
			zapLogger.Fatal("failed to follow session changes", zap.Error(err))
		}
	}
	go sessions.Run(ctx, sweepInterval, sessionMaxIdle)

	registry := checkout.NewRegistry(zapLogger)
	go registry.Run(ctx, sweepInterval, checkoutMaxIdle)

	limiter := middleware.NewRateLimiter(rate.Limit(20), 40, 10*time.Minute)
	go limiter.Run(ctx)

	ctrl := routes.Controllers{
		Account: controllers.NewAccountController(services.NewAccountService(backend, zapLogger)),
		Cart:    controllers.NewCartController(),
		Checkout: controllers.NewCheckoutController(registry, backend, events, metrics, zapLogger, checkout.Config{
			OnlinePaymentDelay:  cfg.OnlinePaymentDelay,
			SuccessCountdown:    cfg.SuccessCountdown,
			OrderEventsTopicARN: cfg.OrderEventsTopicARN,
		}),
		Orders: controllers.NewOrderController(services.NewOrderService(backend, metrics, zapLogger)),
		Engagement: controllers.NewEngagementController(
			services.NewChatService(backend, zapLogger),
			services.NewReviewService(backend, zapLogger),
			services.NewWishlistService(backend, zapLogger),
			services.NewNotificationService(backend),
		),
	}

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestID())
	r.Use(middleware.RequestLogger(zapLogger))
	r.Use(middleware.MetricsMiddleware(metrics, serviceName))
	r.Use(middleware.SecurityHeaders())
	if len(cfg.AllowedOrigins) > 0 {
		r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	}
	r.Use(middleware.RateLimitMiddleware(limiter))
	r.Use(apperrors.ErrorMiddleware())

	routes.RegisterRoutes(r, ctrl, middleware.Session(sessions, cfg.SessionTTL, cfg.AppEnv == "production"))

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}

	go func() {
		zapLogger.Info("Storefront starting",
			zap.String("port", cfg.Port),
			zap.String("backend", backend.BaseURL()),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down Storefront...")
	stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Storefront stopped gracefully")
}
