package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/localmart/khoj/internal/config"
	dbRedis "github.com/localmart/khoj/internal/db/redis"
	logpkg "github.com/localmart/khoj/internal/logger"
	"github.com/localmart/khoj/internal/metrics"
	catalogrepo "github.com/localmart/khoj/internal/repository/catalog"
	"github.com/localmart/khoj/internal/repository/querycache"
	chiTransport "github.com/localmart/khoj/internal/transport/chi"
	alertsuc "github.com/localmart/khoj/internal/usecase/alerts"
	cataloguc "github.com/localmart/khoj/internal/usecase/catalog"
	healthuc "github.com/localmart/khoj/internal/usecase/health"
	orderuc "github.com/localmart/khoj/internal/usecase/order"
	searchuc "github.com/localmart/khoj/internal/usecase/search"
	"github.com/localmart/khoj/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting khoj API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := logpkg.ContextWithLogger(context.Background(), logger)
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register search metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	// Catalog snapshot holder with availability alerts on swaps
	catalogRepo := catalogrepo.New(store, cfg.Storage.KeyPrefix)
	catalogSvc := cataloguc.New(
		catalogRepo,
		time.Duration(cfg.Catalog.RefreshIntervalSec)*time.Second,
		time.Duration(cfg.Catalog.LoadTimeoutSec)*time.Second,
		logger,
	)

	monitor := alertsuc.NewMonitor(
		alertsuc.NewLogNotifier(logger),
		alertsuc.RetryPolicy{
			MaxAttempts: cfg.Alerts.MaxAttempts,
			BaseDelay:   time.Duration(cfg.Alerts.BaseDelayMs) * time.Millisecond,
			MaxDelay:    time.Duration(cfg.Alerts.MaxDelayMs) * time.Millisecond,
		},
		cfg.Alerts.QueueSize,
	)
	catalogSvc.WithSwapHook(monitor.Observe)

	runCtx, stopBackground := context.WithCancel(ctx)
	defer stopBackground()
	go catalogSvc.Run(runCtx)
	go monitor.Run(runCtx)

	// Use case services
	searchSvc := searchuc.New(catalogSvc).WithThresholds(searchuc.Thresholds{
		Accept:               cfg.Search.AcceptThreshold,
		Suggest:              cfg.Search.SuggestThreshold,
		DidYouMeanSimilarity: cfg.Search.DidYouMeanSimilarity,
	})
	if cfg.Search.CacheEnabled {
		searchSvc.WithCache(querycache.New(
			store, cfg.Storage.KeyPrefix,
			time.Duration(cfg.Search.CacheTTLSec)*time.Second,
		))
	}
	orderSvc := orderuc.New(catalogSvc)
	healthSvc := healthuc.New(store, catalogSvc)

	// Create chi server
	server := chiTransport.NewServer(searchSvc, orderSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")
	stopBackground()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger
			if requestID != "" {
				reqLogger = logger.With(zap.String("request_id", requestID))
			}
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
