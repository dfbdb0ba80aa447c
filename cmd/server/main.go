// Package main runs the recruitment platform HTTP server with graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/talentbridge/backend/config"
	"github.com/talentbridge/backend/internal/auth"
	"github.com/talentbridge/backend/internal/events"
	"github.com/talentbridge/backend/internal/middleware"
	"github.com/talentbridge/backend/internal/notifications"
	"github.com/talentbridge/backend/internal/opportunities"
	"github.com/talentbridge/backend/internal/pages"
	"github.com/talentbridge/backend/internal/ratelimit"
	"github.com/talentbridge/backend/pkg/database"
	"github.com/talentbridge/backend/pkg/queue"
	"github.com/talentbridge/backend/pkg/redis"
	"github.com/talentbridge/backend/pkg/response"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)

	limiter := ratelimit.New(cfg.RateLimit.Requests, time.Duration(cfg.RateLimit.WindowMS)*time.Millisecond)
	sweepStop := make(chan struct{})
	defer close(sweepStop)
	go limiter.SweepLoop(time.Minute, sweepStop)

	jobQueue := queue.NewQueue(rdb.Client, logger)
	emailLogRepo := notifications.NewRepository(pool)
	notifier := notifications.NewEmailDispatcher(emailLogRepo, jobQueue, logger)

	pageRepo := pages.NewRepository(pool)
	pageHandler := pages.NewHandler(pageRepo, cfg.Server.ListCacheMaxAge, logger)

	opportunityRepo := opportunities.NewRepository(pool)
	opportunityHandler := opportunities.NewHandler(opportunityRepo, pageRepo, notifier, cfg.Server.ListCacheMaxAge, logger)

	eventRepo := events.NewRepository(pool)
	eventHandler := events.NewHandler(eventRepo, pageRepo, notifier, cfg.Server.ListCacheMaxAge, logger)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Protected API (JWT required, rate limited per client)
	api := router.Group("")
	api.Use(middleware.JWT(jwtService))
	api.Use(middleware.RateLimit(limiter))
	{
		// Pages and membership
		api.GET("/pages", pageHandler.ListMyPages)
		api.GET("/pages/:id/members", pageHandler.ListMembers)
		api.POST("/pages/:id/members", pageHandler.AddMember)
		api.DELETE("/pages/:id/members/:userId", pageHandler.RemoveMember)

		// Opportunities
		api.GET("/opportunities", opportunityHandler.List)
		api.GET("/opportunities/:id/ownership", opportunityHandler.Ownership)
		api.GET("/opportunities/:id/applicants", opportunityHandler.ListApplicants)
		api.GET("/opportunities/:id/emails", opportunityHandler.ListEmails(emailLogRepo))
		api.PUT("/opportunities/applicants/:applicantId/status", opportunityHandler.UpdateApplicantStatus)

		// Events
		api.GET("/events", eventHandler.List)
		api.GET("/events/:id/ownership", eventHandler.Ownership)
		api.GET("/events/:id/applicants", eventHandler.ListRegistrants)
		api.GET("/events/:id/emails", eventHandler.ListEmails(emailLogRepo))
		api.PUT("/events/:eventId/applicants/:applicantId/status", eventHandler.UpdateRegistrantStatus)
		api.PUT("/events/:eventId/applicants/:applicantId/payment-status", eventHandler.UpdateBookingStatus)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
