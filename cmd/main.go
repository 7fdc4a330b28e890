package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	ginprometheus "github.com/zsais/go-gin-prometheus"

	"github.com/Zifeldev/langback/docs"
	"github.com/Zifeldev/langback/internal/app"
	"github.com/Zifeldev/langback/internal/config"
	"github.com/Zifeldev/langback/internal/controllers"
	"github.com/Zifeldev/langback/internal/db"
	"github.com/Zifeldev/langback/internal/logger"
	"github.com/Zifeldev/langback/internal/metrics"
	"github.com/Zifeldev/langback/internal/middleware"
	"github.com/Zifeldev/langback/internal/repository"
	"github.com/Zifeldev/langback/internal/service"
)

const serviceVersion = "1.0.0"

// Package main LangBack API
//
// @title           LangBack API
// @version         1.0
// @description     Language detection over word and letter frequency profiles
// @BasePath        /
func main() {
	cfg := config.MustLoad(context.Background())

	lg := logger.New()
	if !lg.ApplyLevel(cfg.Logger.Level) {
		lg.WithField("level", cfg.Logger.Level).Warn("unknown log level; keeping default")
	}
	log := lg.Logger

	baseEntry := logrus.NewEntry(log).WithFields(logrus.Fields{
		"service": "langback",
	})

	// The database is only needed when profiles live in Postgres.
	var (
		pinger db.Pinger
		store  app.ProfileLoader
	)
	if cfg.Detector.DatasetSource == config.SourcePostgres {
		pool, err := db.New(context.Background(), cfg.Database)
		if err != nil {
			log.WithError(err).Fatal("failed to connect to database")
		}
		defer pool.Close()
		timeoutPool := db.NewTimeoutPool(pool, cfg.Database.QueryTimeout)
		pinger = timeoutPool
		store = repository.NewPostgresProfileRepo(timeoutPool)
	}

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 30*time.Second)
	detector, err := app.NewDetector(loadCtx, cfg.Detector, store, lg.Component("detector"))
	cancelLoad()
	if err != nil {
		log.WithError(err).Fatal("failed to build detector")
	}

	var (
		rdb   *redis.Client
		cache repository.ResultCache
	)
	if cfg.Redis.Enabled {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		// Best-effort ping on startup
		pingCtx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			baseEntry.WithError(err).Warn("redis ping failed; proceeding without cache")
		} else {
			baseEntry.WithField("addr", cfg.Redis.Addr).Info("redis connected")
			cache = repository.NewRedisResultCache(rdb, cfg.Redis.Prefix, cfg.Redis.TTL)
		}
		cancel()
	}

	svc := service.NewDetectionService(detector, cache, service.Options{
		MaxTextBytes:   cfg.Detector.MaxTextBytes,
		CleanHTML:      cfg.Detector.CleanHTML,
		CacheNamespace: app.CacheNamespace(cfg.Detector),
	}, baseEntry)

	baseEntry.WithFields(logrus.Fields{
		"http_addr":        cfg.HTTP.Host,
		"req_timeout":      cfg.HTTP.RequestTimeout.String(),
		"shutdown_timeout": cfg.HTTP.ShutdownTimeout.String(),
		"backend":          cfg.Detector.Backend,
		"dataset_source":   cfg.Detector.DatasetSource,
		"minimum_ratio":    cfg.Detector.MinimumRatio,
		"cache":            cache != nil,
	}).Info("config loaded")

	docs.SwaggerInfo.Version = serviceVersion

	r := gin.New()
	p := ginprometheus.NewPrometheus("langback")
	p.Use(r)
	metrics.RegisterMetrics()
	r.Use(middleware.RecoveryMiddleware(log))
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.LoggerMiddleware(log))

	reqTimeout := cfg.HTTP.RequestTimeout
	if reqTimeout <= 0 {
		reqTimeout = 500 * time.Millisecond
		baseEntry.WithField("effective_req_timeout", reqTimeout.String()).
			Warn("HTTP request timeout was 0; using default")
	}
	r.Use(middleware.TimeoutMiddleware(reqTimeout))
	r.Use(middleware.BodyLimitMiddleware(cfg.HTTP.MaxBodyBytes))

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	dc := controllers.NewDetectController(svc, baseEntry)
	hc := controllers.NewHealthController(pinger, rdb, svc, baseEntry, time.Now(), serviceVersion)

	r.GET("/health", middleware.TimeoutMiddleware(2*time.Second), hc.Handle)

	r.POST("/detect", dc.Detect)
	r.POST("/detect/scores", dc.Scores)
	r.POST("/detect/batch", dc.Batch)
	r.POST("/detect/email", dc.DetectEmail)
	r.GET("/languages", dc.Languages)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{"message": "Not Found"})
	})

	srv := &http.Server{
		Addr:              cfg.HTTP.Host,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	srv.RegisterOnShutdown(func() {
		baseEntry.Info("closing backend connections")
	})

	go func() {
		log.WithField("addr", cfg.HTTP.Host).Info("starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("http server failed")
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down gracefully, press Ctrl+C again to force")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	baseEntry.WithFields(logrus.Fields{"signal": sig.String(), "grace_period_sec": cfg.HTTP.ShutdownTimeout}).Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseEntry.WithError(err).Error("shutdown error")
	} else {
		baseEntry.Info("server exited properly")
	}
}
