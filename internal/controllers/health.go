package controllers

import (
	"context"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/Zifeldev/langback/internal/db"
)

// LanguageLister reports the languages a loaded detector can return.
type LanguageLister interface {
	SupportedLanguages() []string
}

// HealthController reports the state of the detector and of its optional
// backends. A nil DBPool or Redis skips that check.
type HealthController struct {
	DBPool     db.Pinger
	Redis      *redis.Client
	Detector   LanguageLister
	Logger     *logrus.Entry
	StartTime  time.Time
	ServiceVer string
}

func NewHealthController(pool db.Pinger, redis *redis.Client, det LanguageLister, logger *logrus.Entry, start time.Time, version string) *HealthController {
	return &HealthController{
		DBPool:     pool,
		Redis:      redis,
		Detector:   det,
		Logger:     logger,
		StartTime:  start,
		ServiceVer: version,
	}
}

type HealthResponse struct {
	Status       string                 `json:"status" example:"ok"`
	Timestamp    string                 `json:"timestamp" example:"2025-10-30T10:15:00Z"`
	ServiceName  string                 `json:"service_name" example:"langback"`
	Version      string                 `json:"version" example:"v1.0.0"`
	Hostname     string                 `json:"hostname" example:"langback-app-1"`
	Uptime       string                 `json:"uptime" example:"5m42s"`
	GoVersion    string                 `json:"go_version" example:"go1.23.2"`
	NumGoroutine int                    `json:"num_goroutine" example:"18"`
	Checks       map[string]interface{} `json:"checks"`
	Memory       map[string]interface{} `json:"memory"`
}

// Handle runs all health checks and returns the system status.
//
// @Summary      Service health check
// @Description  Returns the state of the language detector and its backends, memory usage and uptime.
// @Tags         health
// @Produce      json
// @Success      200 {object} HealthResponse "Service is healthy"
// @Failure      503 {object} HealthResponse "Service is degraded"
// @Router       /health [get]
func (h *HealthController) Handle(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := HealthResponse{
		Status:       "ok",
		Timestamp:    time.Now().UTC().Format(time.RFC3339Nano),
		ServiceName:  "langback",
		Version:      h.ServiceVer,
		Hostname:     getHostname(),
		Uptime:       time.Since(h.StartTime).String(),
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		Checks:       make(map[string]interface{}),
	}

	// --- Detector Check ---
	detCheck := make(map[string]interface{})
	if h.Detector == nil {
		detCheck["status"] = "fail"
		detCheck["error"] = "detector not loaded"
		status.Status = "degraded"
	} else if n := len(h.Detector.SupportedLanguages()); n == 0 {
		detCheck["status"] = "fail"
		detCheck["error"] = "no active languages"
		status.Status = "degraded"
	} else {
		detCheck["status"] = "ok"
		detCheck["languages"] = n
	}
	status.Checks["detector"] = detCheck

	// --- PostgreSQL Check ---
	if h.DBPool != nil {
		dbCheck := make(map[string]interface{})
		start := time.Now()
		if err := h.DBPool.Ping(ctx); err != nil {
			dbCheck["status"] = "fail"
			dbCheck["error"] = err.Error()
			status.Status = "degraded"
		} else {
			dbCheck["status"] = "ok"
		}
		dbCheck["latency_ms"] = time.Since(start).Milliseconds()
		status.Checks["postgres"] = dbCheck
	}

	// --- Redis Check ---
	if h.Redis != nil {
		redisCheck := make(map[string]interface{})
		start := time.Now()
		if err := h.Redis.Ping(ctx).Err(); err != nil {
			redisCheck["status"] = "fail"
			redisCheck["error"] = err.Error()
			status.Status = "degraded"
		} else {
			redisCheck["status"] = "ok"
		}
		redisCheck["latency_ms"] = time.Since(start).Milliseconds()
		status.Checks["redis"] = redisCheck
	}

	// --- Memory Info ---
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	status.Memory = map[string]interface{}{
		"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
		"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
		"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
		"num_gc":         memStats.NumGC,
	}

	code := http.StatusOK
	if status.Status == "degraded" {
		if h.Logger != nil {
			h.Logger.WithField("checks", status.Checks).Warn("health degraded")
		}
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}

func getHostname() string {
	name, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return name
}
