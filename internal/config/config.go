package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type DatabaseConfig struct {
	Host              string
	Port              int
	User              string
	Password          string
	Name              string
	SSLMode           string
	MaxConns          int32
	MinConns          int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
	QueryTimeout      time.Duration
}

type HTTPConfig struct {
	Host            string
	ShutdownTimeout time.Duration
	RequestTimeout  time.Duration
	// MaxBodyBytes bounds request bodies; batch requests carry many texts.
	MaxBodyBytes int64
}

type LoggerConfig struct {
	Level string
}

type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
	Prefix   string
	TTL      time.Duration
}

// Dataset sources.
const (
	SourceEmbedded = "embedded"
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

// Detector backends.
const (
	BackendFrequency = "frequency"
	BackendLingua    = "lingua"
)

type DetectorConfig struct {
	Backend         string
	DatasetSource   string
	DatasetPath     string
	CalibrationPath string
	// Languages restricts the active set; empty means every dataset language.
	Languages    []string
	Merge        bool
	DatasetMerge bool
	Similar      bool
	MinimumRatio float64
	Parallel     bool
	Debug        bool
	MaxTextBytes int
	CleanHTML    bool
}

type Config struct {
	Strict   bool
	Database DatabaseConfig
	HTTP     HTTPConfig
	Logger   LoggerConfig
	Redis    RedisConfig
	Detector DetectorConfig
}

func MustLoad(_ context.Context) Config {
	var cfg Config

	cfg.Strict = getEnvBool("STRICT", false)
	cfg.HTTP = HTTPConfig{
		Host:            getEnv("HTTP_HOST", ":8080"),
		ShutdownTimeout: getEnvDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		RequestTimeout:  getEnvDuration("HTTP_REQUEST_TIMEOUT", 15*time.Second),
		MaxBodyBytes:    int64(getEnvInt("HTTP_MAX_BODY_BYTES", 4<<20)),
	}
	cfg.Detector = loadDetector()

	if cfg.Strict {
		if cfg.Detector.DatasetSource == SourcePostgres {
			cfg.Database = DatabaseConfig{
				Host:              mustEnv("DB_HOST"),
				Port:              mustEnvInt("DB_PORT"),
				User:              mustEnv("DB_USER"),
				Password:          mustEnv("DB_PASSWORD"),
				Name:              mustEnv("DB_NAME"),
				SSLMode:           mustEnv("DB_SSLMODE"),
				MaxConns:          int32(mustEnvInt("DB_MAX_CONNS")),
				MinConns:          int32(mustEnvInt("DB_MIN_CONNS")),
				MaxConnLifetime:   getEnvDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
				MaxConnIdleTime:   getEnvDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
				HealthCheckPeriod: getEnvDuration("DB_HEALTH_CHECK_PERIOD", time.Minute),
				QueryTimeout:      getEnvDuration("DB_QUERY_TIMEOUT", 5*time.Second),
			}
		}
		if cfg.Detector.DatasetSource == SourceFile {
			cfg.Detector.DatasetPath = mustEnv("DATASET_PATH")
		}
		// Redis in strict mode: parse if enabled, require address
		if getEnvBool("REDIS_ENABLED", false) {
			cfg.Redis = RedisConfig{
				Enabled:  true,
				Addr:     mustEnv("REDIS_ADDR"),
				Password: getEnv("REDIS_PASSWORD", ""),
				DB:       mustEnvInt("REDIS_DB"),
				Prefix:   getEnv("REDIS_PREFIX", "langback:"),
				TTL:      getEnvDuration("REDIS_TTL", 5*time.Minute),
			}
		} else {
			cfg.Redis = RedisConfig{Enabled: false}
		}
	} else {
		cfg.Database = DatabaseConfig{
			Host:              getEnv("DB_HOST", "localhost"),
			Port:              getEnvInt("DB_PORT", 5432),
			User:              getEnv("DB_USER", "postgres"),
			Password:          getEnv("DB_PASSWORD", "123"),
			Name:              getEnv("DB_NAME", "langdb"),
			SSLMode:           getEnv("DB_SSLMODE", "disable"),
			MaxConns:          int32(getEnvInt("DB_MAX_CONNS", 10)),
			MinConns:          int32(getEnvInt("DB_MIN_CONNS", 1)),
			MaxConnLifetime:   getEnvDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime:   getEnvDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			HealthCheckPeriod: getEnvDuration("DB_HEALTH_CHECK_PERIOD", time.Minute),
			QueryTimeout:      getEnvDuration("DB_QUERY_TIMEOUT", 5*time.Second),
		}
		cfg.Redis = RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", false),
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			Prefix:   getEnv("REDIS_PREFIX", "langback:"),
			TTL:      getEnvDuration("REDIS_TTL", 5*time.Minute),
		}
	}
	cfg.Logger = LoggerConfig{
		Level: getEnv("LOGGER_LEVEL", "info"),
	}
	return cfg
}

func loadDetector() DetectorConfig {
	dc := DetectorConfig{
		Backend:         strings.ToLower(getEnv("DETECTOR_BACKEND", BackendFrequency)),
		DatasetSource:   strings.ToLower(getEnv("DATASET_SOURCE", SourceEmbedded)),
		DatasetPath:     getEnv("DATASET_PATH", ""),
		CalibrationPath: getEnv("CALIBRATION_PATH", ""),
		Languages:       getEnvList("DETECTOR_LANGUAGES"),
		Merge:           getEnvBool("DETECTOR_MERGE", true),
		DatasetMerge:    getEnvBool("DETECTOR_DATASET_MERGE", true),
		Similar:         getEnvBool("DETECTOR_SIMILAR", true),
		MinimumRatio:    getEnvFloat("DETECTOR_MIN_RATIO", 0.8),
		Parallel:        getEnvBool("DETECTOR_PARALLEL", false),
		Debug:           getEnvBool("DETECTOR_DEBUG", false),
		MaxTextBytes:    getEnvInt("DETECTOR_MAX_TEXT_BYTES", 64<<10),
		CleanHTML:       getEnvBool("DETECTOR_CLEAN_HTML", true),
	}
	switch dc.Backend {
	case BackendFrequency, BackendLingua:
	default:
		panic(fmt.Errorf("DETECTOR_BACKEND must be %q or %q, got %q", BackendFrequency, BackendLingua, dc.Backend))
	}
	switch dc.DatasetSource {
	case SourceEmbedded, SourceFile, SourcePostgres:
	default:
		panic(fmt.Errorf("DATASET_SOURCE must be one of embedded, file, postgres, got %q", dc.DatasetSource))
	}
	if dc.MinimumRatio <= 0 || dc.MinimumRatio > 1 {
		panic(fmt.Errorf("DETECTOR_MIN_RATIO must be in (0, 1], got %v", dc.MinimumRatio))
	}
	return dc
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}
func getEnvBool(key string, def bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}
func getEnvInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
func getEnvFloat(key string, def float64) float64 {
	if v, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
func getEnvDuration(key string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

// getEnvList splits a comma separated value, dropping blanks.
func getEnvList(key string) []string {
	v, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func mustEnv(key string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	panic(errors.New("missing required env: " + key))
}
func mustEnvInt(key string) int {
	v := mustEnv(key)
	n, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Errorf("env %s must be int: %w", key, err))
	}
	return n
}
