package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env         string
	ListenAddr  string
	DatabaseURL string
	CatalogFile string

	RedisAddr       string
	CatalogCacheTTL time.Duration

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string

	KafkaBrokers []string
	KafkaTopic   string

	AssessWorkers int
	LogLevel      string
	LogFormat     string

	ForcePreselectScore float64
	MinPreselectScore   float64
}

// ErrInvalid marks configuration the service cannot start with.
var ErrInvalid = errors.New("invalid configuration")

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Load reads the environment. The returned error is a warning when the
// config is still usable and wraps ErrInvalid when it is not.
func Load() (Config, error) {
	cfg := Config{
		Env:                 getenv("APP_ENV", "development"),
		ListenAddr:          getenv("LISTEN_ADDR", ":8080"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		CatalogFile:         os.Getenv("CATALOG_FILE"),
		RedisAddr:           os.Getenv("REDIS_ADDR"),
		CatalogCacheTTL:     getenvDuration("CATALOG_CACHE_TTL", 5*time.Minute),
		MinioEndpoint:       os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey:      os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey:      os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:         getenv("MINIO_BUCKET", "bizready-plans"),
		KafkaBrokers:        splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:          getenv("KAFKA_TOPIC", "bizready.assessments"),
		AssessWorkers:       getenvInt("ASSESS_WORKERS", 0),
		LogLevel:            getenv("LOG_LEVEL", "info"),
		LogFormat:           getenv("LOG_FORMAT", "json"),
		ForcePreselectScore: getenvFloat("FORCE_PRESELECT_SCORE", 7.0),
		MinPreselectScore:   getenvFloat("MIN_PRESELECT_SCORE", 4.0),
	}
	if !finite(cfg.MinPreselectScore) || !finite(cfg.ForcePreselectScore) {
		return cfg, fmt.Errorf("%w: MIN_PRESELECT_SCORE (%v) and FORCE_PRESELECT_SCORE (%v) must be finite",
			ErrInvalid, cfg.MinPreselectScore, cfg.ForcePreselectScore)
	}
	if cfg.MinPreselectScore < 0 || cfg.ForcePreselectScore > 10 || cfg.MinPreselectScore > cfg.ForcePreselectScore {
		return cfg, fmt.Errorf("%w: need 0 <= MIN_PRESELECT_SCORE (%v) <= FORCE_PRESELECT_SCORE (%v) <= 10",
			ErrInvalid, cfg.MinPreselectScore, cfg.ForcePreselectScore)
	}
	if cfg.DatabaseURL == "" && cfg.CatalogFile == "" {
		return cfg, fmt.Errorf("%w: one of DATABASE_URL or CATALOG_FILE is required", ErrInvalid)
	}
	if cfg.DatabaseURL == "" {
		// Not fatal for local runs against a catalog file.
		return cfg, fmt.Errorf("DATABASE_URL not set, using in-memory assessment store")
	}
	return cfg, nil
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if out, err := strconv.Atoi(v); err == nil {
			return out
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if out, err := strconv.ParseFloat(v, 64); err == nil {
			return out
		}
	}
	return def
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func getenvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if out, err := time.ParseDuration(v); err == nil {
			return out
		}
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
