package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port              string
	StoreBackend      string // local | remote
	KVBackend         string // sqlite | redis
	DBDSN             string
	RedisAddr         string
	RemoteURL         string
	RemoteTimeout     time.Duration
	ReportTZ          *time.Location
	LogFile           string
	PrometheusEnabled bool
}

func Load() Config {
	// A missing .env is normal outside development.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[warn] could not read .env: %v", err)
	}

	cfg := Config{
		Port:              getEnv("PORT", "8080"),
		StoreBackend:      strings.ToLower(getEnv("STORE_BACKEND", "local")),
		KVBackend:         strings.ToLower(getEnv("KV_BACKEND", "sqlite")),
		DBDSN:             getEnv("DB_DSN", "warehouse.db"), // sqlite file in project root
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RemoteURL:         strings.TrimRight(getEnv("REMOTE_URL", "http://localhost:3002"), "/"),
		RemoteTimeout:     10 * time.Second,
		ReportTZ:          time.UTC,
		LogFile:           os.Getenv("LOG_FILE"),
		PrometheusEnabled: os.Getenv("PROMETHEUS_ENABLED") == "true",
	}
	if v := os.Getenv("REMOTE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.RemoteTimeout = d
		} else {
			log.Printf("[warn] ignoring REMOTE_TIMEOUT=%q", v)
		}
	}
	if v := os.Getenv("REPORT_TZ"); v != "" {
		if loc, err := time.LoadLocation(v); err == nil {
			cfg.ReportTZ = loc
		} else {
			log.Printf("[warn] ignoring REPORT_TZ=%q: %v", v, err)
		}
	}

	log.Printf("[config] PORT=%s STORE_BACKEND=%s KV_BACKEND=%s DB_DSN=%s REMOTE_URL=%s REPORT_TZ=%s LOG_FILE=%s PROMETHEUS_ENABLED=%t",
		cfg.Port, cfg.StoreBackend, cfg.KVBackend, cfg.DBDSN, cfg.RemoteURL, cfg.ReportTZ, cfg.LogFile, cfg.PrometheusEnabled)
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
