package app

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ironvale/inventory-backend/internal/platform/envutil"
	"github.com/ironvale/inventory-backend/internal/platform/logger"
)

// Config is built once at boot and passed by reference; nothing reads ambient
// globals after this point.
type Config struct {
	AppName   string
	Addr      string
	APIPrefix string
	Debug     bool
	LogMode   string

	DatabaseURL string
	CORSOrigins []string

	RedisAddr         string
	DashboardCacheTTL time.Duration

	OTLPEndpoint string
}

// fileConfig is the optional config.yaml overlay. Environment variables win
// over file values, file values win over defaults.
type fileConfig struct {
	AppName     string   `yaml:"app_name"`
	Addr        string   `yaml:"addr"`
	APIPrefix   string   `yaml:"api_prefix"`
	DatabaseURL string   `yaml:"database_url"`
	CORSOrigins []string `yaml:"cors_origins"`
	RedisAddr   string   `yaml:"redis_addr"`
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		AppName:           "IT Inventory",
		Addr:              ":8080",
		APIPrefix:         "/api",
		DatabaseURL:       "inventory.db",
		CORSOrigins:       []string{"http://localhost:5173", "http://127.0.0.1:5173"},
		DashboardCacheTTL: 30 * time.Second,
	}

	path := envutil.String("CONFIG_FILE", "config.yaml")
	if raw, err := os.ReadFile(path); err == nil {
		var fc fileConfig
		if err := yaml.Unmarshal(raw, &fc); err != nil {
			log.Warn("ignoring malformed config file", "path", path, "error", err)
		} else {
			if fc.AppName != "" {
				cfg.AppName = fc.AppName
			}
			if fc.Addr != "" {
				cfg.Addr = fc.Addr
			}
			if fc.APIPrefix != "" {
				cfg.APIPrefix = fc.APIPrefix
			}
			if fc.DatabaseURL != "" {
				cfg.DatabaseURL = fc.DatabaseURL
			}
			if len(fc.CORSOrigins) > 0 {
				cfg.CORSOrigins = fc.CORSOrigins
			}
			if fc.RedisAddr != "" {
				cfg.RedisAddr = fc.RedisAddr
			}
			log.Info("loaded config file", "path", path)
		}
	}

	cfg.AppName = envutil.String("APP_NAME", cfg.AppName)
	cfg.Addr = envutil.String("ADDR", cfg.Addr)
	cfg.APIPrefix = envutil.String("API_PREFIX", cfg.APIPrefix)
	cfg.Debug = envutil.Bool("DEBUG", cfg.Debug)
	cfg.LogMode = envutil.String("LOG_MODE", "development")
	cfg.DatabaseURL = envutil.String("DATABASE_URL", cfg.DatabaseURL)
	cfg.CORSOrigins = envutil.List("CORS_ORIGINS", cfg.CORSOrigins)
	cfg.RedisAddr = envutil.String("REDIS_ADDR", cfg.RedisAddr)
	cfg.DashboardCacheTTL = time.Duration(envutil.Int("DASHBOARD_CACHE_TTL_SECONDS", int(cfg.DashboardCacheTTL/time.Second))) * time.Second
	cfg.OTLPEndpoint = envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.OTLPEndpoint)

	return cfg
}
