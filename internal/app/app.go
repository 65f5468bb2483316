package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/ironvale/inventory-backend/internal/data/db"
	"github.com/ironvale/inventory-backend/internal/data/repos"
	"github.com/ironvale/inventory-backend/internal/platform/envutil"
	"github.com/ironvale/inventory-backend/internal/platform/logger"
	"github.com/ironvale/inventory-backend/internal/platform/redisdb"
	"github.com/ironvale/inventory-backend/internal/platform/tracing"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    *repos.Repos
	Services Services

	redis           *goredis.Client
	tracingShutdown func(context.Context) error
}

func New() (*App, error) {
	log, err := logger.New(envutil.String("LOG_MODE", "development"))
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	cfg := LoadConfig(log)

	database, err := db.New(cfg.DatabaseURL, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := database.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("database automigrate: %w", err)
	}
	theDB := database.DB()

	tracingShutdown, err := tracing.Init(context.Background(), log, tracing.Config{
		ServiceName:  cfg.AppName,
		OTLPEndpoint: cfg.OTLPEndpoint,
		Debug:        cfg.Debug,
	})
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	// Redis is optional; without it the dashboard recomputes on every call.
	var redisClient *goredis.Client
	if cfg.RedisAddr != "" {
		redisClient, err = redisdb.NewClient(cfg.RedisAddr, log)
		if err != nil {
			log.Warn("redis unavailable, caching disabled", "error", err)
			redisClient = nil
		}
	}

	reposet := repos.New(theDB, log)
	serviceset := wireServices(theDB, log, cfg, reposet, redisClient)
	handlerset := wireHandlers(log, serviceset)
	router := wireRouter(cfg, handlerset)

	return &App{
		Log:             log,
		DB:              theDB,
		Router:          router,
		Cfg:             cfg,
		Repos:           reposet,
		Services:        serviceset,
		redis:           redisClient,
		tracingShutdown: tracingShutdown,
	}, nil
}

func (a *App) Run() error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Log.Info("starting server", "addr", a.Cfg.Addr)
	return a.Router.Run(a.Cfg.Addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.tracingShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.tracingShutdown(ctx); err != nil {
			a.Log.Warn("tracing shutdown failed", "error", err)
		}
		a.tracingShutdown = nil
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.Log.Warn("redis close failed", "error", err)
		}
		a.redis = nil
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
