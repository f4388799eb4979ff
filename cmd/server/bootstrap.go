package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ndemidov/campusforum/internal/api"
	"github.com/ndemidov/campusforum/internal/app"
	"github.com/ndemidov/campusforum/internal/app/maintenance"
	iauth "github.com/ndemidov/campusforum/internal/auth"
	"github.com/ndemidov/campusforum/internal/cache"
	"github.com/ndemidov/campusforum/internal/database"
	"github.com/ndemidov/campusforum/internal/realtime"
	"github.com/ndemidov/campusforum/internal/services"
	"github.com/ndemidov/campusforum/pkg/logger"
)

// runtimeStack bundles long-lived components used by the HTTP server.
type runtimeStack struct {
	DB       *gorm.DB
	Redis    *cache.RedisStore
	Hub      *realtime.Hub
	Reporter *maintenance.Reporter
	Router   *gin.Engine
}

// bootstrapRuntime initialises the database, cache, services, background
// jobs, and the HTTP router.
func bootstrapRuntime(ctx context.Context, cfg *app.Config, log *zap.Logger) (*runtimeStack, error) {
	stack := &runtimeStack{}
	var err error
	success := false

	defer func() {
		if !success {
			stack.Shutdown(log)
		}
	}()

	gin.SetMode(gin.ReleaseMode)

	stack.DB, err = initialiseDatabase(cfg)
	if err != nil {
		return nil, err
	}

	var store cache.Store
	if cfg.Cache.Redis.Enabled {
		if stack.Redis, err = cache.NewRedisStore(cfg.Cache.RedisStoreConfig()); err != nil {
			log.Warn("redis unavailable; thread list caching disabled", zap.Error(err))
		} else {
			store = stack.Redis
			log.Info("redis connected", zap.String("addr", cfg.Cache.Redis.Address))
		}
	}

	tokens, err := iauth.NewTokenService(cfg.Auth.TokenConfig())
	if err != nil {
		return nil, fmt.Errorf("initialise token service: %w", err)
	}

	resolver, err := iauth.NewSessionResolver(stack.DB, tokens)
	if err != nil {
		return nil, fmt.Errorf("initialise session resolver: %w", err)
	}

	authSvc, err := services.NewAuthService(stack.DB, tokens, cfg.Forum.AllowedEmailDomain)
	if err != nil {
		return nil, fmt.Errorf("initialise auth service: %w", err)
	}

	stack.Hub = realtime.NewHub()

	forumSvc, err := services.NewForumService(stack.DB, services.ForumConfig{
		Cache:    store,
		CacheTTL: cfg.Cache.ThreadListTTL,
		Hub:      stack.Hub,
	})
	if err != nil {
		return nil, fmt.Errorf("initialise forum service: %w", err)
	}

	statsSvc, err := services.NewStatsService(stack.DB)
	if err != nil {
		return nil, fmt.Errorf("initialise stats service: %w", err)
	}

	stack.Reporter = maintenance.NewReporter(statsSvc,
		maintenance.WithSchedule(cfg.Maintenance.ReportSchedule))
	if err := stack.Reporter.Start(); err != nil {
		return nil, fmt.Errorf("start maintenance jobs: %w", err)
	}

	stack.Router, err = api.NewRouter(api.RouterConfig{
		Resolver:      resolver,
		Auth:          authSvc,
		Forum:         forumSvc,
		Stats:         statsSvc,
		Hub:           stack.Hub,
		EnableMetrics: cfg.Monitoring.Prometheus.Enabled,
	})
	if err != nil {
		return nil, fmt.Errorf("build api router: %w", err)
	}

	success = true
	return stack, nil
}

// Shutdown stops background jobs and releases resources.
func (s *runtimeStack) Shutdown(log *zap.Logger) error {
	if s == nil {
		return nil
	}

	var errs error

	if s.Reporter != nil {
		<-s.Reporter.Stop().Done()
	}

	if s.Hub != nil {
		s.Hub.Close()
	}

	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("close redis: %w", err))
		}
	}

	if s.DB != nil {
		if err := closeDatabase(s.DB); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("close database: %w", err))
		}
	}

	if errs != nil && log != nil {
		log.Warn("shutdown finished with errors", zap.Error(errs))
	}
	return errs
}

func initialiseDatabase(cfg *app.Config) (*gorm.DB, error) {
	dbCfg := convertDatabaseConfig(cfg)
	db, err := database.Open(dbCfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("auto-migrate database: %w", err)
	}

	log := logger.WithModule("database")
	log.Info("database connected", zap.String("driver", strings.ToLower(strings.TrimSpace(dbCfg.Driver))))

	return db, nil
}

func convertDatabaseConfig(cfg *app.Config) database.Config {
	dbCfg := database.Config{
		Driver: strings.ToLower(strings.TrimSpace(cfg.Database.Driver)),
		Path:   strings.TrimSpace(cfg.Database.Path),
		DSN:    strings.TrimSpace(cfg.Database.DSN),
	}

	switch dbCfg.Driver {
	case "", "sqlite":
		dbCfg.Driver = "sqlite"
	case "postgres", "postgresql":
		dbCfg.Driver = "postgres"
		dbCfg.Host = strings.TrimSpace(cfg.Database.Postgres.Host)
		dbCfg.Port = cfg.Database.Postgres.Port
		dbCfg.Name = strings.TrimSpace(cfg.Database.Postgres.Database)
		dbCfg.User = strings.TrimSpace(cfg.Database.Postgres.Username)
		dbCfg.Password = strings.TrimSpace(cfg.Database.Postgres.Password)
	case "mysql":
		dbCfg.Host = strings.TrimSpace(cfg.Database.MySQL.Host)
		dbCfg.Port = cfg.Database.MySQL.Port
		dbCfg.Name = strings.TrimSpace(cfg.Database.MySQL.Database)
		dbCfg.User = strings.TrimSpace(cfg.Database.MySQL.Username)
		dbCfg.Password = strings.TrimSpace(cfg.Database.MySQL.Password)
	default:
		// Leave driver as-is to surface unsupported driver error during open.
	}

	return dbCfg
}

func closeDatabase(db *gorm.DB) error {
	if db == nil {
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func ensureSecretsPresent(cfg *app.Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Auth.JWT.Secret = strings.TrimSpace(cfg.Auth.JWT.Secret)
	if cfg.Auth.JWT.Secret == "" {
		return errors.New("auth.jwt.secret must be configured")
	}

	return nil
}
