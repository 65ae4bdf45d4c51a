package di

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"user-console/cmd/api/infrastructure"
	ginhandler "user-console/internal/adapter/gin/handler"
	"user-console/internal/adapter/gin/middleware"
	"user-console/internal/adapter/reqres"
	"user-console/internal/adapter/session"
	"user-console/internal/config"
	"user-console/internal/usecase/auth"
	"user-console/internal/usecase/userlist"
	redisclient "user-console/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	Logger       *zap.Logger
	DB           *gorm.DB
	RedisClient  *redisclient.Client
	SessionStore session.Store
	Gate         *auth.Gate
	Registry     *userlist.Registry
	RateLimiter  *middleware.RateLimiter
	AuthHandler  *ginhandler.AuthHandler
	UserHandler  *ginhandler.UserHandler
}

// NewContainer creates and initializes all application dependencies
func NewContainer(ctx context.Context, cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	c := &Container{Config: cfg, Logger: l}

	if cfg.NeedsRedis() {
		rdb, err := infrastructure.NewRedisClient(cfg, l)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}
		c.RedisClient = rdb
	}

	store, err := c.newSessionStore(ctx)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.SessionStore = store

	api := reqres.New(nil, reqres.Config{
		BaseURL: cfg.Reqres.BaseURL,
		APIKey:  cfg.Reqres.APIKey,
		Timeout: cfg.Reqres.Timeout(),
	}, l)

	c.Gate = auth.NewGate(l)
	c.Registry = userlist.NewRegistry(api, cfg.Reqres.PageSize, l)

	if c.RedisClient != nil {
		c.RateLimiter = middleware.NewRateLimiter(
			c.RedisClient.Client,
			middleware.RateLimiterConfig{
				RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
				WindowSeconds:     cfg.RateLimit.WindowSeconds,
				Enabled:           cfg.RateLimit.Enabled,
			},
			l,
		)
	}

	c.AuthHandler = ginhandler.NewAuthHandler(auth.NewService(api, l), c.Registry, l)
	c.UserHandler = ginhandler.NewUserHandler(c.Registry, l)

	return c, nil
}

func (c *Container) newSessionStore(ctx context.Context) (session.Store, error) {
	switch c.Config.Session.Driver {
	case config.SessionDriverRedis:
		return session.NewRedisStore(c.RedisClient.Client, c.Logger), nil

	case config.SessionDriverPostgres, config.SessionDriverSQLite:
		db, err := infrastructure.NewDatabase(c.Config, c.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		c.DB = db
		store := session.NewGormStore(db, c.Logger)
		if err := store.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("failed to migrate session store: %w", err)
		}
		return store, nil

	default:
		return session.NewMemoryStore(), nil
	}
}

// CookieConfig returns the session cookie settings.
func (c *Container) CookieConfig() middleware.CookieConfig {
	return middleware.CookieConfig{
		Name:   c.Config.Session.CookieName,
		Secure: c.Config.Session.CookieSecure,
		MaxAge: c.Config.Session.CookieMaxAge,
	}
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	// Close Redis connection
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	// Close database connection
	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("container close errors: %v", errs)
	}

	return nil
}
