package container

import (
	"context"

	"polly-api/internal/config"
	"polly-api/internal/repository"
	"polly-api/internal/service"
	"polly-api/internal/service/auth"
	"polly-api/pkg/database"
	"polly-api/pkg/logger"
	"polly-api/pkg/redis"
)

// Container holds all application dependencies. Every operation works
// against handles injected here; nothing reaches for module-level state.
type Container struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          *database.PostgresDB
	RedisClient *redis.Client

	PollService service.PollService
	VoteService service.VoteService
	AuthService service.AuthService
}

// New creates a new dependency injection container
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	// Redis is optional; without it the caches become no-ops.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(cfg.RedisURL, cfg.Environment)
		if err != nil {
			log.WithError(err).Warn("Failed to initialize Redis client, proceeding without caching")
		} else {
			redisClient = client
			log.Info("Redis client initialized successfully")
		}
	} else {
		log.Info("Redis URL not configured, proceeding without caching")
	}

	pollRepo := repository.NewPollRepository(db)
	voteRepo := repository.NewVoteRepository(db)
	profileRepo := repository.NewProfileRepository(db)

	cacheService := service.NewCacheService(redisClient, log.Logger)
	pollService := service.NewPollService(pollRepo, cacheService, log.Logger)
	voteService := service.NewVoteService(voteRepo, cacheService, cfg.AllowRevote, log.Logger)

	gotrueClient := auth.NewGoTrueClient(cfg.SupabaseURL, cfg.SupabaseAnonKey)
	authService := auth.NewService(gotrueClient, profileRepo, cfg.SupabaseJWTSecret, log)

	return &Container{
		Config:      cfg,
		Logger:      log,
		DB:          db,
		RedisClient: redisClient,
		PollService: pollService,
		VoteService: voteService,
		AuthService: authService,
	}, nil
}

// Close releases the container's connections. Safe to call once during
// shutdown after the HTTP server has drained.
func (c *Container) Close(ctx context.Context) {
	if c.RedisClient != nil {
		if err := c.RedisClient.Health(ctx); err != nil {
			c.Logger.WithError(err).Warn("Redis health check failed before closing")
		}
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.WithError(err).Error("Failed to close Redis connection")
		} else {
			c.Logger.Info("Redis connection closed")
		}
	}

	if c.DB != nil {
		if err := c.DB.Health(ctx); err != nil {
			c.Logger.WithError(err).Warn("Database health check failed before closing")
		}
		c.DB.Close()
		c.Logger.Info("Database connection pool closed")
	}
}
