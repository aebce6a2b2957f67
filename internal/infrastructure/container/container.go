// Package container provides dependency injection using Uber FX
package container

import (
	"context"

	apprecipe "github.com/ongoza/cyberhub/internal/application/recipe"
	"github.com/ongoza/cyberhub/internal/infrastructure/ai/grok"
	"github.com/ongoza/cyberhub/internal/infrastructure/ai/ollama"
	"github.com/ongoza/cyberhub/internal/infrastructure/cache"
	"github.com/ongoza/cyberhub/internal/infrastructure/config"
	"github.com/ongoza/cyberhub/internal/infrastructure/http/handlers"
	"github.com/ongoza/cyberhub/internal/infrastructure/http/server"
	gormRepo "github.com/ongoza/cyberhub/internal/infrastructure/persistence/gorm"
	"github.com/ongoza/cyberhub/internal/ports/inbound"
	"github.com/ongoza/cyberhub/internal/ports/outbound"
	"github.com/ongoza/cyberhub/pkg/healthcheck"
	"github.com/ongoza/cyberhub/pkg/logger"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Module provides all dependency injection modules
var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	DatabaseModule,
	CacheModule,
	AIModule,
	RepositoryModule,
	ServiceModule,
	HTTPModule,
	LifecycleModule,
)

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func() (*config.Config, error) {
		return config.Load("")
	},
)

// LoggerModule provides logging
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
		})
	},
)

// DatabaseModule provides the Postgres connection
var DatabaseModule = fx.Provide(
	gormRepo.NewConnection,
)

// CacheModule provides the Redis cache. The concrete type stays available
// for health checks and shutdown.
var CacheModule = fx.Provide(
	cache.NewRedis,
	func(r *cache.Redis) outbound.CacheRepository {
		return r
	},
)

// AIModule provides the LLM provider adapters
var AIModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) outbound.ChatClient {
		return grok.NewClient(cfg.AI, log)
	},
	func(cfg *config.Config, log *zap.Logger) *ollama.Client {
		return ollama.NewClient(cfg.AI, log)
	},
	func(client *ollama.Client) outbound.CompletionClient {
		return client
	},
)

// RepositoryModule provides repository implementations
var RepositoryModule = fx.Provide(
	fx.Annotate(
		gormRepo.NewRecipeRepository,
		fx.As(new(outbound.RecipeRepository)),
	),
	fx.Annotate(
		gormRepo.NewContextRepository,
		fx.As(new(outbound.ContextRepository)),
	),
)

// ServiceModule provides the pipeline orchestrators and the application
// service
var ServiceModule = fx.Provide(
	func(completion outbound.CompletionClient, cfg *config.Config, log *zap.Logger) *apprecipe.Validator {
		return apprecipe.NewValidator(completion, cfg.AI.ValidatorModel, log)
	},
	func(
		chat outbound.ChatClient,
		completion outbound.CompletionClient,
		validator *apprecipe.Validator,
		repo outbound.RecipeRepository,
		cacheRepo outbound.CacheRepository,
		cfg *config.Config,
		log *zap.Logger,
	) *apprecipe.Generator {
		return apprecipe.NewGenerator(chat, completion, validator, repo, cacheRepo,
			cfg.AI.MaxValidationConcurrency, log)
	},
	func(
		repo outbound.RecipeRepository,
		contexts outbound.ContextRepository,
		chat outbound.ChatClient,
		generator *apprecipe.Generator,
		cacheRepo outbound.CacheRepository,
		cfg *config.Config,
		log *zap.Logger,
	) *apprecipe.Recommender {
		return apprecipe.NewRecommender(repo, contexts, chat, generator, cacheRepo,
			cfg.Redis.CandidateTTL, log)
	},
	func(
		cfg *config.Config,
		contexts outbound.ContextRepository,
		generator *apprecipe.Generator,
		recommender *apprecipe.Recommender,
		log *zap.Logger,
	) inbound.RecipeService {
		return apprecipe.NewService(cfg.AI, contexts, generator, recommender, log)
	},
)

// HTTPModule provides the HTTP server, handlers and readiness checks
var HTTPModule = fx.Provide(
	handlers.NewRecipeHandler,
	NewHealthRegistry,
	server.NewServer,
)

// NewHealthRegistry registers readiness checks for the service dependencies
func NewHealthRegistry(db *gorm.DB, redisCache *cache.Redis, ollamaClient *ollama.Client) *healthcheck.Registry {
	registry := healthcheck.NewRegistry(0)

	registry.Register("database", func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	})

	registry.Register("redis", func(ctx context.Context) error {
		return redisCache.Ping(ctx)
	})

	registry.Register("ollama", func(ctx context.Context) error {
		return ollamaClient.HealthCheck(ctx)
	})

	return registry
}

// LifecycleModule provides lifecycle hooks
var LifecycleModule = fx.Invoke(
	RegisterLifecycleHooks,
)

// RegisterLifecycleHooks starts the HTTP server on application start and
// drains connections on stop
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	cfg *config.Config,
	log *zap.Logger,
	db *gorm.DB,
	redisCache *cache.Redis,
	srv *server.Server,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("starting recipe pipeline service",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
			)

			go func() {
				if err := srv.Start(); err != nil {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down recipe pipeline service")

			if err := srv.Shutdown(ctx); err != nil {
				log.Error("failed to shutdown http server", zap.Error(err))
			}

			if err := redisCache.Close(); err != nil {
				log.Error("failed to close redis connection", zap.Error(err))
			}

			if sqlDB, err := db.DB(); err == nil {
				if err := sqlDB.Close(); err != nil {
					log.Error("failed to close database connection", zap.Error(err))
				}
			}

			_ = log.Sync()
			return nil
		},
	})
}
