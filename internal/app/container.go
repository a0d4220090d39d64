package app

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/shohruz/portfolio-backend-go/internal/api"
	"github.com/shohruz/portfolio-backend-go/internal/auth"
	"github.com/shohruz/portfolio-backend-go/internal/config"
	"github.com/shohruz/portfolio-backend-go/internal/prompt"
	"github.com/shohruz/portfolio-backend-go/internal/service/ai"
	"github.com/shohruz/portfolio-backend-go/internal/service/cache"
	"github.com/shohruz/portfolio-backend-go/internal/service/chat"
	"github.com/shohruz/portfolio-backend-go/internal/service/content"
	"github.com/shohruz/portfolio-backend-go/internal/service/database"
)

// Container bundles the assembled services behind the HTTP surface.
type Container struct {
	Config  *config.Config
	Logger  *zap.Logger
	Store   *content.Store
	Handler http.Handler

	closers []func()
}

// Close releases infrastructure resources in reverse construction order.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

// Build assembles all infrastructure services: Postgres and Redis when
// configured, the content loader/store/editor, the AI stack, and the chat
// manager. Missing Postgres, Redis or AI credentials select degraded modes
// rather than failing the build; the initial content load runs here so the
// server starts with a fully populated snapshot.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (container *Container, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var closers []func()
	defer func() {
		if err != nil {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		}
	}()

	// Optional Redis mirror for snapshots and transcripts.
	var cacheSvc *cache.CacheService
	if cfg.Redis.Enabled() {
		cacheSvc, err = cache.NewCacheService(cache.CacheConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, logger)
		if err != nil {
			logger.Warn("Redis unavailable, running without cache", zap.Error(err))
			cacheSvc = nil
			err = nil
		} else {
			closers = append(closers, func() { _ = cacheSvc.Close() })
		}
	}

	// Content repository. A missing or unreachable database is the loader's
	// total-failure case, not a build failure.
	var repo content.Repository
	if cfg.Postgres.Enabled() {
		postgresSvc, pgErr := database.NewPostgresService(database.PostgresConfig{
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			Database: cfg.Postgres.Database,
		}, logger)
		if pgErr != nil {
			logger.Error("PostgreSQL unavailable, content falls back to defaults", zap.Error(pgErr))
		} else {
			closers = append(closers, func() { _ = postgresSvc.Close() })
			repo = content.NewPostgresRepository(postgresSvc, logger)
		}
	} else {
		logger.Warn("PostgreSQL not configured, content falls back to defaults")
	}

	loader := content.NewLoader(repo, logger)
	snapshot, loadResult := loader.Load(ctx)
	store := content.NewStore(snapshot, loadResult, cacheSvc, logger)

	authenticator := auth.NewStatic(cfg.Admin.Login, cfg.Admin.Password)
	editor := content.NewEditor(store, repo, authenticator, logger)

	// AI stack
	modelManager, err := ai.NewModelManager(ctx, ai.ModelManagerConfig{
		GeminiAPIKey:   cfg.Gemini.APIKey,
		OpenAIAPIKey:   cfg.OpenAI.APIKey,
		EnableFallback: cfg.OpenAI.EnableFallback,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create model manager: %w", err)
	}

	prompts := prompt.DefaultPromptBuilder()
	engine := ai.NewEngine(modelManager, prompts, logger)
	chatManager := chat.NewManager(engine, store, prompts, cacheSvc, logger)

	handler := api.NewRouter(api.Deps{
		Store:  store,
		Loader: loader,
		Editor: editor,
		Chat:   chatManager,
		Logger: logger,
	})

	return &Container{
		Config:  cfg,
		Logger:  logger,
		Store:   store,
		Handler: handler,
		closers: closers,
	}, nil
}
