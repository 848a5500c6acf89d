package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mealcatalog/internal/catalog"
	"mealcatalog/internal/config"
	"mealcatalog/internal/handler"
	"mealcatalog/internal/logging"
	"mealcatalog/internal/repository"
	"mealcatalog/internal/service"
	"mealcatalog/internal/source"
	"mealcatalog/internal/store"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	logger.Info("meal catalog starting",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit),
	)
	for _, w := range cfg.Warnings {
		logger.Warn(w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gin.SetMode(cfg.Server.GinMode)

	// PostgreSQL backs the postgres meal source, search logs and embeddings
	var repo *repository.PostgresRepository
	if cfg.PostgreSQL.Enabled {
		pg, err := repository.NewPostgresRepository(
			cfg.GetPostgreSQLDSN(),
			cfg.PostgreSQL.MaxConnections,
			cfg.PostgreSQL.MaxIdleConnections,
		)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pg.Close()
		repo = pg

		if err := repo.EnsureSchema(ctx); err != nil {
			return err
		}
		logger.Info("connected to PostgreSQL")
	}

	src, err := newMealSource(cfg, repo)
	if err != nil {
		return err
	}

	sessions, err := newSessionStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if closer, ok := sessions.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	engine := catalog.NewEngine(catalog.Options{
		PageSize:             cfg.Catalog.PageSize,
		CategoryNameFallback: cfg.Catalog.CategoryNameFallback,
		UnifiedDefaults:      cfg.Catalog.UnifiedDefaults,
	})
	catalogService := service.NewCatalogService(src, engine, sessions, logger.Named("catalog"))

	loadCtx, cancel := context.WithTimeout(ctx, cfg.Catalog.FetchTimeout)
	_ = catalogService.Load(loadCtx) // failures are logged and leave an empty catalog
	cancel()

	var aiClient service.AIClient
	if cfg.OpenAI.Enabled {
		aiClient = service.NewOpenAIClient(&cfg.OpenAI, logger.Named("openai"))
		logger.Info("OpenAI client initialized",
			zap.String("api_base", cfg.OpenAI.APIBase),
			zap.String("chat_model", cfg.OpenAI.ChatModel),
			zap.String("embedding_model", cfg.OpenAI.EmbeddingModel),
		)
	} else {
		logger.Warn("OpenAI is disabled, queries are matched as plain search terms",
			zap.String("hint", "set OPENAI_API_KEY to enable AI intent parsing"))
	}

	var (
		searchLogs service.SearchLogger
		vectors    service.EmbeddingStore
	)
	if repo != nil {
		searchLogs = repo
		vectors = repo
	}

	intentParser := service.NewIntentParser(aiClient, catalogService.Categories, logger.Named("intent"))
	searchService := service.NewSearchService(catalogService, intentParser, searchLogs, cfg.Search, logger.Named("search"))
	embeddingService := service.NewEmbeddingService(catalogService, aiClient, vectors, cfg.OpenAI.EmbeddingDimensions, logger.Named("embedding"))

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger.Named("http")))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.Server.AllowedOrigins
	corsConfig.AllowMethods = cfg.Server.AllowedMethods
	corsConfig.AllowHeaders = cfg.Server.AllowedHeaders
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":     "healthy",
			"service":    "meal-catalog",
			"meals":      len(catalogService.Meals()),
			"loaded_at":  catalogService.LoadedAt(),
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	router.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	handler.RegisterRoutes(router.Group("/api/v1"), handler.Handlers{
		Meals:      handler.NewMealHandler(catalogService, cfg.Search),
		Sessions:   handler.NewSessionHandler(catalogService),
		Search:     handler.NewSearchHandler(searchService),
		Embeddings: handler.NewEmbeddingHandler(embeddingService),
		Feedback:   handler.NewFeedbackHandler(searchService),
	})

	// implemented in embed.go (production) or static_dev.go (development)
	setupStaticFiles(router, logger)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

func newMealSource(cfg *config.Config, repo *repository.PostgresRepository) (source.MealSource, error) {
	switch cfg.Catalog.Source {
	case config.SourceFile:
		return source.NewFileSource(cfg.Catalog.SourceFile), nil
	case config.SourcePostgres:
		if repo == nil {
			return nil, errors.New("postgres meal source requires a database connection")
		}
		return repo, nil
	default:
		return source.NewHTTPSource(cfg.Catalog.SourceURL, cfg.Catalog.FetchTimeout), nil
	}
}

func newSessionStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (store.SessionStore, error) {
	if cfg.Session.Store == config.StoreRedis {
		client, err := store.NewRedisClient(ctx, cfg.Session.RedisURL)
		if err != nil {
			return nil, err
		}
		logger.Info("using Redis session store", zap.Duration("ttl", cfg.Session.TTL))
		return store.NewRedisStore(client, cfg.Session.KeyPrefix, cfg.Session.TTL), nil
	}

	mem := store.NewMemoryStore(cfg.Session.TTL)
	go mem.Run(ctx, time.Minute)
	logger.Info("using in-memory session store", zap.Duration("ttl", cfg.Session.TTL))
	return mem, nil
}

// requestLogger logs one line per request
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
