package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/narabot/narabot/internal/cache"
	memorycache "github.com/narabot/narabot/internal/cache/memory"
	rediscache "github.com/narabot/narabot/internal/cache/redis"
	"github.com/narabot/narabot/internal/config"
	"github.com/narabot/narabot/internal/domain"
	"github.com/narabot/narabot/internal/g2b"
	"github.com/narabot/narabot/internal/metrics"
	"github.com/narabot/narabot/internal/repository"
	"github.com/narabot/narabot/internal/repository/postgres"
	"github.com/narabot/narabot/internal/service"
	"github.com/narabot/narabot/internal/telegram"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("bot stopped with error", zap.Error(err))
	}

	logger.Info("bot stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	m := metrics.New()

	endpoints, err := buildEndpoints(cfg, logger)
	if err != nil {
		return err
	}

	client := g2b.New(g2b.Config{
		ServiceKey: cfg.G2B.ServiceKey,
		Timeout:    cfg.G2B.Timeout,
	}, endpoints, logger)

	searchCache, err := buildCache(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer searchCache.Stop()

	prefRepo, cleanup, err := buildPrefRepo(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	searchSvc := service.NewSearchService(service.SearchServiceDeps{
		Resolver: client,
		Cache:    searchCache,
		Logger:   logger,
		Metrics:  m,
		Config:   service.SearchConfig{CacheTTL: cfg.Cache.TTL},
	})

	defaultMode, _ := domain.ParseMode(cfg.DefaultMode)
	prefSvc := service.NewPrefService(prefRepo, service.Defaults{
		Mode:         defaultMode,
		Rows:         cfg.G2B.Rows,
		LookbackDays: cfg.G2B.LookbackDays,
	}, logger)

	bot, err := telegram.New(telegram.BotConfig{
		Token:             cfg.Telegram.Token,
		Debug:             os.Getenv("TELEGRAM_DEBUG") == "true",
		RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
	}, searchSvc, prefSvc, logger, m)
	if err != nil {
		return err
	}

	metricsSrv := &http.Server{
		Addr:    cfg.Metrics.Addr,
		Handler: metrics.Handler(),
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return bot.Run(ctx)
	})

	g.Go(func() error {
		logger.Info("metrics server listening", zap.String("addr", cfg.Metrics.Addr))
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return metricsSrv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func buildEndpoints(cfg *config.Config, logger *zap.Logger) (*g2b.Endpoints, error) {
	if cfg.G2B.EndpointsFile == "" {
		return g2b.DefaultEndpoints(), nil
	}

	endpoints, err := g2b.LoadEndpoints(cfg.G2B.EndpointsFile)
	if err != nil {
		return nil, err
	}

	logger.Info("loaded endpoint list from file", zap.String("path", cfg.G2B.EndpointsFile))
	return endpoints, nil
}

func buildCache(ctx context.Context, cfg *config.Config, logger *zap.Logger) (cache.Cache, error) {
	switch cfg.Cache.Type {
	case "redis":
		c, err := rediscache.New(ctx, cfg.Cache.RedisURL, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("using redis cache")
		return c, nil
	default:
		logger.Info("using in-memory cache")
		return memorycache.New(), nil
	}
}

func buildPrefRepo(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.PrefRepository, func(), error) {
	if cfg.Database.URL == "" {
		// без базы настройки чатов живут до рестарта
		logger.Warn("DATABASE_URL not set, chat preferences will not survive restarts")
		return repository.NewMockPrefRepo(), func() {}, nil
	}

	db, err := postgres.New(ctx, cfg.Database.URL)
	if err != nil {
		return nil, nil, err
	}

	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}

	logger.Info("connected to postgres")
	return postgres.NewPrefRepo(db), db.Close, nil
}
