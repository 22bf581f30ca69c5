package bootstrap

import (
	"context"
	"database/sql"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/aulaplus/aula-ui/config"
)

// Run wires infrastructure and services and serves HTTP until the context is
// canceled or a termination signal arrives.
func Run(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, redisClient, err := connectBackends(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if db != nil {
			if cerr := db.Close(); cerr != nil {
				logger.ErrorContext(ctx, "close database failed", "error", cerr)
			}
		}
		if redisClient != nil {
			if cerr := redisClient.Close(); cerr != nil {
				logger.ErrorContext(ctx, "close redis failed", "error", cerr)
			}
		}
	}()

	services, err := NewServices(ctx, &ServiceDeps{
		Config:      cfg,
		DB:          db,
		RedisClient: redisClient,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	server, err := StartHTTPServer(&HTTPServerConfig{
		Config:   cfg,
		Services: services,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-gctx.Done()
		return ShutdownHTTPServer(context.Background(), server, logger)
	})
	return g.Wait()
}

// connectBackends opens only the connections the configured session backend
// needs.
func connectBackends(cfg *config.AppConfig, logger *slog.Logger) (*sql.DB, redis.UniversalClient, error) {
	dbCfg := DatabaseConfig{
		DBConfig:    cfg.Postgres,
		RedisConfig: cfg.Redis,
		Logger:      logger,
	}

	switch cfg.Sessions.Backend {
	case config.SessionBackendPostgres:
		db, err := ConnectDB(dbCfg)
		if err != nil {
			return nil, nil, err
		}
		return db, nil, nil
	case config.SessionBackendRedis:
		client, err := ConnectRedis(dbCfg)
		if err != nil {
			return nil, nil, err
		}
		return nil, client, nil
	default:
		return nil, nil, nil
	}
}
