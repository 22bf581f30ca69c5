package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/aulaplus/aula-ui/config"
	"github.com/aulaplus/aula-ui/internal/adapters/graphql"
	memoryadapter "github.com/aulaplus/aula-ui/internal/adapters/memory"
	postgresadapter "github.com/aulaplus/aula-ui/internal/adapters/postgres"
	redisadapter "github.com/aulaplus/aula-ui/internal/adapters/redis"
	"github.com/aulaplus/aula-ui/internal/ports"
	"github.com/aulaplus/aula-ui/internal/service"
)

// ServiceDeps holds the infrastructure dependencies services are built from.
// DB and RedisClient may be nil when the configured session backend does not
// need them.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// ServiceContainer holds the constructed application services.
type ServiceContainer struct {
	Sessions *service.SessionService
	Queries  ports.SchoolQueries
}

// NewServices builds the session service and the school API client for the
// configured session backend.
func NewServices(ctx context.Context, deps *ServiceDeps) (ServiceContainer, error) {
	cfg := deps.Config

	client, err := graphql.NewClient(graphql.Config{
		Endpoint: cfg.API.URL,
		Timeout:  cfg.API.Timeout,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build school API client: %w", err)
	}

	store, err := buildSessionStore(ctx, deps)
	if err != nil {
		return ServiceContainer{}, err
	}

	sessions := service.NewSessionService(service.SessionOptions{
		API:      client,
		Sessions: store,
		TTL:      cfg.Sessions.TTL,
		Logger:   deps.Logger,
	})

	return ServiceContainer{Sessions: sessions, Queries: client}, nil
}

//nolint:ireturn // the backend switch is the point of this constructor.
func buildSessionStore(ctx context.Context, deps *ServiceDeps) (ports.SessionStore, error) {
	cfg := deps.Config

	switch cfg.Sessions.Backend {
	case config.SessionBackendRedis:
		if deps.RedisClient == nil {
			return nil, fmt.Errorf("session backend %q requires a redis connection", cfg.Sessions.Backend)
		}
		return redisadapter.NewSessionStoreWithPrefix(deps.RedisClient, cfg.Sessions.KeyPrefix), nil

	case config.SessionBackendPostgres:
		if deps.DB == nil {
			return nil, fmt.Errorf("session backend %q requires a database connection", cfg.Sessions.Backend)
		}
		store, err := postgresadapter.NewSessionStore(ctx, deps.DB)
		if err != nil {
			return nil, fmt.Errorf("build postgres session store: %w", err)
		}
		return store, nil

	case config.SessionBackendMemory:
		if deps.Logger != nil {
			deps.Logger.Warn("using in-memory session store; sessions will not survive restarts")
		}
		return memoryadapter.NewSessionStore(), nil

	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Sessions.Backend)
	}
}
