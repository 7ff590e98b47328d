package store

import (
	"context"
	"fmt"
	"strings"

	"lifeos/internal/config"
	"lifeos/internal/database"
)

const (
	EngineSQLite   = "sqlite"
	EnginePostgres = "postgres"
	EngineMySQL    = "mysql"
	EngineJSON     = "json"
	EngineRedis    = "redis"
	EngineMemory   = "memory"
)

// New opens the backend named by cfg.StoreEngine and wraps it in the
// configured namespace.
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	backend, err := openBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return Namespaced(backend, cfg.StoreNamespace), nil
}

func openBackend(ctx context.Context, cfg *config.Config) (Store, error) {
	engine := strings.ToLower(strings.TrimSpace(cfg.StoreEngine))
	switch engine {
	case "", EngineSQLite, EnginePostgres, EngineMySQL:
		if engine == "" {
			engine = EngineSQLite
		}
		dbCfg := *cfg
		dbCfg.DatabaseType = engine
		db, err := database.InitializeWithConfig(&dbCfg)
		if err != nil {
			return nil, err
		}
		s, err := NewSQLStore(ctx, db)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return s, nil
	case EngineJSON:
		return NewJSONStore(cfg.JSONStorePath)
	case EngineRedis:
		return NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisDB)
	case EngineMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported store engine: %s", cfg.StoreEngine)
	}
}
