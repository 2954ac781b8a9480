package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/m3rciful/groupbot/core/bootstrap"
	coreconfig "github.com/m3rciful/groupbot/core/config"
	"github.com/m3rciful/groupbot/core/logger"
)

// Open builds the Store for the backend opened by bootstrap.
func Open(ctx context.Context, res *bootstrap.Result, cfg coreconfig.DatabaseConfig) (Store, error) {
	if res == nil {
		return nil, fmt.Errorf("store: nil bootstrap result")
	}
	var s Store
	switch res.Driver {
	case coreconfig.DriverMongo:
		if res.Mongo == nil {
			return nil, fmt.Errorf("store: mongo client not initialized")
		}
		m := NewMongo(res.Mongo.Database(cfg.Mongo.Database))
		if err := m.EnsureIndexes(ctx); err != nil {
			return nil, fmt.Errorf("store: %w", err)
		}
		s = m
	case coreconfig.DriverPostgres:
		if res.SQL == nil {
			return nil, fmt.Errorf("store: postgres pool not initialized")
		}
		s = NewPostgres(res.SQL)
	case coreconfig.DriverMemory:
		s = NewMemory()
	default:
		return nil, fmt.Errorf("store: unsupported driver %q", res.Driver)
	}
	logger.Store.Info("store ready",
		slog.String("event", "store.open"),
		slog.String("status", "ok"),
		slog.String("driver", res.Driver),
	)
	return s, nil
}
