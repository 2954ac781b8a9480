package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	coreconfig "github.com/m3rciful/groupbot/core/config"
	"github.com/m3rciful/groupbot/core/logger"
)

const mongoConnectTimeout = 10 * time.Second

// ConnectMongo opens a MongoDB client and verifies the primary is reachable.
func ConnectMongo(ctx context.Context, cfg coreconfig.MongoConfig) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
	defer cancel()

	start := time.Now()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		logger.DB.Error("mongo connect failed",
			slog.String("event", "db.connect"),
			slog.String("driver", "mongo"),
			slog.String("db", cfg.Database),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		logger.DB.Error("mongo ping failed",
			slog.String("event", "db.ping"),
			slog.String("driver", "mongo"),
			slog.String("db", cfg.Database),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	logger.DB.Info("db connected",
		slog.String("event", "db.connect"),
		slog.String("driver", "mongo"),
		slog.String("db", cfg.Database),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)
	return client, nil
}
