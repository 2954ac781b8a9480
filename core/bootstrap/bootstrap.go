package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	coreconfig "github.com/m3rciful/groupbot/core/config"
	coredatabase "github.com/m3rciful/groupbot/core/database"
	"github.com/m3rciful/groupbot/core/logger"
)

const postgresWaitTimeout = 30 * time.Second

// Options control the generic bootstrap pipeline shared between bots.
// Nil funcs fall back to the core implementations.
type Options struct {
	Config *coreconfig.Config

	LoggerInit      func(*coreconfig.Config) error
	ConnectMongo    func(context.Context, coreconfig.MongoConfig) (*mongo.Client, error)
	ConnectPostgres func(coreconfig.PostgresConfig) (*sqlx.DB, error)
	Migrate         func(coreconfig.PostgresConfig) error
}

// Result exposes infrastructure initialized by the bootstrap pipeline.
// Only the handle matching Driver is set.
type Result struct {
	Driver string
	Mongo  *mongo.Client
	SQL    *sqlx.DB
}

// Run initializes the logger and opens the configured store backend.
// Postgres schemas are migrated before returning.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("bootstrap: nil config provided")
	}
	cfg := opts.Config

	loggerInit := opts.LoggerInit
	if loggerInit == nil {
		loggerInit = logger.InitLogger
	}
	if err := loggerInit(cfg); err != nil {
		return nil, fmt.Errorf("bootstrap: logger init failed: %w", err)
	}

	res := &Result{Driver: cfg.Database.Driver}
	switch cfg.Database.Driver {
	case coreconfig.DriverMongo:
		connect := opts.ConnectMongo
		if connect == nil {
			connect = coredatabase.ConnectMongo
		}
		client, err := connect(ctx, cfg.Database.Mongo)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: mongo initialization failed: %w", err)
		}
		res.Mongo = client

	case coreconfig.DriverPostgres:
		pg := cfg.Database.Postgres
		connect := opts.ConnectPostgres
		if connect == nil {
			if err := coredatabase.WaitForPostgres(coredatabase.PostgresDSN(pg), postgresWaitTimeout); err != nil {
				return nil, fmt.Errorf("bootstrap: database not ready: %w", err)
			}
			connect = coredatabase.Connect
		}
		db, err := connect(pg)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: database initialization failed: %w", err)
		}
		migrate := opts.Migrate
		if migrate == nil {
			migrate = coredatabase.RunMigrations
		}
		if err := migrate(pg); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("bootstrap: migrations failed: %w", err)
		}
		res.SQL = db

	case coreconfig.DriverMemory:
	default:
		return nil, fmt.Errorf("bootstrap: unsupported store driver %q", cfg.Database.Driver)
	}
	return res, nil
}

// Ping checks the opened backend; the memory driver is always healthy.
func (r *Result) Ping(ctx context.Context) error {
	switch {
	case r == nil:
		return nil
	case r.Mongo != nil:
		return r.Mongo.Ping(ctx, readpref.Primary())
	case r.SQL != nil:
		return r.SQL.PingContext(ctx)
	}
	return nil
}

// Close releases the opened backend.
func (r *Result) Close(ctx context.Context) error {
	if r == nil {
		return nil
	}
	var errs []error
	if r.Mongo != nil {
		errs = append(errs, r.Mongo.Disconnect(ctx))
	}
	if r.SQL != nil {
		errs = append(errs, r.SQL.Close())
	}
	return errors.Join(errs...)
}
