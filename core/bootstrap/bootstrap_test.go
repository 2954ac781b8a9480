package bootstrap

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"

	coreconfig "github.com/m3rciful/groupbot/core/config"
)

func noLogger(*coreconfig.Config) error { return nil }

func TestRunMemoryDriverOpensNothing(t *testing.T) {
	cfg := &coreconfig.Config{Database: coreconfig.DatabaseConfig{Driver: coreconfig.DriverMemory}}
	res, err := Run(context.Background(), Options{Config: cfg, LoggerInit: noLogger})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Mongo != nil || res.SQL != nil {
		t.Fatalf("memory driver opened a backend: %+v", res)
	}
	if err := res.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
	if err := res.Close(context.Background()); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestRunPropagatesFailures(t *testing.T) {
	boom := errors.New("boom")
	cases := []struct {
		name string
		opts Options
		want string
	}{
		{
			name: "logger",
			opts: Options{LoggerInit: func(*coreconfig.Config) error { return boom }},
			want: "logger init failed",
		},
		{
			name: "postgres connect",
			opts: Options{
				LoggerInit:      noLogger,
				ConnectPostgres: func(coreconfig.PostgresConfig) (*sqlx.DB, error) { return nil, boom },
			},
			want: "database initialization failed",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.opts.Config = &coreconfig.Config{Database: coreconfig.DatabaseConfig{Driver: coreconfig.DriverPostgres}}
			_, err := Run(context.Background(), tc.opts)
			if err == nil || !strings.Contains(err.Error(), tc.want) || !errors.Is(err, boom) {
				t.Fatalf("err = %v, want %q wrapping boom", err, tc.want)
			}
		})
	}
}

func TestRunRejectsUnknownDriver(t *testing.T) {
	cfg := &coreconfig.Config{Database: coreconfig.DatabaseConfig{Driver: "redis"}}
	if _, err := Run(context.Background(), Options{Config: cfg, LoggerInit: noLogger}); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}
