package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func validConfig() Config {
	return Config{
		Telegram: TelegramConfig{Token: "123:abc"},
		Database: DatabaseConfig{Mongo: MongoConfig{URI: "mongodb://localhost:27017"}},
	}
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := validConfig()
	if err := Normalize(&cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Fatalf("run mode = %q, want %q", cfg.Telegram.RunMode, RunModeLongpoll)
	}
	if cfg.Database.Driver != DriverMongo {
		t.Fatalf("driver = %q, want %q", cfg.Database.Driver, DriverMongo)
	}
	if cfg.Database.Mongo.Database != "bot_db" {
		t.Fatalf("mongo database = %q, want bot_db", cfg.Database.Mongo.Database)
	}
}

func TestNormalizeErrors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing token", func(c *Config) { c.Telegram.Token = " " }, "telegram token is required"},
		{"missing mongo uri", func(c *Config) { c.Database.Mongo.URI = "" }, "mongo.uri is required"},
		{"bad run mode", func(c *Config) { c.Telegram.RunMode = "carrier-pigeon" }, "invalid telegram.run_mode"},
		{"webhook without url", func(c *Config) { c.Telegram.RunMode = RunModeWebhook }, "webhook.url is required"},
		{"bad driver", func(c *Config) { c.Database.Driver = "redis" }, "invalid database.driver"},
		{"postgres without host", func(c *Config) { c.Database.Driver = DriverPostgres }, "postgres.host"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := Normalize(&cfg)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want substring %q", err, tc.want)
			}
		})
	}
}

func TestNormalizePostgresDefaults(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Driver = "POSTGRES"
	cfg.Database.Postgres = PostgresConfig{Host: "db", Name: "bot"}
	if err := Normalize(&cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	pg := cfg.Database.Postgres
	if cfg.Database.Driver != DriverPostgres || pg.Port != "5432" || pg.SSLMode != "disable" || pg.MaxConnections != 5 || pg.MigrationsDir != "migrations" {
		t.Fatalf("unexpected postgres defaults: %+v", pg)
	}
}

func TestNormalizeMemoryNeedsNoConnection(t *testing.T) {
	cfg := Config{Telegram: TelegramConfig{Token: "t", RunMode: "polling"}, Database: DatabaseConfig{Driver: "memory"}}
	if err := Normalize(&cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Fatalf("polling alias not mapped: %q", cfg.Telegram.RunMode)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := "telegram:\n  token: from-file\ndatabase:\n  mongo:\n    uri: mongodb://file\n    database: filedb\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("BOT_TOKEN", "from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Telegram.Token != "from-env" {
		t.Fatalf("token = %q, want from-env", cfg.Telegram.Token)
	}
	if cfg.Database.Mongo.URI != "mongodb://file" || cfg.Database.Mongo.Database != "filedb" {
		t.Fatalf("file values lost: %+v", cfg.Database.Mongo)
	}
}

func TestLoadMissingFileFallsBackToEnv(t *testing.T) {
	t.Setenv("BOT_TOKEN", "env-token")
	t.Setenv("MONGO_URI", "mongodb://env")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Telegram.Token != "env-token" || cfg.Database.Mongo.URI != "mongodb://env" {
		t.Fatalf("env values not applied: %+v", cfg)
	}
}
