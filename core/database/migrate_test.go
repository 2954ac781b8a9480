package database

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	coreconfig "github.com/m3rciful/groupbot/core/config"
)

func TestListMigrationFilesSortsUpOnly(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"000002_b.up.sql", "000001_a.up.sql", "000001_a.down.sql", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("--"), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	got := listMigrationFiles(dir)
	want := []string{"000001_a.up.sql", "000002_b.up.sql"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("files = %v, want %v", got, want)
	}
}

func TestSelectApplied(t *testing.T) {
	files := []string{"000001_init.up.sql", "000002_idx.up.sql", "000003_more.up.sql"}
	got := selectApplied(files, 1, 3)
	want := []string{"000002_idx.up.sql", "000003_more.up.sql"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("applied = %v, want %v", got, want)
	}
	if out := selectApplied(files, 3, 3); out != nil {
		t.Fatalf("expected nothing applied, got %v", out)
	}
}

func TestResolveMigrationsDir(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "m")
	got, err := resolveMigrationsDir(abs)
	if err != nil || got != abs {
		t.Fatalf("abs dir = %q, %v", got, err)
	}
	rel, err := resolveMigrationsDir("")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if filepath.Base(rel) != "migrations" || !filepath.IsAbs(rel) {
		t.Fatalf("relative dir resolved to %q", rel)
	}
}

func TestPostgresURLEscapesCredentials(t *testing.T) {
	cfg := coreconfig.PostgresConfig{
		Host: "db", Port: "5432", User: "bot", Password: "p@ss/word", Name: "groupbot", SSLMode: "disable",
	}
	got := PostgresURL(cfg)
	want := "postgres://bot:p%40ss%2Fword@db:5432/groupbot?sslmode=disable"
	if got != want {
		t.Fatalf("url = %q, want %q", got, want)
	}
	if dsn := PostgresDSN(cfg); dsn != "user=bot password=p@ss/word host=db port=5432 dbname=groupbot sslmode=disable" {
		t.Fatalf("dsn = %q", dsn)
	}
}
