package database

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	coreconfig "github.com/m3rciful/groupbot/core/config"
	"github.com/m3rciful/groupbot/core/logger"
)

// RunMigrations applies the pending up migrations from cfg.MigrationsDir.
// The database must already be reachable.
func RunMigrations(cfg coreconfig.PostgresConfig) error {
	dir, err := resolveMigrationsDir(cfg.MigrationsDir)
	if err != nil {
		return migrateFailed("resolve", err)
	}
	files := listMigrationFiles(dir)
	logger.MIG.Debug("migrations resolved", fileAttrs("resolve", files,
		slog.String("path", dir),
	)...)

	m, err := migrate.New("file://"+dir, PostgresURL(cfg))
	if err != nil {
		return migrateFailed("init", fmt.Errorf("failed to initialize migrations: %w", err))
	}
	defer func() { _, _ = m.Close() }()

	from, _, _ := m.Version()
	start := time.Now()
	upErr := m.Up()
	took := logger.RoundMS(time.Since(start))
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return migrateFailed("apply", fmt.Errorf("migration execution failed: %w", upErr))
	}

	to, _, _ := m.Version()
	applied := selectApplied(files, uint64(from), uint64(to))
	if len(applied) > 0 {
		logger.MIG.Debug("applied files", fileAttrs("apply", applied)...)
	}
	logger.MIG.Info("migrations summary",
		slog.String("event", "summary"),
		slog.String("status", "ok"),
		slog.Uint64("from_ver", uint64(from)),
		slog.Uint64("to_ver", uint64(to)),
		slog.Int("files", len(applied)),
		slog.Duration("duration", took),
	)
	return nil
}

func migrateFailed(event string, err error) error {
	logger.MIG.Error("migration failed",
		slog.String("event", event),
		slog.String("status", "fail"),
		slog.String("err", err.Error()),
	)
	return err
}

func fileAttrs(event string, files []string, extra ...any) []any {
	preview, truncated := logger.SummarizeStrings(files, 6)
	attrs := append([]any{
		slog.String("event", event),
		slog.Int("files_total", len(files)),
	}, extra...)
	if preview != "" {
		attrs = append(attrs, slog.String("files_preview", preview))
	}
	if truncated {
		attrs = append(attrs, slog.Bool("files_truncated", true))
	}
	return attrs
}

func resolveMigrationsDir(dir string) (string, error) {
	if dir == "" {
		dir = "migrations"
	}
	if filepath.IsAbs(dir) {
		return dir, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	return filepath.Join(cwd, dir), nil
}

func listMigrationFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, ".up.sql") {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func parseVersion(name string) uint64 {
	parts := strings.SplitN(name, "_", 2)
	v, _ := strconv.ParseUint(parts[0], 10, 64)
	return v
}

func selectApplied(files []string, from, to uint64) []string {
	if to <= from {
		return nil
	}
	var out []string
	for _, f := range files {
		v := parseVersion(f)
		if v > from && v <= to {
			out = append(out, f)
		}
	}
	return out
}
