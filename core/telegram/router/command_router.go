package router

import (
	"log/slog"
	"time"

	"github.com/m3rciful/groupbot/core/logger"
	tg "github.com/m3rciful/groupbot/core/telegram"
	"github.com/m3rciful/groupbot/core/telegram/commands"
	"github.com/m3rciful/groupbot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// Options configures how registry entries are wrapped and exposed.
type Options struct {
	// Admin guards commands flagged AdminOnly.
	Admin middleware.GroupAdminOptions
}

// CommandRoutes binds every registered command keyword to its handler.
// A command used outside its scope is treated as plain text.
func CommandRoutes(reg *tg.Registry, opts Options) []tg.Route {
	if reg == nil {
		return nil
	}

	routes := make([]tg.Route, 0, len(reg.Commands()))
	for key, def := range reg.Commands() {
		routes = append(routes, tg.Route{
			Endpoint: key,
			Handler: func(c tele.Context) error {
				return runCommand(reg, opts, c, key, def, time.Now())
			},
		})
	}

	logger.TWire.Info("tg.wire",
		slog.String("event", "complete"),
		slog.Int("commands", len(reg.Commands())),
		slog.Int("callbacks", len(reg.ListCallbacks())),
	)

	return routes
}

func runCommand(reg *tg.Registry, opts Options, c tele.Context, key string, def commands.Command, start time.Time) error {
	if !def.Scope.Allows(c.Chat()) {
		return dispatchText(reg, c, start)
	}
	h := def.Handler
	if def.AdminOnly {
		h = middleware.GroupAdminOnly(opts.Admin)(h)
	}
	return handleWithSummary(c, normalizeHandlerName(key), start, func() error {
		return h(c)
	}, slog.String("command", key))
}
