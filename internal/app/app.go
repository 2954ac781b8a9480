// Package app wires configuration, storage and the Telegram runtime together.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/m3rciful/groupbot/core/bootstrap"
	"github.com/m3rciful/groupbot/core/cmd"
	"github.com/m3rciful/groupbot/core/logger"
	"github.com/m3rciful/groupbot/core/metrics"
	tg "github.com/m3rciful/groupbot/core/telegram"
	"github.com/m3rciful/groupbot/core/telegram/router"
	"github.com/m3rciful/groupbot/internal/bot"
	"github.com/m3rciful/groupbot/internal/store"

	tele "gopkg.in/telebot.v4"
)

// App is a bootstrapped bot ready to run.
type App struct {
	cfg      *Config
	res      *bootstrap.Result
	bot      *tele.Bot
	registry *tg.Registry
	handlers *bot.Handlers
	metrics  *metrics.Server
}

// Bootstrap initializes logging, opens the store and creates the bot client.
func Bootstrap(ctx context.Context, carrier cmd.ConfigCarrier) (cmd.TelegramApp, error) {
	cfg, ok := carrier.(*Config)
	if !ok {
		return nil, fmt.Errorf("app: unexpected config type %T", carrier)
	}

	res, err := bootstrap.Run(ctx, bootstrap.Options{Config: &cfg.Config})
	if err != nil {
		return nil, err
	}

	b, err := tg.NewBot(&cfg.Config)
	if err != nil {
		_ = res.Close(ctx)
		return nil, err
	}

	st, err := store.Open(ctx, res, cfg.Database)
	if err != nil {
		_ = res.Close(ctx)
		return nil, err
	}

	return New(cfg, res, b, st)
}

// New assembles an App from already opened dependencies.
func New(cfg *Config, res *bootstrap.Result, b *tele.Bot, st store.Store) (*App, error) {
	if cfg == nil || b == nil || st == nil {
		return nil, fmt.Errorf("app: config, bot and store are required")
	}
	username := ""
	if b.Me != nil {
		username = b.Me.Username
	}
	settings := cfg.Bot.Settings(username)
	handlers := bot.New(settings, st, st)

	reg := tg.NewRegistry()
	if err := handlers.Register(reg); err != nil {
		return nil, fmt.Errorf("app: register handlers: %w", err)
	}

	a := &App{
		cfg:      cfg,
		res:      res,
		bot:      b,
		registry: reg,
		handlers: handlers,
	}
	if cfg.Metrics.Listen != "" {
		a.metrics = metrics.NewServer(cfg.Metrics.Listen, res.Ping)
	}

	logger.Bot.Info("bot configured",
		slog.String("event", "bot.config"),
		slog.String("username", username),
		slog.Bool("chat_on_global", settings.ChatOn),
		slog.Bool("reset_chat_on_message", settings.ResetChatOnMessage),
		slog.String("owner_id", settings.OwnerLabel()),
	)
	return a, nil
}

// TelegramRunOptions implements cmd.TelegramApp.
func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	opts := router.Options{Admin: a.handlers.AdminOptions(a.bot)}
	return tg.RunOptions{
		Config:      &a.cfg.Config,
		Bot:         a.bot,
		Registry:    a.registry,
		Middlewares: tg.DefaultMiddlewares(),
		Routes:      bot.Routes(a.registry, opts),
		OnStart:     a.onStart,
		OnStop:      a.onStop,
	}, nil
}

func (a *App) onStart(_ context.Context, _ tg.Runtime) error {
	if a.metrics == nil {
		return nil
	}
	if err := a.metrics.Start(); err != nil {
		return fmt.Errorf("app: metrics listener: %w", err)
	}
	return nil
}

func (a *App) onStop(ctx context.Context, _ tg.Runtime) error {
	if a.metrics != nil {
		if err := a.metrics.Shutdown(ctx); err != nil {
			logger.Warn(ctx, "app", "metrics.shutdown",
				slog.String("status", "fail"),
				slog.String("err", err.Error()),
			)
		}
	}
	if err := a.res.Close(ctx); err != nil {
		return fmt.Errorf("app: close store: %w", err)
	}
	return nil
}
