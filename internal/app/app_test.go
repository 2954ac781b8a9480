package app

import (
	"context"
	"testing"

	tg "github.com/m3rciful/groupbot/core/telegram"
	"github.com/m3rciful/groupbot/core/telegram/commands"
	"github.com/m3rciful/groupbot/internal/store"

	tele "gopkg.in/telebot.v4"
)

func offlineBot(t *testing.T) *tele.Bot {
	t.Helper()
	b, err := tele.NewBot(tele.Settings{Offline: true, Synchronous: true})
	if err != nil {
		t.Fatalf("offline bot: %v", err)
	}
	b.Me.Username = "group_helper_bot"
	return b
}

func TestRunOptionsWireRoutes(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, baseYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	a, err := New(cfg, nil, offlineBot(t), store.NewMemory())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	opts, err := a.TelegramRunOptions()
	if err != nil {
		t.Fatalf("run options: %v", err)
	}

	endpoints := make(map[any]bool)
	for _, r := range opts.Routes {
		endpoints[r.Endpoint] = true
	}
	for _, want := range []any{"/start", "/togglechat", tele.OnText, tele.OnCallback} {
		if !endpoints[want] {
			t.Fatalf("route %v missing", want)
		}
	}
	if len(opts.Middlewares) == 0 {
		t.Fatal("no middlewares configured")
	}

	private := opts.Registry.ListCommands(commands.ScopePrivate)
	if len(private) == 0 {
		t.Fatal("command menu is empty")
	}
}

func TestLifecycleWithoutMetrics(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, baseYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	a, err := New(cfg, nil, offlineBot(t), store.NewMemory())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if a.metrics != nil {
		t.Fatal("metrics listener created without an address")
	}
	ctx := context.Background()
	if err := a.onStart(ctx, tg.Runtime{}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := a.onStop(ctx, tg.Runtime{}); err != nil {
		t.Fatalf("stop: %v", err)
	}
}

func TestLifecycleWithMetrics(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, baseYAML+"metrics:\n  listen: 127.0.0.1:0\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	a, err := New(cfg, nil, offlineBot(t), store.NewMemory())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()
	if err := a.onStart(ctx, tg.Runtime{}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := a.onStop(ctx, tg.Runtime{}); err != nil {
		t.Fatalf("stop: %v", err)
	}
}

func TestNewRequiresDependencies(t *testing.T) {
	if _, err := New(&Config{}, nil, nil, store.NewMemory()); err == nil {
		t.Fatal("expected error without bot")
	}
}
