package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/m3rciful/groupbot/core/logger"
	"github.com/m3rciful/groupbot/core/telegram/commands"

	tele "gopkg.in/telebot.v4"
)

// TextRoute binds a plain-text handler to a chat scope.
type TextRoute struct {
	Scope   commands.Scope
	Handler tele.HandlerFunc
}

// Registry is the static dispatch table: commands by keyword, callbacks by
// key, and plain-text handlers by chat scope.
type Registry struct {
	commands    map[string]commands.Command
	callbacks   map[string]tele.HandlerFunc
	callbacksMu sync.RWMutex
	texts       []TextRoute
}

// NewRegistry creates an empty Registry. Unknown callbacks are acknowledged
// by the router and otherwise ignored.
func NewRegistry() *Registry {
	return &Registry{
		commands:  make(map[string]commands.Command),
		callbacks: make(map[string]tele.HandlerFunc),
	}
}

// RegisterCommand adds a new command. Names must start with a slash.
func (r *Registry) RegisterCommand(name string, cmd commands.Command) {
	if r == nil || name == "" || cmd.Handler == nil || cmd.Description == "" {
		logger.TWire.LogAttrs(context.Background(), slog.LevelWarn, "register.command.skip",
			slog.String("command", name),
			slog.String("cause", "invalid"),
		)
		return
	}
	if name[0] != '/' {
		logger.TWire.LogAttrs(context.Background(), slog.LevelWarn, "register.command.skip",
			slog.String("command", name),
			slog.String("cause", "no_slash_prefix"),
		)
		return
	}
	name = strings.ToLower(name)
	if _, exists := r.commands[name]; exists {
		logger.TWire.LogAttrs(context.Background(), slog.LevelWarn, "register.command.duplicate",
			slog.String("command", name),
		)
		return
	}
	r.commands[name] = cmd
}

// ListCommands returns the commands of one scope sorted by name. Commands
// with ScopeAny are listed under every scope.
func (r *Registry) ListCommands(scope commands.Scope) []tele.Command {
	var list []tele.Command
	for cmd, meta := range r.commands {
		if meta.Scope != commands.ScopeAny && scope != commands.ScopeAny && meta.Scope != scope {
			continue
		}
		list = append(list, tele.Command{Text: strings.TrimPrefix(cmd, "/"), Description: meta.Description})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Text < list[j].Text })
	return list
}

// LookupCommand finds the command keyword of text, ignoring case and a
// "@botname" suffix, and returns its key with metadata.
func (r *Registry) LookupCommand(name string) (string, commands.Command, bool) {
	name = CommandKeyword(name)
	if name == "" {
		return "", commands.Command{}, false
	}
	cmd, ok := r.commands[name]
	return name, cmd, ok
}

// CommandKeyword extracts the lowercased "/command" keyword from message text.
// It returns "" when text does not start with a slash.
func CommandKeyword(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return ""
	}
	kw := fields[0]
	if at := strings.IndexByte(kw, '@'); at >= 0 {
		kw = kw[:at]
	}
	return strings.ToLower(kw)
}

// Commands returns all registered commands.
func (r *Registry) Commands() map[string]commands.Command {
	return r.commands
}

// RegisterCallback adds a callback handler mapped to its key.
func (r *Registry) RegisterCallback(key string, handler tele.HandlerFunc) error {
	if r == nil || key == "" || handler == nil {
		logger.TWire.LogAttrs(context.Background(), slog.LevelWarn, "register.callback.skip",
			slog.String("cb_key", key),
			slog.Bool("handler_nil", handler == nil),
		)
		return errors.New("invalid callback registration")
	}
	r.callbacksMu.Lock()
	defer r.callbacksMu.Unlock()
	if _, exists := r.callbacks[key]; exists {
		logger.TWire.LogAttrs(context.Background(), slog.LevelWarn, "register.callback.duplicate",
			slog.String("cb_key", key),
		)
		return fmt.Errorf("callback already registered: %s", key)
	}
	r.callbacks[key] = handler
	return nil
}

// GetCallback safely returns handler by key.
func (r *Registry) GetCallback(key string) (tele.HandlerFunc, bool) {
	r.callbacksMu.RLock()
	defer r.callbacksMu.RUnlock()
	h, ok := r.callbacks[key]
	return h, ok
}

// ListCallbacks returns sorted keys (for diagnostics).
func (r *Registry) ListCallbacks() []string {
	r.callbacksMu.RLock()
	defer r.callbacksMu.RUnlock()
	names := make([]string, 0, len(r.callbacks))
	for k := range r.callbacks {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// RegisterText binds a plain-text handler to scope. The first matching
// registration wins, so narrower scopes should be registered first.
func (r *Registry) RegisterText(scope commands.Scope, h tele.HandlerFunc) {
	if h == nil {
		return
	}
	r.texts = append(r.texts, TextRoute{Scope: scope, Handler: h})
}

// LookupText returns the text route serving chat, if any.
func (r *Registry) LookupText(chat *tele.Chat) (TextRoute, bool) {
	for _, route := range r.texts {
		if route.Scope.Allows(chat) {
			return route, true
		}
	}
	return TextRoute{}, false
}

// CommandSetter is the part of *tele.Bot used to publish the command menu.
type CommandSetter interface {
	SetCommands(opts ...interface{}) error
}

// PublishCommands sets the command menus shown to private chats and groups.
func PublishCommands(bot CommandSetter, reg *Registry) {
	scopes := []struct {
		scope commands.Scope
		tg    tele.CommandScope
	}{
		{commands.ScopePrivate, tele.CommandScope{Type: tele.CommandScopeAllPrivateChats}},
		{commands.ScopeGroup, tele.CommandScope{Type: tele.CommandScopeAllGroupChats}},
	}
	for _, s := range scopes {
		list := reg.ListCommands(s.scope)
		if len(list) == 0 {
			continue
		}
		if err := bot.SetCommands(list, s.tg); err != nil {
			logger.TWire.LogAttrs(context.Background(), slog.LevelError, "register.commands.set_failed",
				slog.String("status", "fail"),
				slog.String("chat_type", s.scope.String()),
				slog.String("err", err.Error()),
			)
			continue
		}
		logger.TWire.LogAttrs(context.Background(), slog.LevelInfo, "register.commands.set",
			slog.String("status", "ok"),
			slog.String("chat_type", s.scope.String()),
			slog.Int("commands", len(list)),
		)
	}
}
