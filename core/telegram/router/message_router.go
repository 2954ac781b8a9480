package router

import (
	"time"

	tg "github.com/m3rciful/groupbot/core/telegram"

	tele "gopkg.in/telebot.v4"
)

// TextRoutes handles plain text. Command keywords telebot did not match (for
// example "/Start") are resolved through the registry first; the rest goes to
// the text route registered for the chat scope. Text with no route is ignored.
func TextRoutes(reg *tg.Registry, opts Options) []tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		if reg != nil {
			if key, cmd, ok := reg.LookupCommand(c.Text()); ok && cmd.Handler != nil {
				return runCommand(reg, opts, c, key, cmd, start)
			}
		}
		return dispatchText(reg, c, start)
	}
	return []tg.Route{{Endpoint: tele.OnText, Handler: handler}}
}

func dispatchText(reg *tg.Registry, c tele.Context, start time.Time) error {
	if reg != nil {
		if route, ok := reg.LookupText(c.Chat()); ok {
			return handleWithSummary(c, "text."+route.Scope.String(), start, func() error {
				return route.Handler(c)
			})
		}
	}
	logHandlerSummary(c, "unknown_text", start, "skip", "silent", nil)
	return nil
}
