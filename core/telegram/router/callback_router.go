package router

import (
	"log/slog"
	"time"

	"github.com/m3rciful/groupbot/core/logger"
	tg "github.com/m3rciful/groupbot/core/telegram"
	"github.com/m3rciful/groupbot/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/groupbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// CallbackRoute routes inline button presses through the registry. Every
// callback is answered before its handler runs so the client spinner stops
// even when the handler fails. Unknown keys are only answered.
func CallbackRoute(reg *tg.Registry) tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		if c.Callback() == nil {
			return nil
		}

		key := callbacks.CallbackKey(c)
		name := "callback." + normalizeHandlerName(key)
		extras := []slog.Attr{slog.String("cb_key", logger.SanitizeLimit(key, 64))}

		if err := c.Respond(); err != nil {
			logger.Warn(tghelpers.BuildContext(c), "tg", "callback.ack",
				slog.String("status", "fail"),
				slog.String("err", err.Error()),
			)
		}

		cbHandler, ok := reg.GetCallback(key)
		if !ok || cbHandler == nil {
			extras = append(extras, slog.String("cause", "not_found"))
			logHandlerSummary(c, "callback.unknown", start, "skip", "silent", nil, extras...)
			return nil
		}

		return handleWithSummary(c, name, start, func() error {
			return cbHandler(c)
		}, extras...)
	}
	return tg.Route{Endpoint: tele.OnCallback, Handler: handler}
}
