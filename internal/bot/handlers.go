// Package bot implements the user-facing handlers: the private /start
// welcome, the Owner ID button, the group echo and the admin toggle.
package bot

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/m3rciful/groupbot/core/logger"
	tghelpers "github.com/m3rciful/groupbot/core/telegram/helpers"
	"github.com/m3rciful/groupbot/core/telegram/keyboard"
	"github.com/m3rciful/groupbot/internal/store"

	tele "gopkg.in/telebot.v4"
)

// Handlers holds the dependencies shared by all bot handlers.
type Handlers struct {
	settings Settings
	users    store.UserStore
	groups   store.GroupStore
	now      func() time.Time
}

// New creates handlers bound to the given settings and stores.
func New(settings Settings, users store.UserStore, groups store.GroupStore) *Handlers {
	return &Handlers{
		settings: settings,
		users:    users,
		groups:   groups,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Start records the sender and sends the welcome keyboard.
func (h *Handlers) Start(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	ctx := tghelpers.BuildContext(c)
	now := h.now()
	err := h.users.UpsertUser(ctx, store.User{
		UserID:    sender.ID,
		Username:  sender.Username,
		FirstName: sender.FirstName,
		LastName:  sender.LastName,
		ChatType:  store.ChatTypePrivate,
		JoinedAt:  now,
		UpdatedAt: now,
	})
	if err != nil {
		_ = c.Send(textStoreFailure)
		return fmt.Errorf("start: %w", err)
	}
	logger.Debug(ctx, "bot", "user.upsert", slog.String("status", "ok"))

	text := fmt.Sprintf(welcomeFormat, sender.FirstName, h.settings.BotName)
	return c.Send(text, h.welcomeKeyboard())
}

func (h *Handlers) welcomeKeyboard() *tele.ReplyMarkup {
	l := h.settings.Links
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: btnUpdateChannel, URL: l.UpdateChannel},
		{Text: btnSupport, URL: l.Support},
		{Text: btnGroup, URL: l.Group},
		{Text: btnOwnerID, Data: CallbackOwnerID},
		{Text: btnAddToGroup, URL: h.settings.AddToGroupURL()},
	})
}

// OwnerID replaces the pressed message with the configured owner.
func (h *Handlers) OwnerID(c tele.Context) error {
	return c.Edit(fmt.Sprintf(ownerIDFormat, h.settings.OwnerLabel()))
}

// GroupMessage records the group and echoes the message when replies are
// enabled both globally and for the group.
func (h *Handlers) GroupMessage(c tele.Context) error {
	chat := c.Chat()
	if chat == nil || c.Message() == nil {
		return nil
	}
	ctx := tghelpers.BuildContext(c)

	if err := h.groups.UpsertGroup(ctx, chat.ID, chat.Title, h.settings.ResetChatOnMessage); err != nil {
		return h.groupFailure(c, fmt.Errorf("group message: %w", err))
	}
	g, err := h.groups.GetGroup(ctx, chat.ID)
	if err != nil {
		return h.groupFailure(c, fmt.Errorf("group message: %w", err))
	}

	enabled := h.settings.ChatOn && g.ChatOn
	logger.Debug(ctx, "bot", "group.gate",
		slog.Int64("group_id", g.GroupID),
		slog.Bool("chat_on", g.ChatOn),
		slog.Bool("chat_on_global", h.settings.ChatOn),
	)
	if !enabled {
		return nil
	}

	name := ""
	if sender := c.Sender(); sender != nil {
		name = sender.FirstName
	}
	return c.Reply(fmt.Sprintf(echoFormat, name, c.Text()))
}

// groupFailure tells the group about a store error unless replies are
// switched off globally.
func (h *Handlers) groupFailure(c tele.Context, err error) error {
	if h.settings.ChatOn {
		_ = c.Reply(textStoreFailure)
	}
	return err
}

// ToggleChat flips chat_on for the current group. Authorization is applied
// by the router through AdminOptions.
func (h *Handlers) ToggleChat(c tele.Context) error {
	chat := c.Chat()
	if chat == nil {
		return nil
	}
	ctx := tghelpers.BuildContext(c)

	g, err := h.groups.GetGroup(ctx, chat.ID)
	if errors.Is(err, store.ErrNotFound) {
		return c.Reply(textGroupNotReady)
	}
	if err != nil {
		_ = c.Reply(textStoreFailure)
		return fmt.Errorf("togglechat: %w", err)
	}

	next := !g.ChatOn
	if err := h.groups.SetChatOn(ctx, chat.ID, next); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Reply(textGroupNotReady)
		}
		_ = c.Reply(textStoreFailure)
		return fmt.Errorf("togglechat: %w", err)
	}
	logger.Info(ctx, "bot", "group.toggle",
		slog.String("status", "ok"),
		slog.Int64("group_id", chat.ID),
		slog.Bool("chat_on", next),
	)
	return c.Reply(fmt.Sprintf(toggleFormat, onOff(next)))
}
