package bot

import (
	"fmt"

	tg "github.com/m3rciful/groupbot/core/telegram"
	"github.com/m3rciful/groupbot/core/telegram/commands"
	"github.com/m3rciful/groupbot/core/telegram/middleware"
	"github.com/m3rciful/groupbot/core/telegram/router"

	tele "gopkg.in/telebot.v4"
)

// Register fills the dispatch table with the bot's handlers.
func (h *Handlers) Register(reg *tg.Registry) error {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     h.Start,
		Description: "Show the welcome message",
		Scope:       commands.ScopePrivate,
	})
	reg.RegisterCommand("/togglechat", commands.Command{
		Handler:     h.ToggleChat,
		Description: "Turn bot replies in this group on or off",
		Scope:       commands.ScopeGroup,
		AdminOnly:   true,
	})
	reg.RegisterText(commands.ScopeGroup, h.GroupMessage)
	return reg.RegisterCallback(CallbackOwnerID, h.OwnerID)
}

// AdminOptions configures the group admin check for /togglechat.
func (h *Handlers) AdminOptions(members middleware.MemberResolver) middleware.GroupAdminOptions {
	return middleware.GroupAdminOptions{
		OwnerID: h.settings.OwnerID,
		Members: members,
		OnReject: func(c tele.Context) error {
			return c.Reply(textNotAuthorized)
		},
		OnError: func(c tele.Context, err error) error {
			_ = c.Reply(textPermissionCheckErr)
			return fmt.Errorf("togglechat: member lookup: %w", err)
		},
	}
}

// Routes builds the telebot routes for a registry filled by Register.
func Routes(reg *tg.Registry, opts router.Options) []tg.Route {
	routes := router.CommandRoutes(reg, opts)
	routes = append(routes, router.TextRoutes(reg, opts)...)
	return append(routes, router.CallbackRoute(reg))
}
