package middleware

import (
	"log/slog"

	"github.com/m3rciful/groupbot/core/logger"
	tghelpers "github.com/m3rciful/groupbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// MemberResolver fetches a user's membership in a chat. *tele.Bot satisfies it.
type MemberResolver interface {
	ChatMemberOf(chat, user tele.Recipient) (*tele.ChatMember, error)
}

// GroupAdminOptions defines how group admin checks should behave.
type GroupAdminOptions struct {
	// OwnerID passes without a membership lookup; 0 disables the bypass.
	OwnerID int64
	Members MemberResolver
	// OnReject runs for senders that are neither admins nor the owner.
	OnReject tele.HandlerFunc
	// OnError runs when the membership lookup fails.
	OnError func(c tele.Context, err error) error
}

// GroupAdminOnly lets through the owner and chat administrators or creators.
func GroupAdminOnly(opts GroupAdminOptions) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender, chat := c.Sender(), c.Chat()
			if sender == nil || chat == nil {
				return reject(c, opts, "no_sender")
			}
			if opts.OwnerID != 0 && sender.ID == opts.OwnerID {
				return next(c)
			}
			if opts.Members == nil {
				return reject(c, opts, "no_resolver")
			}
			member, err := opts.Members.ChatMemberOf(chat, sender)
			if err != nil {
				ctx := tghelpers.BuildContext(c)
				logger.Warn(ctx, "tg", "access.lookup",
					slog.String("status", "fail"),
					slog.String("err", err.Error()),
				)
				if opts.OnError != nil {
					return opts.OnError(c, err)
				}
				return err
			}
			if member != nil && IsChatAdmin(member.Role) {
				return next(c)
			}
			role := ""
			if member != nil {
				role = string(member.Role)
			}
			return reject(c, opts, role)
		}
	}
}

// IsChatAdmin reports whether role may manage the chat.
func IsChatAdmin(role tele.MemberStatus) bool {
	return role == tele.Administrator || role == tele.Creator
}

func reject(c tele.Context, opts GroupAdminOptions, role string) error {
	ctx := tghelpers.BuildContext(c)
	logger.Info(ctx, "tg", "access.denied",
		slog.String("status", "denied"),
		slog.String("role", role),
	)
	if opts.OnReject != nil {
		return opts.OnReject(c)
	}
	return nil
}
