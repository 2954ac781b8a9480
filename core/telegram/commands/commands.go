package commands

import (
	tele "gopkg.in/telebot.v4"
)

// Scope restricts where a command or text route is served.
type Scope int

const (
	// ScopeAny accepts updates from every chat type.
	ScopeAny Scope = iota
	// ScopePrivate accepts one-to-one chats only.
	ScopePrivate
	// ScopeGroup accepts groups and supergroups.
	ScopeGroup
)

// Allows reports whether an update from chat falls into the scope.
func (s Scope) Allows(chat *tele.Chat) bool {
	if s == ScopeAny {
		return true
	}
	if chat == nil {
		return false
	}
	switch s {
	case ScopePrivate:
		return chat.Type == tele.ChatPrivate
	case ScopeGroup:
		return chat.Type == tele.ChatGroup || chat.Type == tele.ChatSuperGroup
	}
	return false
}

func (s Scope) String() string {
	switch s {
	case ScopePrivate:
		return "private"
	case ScopeGroup:
		return "group"
	default:
		return "any"
	}
}

// Command is a registered bot command. Description is shown in the command
// menu; AdminOnly commands pass the group admin check first.
type Command struct {
	Handler     tele.HandlerFunc
	Description string
	Scope       Scope
	AdminOnly   bool
}
