package commands

import (
	"testing"

	tele "gopkg.in/telebot.v4"
)

func TestScopeAllows(t *testing.T) {
	private := &tele.Chat{ID: 42, Type: tele.ChatPrivate}
	group := &tele.Chat{ID: -100, Type: tele.ChatGroup}
	super := &tele.Chat{ID: -1001, Type: tele.ChatSuperGroup}
	channel := &tele.Chat{ID: -1002, Type: tele.ChatChannel}

	cases := []struct {
		scope Scope
		chat  *tele.Chat
		want  bool
	}{
		{ScopeAny, nil, true},
		{ScopeAny, channel, true},
		{ScopePrivate, private, true},
		{ScopePrivate, group, false},
		{ScopePrivate, nil, false},
		{ScopeGroup, group, true},
		{ScopeGroup, super, true},
		{ScopeGroup, private, false},
		{ScopeGroup, channel, false},
	}
	for _, tc := range cases {
		if got := tc.scope.Allows(tc.chat); got != tc.want {
			t.Errorf("%s.Allows(%v) = %v, want %v", tc.scope, tc.chat, got, tc.want)
		}
	}
}
