package telegram

import (
	"errors"
	"testing"

	"github.com/m3rciful/groupbot/core/telegram/commands"

	tele "gopkg.in/telebot.v4"
)

func noop(tele.Context) error { return nil }

func TestCommandKeyword(t *testing.T) {
	cases := map[string]string{
		"/start":                "/start",
		"/TOGGLECHAT@GroupBot":  "/togglechat",
		"  /start payload here": "/start",
		"hello /start":          "",
		"":                      "",
	}
	for in, want := range cases {
		if got := CommandKeyword(in); got != want {
			t.Errorf("CommandKeyword(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRegisterCommandValidation(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterCommand("start", commands.Command{Handler: noop, Description: "x"})
	reg.RegisterCommand("/nodesc", commands.Command{Handler: noop})
	reg.RegisterCommand("/start", commands.Command{Handler: noop, Description: "first"})
	reg.RegisterCommand("/start", commands.Command{Handler: noop, Description: "second"})

	if len(reg.Commands()) != 1 {
		t.Fatalf("commands = %v, want only /start", reg.Commands())
	}
	if _, cmd, ok := reg.LookupCommand("/start"); !ok || cmd.Description != "first" {
		t.Fatalf("duplicate registration replaced the first: %+v", cmd)
	}
	if err := reg.RegisterCallback("k", noop); err != nil {
		t.Fatalf("register callback: %v", err)
	}
	if err := reg.RegisterCallback("k", noop); err == nil {
		t.Fatal("expected duplicate callback error")
	}
}

func TestListCommandsByScope(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterCommand("/start", commands.Command{Handler: noop, Description: "Start", Scope: commands.ScopePrivate})
	reg.RegisterCommand("/togglechat", commands.Command{Handler: noop, Description: "Toggle", Scope: commands.ScopeGroup, AdminOnly: true})
	reg.RegisterCommand("/about", commands.Command{Handler: noop, Description: "About"})

	private := reg.ListCommands(commands.ScopePrivate)
	if len(private) != 2 || private[0].Text != "about" || private[1].Text != "start" {
		t.Fatalf("private menu = %+v", private)
	}
	group := reg.ListCommands(commands.ScopeGroup)
	if len(group) != 2 || group[0].Text != "about" || group[1].Text != "togglechat" {
		t.Fatalf("group menu = %+v", group)
	}
	if all := reg.ListCommands(commands.ScopeAny); len(all) != 3 {
		t.Fatalf("all commands = %+v", all)
	}
}

func TestLookupTextFirstMatchWins(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterText(commands.ScopeGroup, noop)
	reg.RegisterText(commands.ScopeAny, noop)

	if r, ok := reg.LookupText(&tele.Chat{Type: tele.ChatSuperGroup}); !ok || r.Scope != commands.ScopeGroup {
		t.Fatalf("supergroup route = %+v %v", r, ok)
	}
	if r, ok := reg.LookupText(&tele.Chat{Type: tele.ChatPrivate}); !ok || r.Scope != commands.ScopeAny {
		t.Fatalf("private route = %+v %v", r, ok)
	}
}

type fakeSetter struct {
	calls [][]interface{}
	err   error
}

func (f *fakeSetter) SetCommands(opts ...interface{}) error {
	f.calls = append(f.calls, opts)
	return f.err
}

func TestPublishCommands(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterCommand("/start", commands.Command{Handler: noop, Description: "Start", Scope: commands.ScopePrivate})
	reg.RegisterCommand("/togglechat", commands.Command{Handler: noop, Description: "Toggle", Scope: commands.ScopeGroup})

	setter := &fakeSetter{}
	PublishCommands(setter, reg)
	if len(setter.calls) != 2 {
		t.Fatalf("SetCommands calls = %d, want 2", len(setter.calls))
	}
	scope, ok := setter.calls[0][1].(tele.CommandScope)
	if !ok || scope.Type != tele.CommandScopeAllPrivateChats {
		t.Fatalf("first call scope = %+v", setter.calls[0][1])
	}
	list, _ := setter.calls[1][0].([]tele.Command)
	if len(list) != 1 || list[0].Text != "togglechat" {
		t.Fatalf("group commands = %+v", list)
	}

	failing := &fakeSetter{err: errors.New("forbidden")}
	PublishCommands(failing, reg)
	if len(failing.calls) != 2 {
		t.Fatalf("a failing scope must not stop the next one: %d calls", len(failing.calls))
	}
}
