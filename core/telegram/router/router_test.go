package router

import (
	"errors"
	"fmt"
	"testing"

	tg "github.com/m3rciful/groupbot/core/telegram"
	"github.com/m3rciful/groupbot/core/telegram/commands"
	"github.com/m3rciful/groupbot/core/telegram/middleware"
	"github.com/m3rciful/groupbot/core/telegram/teletest"

	tele "gopkg.in/telebot.v4"
)

var (
	privateChat = &tele.Chat{ID: 42, Type: tele.ChatPrivate}
	groupChat   = &tele.Chat{ID: -100, Type: tele.ChatGroup, Title: "Team"}
	ana         = &tele.User{ID: 42, FirstName: "Ana"}
)

func testRegistry(t *testing.T) *tg.Registry {
	t.Helper()
	reg := tg.NewRegistry()
	reg.RegisterCommand("/start", commands.Command{
		Description: "Start",
		Scope:       commands.ScopePrivate,
		Handler:     func(c tele.Context) error { return c.Send("started") },
	})
	reg.RegisterCommand("/togglechat", commands.Command{
		Description: "Toggle",
		Scope:       commands.ScopeGroup,
		AdminOnly:   true,
		Handler:     func(c tele.Context) error { return c.Reply("toggled") },
	})
	reg.RegisterText(commands.ScopeGroup, func(c tele.Context) error {
		return c.Reply("echo:" + c.Text())
	})
	if err := reg.RegisterCallback("owner_id", func(c tele.Context) error {
		return c.Edit("owner")
	}); err != nil {
		t.Fatalf("register callback: %v", err)
	}
	return reg
}

func routeFor(routes []tg.Route, endpoint any) tele.HandlerFunc {
	for _, r := range routes {
		if r.Endpoint == endpoint {
			return middleware.MessageMetricsMiddleware(r.Handler)
		}
	}
	return nil
}

func singleOutput(t *testing.T, c *teletest.Context) teletest.Output {
	t.Helper()
	outs := c.Outputs()
	if len(outs) != 1 {
		t.Fatalf("outputs = %d, want 1: %+v", len(outs), outs)
	}
	return outs[0]
}

func TestCommandRouteInScope(t *testing.T) {
	reg := testRegistry(t)
	h := routeFor(CommandRoutes(reg, Options{}), "/start")
	if h == nil {
		t.Fatal("no /start route")
	}
	c := teletest.NewMessage(1, privateChat, ana, "/start")
	if err := h(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if out := singleOutput(t, c); out.Text() != "started" {
		t.Fatalf("output = %q", out.Text())
	}
}

func TestCommandOutOfScopeFallsThroughToText(t *testing.T) {
	reg := testRegistry(t)
	h := routeFor(CommandRoutes(reg, Options{}), "/start")
	c := teletest.NewMessage(2, groupChat, ana, "/start")
	if err := h(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if out := singleOutput(t, c); out.Text() != "echo:/start" {
		t.Fatalf("output = %q, want group echo", out.Text())
	}

	// No text route for private chats: the update is skipped silently.
	h = routeFor(CommandRoutes(reg, Options{}), "/togglechat")
	c = teletest.NewMessage(3, privateChat, ana, "/togglechat")
	if err := h(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if outs := c.Outputs(); len(outs) != 0 {
		t.Fatalf("unexpected outputs: %+v", outs)
	}
}

func TestTextRouteResolvesCommandCase(t *testing.T) {
	reg := testRegistry(t)
	h := routeFor(TextRoutes(reg, Options{}), tele.OnText)
	for _, text := range []string{"/START", "/Start@groupbot now"} {
		c := teletest.NewMessage(4, privateChat, ana, text)
		if err := h(c); err != nil {
			t.Fatalf("%q: %v", text, err)
		}
		if out := singleOutput(t, c); out.Text() != "started" {
			t.Fatalf("%q routed to %q", text, out.Text())
		}
	}

	c := teletest.NewMessage(5, groupChat, ana, "hi")
	if err := h(c); err != nil {
		t.Fatalf("group text: %v", err)
	}
	if out := singleOutput(t, c); out.Kind != teletest.KindReply || out.Text() != "echo:hi" {
		t.Fatalf("group text output = %+v", out)
	}
}

func TestAdminOnlyCommandUsesResolver(t *testing.T) {
	reg := testRegistry(t)
	members := &teletest.Members{Roles: map[int64]tele.MemberStatus{7: tele.Administrator}}
	opts := Options{Admin: middleware.GroupAdminOptions{
		OwnerID: 99,
		Members: members,
		OnReject: func(c tele.Context) error {
			return c.Reply("denied")
		},
	}}
	h := routeFor(CommandRoutes(reg, opts), "/togglechat")

	cases := []struct {
		user  *tele.User
		want  string
		calls int
	}{
		{&tele.User{ID: 7, FirstName: "Admin"}, "toggled", 1},
		{&tele.User{ID: 8, FirstName: "Member"}, "denied", 2},
		{&tele.User{ID: 99, FirstName: "Owner"}, "toggled", 2},
	}
	for _, tc := range cases {
		c := teletest.NewMessage(6, groupChat, tc.user, "/togglechat")
		if err := h(c); err != nil {
			t.Fatalf("user %d: %v", tc.user.ID, err)
		}
		if out := singleOutput(t, c); out.Text() != tc.want {
			t.Fatalf("user %d got %q, want %q", tc.user.ID, out.Text(), tc.want)
		}
		if members.Calls != tc.calls {
			t.Fatalf("user %d: resolver calls = %d, want %d", tc.user.ID, members.Calls, tc.calls)
		}
	}
}

func TestAdminLookupFailureUsesOnError(t *testing.T) {
	reg := testRegistry(t)
	opts := Options{Admin: middleware.GroupAdminOptions{
		Members: &teletest.Members{Err: errors.New("api down")},
		OnError: func(c tele.Context, err error) error {
			return c.Reply("try later")
		},
	}}
	h := routeFor(CommandRoutes(reg, opts), "/togglechat")
	c := teletest.NewMessage(7, groupChat, ana, "/togglechat")
	if err := h(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if out := singleOutput(t, c); out.Text() != "try later" {
		t.Fatalf("output = %q", out.Text())
	}
}

func TestCallbackRouteAlwaysResponds(t *testing.T) {
	reg := testRegistry(t)
	h := middleware.MessageMetricsMiddleware(CallbackRoute(reg).Handler)

	c := teletest.NewCallback(8, privateChat, ana, "owner_id")
	if err := h(c); err != nil {
		t.Fatalf("known callback: %v", err)
	}
	if c.Responded() != 1 {
		t.Fatalf("known callback responded %d times", c.Responded())
	}
	if out := singleOutput(t, c); out.Kind != teletest.KindEdit {
		t.Fatalf("expected edit, got %+v", out)
	}

	c = teletest.NewCallback(9, privateChat, ana, "something_else")
	if err := h(c); err != nil {
		t.Fatalf("unknown callback: %v", err)
	}
	if c.Responded() != 1 {
		t.Fatalf("unknown callback responded %d times", c.Responded())
	}
	if outs := c.Outputs(); len(outs) != 0 {
		t.Fatalf("unknown callback produced output: %+v", outs)
	}
}

type codedErr struct{}

func (codedErr) Error() string { return "store unavailable" }
func (codedErr) Code() string  { return "store down" }

func TestDeriveErrorCode(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{errors.New("x"), "ERRORSTRING"},
		{fmt.Errorf("toggle: %w", codedErr{}), "STORE_DOWN"},
		{fmt.Errorf("outer: %w", fmt.Errorf("inner: %w", errors.New("x"))), "ERRORSTRING"},
	}
	for _, tc := range cases {
		if got := deriveErrorCode(tc.err); got != tc.want {
			t.Errorf("deriveErrorCode(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestTextWithoutRouteIsIgnored(t *testing.T) {
	reg := testRegistry(t)
	h := routeFor(TextRoutes(reg, Options{}), tele.OnText)
	for _, text := range []string{"hello there", "/help"} {
		c := teletest.NewMessage(10, privateChat, ana, text)
		if err := h(c); err != nil {
			t.Fatalf("%q: %v", text, err)
		}
		if outs := c.Outputs(); len(outs) != 0 {
			t.Fatalf("%q produced output: %+v", text, outs)
		}
	}
}
