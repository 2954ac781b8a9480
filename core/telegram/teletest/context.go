// Package teletest provides an in-memory tele.Context for handler tests.
package teletest

import (
	"sync"

	tele "gopkg.in/telebot.v4"
)

// Output kinds recorded by Context.
const (
	KindSend  = "send"
	KindReply = "reply"
	KindEdit  = "edit"
)

// Output is one message the handler tried to deliver.
type Output struct {
	Kind string
	What interface{}
	Opts []interface{}
}

// Text returns What as a string, or "" when it is not text.
func (o Output) Text() string {
	s, _ := o.What.(string)
	return s
}

// Markup returns the first reply markup among Opts.
func (o Output) Markup() *tele.ReplyMarkup {
	for _, opt := range o.Opts {
		switch v := opt.(type) {
		case *tele.ReplyMarkup:
			return v
		case *tele.SendOptions:
			if v != nil && v.ReplyMarkup != nil {
				return v.ReplyMarkup
			}
		}
	}
	return nil
}

// Context implements the parts of tele.Context used by routers, middleware
// and handlers. Calling any other method panics.
type Context struct {
	tele.Context

	U tele.Update
	// SendErr is returned by Send, Reply and Edit when set.
	SendErr error

	mu        sync.Mutex
	store     map[string]interface{}
	outputs   []Output
	responses []*tele.CallbackResponse
}

// NewMessage builds a text message update.
func NewMessage(updateID int, chat *tele.Chat, from *tele.User, text string) *Context {
	return &Context{U: tele.Update{
		ID:      updateID,
		Message: &tele.Message{ID: updateID, Chat: chat, Sender: from, Text: text},
	}}
}

// NewCallback builds a callback update whose message lives in chat.
func NewCallback(updateID int, chat *tele.Chat, from *tele.User, data string) *Context {
	msg := &tele.Message{ID: updateID, Chat: chat, Text: "original"}
	return &Context{U: tele.Update{
		ID:       updateID,
		Callback: &tele.Callback{ID: "cb", Sender: from, Message: msg, Data: data},
	}}
}

func (c *Context) Update() tele.Update { return c.U }

func (c *Context) Message() *tele.Message {
	switch {
	case c.U.Message != nil:
		return c.U.Message
	case c.U.Callback != nil:
		return c.U.Callback.Message
	}
	return nil
}

func (c *Context) Callback() *tele.Callback { return c.U.Callback }

func (c *Context) Sender() *tele.User {
	switch {
	case c.U.Callback != nil:
		return c.U.Callback.Sender
	case c.U.Message != nil:
		return c.U.Message.Sender
	}
	return nil
}

func (c *Context) Chat() *tele.Chat {
	if m := c.Message(); m != nil {
		return m.Chat
	}
	return nil
}

func (c *Context) Text() string {
	if m := c.Message(); m != nil {
		return m.Text
	}
	return ""
}

func (c *Context) Get(key string) interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store[key]
}

func (c *Context) Set(key string, val interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = make(map[string]interface{})
	}
	c.store[key] = val
}

func (c *Context) record(kind string, what interface{}, opts []interface{}) error {
	if c.SendErr != nil {
		return c.SendErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.outputs = append(c.outputs, Output{Kind: kind, What: what, Opts: opts})
	return nil
}

func (c *Context) Send(what interface{}, opts ...interface{}) error {
	return c.record(KindSend, what, opts)
}

func (c *Context) Reply(what interface{}, opts ...interface{}) error {
	return c.record(KindReply, what, opts)
}

func (c *Context) Edit(what interface{}, opts ...interface{}) error {
	return c.record(KindEdit, what, opts)
}

func (c *Context) Respond(resp ...*tele.CallbackResponse) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(resp) == 0 {
		resp = []*tele.CallbackResponse{{}}
	}
	c.responses = append(c.responses, resp...)
	return nil
}

// Outputs returns the recorded messages in call order.
func (c *Context) Outputs() []Output {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Output(nil), c.outputs...)
}

// Responded reports how many times the callback was answered.
func (c *Context) Responded() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.responses)
}

// Members is a MemberResolver backed by a role table keyed by user ID.
type Members struct {
	Roles map[int64]tele.MemberStatus
	Err   error
	Calls int
}

// ChatMemberOf returns the role recorded for user; unknown users are plain members.
func (m *Members) ChatMemberOf(_, user tele.Recipient) (*tele.ChatMember, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	u, _ := user.(*tele.User)
	role := tele.Member
	if u != nil {
		if r, ok := m.Roles[u.ID]; ok {
			role = r
		}
	}
	return &tele.ChatMember{User: u, Role: role}, nil
}
