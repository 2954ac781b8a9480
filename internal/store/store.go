// Package store persists the users who started the bot and the groups it
// has seen. All writes are upserts or updates keyed by Telegram IDs.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a point read or update finds no record.
var ErrNotFound = errors.New("store: record not found")

// ChatTypePrivate is the chat_type stored for users.
const ChatTypePrivate = "private"

// User is the profile of someone who sent /start in a private chat.
type User struct {
	UserID    int64     `bson:"user_id" db:"user_id"`
	Username  string    `bson:"username" db:"username"`
	FirstName string    `bson:"first_name" db:"first_name"`
	LastName  string    `bson:"last_name" db:"last_name"`
	ChatType  string    `bson:"chat_type" db:"chat_type"`
	JoinedAt  time.Time `bson:"joined_at" db:"joined_at"`
	UpdatedAt time.Time `bson:"updated_at" db:"updated_at"`
}

// Group is a group chat the bot has received a message in.
type Group struct {
	GroupID   int64  `bson:"group_id" db:"group_id"`
	GroupName string `bson:"group_name" db:"group_name"`
	ChatOn    bool   `bson:"chat_on" db:"chat_on"`
}

// UserStore writes user profiles.
type UserStore interface {
	// UpsertUser creates or refreshes u. JoinedAt is kept from the first
	// insert; UpdatedAt and the profile fields are overwritten.
	UpsertUser(ctx context.Context, u User) error
}

// GroupStore reads and writes group records.
type GroupStore interface {
	// UpsertGroup creates the group with chat_on=true or refreshes its name.
	// With resetChatOn the stored chat_on is forced back to true as well.
	UpsertGroup(ctx context.Context, groupID int64, name string, resetChatOn bool) error
	// GetGroup returns ErrNotFound for unknown groups.
	GetGroup(ctx context.Context, groupID int64) (Group, error)
	// SetChatOn updates an existing group and returns ErrNotFound otherwise.
	SetChatOn(ctx context.Context, groupID int64, on bool) error
}

// Store is a backend serving both record kinds.
type Store interface {
	UserStore
	GroupStore
}
