package store

import (
	"context"
	"sync"
)

// Memory is a process-local Store used by the memory driver and tests.
type Memory struct {
	mu     sync.Mutex
	users  map[int64]User
	groups map[int64]Group
	writes int
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{
		users:  make(map[int64]User),
		groups: make(map[int64]Group),
	}
}

// UpsertUser implements UserStore.
func (m *Memory) UpsertUser(_ context.Context, u User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if prev, ok := m.users[u.UserID]; ok {
		u.JoinedAt = prev.JoinedAt
	}
	m.users[u.UserID] = u
	m.writes++
	return nil
}

// UpsertGroup implements GroupStore.
func (m *Memory) UpsertGroup(_ context.Context, groupID int64, name string, resetChatOn bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.groups[groupID]
	if !ok || resetChatOn {
		g.ChatOn = true
	}
	g.GroupID = groupID
	g.GroupName = name
	m.groups[groupID] = g
	m.writes++
	return nil
}

// GetGroup implements GroupStore.
func (m *Memory) GetGroup(_ context.Context, groupID int64) (Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.groups[groupID]
	if !ok {
		return Group{}, ErrNotFound
	}
	return g, nil
}

// SetChatOn implements GroupStore.
func (m *Memory) SetChatOn(_ context.Context, groupID int64, on bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.groups[groupID]
	if !ok {
		return ErrNotFound
	}
	g.ChatOn = on
	m.groups[groupID] = g
	m.writes++
	return nil
}

// User returns a stored user.
func (m *Memory) User(userID int64) (User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	return u, ok
}

// Writes counts successful write calls.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
