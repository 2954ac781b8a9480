package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Postgres keeps users and groups in the users and chat_groups tables
// created by the bundled migrations.
type Postgres struct {
	db *sqlx.DB
}

// NewPostgres wraps an open connection pool.
func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{db: db}
}

const upsertUserSQL = `
INSERT INTO users (user_id, username, first_name, last_name, chat_type, joined_at, updated_at)
VALUES (:user_id, :username, :first_name, :last_name, :chat_type, :joined_at, :updated_at)
ON CONFLICT (user_id) DO UPDATE SET
	username   = EXCLUDED.username,
	first_name = EXCLUDED.first_name,
	last_name  = EXCLUDED.last_name,
	chat_type  = EXCLUDED.chat_type,
	updated_at = EXCLUDED.updated_at`

// UpsertUser implements UserStore.
func (p *Postgres) UpsertUser(ctx context.Context, u User) error {
	if _, err := p.db.NamedExecContext(ctx, upsertUserSQL, u); err != nil {
		return fmt.Errorf("upsert user %d: %w", u.UserID, err)
	}
	return nil
}

const (
	upsertGroupKeepSQL = `
INSERT INTO chat_groups (group_id, group_name, chat_on) VALUES ($1, $2, TRUE)
ON CONFLICT (group_id) DO UPDATE SET group_name = EXCLUDED.group_name`

	upsertGroupResetSQL = `
INSERT INTO chat_groups (group_id, group_name, chat_on) VALUES ($1, $2, TRUE)
ON CONFLICT (group_id) DO UPDATE SET group_name = EXCLUDED.group_name, chat_on = TRUE`
)

// UpsertGroup implements GroupStore.
func (p *Postgres) UpsertGroup(ctx context.Context, groupID int64, name string, resetChatOn bool) error {
	query := upsertGroupKeepSQL
	if resetChatOn {
		query = upsertGroupResetSQL
	}
	if _, err := p.db.ExecContext(ctx, query, groupID, name); err != nil {
		return fmt.Errorf("upsert group %d: %w", groupID, err)
	}
	return nil
}

// GetGroup implements GroupStore.
func (p *Postgres) GetGroup(ctx context.Context, groupID int64) (Group, error) {
	var g Group
	err := p.db.GetContext(ctx, &g, `SELECT group_id, group_name, chat_on FROM chat_groups WHERE group_id = $1`, groupID)
	if errors.Is(err, sql.ErrNoRows) {
		return Group{}, ErrNotFound
	}
	if err != nil {
		return Group{}, fmt.Errorf("get group %d: %w", groupID, err)
	}
	return g, nil
}

// SetChatOn implements GroupStore without upserting.
func (p *Postgres) SetChatOn(ctx context.Context, groupID int64, on bool) error {
	res, err := p.db.ExecContext(ctx, `UPDATE chat_groups SET chat_on = $2 WHERE group_id = $1`, groupID, on)
	if err != nil {
		return fmt.Errorf("set chat_on for group %d: %w", groupID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set chat_on for group %d: %w", groupID, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
