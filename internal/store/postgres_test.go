package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// TestPostgresContract runs against a scratch database when
// POSTGRES_TEST_DSN is set. The tables are recreated from the migrations.
func TestPostgresContract(t *testing.T) {
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set")
	}
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer db.Close()

	for _, name := range []string{"000001_init.down.sql", "000001_init.up.sql"} {
		body, err := os.ReadFile(filepath.Join("..", "..", "migrations", name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if _, err := db.Exec(string(body)); err != nil {
			t.Fatalf("apply %s: %v", name, err)
		}
	}

	p := NewPostgres(db)
	runContract(t, p)

	var u User
	if err := db.Get(&u, `SELECT user_id, username, first_name, last_name, chat_type, joined_at, updated_at FROM users WHERE user_id = 42`); err != nil {
		t.Fatalf("read user: %v", err)
	}
	if u.FirstName != "Anna" || u.JoinedAt.Equal(u.UpdatedAt) {
		t.Fatalf("stored user = %+v", u)
	}
}
