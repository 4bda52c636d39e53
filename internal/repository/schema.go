package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is applied at startup; every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		username        TEXT PRIMARY KEY,
		email           TEXT NOT NULL UNIQUE,
		password_hash   TEXT NOT NULL,
		profile_image   TEXT,
		streak          INT NOT NULL DEFAULT 0,
		last_post_date  TEXT,
		achievements    TEXT[] NOT NULL DEFAULT '{}',
		memories_public BOOLEAN NOT NULL DEFAULT FALSE,
		is_admin        BOOLEAN NOT NULL DEFAULT FALSE,
		created_at      TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS friendships (
		user_a     TEXT NOT NULL REFERENCES users(username) ON DELETE CASCADE,
		user_b     TEXT NOT NULL REFERENCES users(username) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (user_a, user_b),
		CHECK (user_a < user_b)
	)`,
	`CREATE TABLE IF NOT EXISTS friend_requests (
		requester  TEXT NOT NULL REFERENCES users(username) ON DELETE CASCADE,
		recipient  TEXT NOT NULL REFERENCES users(username) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (requester, recipient)
	)`,
	`CREATE TABLE IF NOT EXISTS photos (
		id              TEXT PRIMARY KEY,
		username        TEXT NOT NULL REFERENCES users(username) ON DELETE CASCADE,
		vibe_date       TEXT NOT NULL,
		image_url       TEXT NOT NULL,
		caption         TEXT NOT NULL DEFAULT '',
		challenge_title TEXT NOT NULL,
		created_at      TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_photos_owner_date ON photos (username, vibe_date)`,
	`CREATE TABLE IF NOT EXISTS photo_likes (
		photo_id TEXT NOT NULL REFERENCES photos(id) ON DELETE CASCADE,
		username TEXT NOT NULL,
		PRIMARY KEY (photo_id, username)
	)`,
	`CREATE TABLE IF NOT EXISTS photo_comments (
		id         BIGSERIAL PRIMARY KEY,
		photo_id   TEXT NOT NULL REFERENCES photos(id) ON DELETE CASCADE,
		username   TEXT NOT NULL,
		body       TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS challenges (
		id          INT PRIMARY KEY,
		icon        TEXT NOT NULL,
		title       TEXT NOT NULL,
		description TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS challenge_overrides (
		for_date     TEXT PRIMARY KEY,
		challenge_id INT NOT NULL REFERENCES challenges(id)
	)`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id         TEXT PRIMARY KEY,
		recipient  TEXT NOT NULL REFERENCES users(username) ON DELETE CASCADE,
		title      TEXT NOT NULL,
		body       TEXT NOT NULL,
		type       TEXT NOT NULL,
		origin     TEXT NOT NULL,
		extra      JSONB,
		created_at TIMESTAMPTZ NOT NULL,
		read       BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_recipient ON notifications (recipient, created_at DESC)`,
}

// EnsureSchema creates all tables and indexes if they do not exist yet.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
