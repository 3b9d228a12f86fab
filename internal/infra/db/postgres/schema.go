package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"
)

// Schema is the full table set. Applied with IF NOT EXISTS on startup, so a
// fresh database becomes usable without a separate migration step.
const Schema = `
CREATE TABLE IF NOT EXISTS access_codes (
    code        TEXT PRIMARY KEY,
    user_id     TEXT NOT NULL,
    expires_at  TIMESTAMPTZ NOT NULL,
    used        BOOLEAN NOT NULL DEFAULT FALSE,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS sessions (
    token       TEXT PRIMARY KEY,
    device_id   TEXT NOT NULL,
    expires_at  TIMESTAMPTZ NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS subscriptions (
    user_id     TEXT PRIMARY KEY,
    expires_at  TIMESTAMPTZ NOT NULL,
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS payments (
    id              BIGSERIAL PRIMARY KEY,
    user_id         TEXT NOT NULL,
    months          INTEGER NOT NULL,
    method          TEXT NOT NULL,
    screenshot_ref  TEXT,
    status          TEXT NOT NULL DEFAULT 'pending',
    created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    reviewed_at     TIMESTAMPTZ,
    reviewed_by     TEXT
);
CREATE INDEX IF NOT EXISTS payments_user_idx ON payments (user_id, id DESC);
CREATE INDEX IF NOT EXISTS payments_status_idx ON payments (status, id DESC);

CREATE TABLE IF NOT EXISTS reminder_log (
    id              TEXT PRIMARY KEY,
    user_id         TEXT NOT NULL,
    expires_at      TIMESTAMPTZ NOT NULL,
    threshold_days  INTEGER NOT NULL,
    sent_at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (user_id, expires_at, threshold_days)
);
`

// EnsureSchema creates missing tables. Safe to call on every boot.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, Schema)
	return err
}
