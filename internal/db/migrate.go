package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS rides (
		id            BIGSERIAL PRIMARY KEY,
		ride_name     TEXT NOT NULL,
		ride_date     DATE NOT NULL,
		start_time    TEXT NOT NULL DEFAULT '',
		meeting_point TEXT NOT NULL DEFAULT '',
		route_link    TEXT NOT NULL DEFAULT '',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS signups (
		id           BIGSERIAL PRIMARY KEY,
		ride_id      BIGINT NOT NULL REFERENCES rides(id) ON DELETE CASCADE,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
		full_name    TEXT NOT NULL,
		email        TEXT NOT NULL,
		phone        TEXT NOT NULL DEFAULT '',
		city         TEXT NOT NULL DEFAULT '',
		notes        TEXT NOT NULL DEFAULT '',
		acknowledged BOOLEAN NOT NULL DEFAULT false,
		cancel_token TEXT NOT NULL UNIQUE,
		status       TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'cancelled')),
		cancelled_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_rides_date ON rides (ride_date, id)`,
	`CREATE INDEX IF NOT EXISTS idx_signups_ride ON signups (ride_id)`,
}

// Migrate applies the schema. Every statement is idempotent so it is safe
// to run on each start.
func Migrate(ctx context.Context, q execer) error {
	for i, stmt := range schema {
		if _, err := q.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	return nil
}
