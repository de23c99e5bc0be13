package db

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Statements are applied in order and are safe to re-run.
var schema = []struct {
	name string
	sql  string
}{
	{"profiles", `
		CREATE TABLE IF NOT EXISTS profiles (
			id UUID PRIMARY KEY,
			email VARCHAR(255) UNIQUE NOT NULL,
			full_name VARCHAR(255) NOT NULL DEFAULT '',
			password VARCHAR(255) NOT NULL,
			user_type VARCHAR(20) NOT NULL DEFAULT 'customer'
				CHECK (user_type IN ('customer', 'admin')),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`},
	{"dishes", `
		CREATE TABLE IF NOT EXISTS dishes (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			price NUMERIC(10,2) NOT NULL CHECK (price > 0),
			currency VARCHAR(8) NOT NULL DEFAULT 'MAD',
			category VARCHAR(120) NOT NULL DEFAULT '',
			image_url TEXT NOT NULL DEFAULT '',
			is_available BOOLEAN NOT NULL DEFAULT false,
			is_hidden BOOLEAN NOT NULL DEFAULT false,
			loyalty_points INTEGER NULL CHECK (loyalty_points >= 0),
			wait_time INTEGER NULL CHECK (wait_time >= 0),
			stock INTEGER NULL CHECK (stock >= 0),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`},
	{"tables", `
		CREATE TABLE IF NOT EXISTS tables (
			id UUID PRIMARY KEY,
			label VARCHAR(50) UNIQUE NOT NULL,
			seats INTEGER NOT NULL DEFAULT 4 CHECK (seats >= 1),
			location VARCHAR(120) NOT NULL DEFAULT '',
			status VARCHAR(20) NOT NULL DEFAULT 'available',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`},
	{"reservations", `
		CREATE TABLE IF NOT EXISTS reservations (
			id UUID PRIMARY KEY,
			table_id UUID NULL REFERENCES tables(id) ON DELETE SET NULL,
			user_id UUID NULL REFERENCES profiles(id) ON DELETE SET NULL,
			client_id VARCHAR(120) NOT NULL DEFAULT '',
			party_size INTEGER NOT NULL DEFAULT 1 CHECK (party_size >= 1),
			reserved_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			notes JSONB NOT NULL DEFAULT '{}'::jsonb,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`},
	{"reservations_indexes", `
		CREATE INDEX IF NOT EXISTS reservations_created_at_idx ON reservations (created_at DESC);
		CREATE INDEX IF NOT EXISTS reservations_user_idx ON reservations (user_id);
		CREATE INDEX IF NOT EXISTS reservations_client_idx ON reservations (client_id)`},
	{"loyalty_points", `
		CREATE TABLE IF NOT EXISTS loyalty_points (
			user_id UUID PRIMARY KEY REFERENCES profiles(id) ON DELETE CASCADE,
			points INTEGER NOT NULL DEFAULT 0 CHECK (points >= 0),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`},
	{"loyalty_transactions", `
		CREATE TABLE IF NOT EXISTS loyalty_transactions (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
			kind VARCHAR(10) NOT NULL CHECK (kind IN ('award', 'redeem')),
			amount INTEGER NOT NULL CHECK (amount > 0),
			reason VARCHAR(255) NOT NULL DEFAULT '',
			metadata JSONB NOT NULL DEFAULT '{}'::jsonb,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`},
	{"site_settings", `
		CREATE TABLE IF NOT EXISTS site_settings (
			key VARCHAR(120) PRIMARY KEY,
			value JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`},
	{"notification_outbox", `
		CREATE TABLE IF NOT EXISTS notification_outbox (
			id BIGSERIAL PRIMARY KEY,
			kind VARCHAR(20) NOT NULL,
			payload JSONB NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			attempts INTEGER NOT NULL DEFAULT 0,
			last_error TEXT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`},
}

// schemaLockID serializes InitSchema between processes starting together.
const schemaLockID = 7_310_442

// InitSchema creates or updates the database schema.
func InitSchema(ctx context.Context, pool *pgxpool.Pool) error {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `SELECT pg_advisory_lock($1)`, schemaLockID); err != nil {
		return err
	}
	defer conn.Exec(context.Background(), `SELECT pg_advisory_unlock($1)`, schemaLockID)

	for _, stmt := range schema {
		if _, err := conn.Exec(ctx, stmt.sql); err != nil {
			slog.Error("schema statement failed", "table", stmt.name, "error", err)
			return err
		}
	}
	slog.Info("schema initialized", "statements", len(schema))
	return nil
}
