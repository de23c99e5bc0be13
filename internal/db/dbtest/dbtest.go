// Package dbtest connects integration tests to the database named by
// DATABASE_URL. Tests are skipped when it is not set.
package dbtest

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"darmenu/internal/config"
	"darmenu/internal/db"
)

// Pool returns a pool on a migrated database, closed when t ends.
func Pool(t testing.TB) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	pool, err := db.Connect(context.Background(), &config.Config{DatabaseURL: dsn, DBMaxConns: 4, DBMinConns: 1})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

// Dish inserts a dish with a unique name and removes it when t ends.
// A nil stock is untracked.
func Dish(t testing.TB, pool *pgxpool.Pool, price float64, stock *int, available bool) string {
	t.Helper()
	id := uuid.New().String()
	_, err := pool.Exec(context.Background(), `
		INSERT INTO dishes (id, name, price, is_available, stock)
		VALUES ($1, $2, $3, $4, $5)
	`, id, "test dish "+id, price, available, stock)
	if err != nil {
		t.Fatalf("insert dish: %v", err)
	}
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM dishes WHERE id = $1`, id)
	})
	return id
}

// Profile inserts a customer profile and removes it, with its ledger, when
// t ends.
func Profile(t testing.TB, pool *pgxpool.Pool) string {
	t.Helper()
	id := uuid.New().String()
	_, err := pool.Exec(context.Background(), `
		INSERT INTO profiles (id, email, password)
		VALUES ($1, $2, 'x')
	`, id, id+"@test.local")
	if err != nil {
		t.Fatalf("insert profile: %v", err)
	}
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM profiles WHERE id = $1`, id)
	})
	return id
}

// Stock reads the current stock and availability of a dish.
func Stock(t testing.TB, pool *pgxpool.Pool, dishID string) (*int, bool) {
	t.Helper()
	var (
		stock     *int
		available bool
	)
	err := pool.QueryRow(context.Background(),
		`SELECT stock, is_available FROM dishes WHERE id = $1`, dishID).Scan(&stock, &available)
	if err != nil {
		t.Fatalf("read stock: %v", err)
	}
	return stock, available
}
