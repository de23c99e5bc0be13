package db

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"darmenu/internal/config"
)

func TestConnectRequiresURL(t *testing.T) {
	_, err := Connect(context.Background(), &config.Config{})
	if err == nil {
		t.Fatal("expected error for empty DATABASE_URL")
	}
}

func TestConnectPostgres(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	pool, err := Connect(context.Background(), &config.Config{DatabaseURL: dsn, DBMaxConns: 2, DBMinConns: 1})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	// second run must be a no-op
	if err := InitSchema(context.Background(), pool); err != nil {
		t.Fatalf("schema not idempotent: %v", err)
	}
}

func TestSchemaIsIdempotent(t *testing.T) {
	for _, stmt := range schema {
		if !strings.Contains(stmt.sql, "IF NOT EXISTS") {
			t.Errorf("statement %s is not re-runnable", stmt.name)
		}
	}
}

func TestIsUniqueViolation(t *testing.T) {
	dup := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	if !IsUniqueViolation(dup) {
		t.Error("expected wrapped 23505 to be a unique violation")
	}
	if IsUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Error("foreign key violation reported as unique")
	}
	if IsUniqueViolation(errors.New("other")) {
		t.Error("plain error reported as unique")
	}
}
