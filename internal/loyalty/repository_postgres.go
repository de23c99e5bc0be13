package loyalty

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"darmenu/internal/logging"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Balance(ctx context.Context, userID string) (int, error) {
	var points int
	err := r.db.QueryRow(ctx, `SELECT points FROM loyalty_points WHERE user_id = $1`, userID).Scan(&points)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	return points, err
}

func (r *PostgresRepository) Apply(ctx context.Context, txn Transaction) (int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	balance, err := ApplyTx(ctx, tx, txn)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return balance, nil
}

// ApplyTx records txn inside an open transaction. The balance row is
// locked for the rest of tx.
func ApplyTx(ctx context.Context, tx pgx.Tx, txn Transaction) (int, error) {
	if txn.Amount <= 0 {
		return 0, ErrInvalidAmount
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO loyalty_points (user_id, points)
		VALUES ($1, 0)
		ON CONFLICT (user_id) DO NOTHING
	`, txn.UserID); err != nil {
		return 0, err
	}

	var balance int
	if err := tx.QueryRow(ctx, `
		SELECT points FROM loyalty_points
		WHERE user_id = $1
		FOR UPDATE
	`, txn.UserID).Scan(&balance); err != nil {
		return 0, err
	}

	switch txn.Kind {
	case KindAward:
		balance += txn.Amount
	case KindRedeem:
		if txn.Amount > balance {
			return 0, ErrInsufficientPoints
		}
		balance -= txn.Amount
	default:
		return 0, ErrInvalidKind
	}

	if _, err := tx.Exec(ctx, `
		UPDATE loyalty_points SET points = $2, updated_at = now()
		WHERE user_id = $1
	`, txn.UserID, balance); err != nil {
		return 0, err
	}

	meta, err := json.Marshal(txn.Metadata)
	if err != nil {
		return 0, err
	}
	if txn.Metadata == nil {
		meta = []byte("{}")
	}
	if txn.ID == "" {
		txn.ID = uuid.New().String()
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO loyalty_transactions (id, user_id, kind, amount, reason, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, txn.ID, txn.UserID, txn.Kind, txn.Amount, txn.Reason, meta); err != nil {
		return 0, err
	}

	return balance, nil
}

func (r *PostgresRepository) History(ctx context.Context, userID string, limit int) ([]Transaction, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, kind, amount, reason, metadata, created_at
		FROM loyalty_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Transaction{}
	for rows.Next() {
		var t Transaction
		var meta []byte
		if err := rows.Scan(&t.ID, &t.UserID, &t.Kind, &t.Amount, &t.Reason, &meta, &t.CreatedAt); err != nil {
			return nil, err
		}
		t.Metadata = decodeMetadata(t.ID, meta)
		out = append(out, t)
	}
	return out, rows.Err()
}

// decodeMetadata returns nil for empty or corrupt ledger metadata. The
// ledger row itself stays readable.
func decodeMetadata(id string, raw []byte) map[string]any {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var meta map[string]any
	if err := json.Unmarshal(raw, &meta); err != nil {
		slog.Warn("[LOYALTY] ledger metadata not decodable", "transaction_id", id, logging.Err(err))
		return nil
	}
	return meta
}
