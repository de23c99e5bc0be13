package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"darmenu/internal/loyalty"
	"darmenu/internal/notify"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (r *PostgresRepository) Place(ctx context.Context, p Placement) (*Placed, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	for _, d := range p.Decrements {
		if d.Delta <= 0 {
			continue
		}
		var id string
		err := tx.QueryRow(ctx, `
			UPDATE dishes
			SET stock = CASE WHEN stock IS NULL THEN NULL ELSE stock - $2 END,
			    is_available = CASE WHEN stock IS NULL THEN is_available ELSE stock - $2 > 0 END,
			    updated_at = now()
			WHERE id = $1 AND (stock IS NULL OR stock >= $2)
			RETURNING id
		`, d.DishID, d.Delta).Scan(&id)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrInsufficientStock, d.DishID)
		}
		if err != nil {
			return nil, err
		}
	}

	notes, err := json.Marshal(p.Notes)
	if err != nil {
		return nil, err
	}

	placed := &Placed{}
	if err := tx.QueryRow(ctx, `
		INSERT INTO reservations (id, table_id, user_id, client_id, party_size, reserved_at, status, notes)
		VALUES ($1, $2, $3, $4, $5, now(), 'pending', $6)
		RETURNING created_at
	`, p.ReservationID, nullable(p.TableID), nullable(p.UserID), p.ClientID, p.PartySize, notes).Scan(&placed.CreatedAt); err != nil {
		return nil, err
	}

	meta := map[string]any{"reservation_id": p.ReservationID}
	if p.PointsUsed > 0 {
		balance, err := loyalty.ApplyTx(ctx, tx, loyalty.Transaction{
			UserID: p.UserID, Kind: loyalty.KindRedeem, Amount: p.PointsUsed,
			Reason: "order discount", Metadata: meta,
		})
		if err != nil {
			return nil, err
		}
		placed.PointsBalance = &balance
	}
	if p.PointsEarned > 0 {
		balance, err := loyalty.ApplyTx(ctx, tx, loyalty.Transaction{
			UserID: p.UserID, Kind: loyalty.KindAward, Amount: p.PointsEarned,
			Reason: "order", Metadata: meta,
		})
		if err != nil {
			return nil, err
		}
		placed.PointsBalance = &balance
	}

	if err := notify.EnqueueTx(ctx, tx, notify.OrderEvent{
		Kind:          notify.KindNewOrder,
		ReservationID: p.ReservationID,
		CreatedAt:     placed.CreatedAt,
		Order:         p.Notes,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return placed, nil
}
