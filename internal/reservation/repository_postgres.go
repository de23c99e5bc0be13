package reservation

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"darmenu/internal/core"
	"darmenu/internal/logging"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectReservation = `
	SELECT r.id, COALESCE(r.table_id::text, ''), COALESCE(t.label, ''),
	       COALESCE(r.user_id::text, ''), COALESCE(p.email, ''), r.client_id,
	       r.party_size, r.reserved_at, r.status, r.notes, r.created_at
	FROM reservations r
	LEFT JOIN tables t ON t.id = r.table_id
	LEFT JOIN profiles p ON p.id = r.user_id
`

func scanReservation(row pgx.Row) (*Reservation, error) {
	var (
		r     Reservation
		notes []byte
	)
	if err := row.Scan(&r.ID, &r.TableID, &r.TableLabel, &r.UserID, &r.UserEmail, &r.ClientID,
		&r.PartySize, &r.ReservedAt, &r.Status, &notes, &r.CreatedAt); err != nil {
		return nil, err
	}
	r.Notes = decodeNotes(r.ID, notes)
	return &r, nil
}

// decodeNotes reads the order snapshot. Older rows may carry free-form
// notes; they are shown without items.
func decodeNotes(id string, raw []byte) core.OrderNotes {
	var notes core.OrderNotes
	if len(raw) == 0 || string(raw) == "null" {
		return notes
	}
	if err := json.Unmarshal(raw, &notes); err != nil {
		slog.Warn("[RESERVATIONS] notes not decodable", "reservation_id", id, logging.Err(err))
		return core.OrderNotes{}
	}
	return notes
}

func (r *PostgresRepository) collect(rows pgx.Rows, err error) ([]Reservation, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Reservation{}
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) List(ctx context.Context, status string, limit int) ([]Reservation, error) {
	return r.collect(r.db.Query(ctx, selectReservation+`
		WHERE ($1 = '' OR r.status = $1)
		ORDER BY r.created_at DESC
		LIMIT $2
	`, status, limit))
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, userID, clientID string, limit int) ([]Reservation, error) {
	return r.collect(r.db.Query(ctx, selectReservation+`
		WHERE ($1 <> '' AND r.user_id::text = $1)
		   OR ($2 <> '' AND r.client_id = $2)
		ORDER BY r.created_at DESC
		LIMIT $3
	`, userID, clientID, limit))
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*Reservation, error) {
	res, err := scanReservation(r.db.QueryRow(ctx, selectReservation+`WHERE r.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	return res, err
}

func (r *PostgresRepository) Transition(ctx context.Context, id, status string, from []string) (string, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	var previous string
	err = tx.QueryRow(ctx, `SELECT status FROM reservations WHERE id = $1 FOR UPDATE`, id).Scan(&previous)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrReservationNotFound
	}
	if err != nil {
		return "", err
	}
	if len(from) > 0 && !contains(from, previous) {
		return previous, ErrNotCancellable
	}

	if _, err := tx.Exec(ctx, `UPDATE reservations SET status = $2 WHERE id = $1`, id, status); err != nil {
		return "", err
	}
	return previous, tx.Commit(ctx)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrReservationNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM reservations`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
