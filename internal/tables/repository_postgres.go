package tables

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"darmenu/internal/db"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const tableColumns = `id, label, seats, location, status, created_at, updated_at`

func scanTable(row pgx.Row) (*Table, error) {
	t := &Table{}
	err := row.Scan(&t.ID, &t.Label, &t.Seats, &t.Location, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTableNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]Table, error) {
	rows, err := r.db.Query(ctx, `SELECT `+tableColumns+` FROM tables ORDER BY label`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Table{}
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*Table, error) {
	return scanTable(r.db.QueryRow(ctx, `SELECT `+tableColumns+` FROM tables WHERE id = $1`, id))
}

func (r *PostgresRepository) FindByLabel(ctx context.Context, label string) (*Table, error) {
	return scanTable(r.db.QueryRow(ctx, `SELECT `+tableColumns+` FROM tables WHERE lower(label) = lower($1)`, label))
}

func (r *PostgresRepository) Create(ctx context.Context, t *Table) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO tables (id, label, seats, location, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`, t.ID, t.Label, t.Seats, t.Location, t.Status).Scan(&t.CreatedAt, &t.UpdatedAt)
	if db.IsUniqueViolation(err) {
		return ErrLabelTaken
	}
	return err
}

func (r *PostgresRepository) Update(ctx context.Context, t *Table) error {
	err := r.db.QueryRow(ctx, `
		UPDATE tables
		SET label = $2, seats = $3, location = $4, status = $5, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`, t.ID, t.Label, t.Seats, t.Location, t.Status).Scan(&t.UpdatedAt)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return ErrTableNotFound
	case db.IsUniqueViolation(err):
		return ErrLabelTaken
	}
	return err
}

func (r *PostgresRepository) SetStatus(ctx context.Context, id, status string) (*Table, error) {
	return scanTable(r.db.QueryRow(ctx, `
		UPDATE tables SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+tableColumns, id, status))
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tables WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTableNotFound
	}
	return nil
}
