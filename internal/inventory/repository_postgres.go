package inventory

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"darmenu/internal/core"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Items(ctx context.Context) ([]Item, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, category, price::float8, stock, is_available
		FROM dishes
		ORDER BY category, name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Category, &it.Price, &it.Stock, &it.IsAvailable); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *PostgresRepository) Stock(ctx context.Context, dishID string) (*int, error) {
	var stock *int
	err := r.db.QueryRow(ctx, `SELECT stock FROM dishes WHERE id = $1`, dishID).Scan(&stock)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrDishNotFound
	}
	return stock, err
}

func (r *PostgresRepository) SetStock(ctx context.Context, dishID string, stock int) (core.StockLevel, error) {
	lvl := core.StockLevel{}
	err := r.db.QueryRow(ctx, `
		UPDATE dishes
		SET stock = $2, is_available = $2 > 0, updated_at = now()
		WHERE id = $1
		RETURNING id, stock, is_available
	`, dishID, stock).Scan(&lvl.DishID, &lvl.Stock, &lvl.IsAvailable)
	if errors.Is(err, pgx.ErrNoRows) {
		return lvl, ErrDishNotFound
	}
	return lvl, err
}

// --------------------------------------------------
// ADJUST (ATOMIC)
// --------------------------------------------------
func (r *PostgresRepository) Adjust(ctx context.Context, items []core.StockAdjustment) ([]core.StockLevel, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	levels := make([]core.StockLevel, 0, len(items))
	for _, it := range items {
		var lvl core.StockLevel
		err := tx.QueryRow(ctx, `
			UPDATE dishes
			SET stock = CASE WHEN stock IS NULL THEN NULL ELSE GREATEST(0, stock + $2) END,
			    is_available = CASE WHEN stock IS NULL THEN is_available ELSE GREATEST(0, stock + $2) > 0 END,
			    updated_at = now()
			WHERE id = $1
			RETURNING id, stock, is_available
		`, it.DishID, it.Delta).Scan(&lvl.DishID, &lvl.Stock, &lvl.IsAvailable)

		if errors.Is(err, pgx.ErrNoRows) {
			slog.Warn("[INVENTORY] adjust skipped unknown dish", "dish_id", it.DishID)
			continue
		}
		if err != nil {
			return nil, err
		}
		levels = append(levels, lvl)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return levels, nil
}
