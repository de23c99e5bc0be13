package menu

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const dishColumns = `
	id, name, description, price::float8, currency, category, image_url,
	is_available, is_hidden, loyalty_points, wait_time, stock,
	created_at, updated_at`

func scanDish(row pgx.Row) (*Dish, error) {
	d := &Dish{}
	err := row.Scan(
		&d.ID, &d.Name, &d.Description, &d.Price, &d.Currency, &d.Category, &d.ImageURL,
		&d.IsAvailable, &d.IsHidden, &d.LoyaltyPoints, &d.WaitTime, &d.Stock,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrDishNotFound
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func collectDishes(rows pgx.Rows) ([]Dish, error) {
	defer rows.Close()

	dishes := []Dish{}
	for rows.Next() {
		d, err := scanDish(rows)
		if err != nil {
			return nil, err
		}
		dishes = append(dishes, *d)
	}
	return dishes, rows.Err()
}

// --------------------------------------------------
// Public menu
// --------------------------------------------------

func (r *PostgresRepository) ListPublic(ctx context.Context, category string) ([]Dish, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+dishColumns+`
		FROM dishes
		WHERE is_hidden = false
		  AND ($1 = '' OR category = $1)
		ORDER BY category, name
	`, category)
	if err != nil {
		return nil, err
	}
	return collectDishes(rows)
}

func (r *PostgresRepository) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `
		SELECT DISTINCT category
		FROM dishes
		WHERE is_hidden = false AND category <> ''
		ORDER BY category
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// --------------------------------------------------
// Admin
// --------------------------------------------------

func (r *PostgresRepository) List(ctx context.Context, filter string) ([]Dish, error) {
	where := ""
	switch filter {
	case FilterAvailable:
		where = "WHERE is_available = true"
	case FilterUnavailable:
		where = "WHERE is_available = false"
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+dishColumns+`
		FROM dishes
		`+where+`
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	return collectDishes(rows)
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*Dish, error) {
	return scanDish(r.db.QueryRow(ctx, `SELECT `+dishColumns+` FROM dishes WHERE id = $1`, id))
}

func (r *PostgresRepository) FindByName(ctx context.Context, name string) (*Dish, error) {
	return scanDish(r.db.QueryRow(ctx, `
		SELECT `+dishColumns+` FROM dishes
		WHERE lower(name) = lower($1)
		LIMIT 1
	`, name))
}

func (r *PostgresRepository) Create(ctx context.Context, d *Dish) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return r.db.QueryRow(ctx, `
		INSERT INTO dishes (
			id, name, description, price, currency, category, image_url,
			is_available, is_hidden, loyalty_points, wait_time, stock
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at
	`,
		d.ID, d.Name, d.Description, d.Price, d.Currency, d.Category, d.ImageURL,
		d.IsAvailable, d.IsHidden, d.LoyaltyPoints, d.WaitTime, d.Stock,
	).Scan(&d.CreatedAt, &d.UpdatedAt)
}

func (r *PostgresRepository) Update(ctx context.Context, d *Dish) error {
	err := r.db.QueryRow(ctx, `
		UPDATE dishes
		SET name = $2, description = $3, price = $4, currency = $5,
		    category = $6, image_url = $7, loyalty_points = $8, wait_time = $9,
		    updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`,
		d.ID, d.Name, d.Description, d.Price, d.Currency,
		d.Category, d.ImageURL, d.LoyaltyPoints, d.WaitTime,
	).Scan(&d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrDishNotFound
	}
	return err
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM dishes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDishNotFound
	}
	return nil
}

func (r *PostgresRepository) SetAvailability(ctx context.Context, id string, available bool) (*Dish, error) {
	return scanDish(r.db.QueryRow(ctx, `
		UPDATE dishes SET is_available = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+dishColumns, id, available))
}

func (r *PostgresRepository) SetHidden(ctx context.Context, id string, hidden bool) (*Dish, error) {
	return scanDish(r.db.QueryRow(ctx, `
		UPDATE dishes SET is_hidden = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+dishColumns, id, hidden))
}

func (r *PostgresRepository) SetImage(ctx context.Context, id string, url string) (*Dish, error) {
	return scanDish(r.db.QueryRow(ctx, `
		UPDATE dishes SET image_url = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+dishColumns, id, url))
}
