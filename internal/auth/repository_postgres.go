package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"darmenu/internal/db"
)

type PostgresUserRepository struct {
	db *pgxpool.Pool
}

func NewPostgresUserRepository(db *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

const userColumns = `id, email, full_name, password, user_type, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID, &user.Email, &user.FullName, &user.Password,
		&user.UserType, &user.CreatedAt, &user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *PostgresUserRepository) Save(ctx context.Context, user *User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	err := r.db.QueryRow(ctx, `
		INSERT INTO profiles (id, email, full_name, password, user_type)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`, user.ID, user.Email, user.FullName, user.Password, user.UserType,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	if db.IsUniqueViolation(err) {
		return ErrEmailTaken
	}
	return err
}

func (r *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM profiles WHERE email = $1`, email))
}

func (r *PostgresUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	return scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM profiles WHERE id = $1`, id))
}

func (r *PostgresUserRepository) List(ctx context.Context, userType string) ([]UserSummary, error) {
	rows, err := r.db.Query(ctx, `
		SELECT p.id, p.email, p.full_name, p.user_type, p.created_at, p.updated_at,
		       COALESCE(lp.points, 0)
		FROM profiles p
		LEFT JOIN loyalty_points lp ON lp.user_id = p.id
		WHERE ($1 = '' OR p.user_type = $1)
		ORDER BY p.created_at DESC
	`, userType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []UserSummary{}
	for rows.Next() {
		var s UserSummary
		if err := rows.Scan(
			&s.ID, &s.Email, &s.FullName, &s.UserType,
			&s.CreatedAt, &s.UpdatedAt, &s.LoyaltyPoints,
		); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PostgresUserRepository) SetUserType(ctx context.Context, id, userType string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE profiles
		SET user_type = $1, updated_at = now()
		WHERE id = $2
	`, userType, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}
