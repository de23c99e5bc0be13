package dashboard

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Counts(ctx context.Context, since time.Time) (Counts, error)
}

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Counts reads every figure in one round trip.
func (r *PostgresRepository) Counts(ctx context.Context, since time.Time) (Counts, error) {
	var c Counts
	err := r.db.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM tables),
			(SELECT count(*) FROM tables WHERE status = 'available'),
			(SELECT count(*) FROM reservations WHERE status IN ('pending', 'confirmed', 'seated')),
			(SELECT count(*) FROM reservations WHERE created_at >= $1),
			(SELECT count(*) FROM dishes),
			(SELECT count(*) FROM dishes WHERE is_available),
			(SELECT count(*) FROM profiles),
			(SELECT count(*) FROM profiles WHERE user_type = 'admin')
	`, since).Scan(
		&c.TotalTables,
		&c.AvailableTables,
		&c.ActiveReservations,
		&c.TodayReservations,
		&c.TotalMenuItems,
		&c.AvailableMenuItems,
		&c.TotalUsers,
		&c.AdminUsers,
	)
	return c, err
}
