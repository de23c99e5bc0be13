package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusSent       = "sent"
	StatusFailed     = "failed"
)

// Job is a claimed outbox row. Attempts already counts the current claim.
type Job struct {
	ID       int64
	Event    OrderEvent
	Attempts int
}

// Outbox is a durable queue of order events awaiting delivery.
type Outbox interface {
	Enqueue(ctx context.Context, ev OrderEvent) error
	Claim(ctx context.Context, limit int) ([]Job, error)
	MarkSent(ctx context.Context, id int64) error
	// MarkFailed puts the job back to pending, or to failed when final.
	MarkFailed(ctx context.Context, id int64, reason string, final bool) error
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func enqueue(ctx context.Context, db execer, ev OrderEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = db.Exec(ctx, `
		INSERT INTO notification_outbox (kind, payload)
		VALUES ($1, $2)
	`, ev.Kind, payload)
	if err != nil {
		return fmt.Errorf("enqueue notification: %w", err)
	}
	return nil
}

// EnqueueTx records ev inside tx so it commits or rolls back with the order.
func EnqueueTx(ctx context.Context, tx pgx.Tx, ev OrderEvent) error {
	return enqueue(ctx, tx, ev)
}

type PostgresOutbox struct {
	db *pgxpool.Pool
}

func NewPostgresOutbox(db *pgxpool.Pool) *PostgresOutbox {
	return &PostgresOutbox{db: db}
}

func (o *PostgresOutbox) Enqueue(ctx context.Context, ev OrderEvent) error {
	return enqueue(ctx, o.db, ev)
}

// Claim locks up to limit pending rows. Rows stuck in processing for five
// minutes belong to a crashed worker and are claimed again.
func (o *PostgresOutbox) Claim(ctx context.Context, limit int) ([]Job, error) {
	rows, err := o.db.Query(ctx, `
		UPDATE notification_outbox
		SET status = 'processing', attempts = attempts + 1, updated_at = now()
		WHERE id IN (
			SELECT id FROM notification_outbox
			WHERE status = 'pending'
			   OR (status = 'processing' AND updated_at < now() - interval '5 minutes')
			ORDER BY id
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, payload, attempts
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		var (
			job     Job
			payload []byte
		)
		if err := rows.Scan(&job.ID, &payload, &job.Attempts); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(payload, &job.Event); err != nil {
			return nil, fmt.Errorf("decode outbox %d: %w", job.ID, err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(jobs, func(i, j int) bool { return jobs[i].ID < jobs[j].ID })
	return jobs, nil
}

func (o *PostgresOutbox) MarkSent(ctx context.Context, id int64) error {
	_, err := o.db.Exec(ctx, `
		UPDATE notification_outbox
		SET status = 'sent', last_error = NULL, updated_at = now()
		WHERE id = $1
	`, id)
	return err
}

func (o *PostgresOutbox) MarkFailed(ctx context.Context, id int64, reason string, final bool) error {
	status := StatusPending
	if final {
		status = StatusFailed
	}
	_, err := o.db.Exec(ctx, `
		UPDATE notification_outbox
		SET status = $1, last_error = $2, updated_at = now()
		WHERE id = $3
	`, status, reason, id)
	return err
}

type memoryRow struct {
	job       Job
	status    string
	lastError string
}

// MemoryOutbox is an in-process Outbox for tests and database-less runs.
type MemoryOutbox struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*memoryRow
}

func NewMemoryOutbox() *MemoryOutbox {
	return &MemoryOutbox{rows: make(map[int64]*memoryRow)}
}

func (o *MemoryOutbox) Enqueue(_ context.Context, ev OrderEvent) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.nextID++
	o.rows[o.nextID] = &memoryRow{job: Job{ID: o.nextID, Event: ev}, status: StatusPending}
	return nil
}

func (o *MemoryOutbox) Claim(_ context.Context, limit int) ([]Job, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	ids := make([]int64, 0, len(o.rows))
	for id, r := range o.rows {
		if r.status == StatusPending {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}

	jobs := make([]Job, 0, len(ids))
	for _, id := range ids {
		r := o.rows[id]
		r.status = StatusProcessing
		r.job.Attempts++
		jobs = append(jobs, r.job)
	}
	return jobs, nil
}

func (o *MemoryOutbox) MarkSent(_ context.Context, id int64) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if r, ok := o.rows[id]; ok {
		r.status = StatusSent
		r.lastError = ""
	}
	return nil
}

func (o *MemoryOutbox) MarkFailed(_ context.Context, id int64, reason string, final bool) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if r, ok := o.rows[id]; ok {
		r.status = StatusPending
		if final {
			r.status = StatusFailed
		}
		r.lastError = reason
	}
	return nil
}

// Status returns the state of job id and its last error.
func (o *MemoryOutbox) Status(id int64) (string, string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	r, ok := o.rows[id]
	if !ok {
		return "", ""
	}
	return r.status, r.lastError
}
