package tables

import "context"

type Repository interface {
	List(ctx context.Context) ([]Table, error)
	Get(ctx context.Context, id string) (*Table, error)
	FindByLabel(ctx context.Context, label string) (*Table, error)
	Create(ctx context.Context, t *Table) error
	Update(ctx context.Context, t *Table) error
	SetStatus(ctx context.Context, id, status string) (*Table, error)
	Delete(ctx context.Context, id string) error
}
