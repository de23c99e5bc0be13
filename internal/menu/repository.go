package menu

import "context"

// Repository defines all database operations for dishes
type Repository interface {
	// Public menu: non-hidden dishes ordered by category then name.
	ListPublic(ctx context.Context, category string) ([]Dish, error)
	Categories(ctx context.Context) ([]string, error)

	List(ctx context.Context, filter string) ([]Dish, error)
	Get(ctx context.Context, id string) (*Dish, error)
	FindByName(ctx context.Context, name string) (*Dish, error)

	Create(ctx context.Context, dish *Dish) error
	Update(ctx context.Context, dish *Dish) error
	Delete(ctx context.Context, id string) error

	SetAvailability(ctx context.Context, id string, available bool) (*Dish, error)
	SetHidden(ctx context.Context, id string, hidden bool) (*Dish, error)
	SetImage(ctx context.Context, id string, url string) (*Dish, error)
}
