package inventory

import (
	"context"
	"log/slog"

	"darmenu/internal/core"
)

var (
	ErrDishNotFound = core.NewError(core.ErrNotFound, "dish not found")
	ErrNoChange     = core.NewError(core.ErrInvalid, "stock unchanged")
)

type Service struct {
	repo              Repository
	notifier          core.ChangeNotifier
	lowStockThreshold int
}

var _ core.InventoryAdjuster = (*Service)(nil)

func NewService(repo Repository, notifier core.ChangeNotifier, lowStockThreshold int) *Service {
	if notifier == nil {
		notifier = core.NopNotifier{}
	}
	return &Service{repo: repo, notifier: notifier, lowStockThreshold: lowStockThreshold}
}

func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	items, err := s.repo.Items(ctx)
	if err != nil {
		return nil, err
	}
	return &Overview{
		Items:             items,
		Metrics:           ComputeMetrics(items, s.lowStockThreshold),
		LowStockThreshold: s.lowStockThreshold,
	}, nil
}

// Adjust applies stock deltas. Tracked stock is clamped at zero and
// availability follows it; untracked dishes are returned unchanged.
func (s *Service) Adjust(ctx context.Context, items []core.StockAdjustment) ([]core.StockLevel, error) {
	items = normalizeAdjustments(items)
	if len(items) == 0 {
		return []core.StockLevel{}, nil
	}

	levels, err := s.repo.Adjust(ctx, items)
	if err != nil {
		return nil, err
	}

	for _, lvl := range levels {
		s.notifier.Notify(ctx, core.Change{Topic: core.TopicDishes, Action: core.ActionUpdate, ID: lvl.DishID})
	}
	slog.Info("[INVENTORY] stock adjusted", "requested", len(items), "updated", len(levels))
	return levels, nil
}

// SetStock sets an absolute stock level. Negative values become zero.
func (s *Service) SetStock(ctx context.Context, dishID string, stock int) (core.StockLevel, error) {
	if stock < 0 {
		stock = 0
	}

	current, err := s.repo.Stock(ctx, dishID)
	if err != nil {
		return core.StockLevel{}, err
	}
	if current != nil && *current == stock {
		return core.StockLevel{}, ErrNoChange
	}

	lvl, err := s.repo.SetStock(ctx, dishID, stock)
	if err != nil {
		return core.StockLevel{}, err
	}

	s.notifier.Notify(ctx, core.Change{Topic: core.TopicDishes, Action: core.ActionUpdate, ID: dishID})
	return lvl, nil
}
