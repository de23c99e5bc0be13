package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"darmenu/internal/core"
	"darmenu/internal/loyalty"
	"darmenu/internal/menu"
	"darmenu/internal/tables"
)

var (
	ErrInvalidOrderType   = core.NewError(core.ErrInvalid, "order type must be dine-in or takeout")
	ErrTableRequired      = core.NewError(core.ErrInvalid, "dine-in orders need a table")
	ErrIdentityRequired   = core.NewError(core.ErrUnauthorized, "sign in or send a client id to order")
	ErrInsufficientPoints = loyalty.ErrInsufficientPoints
)

const StatusPending = "pending"

type DishReader interface {
	Get(ctx context.Context, id string) (*menu.Dish, error)
}

type PointsReader interface {
	Balance(ctx context.Context, userID string) (int, error)
}

type TableResolver interface {
	Resolve(ctx context.Context, label string) (*tables.Table, error)
}

type Service struct {
	dishes   DishReader
	points   PointsReader
	tables   TableResolver
	repo     Repository
	notifier core.ChangeNotifier
}

func NewService(dishes DishReader, points PointsReader, tables TableResolver, repo Repository, notifier core.ChangeNotifier) *Service {
	if notifier == nil {
		notifier = core.NopNotifier{}
	}
	return &Service{dishes: dishes, points: points, tables: tables, repo: repo, notifier: notifier}
}

// Quote reconciles the cart with live dish data and the caller's points.
func (s *Service) Quote(ctx context.Context, id core.Identity, req QuoteRequest) (*Quote, error) {
	lines := mergeLines(req.Items)
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	dishes := make(map[string]menu.Dish, len(lines))
	for _, l := range lines {
		if _, err := uuid.Parse(l.DishID); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrDishUnavailable, l.DishID)
		}
		d, err := s.dishes.Get(ctx, l.DishID)
		if errors.Is(err, menu.ErrDishNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrDishUnavailable, l.DishID)
		}
		if err != nil {
			return nil, err
		}
		dishes[l.DishID] = *d
	}

	balance := 0
	if id.UserID != "" {
		b, err := s.points.Balance(ctx, id.UserID)
		if err != nil {
			return nil, err
		}
		balance = b
	}

	return BuildQuote(lines, dishes, balance, req.PointsToUse)
}

// Checkout places the order. Stock, points, the reservation row and the
// notification are committed together or not at all.
func (s *Service) Checkout(ctx context.Context, id core.Identity, req CheckoutRequest) (*Receipt, error) {
	if id.Anonymous() {
		return nil, ErrIdentityRequired
	}

	orderType := strings.TrimSpace(req.OrderType)
	var tableID, tableLabel string
	switch orderType {
	case core.OrderTypeDineIn:
		label := strings.TrimSpace(req.TableLabel)
		if label == "" {
			return nil, ErrTableRequired
		}
		t, err := s.tables.Resolve(ctx, label)
		if err != nil {
			return nil, err
		}
		tableID, tableLabel = t.ID, t.Label
	case core.OrderTypeTakeout:
	default:
		return nil, ErrInvalidOrderType
	}

	q, err := s.Quote(ctx, id, QuoteRequest{Items: req.Items, PointsToUse: req.PointsToUse})
	if err != nil {
		return nil, err
	}
	if q.Adjusted {
		return nil, &StockError{Lines: q.shortLines()}
	}
	if q.PointsUsed != req.PointsToUse {
		return nil, ErrInsufficientPoints
	}

	partySize := req.PartySize
	if partySize < 1 {
		partySize = 1
	}

	p := Placement{
		ReservationID: uuid.New().String(),
		TableID:       tableID,
		UserID:        id.UserID,
		ClientID:      id.ClientID,
		PartySize:     partySize,
		Notes:         q.notes(orderType, tableLabel, strings.TrimSpace(req.ContactPhone)),
		Decrements:    q.decrements(),
		PointsUsed:    q.PointsUsed,
	}
	if id.UserID != "" {
		p.PointsEarned = q.PointsEarned
	}

	placed, err := s.repo.Place(ctx, p)
	if err != nil {
		return nil, err
	}

	slog.Info("[CHECKOUT] order placed",
		"reservation_id", p.ReservationID,
		"order_type", orderType,
		"table", tableLabel,
		"total", q.Total,
		"points_used", p.PointsUsed,
		"points_earned", p.PointsEarned,
	)

	s.notifier.Notify(ctx, core.Change{
		Topic:    core.TopicReservations,
		Action:   core.ActionInsert,
		ID:       p.ReservationID,
		UserID:   p.UserID,
		ClientID: p.ClientID,
	})
	for _, d := range p.Decrements {
		s.notifier.Notify(ctx, core.Change{Topic: core.TopicDishes, Action: core.ActionUpdate, ID: d.DishID})
	}

	return &Receipt{
		ReservationID: p.ReservationID,
		Status:        StatusPending,
		CreatedAt:     placed.CreatedAt,
		Order:         p.Notes,
		Quote:         q,
		PointsBalance: placed.PointsBalance,
	}, nil
}
