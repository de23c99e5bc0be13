package order

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"darmenu/internal/core"
	"darmenu/internal/loyalty"
	"darmenu/internal/menu"
	"darmenu/internal/notify"
	"darmenu/internal/tables"
)

type recordingNotifier struct {
	changes []core.Change
}

func (n *recordingNotifier) Notify(_ context.Context, c core.Change) {
	n.changes = append(n.changes, c)
}

type fixture struct {
	svc      *Service
	dishes   *menu.MemoryRepository
	points   *loyalty.MemoryRepository
	outbox   *notify.MemoryOutbox
	repo     *MemoryRepository
	notifier *recordingNotifier
	tagine   string
	tea      string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	dishes := menu.NewMemoryRepository()
	tagine := &menu.Dish{Name: "Tagine", Price: 60, IsAvailable: true, Stock: intPtr(3)}
	tea := &menu.Dish{Name: "Mint Tea", Price: 15, IsAvailable: true}
	require.NoError(t, dishes.Create(ctx, tagine))
	require.NoError(t, dishes.Create(ctx, tea))

	tableRepo := tables.NewMemoryRepository()
	require.NoError(t, tableRepo.Create(ctx, &tables.Table{Label: "T1", Seats: 4, Status: tables.StatusAvailable}))

	points := loyalty.NewMemoryRepository()
	outbox := notify.NewMemoryOutbox()
	repo := NewMemoryRepository(dishes, points, outbox)
	notifier := &recordingNotifier{}

	svc := NewService(dishes, loyalty.NewService(points), tables.NewService(tableRepo, nil, ""), repo, notifier)
	return &fixture{
		svc: svc, dishes: dishes, points: points, outbox: outbox, repo: repo,
		notifier: notifier, tagine: tagine.ID, tea: tea.ID,
	}
}

func TestCheckoutDineInGuest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	receipt, err := f.svc.Checkout(ctx, core.Identity{ClientID: "browser-1"}, CheckoutRequest{
		OrderType:  core.OrderTypeDineIn,
		TableLabel: "T1",
		Items:      []CartLine{{DishID: f.tagine, Qty: 2}, {DishID: f.tea, Qty: 1}},
	})
	require.NoError(t, err)

	assert.Equal(t, StatusPending, receipt.Status)
	assert.Equal(t, "T1", receipt.Order.TableNumber)
	assert.Equal(t, 135.0, receipt.Order.Total)
	assert.Nil(t, receipt.PointsBalance)

	d, _ := f.dishes.Get(ctx, f.tagine)
	assert.Equal(t, 1, *d.Stock)
	assert.True(t, d.IsAvailable)

	placed := f.repo.Placed()
	require.Len(t, placed, 1)
	assert.Equal(t, 1, placed[0].PartySize)
	assert.Zero(t, placed[0].PointsEarned)

	jobs, err := f.outbox.Claim(ctx, 10)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, notify.KindNewOrder, jobs[0].Event.Kind)
	assert.Equal(t, receipt.ReservationID, jobs[0].Event.ReservationID)

	assert.Equal(t, core.TopicReservations, f.notifier.changes[0].Topic)
	assert.Equal(t, "browser-1", f.notifier.changes[0].ClientID)
}

func TestCheckoutRedeemsAndAwardsPoints(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.points.Apply(ctx, loyalty.Transaction{UserID: "u1", Kind: loyalty.KindAward, Amount: 50})
	require.NoError(t, err)

	receipt, err := f.svc.Checkout(ctx, core.Identity{UserID: "u1"}, CheckoutRequest{
		OrderType:   core.OrderTypeTakeout,
		Items:       []CartLine{{DishID: f.tagine, Qty: 1}},
		PointsToUse: 20,
	})
	require.NoError(t, err)

	assert.Equal(t, 40.0, receipt.Order.Total)
	assert.Equal(t, 20, receipt.Order.LoyaltyPointsUsed)
	require.NotNil(t, receipt.PointsBalance)
	// 50 - 20 redeemed + 6 earned
	assert.Equal(t, 36, *receipt.PointsBalance)
}

func TestCheckoutRejectsStockShortfall(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Checkout(context.Background(), core.Identity{ClientID: "c"}, CheckoutRequest{
		OrderType: core.OrderTypeTakeout,
		Items:     []CartLine{{DishID: f.tagine, Qty: 4}},
	})

	var stockErr *StockError
	require.True(t, errors.As(err, &stockErr))
	assert.True(t, errors.Is(err, ErrInsufficientStock))
	require.Len(t, stockErr.Lines, 1)
	assert.Equal(t, "Tagine", stockErr.Lines[0].Name)
	assert.Empty(t, f.repo.Placed())
}

func TestCheckoutRejectsPointsAboveBalance(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Checkout(context.Background(), core.Identity{UserID: "u2"}, CheckoutRequest{
		OrderType:   core.OrderTypeTakeout,
		Items:       []CartLine{{DishID: f.tea, Qty: 1}},
		PointsToUse: 5,
	})
	assert.True(t, errors.Is(err, ErrInsufficientPoints))
}

func TestCheckoutValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	items := []CartLine{{DishID: f.tea, Qty: 1}}

	_, err := f.svc.Checkout(ctx, core.Identity{}, CheckoutRequest{OrderType: core.OrderTypeTakeout, Items: items})
	assert.True(t, errors.Is(err, ErrIdentityRequired))

	_, err = f.svc.Checkout(ctx, core.Identity{ClientID: "c"}, CheckoutRequest{OrderType: core.OrderTypeDineIn, Items: items})
	assert.True(t, errors.Is(err, ErrTableRequired))

	_, err = f.svc.Checkout(ctx, core.Identity{ClientID: "c"}, CheckoutRequest{OrderType: core.OrderTypeDineIn, TableLabel: "T9", Items: items})
	assert.True(t, errors.Is(err, tables.ErrTableNotFound))

	_, err = f.svc.Checkout(ctx, core.Identity{ClientID: "c"}, CheckoutRequest{OrderType: "delivery", Items: items})
	assert.True(t, errors.Is(err, ErrInvalidOrderType))
}

func TestQuoteUsesBalanceForSignedInUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.points.Apply(ctx, loyalty.Transaction{UserID: "u1", Kind: loyalty.KindAward, Amount: 10})
	require.NoError(t, err)

	q, err := f.svc.Quote(ctx, core.Identity{UserID: "u1"}, QuoteRequest{
		Items:       []CartLine{{DishID: f.tea, Qty: 2}},
		PointsToUse: 100,
	})
	require.NoError(t, err)
	assert.Equal(t, 10, q.PointsBalance)
	assert.Equal(t, 10, q.PointsUsed)
	assert.Equal(t, 20.0, q.Total)
}

func TestQuoteRejectsMalformedDishID(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Quote(context.Background(), core.Identity{}, QuoteRequest{
		Items: []CartLine{{DishID: "abc", Qty: 1}},
	})
	require.ErrorIs(t, err, ErrDishUnavailable)
	assert.ErrorIs(t, err, core.ErrConflict)
}
