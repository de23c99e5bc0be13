package reservation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"darmenu/internal/core"
	"darmenu/internal/notify"
)

type fakeInventory struct {
	calls [][]core.StockAdjustment
	err   error
}

func (f *fakeInventory) Adjust(_ context.Context, items []core.StockAdjustment) ([]core.StockLevel, error) {
	f.calls = append(f.calls, items)
	return nil, f.err
}

type recordingNotifier struct {
	changes []core.Change
}

func (n *recordingNotifier) Notify(_ context.Context, c core.Change) {
	n.changes = append(n.changes, c)
}

func sampleNotes() core.OrderNotes {
	return core.OrderNotes{
		OrderType: core.OrderTypeTakeout,
		Items: []core.OrderItem{
			{ID: "d1", Name: "Tagine", Qty: 2, Price: 60},
			{ID: "", Name: "Legacy", Qty: 1},
			{ID: "d2", Name: "Tea", Qty: 0, Price: 15},
		},
		Total: 120,
	}
}

type fixture struct {
	svc       *Service
	repo      *MemoryRepository
	inventory *fakeInventory
	outbox    *notify.MemoryOutbox
	notifier  *recordingNotifier
}

func newFixture() *fixture {
	repo := NewMemoryRepository()
	inv := &fakeInventory{}
	outbox := notify.NewMemoryOutbox()
	n := &recordingNotifier{}
	return &fixture{svc: NewService(repo, inv, outbox, n), repo: repo, inventory: inv, outbox: outbox, notifier: n}
}

func TestAdminListDisplayDefaults(t *testing.T) {
	f := newFixture()
	now := time.Now()
	f.repo.Insert(Reservation{TableLabel: "T1", UserEmail: "a@b.c", CreatedAt: now.Add(-time.Hour)})
	f.repo.Insert(Reservation{ClientID: "browser", CreatedAt: now, Status: StatusSeated})

	list, err := f.svc.List(context.Background(), "all")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Takeout", list[0].TableLabel)
	assert.Equal(t, "Guest", list[0].UserEmail)
	assert.Equal(t, "T1", list[1].TableLabel)

	list, err = f.svc.List(context.Background(), StatusSeated)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = f.svc.List(context.Background(), "eaten")
	assert.True(t, errors.Is(err, ErrInvalidStatus))
}

func TestSetStatusCancelledRestocksOnce(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	res := f.repo.Insert(Reservation{Notes: sampleNotes()})

	got, err := f.svc.SetStatus(ctx, res.ID, StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, got.Status)

	require.Len(t, f.inventory.calls, 1)
	assert.Equal(t, []core.StockAdjustment{{DishID: "d1", Delta: 2}, {DishID: "d2", Delta: 1}}, f.inventory.calls[0])

	jobs, err := f.outbox.Claim(ctx, 10)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, notify.KindOrderCancelled, jobs[0].Event.Kind)

	_, err = f.svc.SetStatus(ctx, res.ID, StatusCancelled)
	require.NoError(t, err)
	assert.Len(t, f.inventory.calls, 1)
}

func TestSetStatusRestockFailureIsNotFatal(t *testing.T) {
	f := newFixture()
	f.inventory.err = errors.New("db down")
	res := f.repo.Insert(Reservation{Notes: sampleNotes()})

	_, err := f.svc.SetStatus(context.Background(), res.ID, StatusCancelled)
	assert.NoError(t, err)
}

func TestSetStatusValidation(t *testing.T) {
	f := newFixture()
	_, err := f.svc.SetStatus(context.Background(), "x", "eaten")
	assert.True(t, errors.Is(err, ErrInvalidStatus))

	_, err = f.svc.SetStatus(context.Background(), "missing", StatusSeated)
	assert.True(t, errors.Is(err, ErrReservationNotFound))
}

func TestListMineFilters(t *testing.T) {
	f := newFixture()
	f.repo.Insert(Reservation{UserID: "u1", Status: StatusPending})
	f.repo.Insert(Reservation{ClientID: "c1", Status: StatusCompleted})
	f.repo.Insert(Reservation{ClientID: "other", Status: StatusPending})
	ctx := context.Background()
	me := core.Identity{UserID: "u1", ClientID: "c1"}

	all, err := f.svc.ListMine(ctx, me, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := f.svc.ListMine(ctx, me, FilterActive)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, StatusPending, active[0].Status)

	done, err := f.svc.ListMine(ctx, me, FilterCompleted)
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, StatusCompleted, done[0].Status)

	_, err = f.svc.ListMine(ctx, core.Identity{}, "")
	assert.True(t, errors.Is(err, ErrIdentityRequired))
	_, err = f.svc.ListMine(ctx, me, "recent")
	assert.True(t, errors.Is(err, ErrInvalidFilter))
}

func TestCancelMine(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	mine := f.repo.Insert(Reservation{ClientID: "c1", Notes: sampleNotes()})
	seated := f.repo.Insert(Reservation{ClientID: "c1", Status: StatusSeated})
	theirs := f.repo.Insert(Reservation{ClientID: "c2"})
	me := core.Identity{ClientID: "c1"}

	_, err := f.svc.CancelMine(ctx, me, theirs.ID)
	assert.True(t, errors.Is(err, ErrNotOwner))

	_, err = f.svc.CancelMine(ctx, me, seated.ID)
	assert.True(t, errors.Is(err, ErrNotCancellable))

	got, err := f.svc.CancelMine(ctx, me, mine.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, got.Status)
	assert.Len(t, f.inventory.calls, 1)

	last := f.notifier.changes[len(f.notifier.changes)-1]
	assert.Equal(t, core.TopicReservations, last.Topic)
	assert.Equal(t, "c1", last.ClientID)

	_, err = f.svc.CancelMine(ctx, me, mine.ID)
	assert.True(t, errors.Is(err, ErrNotCancellable))
}

func TestDeleteAndClearAll(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.repo.Insert(Reservation{})
	f.repo.Insert(Reservation{})

	require.NoError(t, f.svc.Delete(ctx, a.ID))
	assert.True(t, errors.Is(f.svc.Delete(ctx, a.ID), ErrReservationNotFound))

	n, err := f.svc.ClearAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestCancelRestocksStoredFractionalAndStringQty(t *testing.T) {
	f := newFixture()
	stored := []byte(`{"orderType":"takeout","items":[{"id":"d1","qty":2.5},{"id":"d2","qty":"3"}],"total":0}`)
	res := f.repo.Insert(Reservation{Notes: decodeNotes("r1", stored)})

	_, err := f.svc.SetStatus(context.Background(), res.ID, StatusCancelled)
	require.NoError(t, err)

	require.Len(t, f.inventory.calls, 1)
	assert.Equal(t, []core.StockAdjustment{{DishID: "d1", Delta: 2}, {DishID: "d2", Delta: 3}}, f.inventory.calls[0])
}

func TestDecodeNotesToleratesLegacyText(t *testing.T) {
	assert.Empty(t, decodeNotes("r1", []byte(`"window seat please"`)).Items)
	assert.Empty(t, decodeNotes("r1", nil).Items)
	assert.Empty(t, decodeNotes("r1", []byte("null")).Items)
}
