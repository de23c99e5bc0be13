package reservation

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"darmenu/internal/core"
	"darmenu/internal/logging"
	"darmenu/internal/notify"
)

var (
	ErrReservationNotFound = core.NewError(core.ErrNotFound, "reservation not found")
	ErrInvalidStatus       = core.NewError(core.ErrInvalid, "invalid reservation status")
	ErrInvalidFilter       = core.NewError(core.ErrInvalid, "filter must be all, active or completed")
	ErrNotCancellable      = core.NewError(core.ErrConflict, "reservation can no longer be cancelled")
	ErrNotOwner            = core.NewError(core.ErrForbidden, "reservation belongs to someone else")
	ErrIdentityRequired    = core.NewError(core.ErrUnauthorized, "sign in or send a client id")
)

const (
	adminListLimit = 50
	ownerListLimit = 100
)

type Service struct {
	repo      Repository
	inventory core.InventoryAdjuster
	outbox    notify.Outbox
	notifier  core.ChangeNotifier
}

func NewService(repo Repository, inventory core.InventoryAdjuster, outbox notify.Outbox, notifier core.ChangeNotifier) *Service {
	if notifier == nil {
		notifier = core.NopNotifier{}
	}
	return &Service{repo: repo, inventory: inventory, outbox: outbox, notifier: notifier}
}

func (s *Service) changed(ctx context.Context, action string, r *Reservation) {
	c := core.Change{Topic: core.TopicReservations, Action: action}
	if r != nil {
		c.ID, c.UserID, c.ClientID = r.ID, r.UserID, r.ClientID
	}
	s.notifier.Notify(ctx, c)
}

// List is the admin view. Rows without a table show as Takeout and rows
// without a user as Guest.
func (s *Service) List(ctx context.Context, status string) ([]Reservation, error) {
	status = strings.TrimSpace(status)
	if status == "all" {
		status = ""
	}
	if status != "" && !ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	list, err := s.repo.List(ctx, status, adminListLimit)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].TableLabel == "" {
			list[i].TableLabel = "Takeout"
		}
		if list[i].UserEmail == "" {
			list[i].UserEmail = "Guest"
		}
	}
	return list, nil
}

// SetStatus moves a reservation to status. Entering cancelled restocks
// the ordered items and notifies the restaurant.
func (s *Service) SetStatus(ctx context.Context, id, status string) (*Reservation, error) {
	if !ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	previous, err := s.repo.Transition(ctx, id, status, nil)
	if err != nil {
		return nil, err
	}

	res, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if status == StatusCancelled && previous != StatusCancelled {
		s.afterCancel(ctx, res)
	}

	slog.Info("[RESERVATIONS] status changed", "reservation_id", id, "from", previous, "to", status)
	s.changed(ctx, core.ActionUpdate, res)
	return res, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	res, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.changed(ctx, core.ActionDelete, res)
	return nil
}

// ClearAll deletes every reservation and returns how many were removed.
func (s *Service) ClearAll(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	slog.Warn("[RESERVATIONS] all reservations cleared", "count", n)
	s.changed(ctx, core.ActionDelete, nil)
	return n, nil
}

// ListMine returns the caller's reservations, matched by user id or client id.
func (s *Service) ListMine(ctx context.Context, id core.Identity, filter string) ([]Reservation, error) {
	if id.Anonymous() {
		return nil, ErrIdentityRequired
	}
	if filter == "" {
		filter = FilterAll
	}
	if filter != FilterAll && filter != FilterActive && filter != FilterCompleted {
		return nil, ErrInvalidFilter
	}

	list, err := s.repo.ListByOwner(ctx, id.UserID, id.ClientID, ownerListLimit)
	if err != nil {
		return nil, err
	}
	if filter == FilterAll {
		return list, nil
	}

	out := []Reservation{}
	for _, r := range list {
		if Active(r.Status) == (filter == FilterActive) {
			out = append(out, r)
		}
	}
	return out, nil
}

// CancelMine lets the owner cancel while the reservation is pending or
// confirmed.
func (s *Service) CancelMine(ctx context.Context, id core.Identity, reservationID string) (*Reservation, error) {
	if id.Anonymous() {
		return nil, ErrIdentityRequired
	}

	res, err := s.repo.Get(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if !id.Owns(res.UserID, res.ClientID) {
		return nil, ErrNotOwner
	}

	if _, err := s.repo.Transition(ctx, reservationID, StatusCancelled, cancellable); err != nil {
		return nil, err
	}
	res.Status = StatusCancelled
	s.afterCancel(ctx, res)

	slog.Info("[RESERVATIONS] cancelled by customer", "reservation_id", reservationID)
	s.changed(ctx, core.ActionUpdate, res)
	return res, nil
}

// afterCancel puts the ordered items back in stock and queues the
// cancellation notice. Failures are logged; the cancellation stands.
func (s *Service) afterCancel(ctx context.Context, res *Reservation) {
	if items := res.Notes.RestockAdjustments(); len(items) > 0 && s.inventory != nil {
		if _, err := s.inventory.Adjust(ctx, items); err != nil {
			slog.Error("[RESERVATIONS] restock failed", "reservation_id", res.ID, logging.Err(err))
		}
	}

	if s.outbox == nil {
		return
	}
	if err := s.outbox.Enqueue(ctx, notify.OrderEvent{
		Kind:          notify.KindOrderCancelled,
		ReservationID: res.ID,
		CreatedAt:     time.Now(),
		Order:         res.Notes,
	}); err != nil {
		slog.Error("[RESERVATIONS] cancellation notice not queued", "reservation_id", res.ID, logging.Err(err))
	}
}
