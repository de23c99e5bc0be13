package tables

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"darmenu/internal/core"
)

var (
	ErrTableNotFound = core.NewError(core.ErrNotFound, "table not found")
	ErrLabelTaken    = core.NewError(core.ErrConflict, "table label already exists")
	ErrInvalidStatus = core.NewError(core.ErrInvalid, "status must be one of available, occupied, reserved, maintenance, out_of_service")
)

const defaultSeats = 4

type Service struct {
	repo     Repository
	notifier core.ChangeNotifier
	baseURL  string
}

func NewService(repo Repository, notifier core.ChangeNotifier, publicBaseURL string) *Service {
	if notifier == nil {
		notifier = core.NopNotifier{}
	}
	return &Service{repo: repo, notifier: notifier, baseURL: strings.TrimRight(publicBaseURL, "/")}
}

func (s *Service) changed(ctx context.Context, action, id string) {
	s.notifier.Notify(ctx, core.Change{Topic: core.TopicTables, Action: action, ID: id})
}

func normalize(in *TableInput) error {
	in.Label = strings.TrimSpace(in.Label)
	in.Location = strings.TrimSpace(in.Location)
	if in.Seats == 0 {
		in.Seats = defaultSeats
	}
	if in.Status == "" {
		in.Status = StatusAvailable
	}

	v := core.NewValidationError()
	if in.Label == "" {
		v.Add("label", "is required")
	} else if strings.ContainsAny(in.Label, "/?#") {
		v.Add("label", "must not contain / ? or #")
	}
	if in.Seats < 1 {
		v.Add("seats", "must be at least 1")
	}
	if !ValidStatus(in.Status) {
		v.Add("status", "is invalid")
	}
	return v.OrNil()
}

func (s *Service) List(ctx context.Context) ([]Table, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*Table, error) {
	return s.repo.Get(ctx, id)
}

// Resolve looks up the table a QR deep link points to.
func (s *Service) Resolve(ctx context.Context, label string) (*Table, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, ErrTableNotFound
	}
	return s.repo.FindByLabel(ctx, label)
}

func (s *Service) Create(ctx context.Context, in TableInput) (*Table, error) {
	if err := normalize(&in); err != nil {
		return nil, err
	}
	t := &Table{Label: in.Label, Seats: in.Seats, Location: in.Location, Status: in.Status}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	slog.Info("[TABLES] table created", "table_id", t.ID, "label", t.Label)
	s.changed(ctx, core.ActionInsert, t.ID)
	return t, nil
}

func (s *Service) Update(ctx context.Context, id string, in TableInput) (*Table, error) {
	if err := normalize(&in); err != nil {
		return nil, err
	}
	t := &Table{ID: id, Label: in.Label, Seats: in.Seats, Location: in.Location, Status: in.Status}
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	s.changed(ctx, core.ActionUpdate, id)
	return t, nil
}

func (s *Service) SetStatus(ctx context.Context, id, status string) (*Table, error) {
	if !ValidStatus(status) {
		return nil, ErrInvalidStatus
	}
	t, err := s.repo.SetStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.changed(ctx, core.ActionUpdate, id)
	return t, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.changed(ctx, core.ActionDelete, id)
	return nil
}

// LinkFor builds the deep link encoded in a table's QR code.
func (s *Service) LinkFor(label string) string {
	return s.baseURL + "/table/" + url.PathEscape(label)
}

// Links returns deep links for every table that is not out of service.
func (s *Service) Links(ctx context.Context) ([]Link, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	links := make([]Link, 0, len(all))
	for _, t := range all {
		if t.Status == StatusOutOfService {
			continue
		}
		links = append(links, Link{TableID: t.ID, Label: t.Label, URL: s.LinkFor(t.Label)})
	}
	return links, nil
}
