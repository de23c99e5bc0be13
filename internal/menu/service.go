package menu

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"darmenu/internal/core"
)

var (
	ErrDishNotFound      = core.NewError(core.ErrNotFound, "dish not found")
	ErrStorageNotEnabled = core.NewError(core.ErrInvalid, "image storage is not configured")
	ErrInvalidFilter     = core.NewError(core.ErrInvalid, "filter must be all, available or unavailable")
)

// Storage stores dish images and returns their public URL.
type Storage interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}

type Service struct {
	repo     Repository
	storage  Storage
	notifier core.ChangeNotifier
	currency string
}

func NewService(repo Repository, storage Storage, notifier core.ChangeNotifier, currency string) *Service {
	if notifier == nil {
		notifier = core.NopNotifier{}
	}
	if currency == "" {
		currency = "MAD"
	}
	return &Service{repo: repo, storage: storage, notifier: notifier, currency: currency}
}

func (s *Service) changed(ctx context.Context, action, id string) {
	s.notifier.Notify(ctx, core.Change{Topic: core.TopicDishes, Action: action, ID: id})
}

// --------------------------------------------------
// Public menu
// --------------------------------------------------

func (s *Service) PublicMenu(ctx context.Context, category string) ([]Dish, error) {
	return s.repo.ListPublic(ctx, strings.TrimSpace(category))
}

func (s *Service) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*Dish, error) {
	return s.repo.Get(ctx, id)
}

// --------------------------------------------------
// ADMIN
// --------------------------------------------------

func (s *Service) List(ctx context.Context, filter string) ([]Dish, error) {
	switch filter {
	case "":
		filter = FilterAll
	case FilterAll, FilterAvailable, FilterUnavailable:
	default:
		return nil, ErrInvalidFilter
	}
	return s.repo.List(ctx, filter)
}

// Create adds a dish. New dishes start unavailable with zero stock until
// inventory is received.
func (s *Service) Create(ctx context.Context, in DishInput) (*Dish, error) {
	if err := normalize(&in, s.currency); err != nil {
		return nil, err
	}

	zero := 0
	d := &Dish{IsAvailable: false, Stock: &zero}
	in.apply(d)

	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}

	slog.Info("[MENU] dish created", "dish_id", d.ID, "name", d.Name)
	s.changed(ctx, core.ActionInsert, d.ID)
	return d, nil
}

func (s *Service) Update(ctx context.Context, id string, in DishInput) (*Dish, error) {
	if err := normalize(&in, s.currency); err != nil {
		return nil, err
	}

	d, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(d)

	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	s.changed(ctx, core.ActionUpdate, d.ID)
	return d, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("[MENU] dish deleted", "dish_id", id)
	s.changed(ctx, core.ActionDelete, id)
	return nil
}

func (s *Service) SetAvailability(ctx context.Context, id string, available bool) (*Dish, error) {
	d, err := s.repo.SetAvailability(ctx, id, available)
	if err != nil {
		return nil, err
	}
	s.changed(ctx, core.ActionUpdate, id)
	return d, nil
}

func (s *Service) SetHidden(ctx context.Context, id string, hidden bool) (*Dish, error) {
	d, err := s.repo.SetHidden(ctx, id, hidden)
	if err != nil {
		return nil, err
	}
	s.changed(ctx, core.ActionUpdate, id)
	return d, nil
}

// --------------------------------------------------
// Upload dish image
// --------------------------------------------------
func (s *Service) UploadImage(
	ctx context.Context,
	dishID string,
	file io.Reader,
	filename string,
) (*Dish, error) {
	if s.storage == nil {
		return nil, ErrStorageNotEnabled
	}

	contentType, err := ValidateImageExtension(filename)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.Get(ctx, dishID); err != nil {
		return nil, err
	}

	key := fmt.Sprintf(
		"dishes/%s/%s%s",
		dishID,
		uuid.New().String(),
		strings.ToLower(filepath.Ext(filename)),
	)

	url, err := s.storage.Upload(ctx, key, file, contentType)
	if err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}

	d, err := s.repo.SetImage(ctx, dishID, url)
	if err != nil {
		return nil, err
	}
	s.changed(ctx, core.ActionUpdate, dishID)
	return d, nil
}
