package menu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"gopkg.in/yaml.v3"
)

// SeedDish is one entry of a menu seed file.
type SeedDish struct {
	DishInput `yaml:",inline"`
	Stock     *int `yaml:"stock"`
	Hidden    bool `yaml:"hidden"`
}

type seedFile struct {
	Dishes []SeedDish `yaml:"dishes"`
}

// LoadSeed parses a YAML document of the form `dishes: [...]`.
func LoadSeed(r io.Reader) ([]SeedDish, error) {
	var f seedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	return f.Dishes, nil
}

// SeedResult counts what Seed did.
type SeedResult struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

// Seed creates dishes whose name does not exist yet. Stock given in the
// file also sets availability; dishes without stock are untracked and
// available.
func (s *Service) Seed(ctx context.Context, items []SeedDish) (SeedResult, error) {
	var res SeedResult
	for i, item := range items {
		in := item.DishInput
		if err := normalize(&in, s.currency); err != nil {
			return res, fmt.Errorf("dish #%d: %w", i+1, err)
		}

		_, err := s.repo.FindByName(ctx, in.Name)
		if err == nil {
			res.Skipped++
			continue
		}
		if !errors.Is(err, ErrDishNotFound) {
			return res, err
		}

		d := &Dish{IsHidden: item.Hidden, Stock: item.Stock}
		in.apply(d)
		d.IsAvailable = item.Stock == nil || *item.Stock > 0
		if item.Stock != nil && *item.Stock < 0 {
			zero := 0
			d.Stock = &zero
			d.IsAvailable = false
		}

		if err := s.repo.Create(ctx, d); err != nil {
			return res, err
		}
		res.Created++
	}

	slog.Info("[MENU] seed applied", "created", res.Created, "skipped", res.Skipped)
	return res, nil
}
