package settings

import (
	"context"
	"log/slog"

	"darmenu/internal/core"
)

type Service struct {
	repo     Repository
	notifier core.ChangeNotifier
}

func NewService(repo Repository, notifier core.ChangeNotifier) *Service {
	if notifier == nil {
		notifier = core.NopNotifier{}
	}
	return &Service{repo: repo, notifier: notifier}
}

// OpeningHours returns the lines to display for language.
func (s *Service) OpeningHours(ctx context.Context, language string) ([]string, error) {
	raw, err := s.repo.Get(ctx, KeyOpeningHours)
	if err != nil {
		return nil, err
	}
	return ResolveOpeningHours(raw, language), nil
}

// OpeningHoursByLanguage is the editor view: resolved lines for every
// editable language.
func (s *Service) OpeningHoursByLanguage(ctx context.Context) (map[string][]string, error) {
	raw, err := s.repo.Get(ctx, KeyOpeningHours)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]string, len(Languages))
	for _, lang := range Languages {
		out[lang] = ResolveOpeningHours(raw, lang)
	}
	return out, nil
}

func (s *Service) SaveOpeningHours(ctx context.Context, texts map[string]string) (map[string][]string, error) {
	payload := BuildOpeningHours(texts)
	if err := s.repo.Put(ctx, KeyOpeningHours, payload); err != nil {
		return nil, err
	}

	slog.Info("[SETTINGS] opening hours saved", "languages", len(payload)-1)
	s.notifier.Notify(ctx, core.Change{Topic: core.TopicSettings, Action: core.ActionUpdate, ID: KeyOpeningHours})
	return payload, nil
}
