package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/ItsCharrs/logipro/internal/core/domain"
	"github.com/ItsCharrs/logipro/internal/core/ports"
)

// DefaultThemeKey is where the theme preference is persisted.
const DefaultThemeKey = "logipro_theme"

type themeService struct {
	store ports.KeyValueStore
	key   string
	log   zerolog.Logger
}

// NewThemeService returns a ThemeService persisting under key, or
// DefaultThemeKey when key is empty.
func NewThemeService(store ports.KeyValueStore, key string, log zerolog.Logger) ports.ThemeService {
	if key == "" {
		key = DefaultThemeKey
	}
	return &themeService{store: store, key: key, log: log}
}

// Load returns the saved theme. Anything unreadable yields the default.
func (s *themeService) Load(ctx context.Context) domain.Theme {
	v, err := s.store.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.log.Warn().Err(err).Msg("failed to read theme preference")
		}
		return domain.DefaultTheme
	}
	t, err := domain.ParseTheme(v)
	if err != nil {
		return domain.DefaultTheme
	}
	return t
}

func (s *themeService) Set(ctx context.Context, t domain.Theme) error {
	if _, err := domain.ParseTheme(string(t)); err != nil {
		return err
	}
	return s.store.Set(ctx, s.key, string(t))
}

func (s *themeService) Toggle(ctx context.Context) (domain.Theme, error) {
	next := s.Load(ctx).Toggle()
	if err := s.Set(ctx, next); err != nil {
		return "", err
	}
	return next, nil
}
