package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ItsCharrs/logipro/internal/core/domain"
)

func TestTheme_DefaultsToDark(t *testing.T) {
	svc := NewThemeService(newMemStore(), "", zerolog.Nop())
	assert.Equal(t, domain.ThemeDark, svc.Load(context.Background()))
}

func TestTheme_PersistsAndToggles(t *testing.T) {
	store := newMemStore()
	svc := NewThemeService(store, "", zerolog.Nop())

	require.NoError(t, svc.Set(context.Background(), domain.ThemeLight))
	assert.Equal(t, "light", store.data[DefaultThemeKey])

	next, err := svc.Toggle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeDark, next)
	assert.Equal(t, domain.ThemeDark, svc.Load(context.Background()))
}

func TestTheme_RejectsUnknown(t *testing.T) {
	store := newMemStore()
	svc := NewThemeService(store, "", zerolog.Nop())

	assert.ErrorIs(t, svc.Set(context.Background(), "sepia"), domain.ErrInvalidTheme)

	store.data[DefaultThemeKey] = "sepia"
	assert.Equal(t, domain.ThemeDark, svc.Load(context.Background()))
}
