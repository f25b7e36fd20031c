package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ItsCharrs/logipro/internal/core/domain"
)

func TestStore_PlainRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	s, err := New(path, "")
	require.NoError(t, err)

	_, err = s.Get(ctx, "driver:logipro_auth_token")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, s.Set(ctx, "driver:logipro_auth_token", "tok"))
	v, err := s.Get(ctx, "driver:logipro_auth_token")
	require.NoError(t, err)
	assert.Equal(t, "tok", v)

	// a second handle on the same file sees the write
	s2, err := New(path, "")
	require.NoError(t, err)
	v, err = s2.Get(ctx, "driver:logipro_auth_token")
	require.NoError(t, err)
	assert.Equal(t, "tok", v)

	require.NoError(t, s.Delete(ctx, "driver:logipro_auth_token"))
	require.NoError(t, s.Delete(ctx, "driver:logipro_auth_token"))
	_, err = s.Get(ctx, "driver:logipro_auth_token")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, s.Ping(ctx))
}

func TestStore_EncryptedAtRest(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.json")
	key, err := GenerateKey()
	require.NoError(t, err)

	s, err := New(path, key)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "k", "secret-access-token"))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret-access-token")

	v, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "secret-access-token", v)

	other, err := GenerateKey()
	require.NoError(t, err)
	wrong, err := New(path, other)
	require.NoError(t, err)
	_, err = wrong.Get(ctx, "k")
	assert.Error(t, err)
}

func TestNew_RejectsBadKey(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "s.json"), "c2hvcnQ=")
	assert.ErrorIs(t, err, ErrBadKey)
}

func TestStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	s, err := New(path, "")
	require.NoError(t, err)
	_, err = s.Get(context.Background(), "k")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
	assert.Error(t, s.Ping(context.Background()))
}
