package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Options(t *testing.T) {
	opts := Config{Addr: "cache:6380", Password: "pw", DB: 3, TLS: true, ClientName: "logipro-driver"}.options()

	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, "pw", opts.Password)
	assert.Equal(t, 3, opts.DB)
	assert.Equal(t, "logipro-driver", opts.ClientName)
	assert.Equal(t, defaultTimeout, opts.DialTimeout)
	assert.Equal(t, defaultTimeout, opts.ReadTimeout)
	require.NotNil(t, opts.TLSConfig)

	opts = Config{Addr: "cache:6379", Timeout: time.Second}.options()
	assert.Nil(t, opts.TLSConfig)
	assert.Equal(t, time.Second, opts.WriteTimeout)
}

func TestConnect_Password(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.RequireAuth("s3cret")
	ctx := context.Background()

	_, err := Connect(ctx, Config{Addr: mr.Addr(), Timeout: time.Second})
	require.Error(t, err)

	client, err := Connect(ctx, Config{Addr: mr.Addr(), Password: "s3cret", ClientName: "logipro-admin", Timeout: time.Second})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Set(ctx, "k", "v", 0).Err())
}
