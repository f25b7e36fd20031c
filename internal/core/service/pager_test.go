package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ItsCharrs/logipro/internal/core/domain"
)

const (
	page1 = `{"count":3,"next":"https://api.example.com/api/v1/customers/me/orders/?page=2&search=box","previous":null,"results":[{"id":1},{"id":2}]}`
	page2 = `{"count":3,"next":null,"previous":"https://api.example.com/api/v1/customers/me/orders/?search=box","results":[{"id":3}]}`
)

func newPagerBackend() *stubBackend {
	return &stubBackend{pages: map[string]string{
		"/customers/me/orders/?search=box":                                      page1,
		"https://api.example.com/api/v1/customers/me/orders/?page=2&search=box": page2,
		"https://api.example.com/api/v1/customers/me/orders/?search=box":        page1,
	}}
}

func TestPager_NextFollowsExactURL(t *testing.T) {
	b := newPagerBackend()
	p := NewPager[domain.Order](b)

	pg, err := p.Load(context.Background(), ListPath(PathOrders, domain.ListFilter{Search: "box"}))
	require.NoError(t, err)
	assert.Len(t, pg.Results, 2)
	assert.Equal(t, 1, p.Page())
	assert.True(t, p.HasNext())
	assert.False(t, p.HasPrev())

	pg, err = p.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, p.Page())
	assert.Equal(t, int64(3), pg.Results[0].ID)
	assert.Equal(t, "https://api.example.com/api/v1/customers/me/orders/?page=2&search=box", b.Gets()[1])

	assert.False(t, p.HasNext())
	_, err = p.Next(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoPage)
	assert.Len(t, b.Gets(), 2)

	_, err = p.Prev(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, p.Page())
}

func TestPager_FailedRequestKeepsPosition(t *testing.T) {
	b := newPagerBackend()
	p := NewPager[domain.Order](b)
	_, err := p.Load(context.Background(), "/customers/me/orders/?search=box")
	require.NoError(t, err)

	b.getErr = assert.AnError
	_, err = p.Next(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, p.Page())
	assert.True(t, p.HasNext())
}

func TestPager_NothingLoaded(t *testing.T) {
	p := NewPager[domain.Job](&stubBackend{})
	assert.False(t, p.HasNext())
	assert.False(t, p.HasPrev())
	assert.Zero(t, p.Page())
	_, err := p.Prev(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoPage)
}

func TestListPath(t *testing.T) {
	assert.Equal(t, "/jobs/", ListPath(PathJobs, domain.ListFilter{}))
	assert.Equal(t, "/jobs/?page=3&search=acme+co&status=DELIVERED",
		ListPath(PathJobs, domain.ListFilter{Search: "acme co", Status: "DELIVERED", Page: 3}))
}
