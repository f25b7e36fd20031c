package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blockingGetter counts requests and, when gate is set, holds every request
// until the gate closes or the caller's context ends.
type blockingGetter struct {
	calls atomic.Int32
	gate  chan struct{}
	body  atomic.Value
	err   error
}

func (g *blockingGetter) GetJSON(ctx context.Context, _ string, out any) error {
	g.calls.Add(1)
	if g.gate != nil {
		select {
		case <-g.gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if g.err != nil {
		return g.err
	}
	return json.Unmarshal([]byte(g.body.Load().(string)), out)
}

func newBlockingGetter(body string) *blockingGetter {
	g := &blockingGetter{}
	g.body.Store(body)
	return g
}

type counter struct {
	N int `json:"n"`
}

func TestFetcher_SharesCachedResult(t *testing.T) {
	g := newBlockingGetter(`{"n":1}`)
	f := NewFetcher(g, zerolog.Nop())
	var hits, misses int
	f.OnLookup = func(hit bool) {
		if hit {
			hits++
		} else {
			misses++
		}
	}

	var a, b counter
	require.NoError(t, f.Get(context.Background(), "/reports/summary/", &a))
	require.NoError(t, f.Get(context.Background(), "/reports/summary/", &b))

	assert.Equal(t, 1, a.N)
	assert.Equal(t, a, b)
	assert.Equal(t, int32(1), g.calls.Load())
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)

	st := f.Status("/reports/summary/")
	assert.True(t, st.HasData)
	assert.False(t, st.Loading)
	assert.NoError(t, st.Err)
}

func TestFetcher_DeduplicatesConcurrentRequests(t *testing.T) {
	g := newBlockingGetter(`{"n":5}`)
	g.gate = make(chan struct{})
	f := NewFetcher(g, zerolog.Nop())

	const callers = 8
	var wg sync.WaitGroup
	results := make([]counter, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = f.Get(context.Background(), "/customers/me/orders/stats/", &results[i])
		}(i)
	}

	require.Eventually(t, func() bool {
		f.mu.RLock()
		defer f.mu.RUnlock()
		e, ok := f.entries["/customers/me/orders/stats/"]
		return ok && e.loading == callers && g.calls.Load() == 1
	}, time.Second, time.Millisecond)
	// Let the last joiners reach the shared flight before releasing it.
	time.Sleep(20 * time.Millisecond)
	close(g.gate)
	wg.Wait()

	assert.Equal(t, int32(1), g.calls.Load())
	for _, r := range results {
		assert.Equal(t, 5, r.N)
	}
}

func TestFetcher_MutateRevalidates(t *testing.T) {
	g := newBlockingGetter(`{"n":1}`)
	f := NewFetcher(g, zerolog.Nop())

	var c counter
	require.NoError(t, f.Get(context.Background(), "/p", &c))
	g.body.Store(`{"n":2}`)

	require.NoError(t, f.Mutate(context.Background(), "/p", nil))
	require.NoError(t, f.Get(context.Background(), "/p", &c))

	assert.Equal(t, 2, c.N)
	assert.Equal(t, int32(2), g.calls.Load())
}

func TestFetcher_ErrorKeepsLastGoodValue(t *testing.T) {
	g := newBlockingGetter(`{"n":1}`)
	f := NewFetcher(g, zerolog.Nop())

	var c counter
	require.NoError(t, f.Get(context.Background(), "/p", &c))

	g.err = errors.New("boom")
	require.Error(t, f.Mutate(context.Background(), "/p", nil))

	st := f.Status("/p")
	assert.True(t, st.HasData)
	assert.EqualError(t, st.Err, "boom")

	var again counter
	require.NoError(t, f.Get(context.Background(), "/p", &again))
	assert.Equal(t, 1, again.N)
}

func TestFetcher_InvalidateDropsEverything(t *testing.T) {
	g := newBlockingGetter(`{"n":1}`)
	f := NewFetcher(g, zerolog.Nop())

	var c counter
	require.NoError(t, f.Get(context.Background(), "/p", &c))
	f.Invalidate()

	assert.False(t, f.Status("/p").HasData)
	require.NoError(t, f.Get(context.Background(), "/p", &c))
	assert.Equal(t, int32(2), g.calls.Load())
}

func TestScope_CloseCancelsInFlight(t *testing.T) {
	g := newBlockingGetter(`{"n":1}`)
	g.gate = make(chan struct{})
	t.Cleanup(func() { close(g.gate) })
	f := NewFetcher(g, zerolog.Nop())
	scope := f.Scope(context.Background())

	done := make(chan error, 1)
	go func() {
		var c counter
		done <- scope.Get("/slow", &c)
	}()

	require.Eventually(t, func() bool { return g.calls.Load() == 1 }, time.Second, time.Millisecond)
	scope.Close()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("request was not cancelled")
	}
	assert.False(t, f.Status("/slow").HasData)
}

func TestScope_CloseDoesNotFailOtherWaiters(t *testing.T) {
	g := newBlockingGetter(`{"n":4}`)
	g.gate = make(chan struct{})
	f := NewFetcher(g, zerolog.Nop())
	first := f.Scope(context.Background())
	second := f.Scope(context.Background())
	defer second.Close()

	firstDone := make(chan error, 1)
	go func() {
		var c counter
		firstDone <- first.Get("/shared", &c)
	}()
	require.Eventually(t, func() bool { return g.calls.Load() == 1 }, time.Second, time.Millisecond)

	type result struct {
		c   counter
		err error
	}
	secondDone := make(chan result, 1)
	go func() {
		var r result
		r.err = second.Get("/shared", &r.c)
		secondDone <- r
	}()
	require.Eventually(t, func() bool { return f.Status("/shared").Loading && loadingCount(f, "/shared") == 2 }, time.Second, time.Millisecond)

	first.Close()
	assert.ErrorIs(t, <-firstDone, context.Canceled)

	close(g.gate)
	r := <-secondDone
	require.NoError(t, r.err)
	assert.Equal(t, 4, r.c.N)
	assert.Equal(t, int32(1), g.calls.Load())

	st := f.Status("/shared")
	assert.True(t, st.HasData)
	assert.NoError(t, st.Err)
	assert.False(t, st.Loading)
}

func loadingCount(f *Fetcher, path string) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if e, ok := f.entries[path]; ok {
		return e.loading
	}
	return 0
}
