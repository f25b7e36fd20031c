package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/ItsCharrs/logipro/internal/core/ports"
)

// FetchStatus is what a consumer of a cached path can observe.
type FetchStatus struct {
	HasData   bool
	Err       error
	Loading   bool
	UpdatedAt time.Time
}

type cacheEntry struct {
	data      json.RawMessage
	err       error
	loading   int
	updatedAt time.Time
}

// Fetcher shares GET responses between callers keyed by path. Concurrent
// callers for the same path share one request. Entries live until Mutate
// replaces them or Invalidate drops everything; there is no TTL.
type Fetcher struct {
	getter ports.Getter
	log    zerolog.Logger
	group  singleflight.Group

	mu      sync.RWMutex
	entries map[string]*cacheEntry
	epoch   uint64

	// OnLookup, when set, is told whether a Get was served from cache.
	OnLookup func(hit bool)
}

// NewFetcher returns an empty Fetcher reading through getter.
func NewFetcher(getter ports.Getter, log zerolog.Logger) *Fetcher {
	return &Fetcher{
		getter:  getter,
		log:     log.With().Str("component", "fetcher").Logger(),
		entries: make(map[string]*cacheEntry),
	}
}

// Get decodes the cached response for path into out, fetching it first when
// nothing is cached yet.
func (f *Fetcher) Get(ctx context.Context, path string, out any) error {
	f.mu.RLock()
	e, ok := f.entries[path]
	var data json.RawMessage
	if ok {
		data = e.data
	}
	f.mu.RUnlock()

	if data != nil {
		f.lookup(true)
		return decode(path, data, out)
	}
	f.lookup(false)

	data, err := f.revalidate(ctx, path)
	if err != nil {
		return err
	}
	return decode(path, data, out)
}

// Mutate refetches path and replaces the cached value. out may be nil.
func (f *Fetcher) Mutate(ctx context.Context, path string, out any) error {
	data, err := f.revalidate(ctx, path)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return decode(path, data, out)
}

// Invalidate drops every cached response. In-flight requests finish but
// their results are discarded.
func (f *Fetcher) Invalidate() {
	f.mu.Lock()
	for path := range f.entries {
		f.group.Forget(path)
	}
	f.entries = make(map[string]*cacheEntry)
	f.epoch++
	f.mu.Unlock()
}

// Status reports the cache state of path.
func (f *Fetcher) Status(path string) FetchStatus {
	f.mu.RLock()
	defer f.mu.RUnlock()
	e, ok := f.entries[path]
	if !ok {
		return FetchStatus{}
	}
	return FetchStatus{
		HasData:   e.data != nil,
		Err:       e.err,
		Loading:   e.loading > 0,
		UpdatedAt: e.updatedAt,
	}
}

// revalidate issues (or joins) the request for path. The shared request is
// detached from the caller that started it, so one consumer closing its
// scope does not fail the others; each caller gives up on its own context.
func (f *Fetcher) revalidate(ctx context.Context, path string) (json.RawMessage, error) {
	f.mu.Lock()
	epoch := f.epoch
	e, ok := f.entries[path]
	if !ok {
		e = &cacheEntry{}
		f.entries[path] = e
	}
	e.loading++
	f.mu.Unlock()

	shared := context.WithoutCancel(ctx)
	ch := f.group.DoChan(path, func() (any, error) {
		var raw json.RawMessage
		if err := f.getter.GetJSON(shared, path, &raw); err != nil {
			return nil, err
		}
		return raw, nil
	})

	var (
		data json.RawMessage
		err  error
	)
	select {
	case res := <-ch:
		err = res.Err
		if err == nil {
			data = res.Val.(json.RawMessage)
		}
	case <-ctx.Done():
		// This caller left; the entry is settled by whoever is still waiting.
		f.mu.Lock()
		e.loading--
		f.mu.Unlock()
		return nil, ctx.Err()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	e.loading--
	if f.epoch != epoch {
		if err == nil {
			return data, nil
		}
		return nil, err
	}
	if err != nil {
		// Keep serving the last good value alongside the error.
		e.err = err
		f.log.Debug().Err(err).Str("path", path).Msg("revalidate failed")
		return nil, err
	}
	e.data = data
	e.err = nil
	e.updatedAt = time.Now()
	return data, nil
}

func (f *Fetcher) lookup(hit bool) {
	if f.OnLookup != nil {
		f.OnLookup(hit)
	}
}

func decode(path string, data json.RawMessage, out any) error {
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// Scope ties a group of requests to one consumer. Close cancels whatever is
// still in flight.
type Scope struct {
	ctx    context.Context
	cancel context.CancelFunc
	f      *Fetcher
}

// Scope opens a cancellation scope derived from parent.
func (f *Fetcher) Scope(parent context.Context) *Scope {
	ctx, cancel := context.WithCancel(parent)
	return &Scope{ctx: ctx, cancel: cancel, f: f}
}

func (s *Scope) Get(path string, out any) error {
	return s.f.Get(s.ctx, path, out)
}

func (s *Scope) Mutate(path string, out any) error {
	return s.f.Mutate(s.ctx, path, out)
}

// Context returns the scope's context for calls made outside the Fetcher.
func (s *Scope) Context() context.Context { return s.ctx }

// Close cancels the scope. Safe to call more than once.
func (s *Scope) Close() { s.cancel() }
