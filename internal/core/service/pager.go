package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"sync"

	"github.com/ItsCharrs/logipro/internal/core/domain"
	"github.com/ItsCharrs/logipro/internal/core/ports"
)

// Pager walks a paginated listing by following the backend's next and
// previous links verbatim.
type Pager[T any] struct {
	getter ports.Getter

	mu      sync.Mutex
	page    int
	current *domain.Page[T]
}

func NewPager[T any](getter ports.Getter) *Pager[T] {
	return &Pager[T]{getter: getter}
}

// Load fetches the first page of path.
func (p *Pager[T]) Load(ctx context.Context, path string) (*domain.Page[T], error) {
	return p.fetch(ctx, path, 1)
}

// Resume fetches url and treats it as page number page. Used when the
// caller kept a cursor from an earlier listing.
func (p *Pager[T]) Resume(ctx context.Context, url string, page int) (*domain.Page[T], error) {
	if page < 1 {
		page = 1
	}
	return p.fetch(ctx, url, page)
}

// Next requests exactly the current page's next link.
func (p *Pager[T]) Next(ctx context.Context) (*domain.Page[T], error) {
	p.mu.Lock()
	if p.current == nil || p.current.Next == nil {
		p.mu.Unlock()
		return nil, domain.ErrNoPage
	}
	next, page := *p.current.Next, p.page+1
	p.mu.Unlock()
	return p.fetch(ctx, next, page)
}

// Prev requests exactly the current page's previous link.
func (p *Pager[T]) Prev(ctx context.Context) (*domain.Page[T], error) {
	p.mu.Lock()
	if p.current == nil || p.current.Previous == nil {
		p.mu.Unlock()
		return nil, domain.ErrNoPage
	}
	prev, page := *p.current.Previous, max(p.page-1, 1)
	p.mu.Unlock()
	return p.fetch(ctx, prev, page)
}

func (p *Pager[T]) HasNext() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current != nil && p.current.Next != nil
}

func (p *Pager[T]) HasPrev() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current != nil && p.current.Previous != nil
}

// Page returns the 1-based number of the page last loaded, 0 before Load.
func (p *Pager[T]) Page() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.page
}

// Current returns the page last loaded.
func (p *Pager[T]) Current() *domain.Page[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// fetch only moves the counter once the page has arrived, so a failed
// request leaves the pager where it was.
func (p *Pager[T]) fetch(ctx context.Context, path string, page int) (*domain.Page[T], error) {
	var pg domain.Page[T]
	if err := p.getter.GetJSON(ctx, path, &pg); err != nil {
		return nil, err
	}
	if pg.Results == nil {
		pg.Results = []T{}
	}

	p.mu.Lock()
	p.current = &pg
	p.page = page
	p.mu.Unlock()
	return &pg, nil
}

// ListPath appends the filter to base as a query string.
func ListPath(base string, f domain.ListFilter) string {
	q := url.Values{}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if f.Role != "" {
		q.Set("role", f.Role)
	}
	if f.Page > 1 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if len(q) == 0 {
		return base
	}
	return fmt.Sprintf("%s?%s", base, q.Encode())
}
