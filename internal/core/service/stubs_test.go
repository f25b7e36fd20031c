package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/ItsCharrs/logipro/internal/core/domain"
)

// ---------------------------------------------------------------------------
// Identity provider
// ---------------------------------------------------------------------------

type stubIdentity struct {
	mu       sync.Mutex
	signInFn func(ctx context.Context, cred domain.Credential) (string, error)
	signUpFn func(ctx context.Context, reg domain.Registration) (string, error)
	signOuts int
}

func (s *stubIdentity) SignUp(ctx context.Context, reg domain.Registration) (string, error) {
	return s.signUpFn(ctx, reg)
}

func (s *stubIdentity) SignIn(ctx context.Context, cred domain.Credential) (string, error) {
	return s.signInFn(ctx, cred)
}

func (s *stubIdentity) SignOut(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.signOuts++
	return nil
}

func (s *stubIdentity) SignOuts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.signOuts
}

type stubVerifier struct {
	err error
}

func (v *stubVerifier) Verify(context.Context, string) (*domain.IdentityClaims, error) {
	if v.err != nil {
		return nil, v.err
	}
	return &domain.IdentityClaims{Subject: "uid"}, nil
}

// ---------------------------------------------------------------------------
// Backend
// ---------------------------------------------------------------------------

type stubBackend struct {
	mu     sync.Mutex
	token  string
	gets   []string
	pages  map[string]string
	getErr error

	exchangeFn    func(ctx context.Context, idToken string) (*domain.TokenPair, error)
	currentUserFn func(ctx context.Context) (*domain.User, error)
	quoteFn       func(ctx context.Context, req domain.QuoteRequest) (*domain.Quote, error)
	bookFn        func(ctx context.Context, form domain.BookingForm) (*domain.BookingConfirmation, error)
	jobsFn        func(ctx context.Context) ([]domain.DriverJob, error)
	statusFn      func(ctx context.Context, id int64, upd domain.StatusUpdate) (*domain.StatusUpdateResult, error)
	podFn         func(ctx context.Context, id int64, name string, r io.Reader) (*domain.ProofOfDelivery, error)
	shipmentFn    func(ctx context.Context, id int64, p domain.ShipmentPatch) (*domain.Shipment, error)
	createJobFn   func(ctx context.Context, form domain.BookingForm) (*domain.Job, error)
	warehouseFn   func(ctx context.Context, id int64, w domain.Warehouse) (*domain.Warehouse, error)
	deleted       []int64
	currentCalls  int
}

func (b *stubBackend) SetAuthToken(t string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.token = t
}

func (b *stubBackend) ClearAuthToken() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.token = ""
}

func (b *stubBackend) AuthToken() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.token
}

func (b *stubBackend) ExchangeToken(ctx context.Context, idToken string) (*domain.TokenPair, error) {
	return b.exchangeFn(ctx, idToken)
}

func (b *stubBackend) CurrentUser(ctx context.Context) (*domain.User, error) {
	b.mu.Lock()
	b.currentCalls++
	b.mu.Unlock()
	return b.currentUserFn(ctx)
}

func (b *stubBackend) GetJSON(_ context.Context, path string, out any) error {
	b.mu.Lock()
	b.gets = append(b.gets, path)
	body, ok := b.pages[path]
	err := b.getErr
	b.mu.Unlock()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("unexpected path %s", path)
	}
	return json.Unmarshal([]byte(body), out)
}

func (b *stubBackend) Gets() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.gets...)
}

func (b *stubBackend) CalculateQuote(ctx context.Context, req domain.QuoteRequest) (*domain.Quote, error) {
	return b.quoteFn(ctx, req)
}

func (b *stubBackend) CreateBooking(ctx context.Context, form domain.BookingForm) (*domain.BookingConfirmation, error) {
	return b.bookFn(ctx, form)
}

func (b *stubBackend) DriverJobs(ctx context.Context) ([]domain.DriverJob, error) {
	return b.jobsFn(ctx)
}

func (b *stubBackend) UpdateJobStatus(ctx context.Context, id int64, upd domain.StatusUpdate) (*domain.StatusUpdateResult, error) {
	return b.statusFn(ctx, id, upd)
}

func (b *stubBackend) UploadProofOfDelivery(ctx context.Context, id int64, name string, r io.Reader) (*domain.ProofOfDelivery, error) {
	return b.podFn(ctx, id, name, r)
}

func (b *stubBackend) CreateJob(ctx context.Context, form domain.BookingForm) (*domain.Job, error) {
	return b.createJobFn(ctx, form)
}

func (b *stubBackend) CreateWarehouse(ctx context.Context, w domain.Warehouse) (*domain.Warehouse, error) {
	return b.warehouseFn(ctx, 0, w)
}

func (b *stubBackend) UpdateWarehouse(ctx context.Context, id int64, w domain.Warehouse) (*domain.Warehouse, error) {
	return b.warehouseFn(ctx, id, w)
}

func (b *stubBackend) DeleteWarehouse(_ context.Context, id int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deleted = append(b.deleted, id)
	return nil
}

func (b *stubBackend) UpdateShipment(ctx context.Context, id int64, p domain.ShipmentPatch) (*domain.Shipment, error) {
	return b.shipmentFn(ctx, id, p)
}

// ---------------------------------------------------------------------------
// Store and auditor
// ---------------------------------------------------------------------------

type memStore struct {
	mu        sync.Mutex
	data      map[string]string
	setErr    error
	deleteErr error
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string]string)}
}

func (m *memStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return "", domain.ErrNotFound
	}
	return v, nil
}

func (m *memStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.data, key)
	return nil
}

type stubAuditor struct {
	mu     sync.Mutex
	events []*domain.SessionEvent
	err    error
}

func (a *stubAuditor) Record(_ context.Context, ev *domain.SessionEvent) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, ev)
	return a.err
}

type stubCache struct {
	invalidations int
}

func (c *stubCache) Invalidate() { c.invalidations++ }
