package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ItsCharrs/logipro/internal/core/domain"
	"github.com/ItsCharrs/logipro/internal/core/ports"
)

// DefaultTokenKey is where the access token is persisted.
const DefaultTokenKey = "logipro_auth_token"

// CacheInvalidator drops every cached response. Implemented by Fetcher.
type CacheInvalidator interface {
	Invalidate()
}

// SessionConfig wires a SessionService.
type SessionConfig struct {
	App      string
	TokenKey string

	Identity  ports.IdentityProvider
	Registrar ports.Registrar     // optional
	Verifier  ports.TokenVerifier // optional
	Backend   ports.SessionBackend
	Store     ports.KeyValueStore
	Auditor   ports.SessionAuditor // optional
	Cache     CacheInvalidator     // optional

	// Now is overridable in tests.
	Now func() time.Time
}

// SessionService owns the one session of an app instance. All state changes
// go through it; listeners observe them through Subscribe.
type SessionService struct {
	cfg      SessionConfig
	log      zerolog.Logger
	validate *validator.Validate

	mu        sync.Mutex
	sess      domain.Session
	gen       uint64
	listeners map[int]func(domain.Snapshot)
	nextID    int
}

// NewSessionService returns an anonymous SessionService.
func NewSessionService(cfg SessionConfig, log zerolog.Logger) *SessionService {
	if cfg.TokenKey == "" {
		cfg.TokenKey = DefaultTokenKey
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &SessionService{
		cfg:       cfg,
		log:       log.With().Str("component", "session").Str("app", cfg.App).Logger(),
		validate:  newJSONValidator(),
		sess:      domain.Session{State: domain.StateAnonymous},
		listeners: make(map[int]func(domain.Snapshot)),
	}
}

// Current returns a snapshot of the session.
func (s *SessionService) Current() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess.Snapshot()
}

// Subscribe registers fn to be called after every state change. The returned
// func removes it.
func (s *SessionService) Subscribe(fn func(domain.Snapshot)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Establish signs in with cred, exchanges the identity token with the backend
// and installs the resulting access token on the shared client.
//
// Every change to the header or the persisted token happens under s.mu and
// only while gen is still current, so an establish overtaken by a teardown
// never touches the session that replaced it.
func (s *SessionService) Establish(ctx context.Context, cred domain.Credential) (domain.Snapshot, error) {
	return s.establish(ctx, func(ctx context.Context) (string, error) {
		return s.cfg.Identity.SignIn(ctx, cred)
	})
}

// Register creates an email and password account and signs it in through
// the same exchange as Establish. The form is checked before anything else.
func (s *SessionService) Register(ctx context.Context, reg domain.Registration) (domain.Snapshot, error) {
	if err := checkRegistration(s.validate, reg); err != nil {
		return s.Current(), err
	}
	if s.cfg.Registrar == nil {
		return s.Current(), domain.NewSignUpError(domain.CodeOperationNotAllowed, nil)
	}
	return s.establish(ctx, func(ctx context.Context) (string, error) {
		return s.cfg.Registrar.SignUp(ctx, reg)
	})
}

func (s *SessionService) establish(ctx context.Context, identify func(context.Context) (string, error)) (domain.Snapshot, error) {
	gen, err := s.begin(ctx)
	if err != nil {
		return s.Current(), err
	}

	identityToken, err := identify(ctx)
	if err != nil {
		s.abort(ctx, gen, "identity_rejected", false)
		var ie *domain.IdentityError
		if errors.As(err, &ie) {
			s.log.Info().Str("code", ie.Code).Msg("identity provider rejected credential")
			return s.Current(), err
		}
		return s.Current(), fmt.Errorf("establish session: %w", err)
	}

	if s.cfg.Verifier != nil {
		if _, err := s.cfg.Verifier.Verify(ctx, identityToken); err != nil {
			s.abort(ctx, gen, "identity_token_invalid", true)
			return s.Current(), domain.NewIdentityError(domain.CodeInvalidIDToken, errors.Join(domain.ErrInvalidToken, err))
		}
	}

	pair, err := s.cfg.Backend.ExchangeToken(ctx, identityToken)
	if err != nil {
		s.abort(ctx, gen, "exchange_failed", true)
		return s.Current(), fmt.Errorf("%w: %w", domain.ErrExchangeFailed, err)
	}

	if err := s.install(ctx, gen, pair.Access); err != nil {
		if errors.Is(err, domain.ErrNotAuthenticated) {
			return s.Current(), err
		}
		s.abort(ctx, gen, "persist_failed", true)
		return s.Current(), fmt.Errorf("%w: persist token: %w", domain.ErrExchangeFailed, err)
	}

	user := pair.User
	if user == nil {
		user, err = s.cfg.Backend.CurrentUser(ctx)
		if err != nil {
			s.abort(ctx, gen, "profile_failed", true)
			return s.Current(), fmt.Errorf("%w: %w", domain.ErrExchangeFailed, err)
		}
	}

	s.mu.Lock()
	if s.gen != gen {
		// Torn down while the exchange was in flight. The teardown already
		// removed what install put in place.
		s.mu.Unlock()
		return s.Current(), domain.ErrNotAuthenticated
	}
	s.sess = domain.Session{
		State:         domain.StateAuthenticated,
		IdentityToken: identityToken,
		AccessToken:   pair.Access,
		RefreshToken:  pair.Refresh,
		User:          user,
	}
	snap := s.sess.Snapshot()
	s.mu.Unlock()

	s.log.Info().Int64("user_id", user.ID).Str("role", string(user.Role)).Msg("session established")
	s.record(ctx, domain.StateAuthenticating, domain.StateAuthenticated, "established", user)
	s.notify(snap)
	return snap, nil
}

// install persists token and sets it as the default header, provided gen is
// still the live generation. It returns ErrNotAuthenticated when it is not.
func (s *SessionService) install(ctx context.Context, gen uint64, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return domain.ErrNotAuthenticated
	}
	if err := s.cfg.Store.Set(ctx, s.cfg.TokenKey, token); err != nil {
		return err
	}
	s.cfg.Backend.SetAuthToken(token)
	return nil
}

// Rehydrate restores a session from the persisted access token. It is meant
// to run once at process start. A missing, expired or rejected token leaves
// the session anonymous; it is never retried.
func (s *SessionService) Rehydrate(ctx context.Context) (domain.Snapshot, error) {
	s.mu.Lock()
	if s.sess.State != domain.StateAnonymous {
		snap := s.sess.Snapshot()
		s.mu.Unlock()
		return snap, nil
	}
	gen := s.gen
	s.mu.Unlock()

	token, err := s.cfg.Store.Get(ctx, s.cfg.TokenKey)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.log.Warn().Err(err).Msg("failed to read persisted token")
		}
		return s.Current(), nil
	}

	if s.expired(token) {
		s.log.Info().Msg("persisted token expired, discarding")
		s.dropIfCurrent(ctx, gen)
		return s.Current(), nil
	}

	s.mu.Lock()
	if s.gen != gen || s.sess.State != domain.StateAnonymous {
		snap := s.sess.Snapshot()
		s.mu.Unlock()
		return snap, nil
	}
	s.cfg.Backend.SetAuthToken(token)
	s.mu.Unlock()

	user, err := s.cfg.Backend.CurrentUser(ctx)
	if err != nil {
		s.log.Info().Err(err).Msg("persisted token rejected, discarding")
		s.dropIfCurrent(ctx, gen)
		return s.Current(), nil
	}

	s.mu.Lock()
	if s.gen != gen || s.sess.State != domain.StateAnonymous {
		snap := s.sess.Snapshot()
		s.mu.Unlock()
		return snap, nil
	}
	s.sess = domain.Session{
		State:       domain.StateAuthenticated,
		AccessToken: token,
		User:        user,
	}
	snap := s.sess.Snapshot()
	s.mu.Unlock()

	s.log.Info().Int64("user_id", user.ID).Msg("session rehydrated")
	s.record(ctx, domain.StateAnonymous, domain.StateAuthenticated, "rehydrated", user)
	s.notify(snap)
	return snap, nil
}

// dropIfCurrent clears the header and persisted token of a rehydration that
// is still the live generation.
func (s *SessionService) dropIfCurrent(ctx context.Context, gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen || s.sess.State != domain.StateAnonymous {
		return
	}
	s.cfg.Backend.ClearAuthToken()
	s.discard(ctx)
}

// Teardown ends the session. It is safe to call in any state and any number
// of times.
func (s *SessionService) Teardown(ctx context.Context) {
	s.end(ctx, "logout")
}

// Expire ends the session because something outside the user's control
// invalidated it, such as the backend rejecting the token or the identity
// provider reporting a sign-out.
func (s *SessionService) Expire(ctx context.Context, reason string) {
	s.end(ctx, reason)
}

func (s *SessionService) end(ctx context.Context, reason string) {
	s.mu.Lock()
	prev := s.sess.State
	user := s.sess.User
	s.gen++
	s.sess = domain.Session{State: domain.StateAnonymous}
	snap := s.sess.Snapshot()
	s.cfg.Backend.ClearAuthToken()
	s.discard(ctx)
	s.signOut(ctx)
	s.mu.Unlock()

	if s.cfg.Cache != nil {
		s.cfg.Cache.Invalidate()
	}

	if prev != domain.StateAnonymous {
		s.log.Info().Str("reason", reason).Msg("session ended")
		s.record(ctx, prev, domain.StateAnonymous, reason, user)
		s.notify(snap)
	}
}

// begin enters AUTHENTICATING. A live session is ended first so that at most
// one exists per app instance.
func (s *SessionService) begin(ctx context.Context) (uint64, error) {
	s.mu.Lock()
	switch s.sess.State {
	case domain.StateAuthenticating:
		s.mu.Unlock()
		return 0, domain.ErrSessionBusy
	case domain.StateAuthenticated:
		s.mu.Unlock()
		s.end(ctx, "replaced")
		s.mu.Lock()
		if s.sess.State != domain.StateAnonymous {
			s.mu.Unlock()
			return 0, domain.ErrSessionBusy
		}
	}
	s.sess.State = domain.StateAuthenticating
	s.gen++
	gen := s.gen
	snap := s.sess.Snapshot()
	s.mu.Unlock()

	s.record(ctx, domain.StateAnonymous, domain.StateAuthenticating, "sign_in", nil)
	s.notify(snap)
	return gen, nil
}

// abort returns a failed establish of generation gen to ANONYMOUS. With undo
// it also removes the persisted token and signs out of the identity
// provider. A stale gen is left alone: whatever it installed was already
// removed by the teardown that superseded it.
func (s *SessionService) abort(ctx context.Context, gen uint64, reason string, undo bool) {
	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return
	}
	s.gen++
	s.cfg.Backend.ClearAuthToken()
	if undo {
		s.log.Warn().Str("reason", reason).Msg("session establish failed, rolling back")
		s.discard(ctx)
		s.signOut(ctx)
	}
	s.sess = domain.Session{State: domain.StateAnonymous}
	snap := s.sess.Snapshot()
	s.mu.Unlock()

	s.record(ctx, domain.StateAuthenticating, domain.StateAnonymous, reason, nil)
	s.notify(snap)
}

func (s *SessionService) signOut(ctx context.Context) {
	if err := s.cfg.Identity.SignOut(ctx); err != nil {
		s.log.Warn().Err(err).Msg("identity provider sign-out failed")
	}
}

func (s *SessionService) discard(ctx context.Context) {
	if err := s.cfg.Store.Delete(ctx, s.cfg.TokenKey); err != nil && !errors.Is(err, domain.ErrNotFound) {
		s.log.Warn().Err(err).Msg("failed to delete persisted token")
	}
}

// expired reports whether token is a JWT whose exp has passed. Opaque tokens
// are left for the backend to judge.
func (s *SessionService) expired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !exp.After(s.cfg.Now())
}

func (s *SessionService) notify(snap domain.Snapshot) {
	s.mu.Lock()
	fns := make([]func(domain.Snapshot), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

// record writes the transition to the audit trail. Failures are non-fatal.
func (s *SessionService) record(ctx context.Context, from, to domain.SessionState, reason string, user *domain.User) {
	if !from.CanTransitionTo(to) {
		s.log.Error().Str("from", string(from)).Str("to", string(to)).Msg("unexpected session transition")
	}
	if s.cfg.Auditor == nil {
		return
	}
	ev := &domain.SessionEvent{
		ID:        uuid.NewString(),
		App:       s.cfg.App,
		From:      from,
		To:        to,
		Reason:    reason,
		Timestamp: s.cfg.Now().UTC(),
	}
	if user != nil {
		ev.UserID = user.ID
		ev.Role = user.Role
	}
	if err := s.cfg.Auditor.Record(context.WithoutCancel(ctx), ev); err != nil {
		s.log.Warn().Err(err).Str("reason", reason).Msg("failed to record session event")
	}
}
