package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"storefront/internal/logger"
	"storefront/internal/schema"

	"go.uber.org/zap"
)

// Authenticator is the slice of the API client the session needs.
type Authenticator interface {
	Login(ctx context.Context, in schema.Login) (schema.User, error)
	Signup(ctx context.Context, in schema.Signup) (schema.User, error)
}

// Store owns the current session. Transitions go through Reduce; the
// network call happens outside the lock and its result is applied in one
// step.
type Store struct {
	mu      sync.RWMutex
	state   State
	api     Authenticator
	persist Persister
	now     func() time.Time
}

type Option func(*Store)

// WithClock overrides time.Now for the token expiry check.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore restores the session saved in persist. A missing, unreadable,
// malformed or expired entry leaves the store anonymous.
func NewStore(ctx context.Context, api Authenticator, persist Persister, opts ...Option) *Store {
	s := &Store{
		state:   Initial(),
		api:     api,
		persist: persist,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.restore(ctx)
	return s
}

func (s *Store) restore(ctx context.Context) {
	log := logger.ForLayer(ctx, "session", "restore")

	raw, ok, err := s.persist.Load(StorageKey)
	if err != nil {
		log.Warn("failed to read saved session", zap.Error(err))
		s.dispatch(LoadFailed{})
		return
	}
	if !ok {
		s.dispatch(LoadFailed{})
		return
	}

	u, err := schema.ParseUser(raw)
	if err != nil {
		log.Warn("saved session is malformed", zap.Error(err))
		s.dispatch(LoadFailed{})
		return
	}
	if tokenExpired(u.Token, s.now()) {
		log.Info("saved session token expired", zap.String("user_id", u.ID))
		s.dispatch(LoadFailed{})
		return
	}

	s.dispatch(UserLoaded{User: u})
	log.Debug("session restored", zap.String("user_id", u.ID))
}

func (s *Store) dispatch(e Event) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, e)
	return s.state
}

// Login signs in and persists the returned user. On failure the session is
// anonymous, the durable store is untouched and the error is returned for
// display.
func (s *Store) Login(ctx context.Context, email, password string) error {
	return s.authenticate(ctx, "Login", func() (schema.User, error) {
		return s.api.Login(ctx, schema.Login{Email: email, Password: password})
	})
}

func (s *Store) Signup(ctx context.Context, username, email, password string) error {
	return s.authenticate(ctx, "Signup", func() (schema.User, error) {
		return s.api.Signup(ctx, schema.Signup{Username: username, Email: email, Password: password})
	})
}

func (s *Store) authenticate(ctx context.Context, method string, call func() (schema.User, error)) error {
	log := logger.ForLayer(ctx, "session", method)
	s.dispatch(LoginStarted{})

	u, err := call()
	if err != nil {
		s.dispatch(LoginFailed{})
		log.Info("authentication failed", zap.Error(err))
		return err
	}

	raw, err := json.Marshal(u)
	if err == nil {
		err = s.persist.Save(StorageKey, raw)
	}
	if err != nil {
		s.dispatch(LoginFailed{})
		log.Error("failed to persist session", zap.Error(err))
		return fmt.Errorf("save session: %w", err)
	}

	s.dispatch(LoginSucceeded{User: u})
	log.Info("authenticated", zap.String("user_id", u.ID), zap.Bool("admin", u.Admin))
	return nil
}

// Logout clears the durable entry and goes anonymous. It never fails; a
// storage error is only logged.
func (s *Store) Logout() {
	if err := s.persist.Remove(StorageKey); err != nil {
		logger.L().Warn("failed to remove saved session", zap.Error(err))
	}
	s.dispatch(LoggedOut{})
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := s.state
	if st.User != nil {
		u := *st.User
		st.User = &u
	}
	return st
}

func (s *Store) User() (schema.User, bool) {
	st := s.State()
	if !st.IsAuthenticated() {
		return schema.User{}, false
	}
	return *st.User, true
}

// Token is the bearer credential, or "" when anonymous.
func (s *Store) Token() string {
	u, ok := s.User()
	if !ok {
		return ""
	}
	return u.Token
}

func (s *Store) IsAuthenticated() bool {
	return s.State().IsAuthenticated()
}

func (s *Store) IsAdmin() bool {
	u, ok := s.User()
	return ok && u.Admin
}
