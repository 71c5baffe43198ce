// Package session owns the authentication state for redeemctl
package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/gift-redeem/redeemctl/internal/api"
	"github.com/gift-redeem/redeemctl/internal/model"
	"github.com/gift-redeem/redeemctl/internal/storage"
)

// AuthService is the slice of the endpoint layer the store consumes
type AuthService interface {
	Providers(ctx context.Context) ([]model.Provider, error)
	LoginURL(ctx context.Context, provider string) (string, error)
	ExchangeCallback(ctx context.Context, provider, code, state string) (*api.CallbackResult, error)
	VerifyCode(ctx context.Context, provider, code string) (*api.CallbackResult, error)
	Profile(ctx context.Context) (*model.User, error)
}

// Store holds the session: token, user profile, and the provider list.
// A non-empty token is what makes the session authenticated; the user
// profile may lag behind it (a stale token with no fetched profile is a
// valid transient state).
//
// The loading/lastErr pair is shared across all operations on the store.
// Concurrent operations race on it and the flags reflect whichever call
// finishes last; per-call tracking is deliberately not provided.
type Store struct {
	auth   AuthService
	kv     storage.Store
	logger *slog.Logger

	mu        sync.Mutex
	token     string
	user      *model.User
	providers []model.Provider
	loading   bool
	lastErr   string
}

// NewStore creates a session store, restoring any persisted token and
// user profile from the key-value state.
func NewStore(auth AuthService, kv storage.Store, logger *slog.Logger) *Store {
	s := &Store{
		auth:   auth,
		kv:     kv,
		logger: logger,
	}

	if token, ok := kv.Get(storage.KeyToken); ok {
		s.token = token
	}
	if raw, ok := kv.Get(storage.KeyUser); ok {
		var u model.User
		if err := json.Unmarshal([]byte(raw), &u); err != nil {
			logger.Warn("discarding unreadable persisted user profile", "error", err)
		} else {
			s.user = &u
		}
	}

	return s
}

// Token returns the current bearer token; empty when unauthenticated
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// IsAuthenticated reports whether a token is present
func (s *Store) IsAuthenticated() bool {
	return s.Token() != ""
}

// UserProfile returns the current user, or nil when none has been set
func (s *Store) UserProfile() *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Providers returns the last fetched provider list in server order
func (s *Store) Providers() []model.Provider {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.providers
}

// Loading reports whether an operation is in flight
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the message of the last failed operation, empty if the
// most recent operation succeeded
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// begin marks an operation as started
func (s *Store) begin() {
	s.mu.Lock()
	s.loading = true
	s.lastErr = ""
	s.mu.Unlock()
}

// finish clears the loading flag and records the failure, if any
func (s *Store) finish(err error) {
	s.mu.Lock()
	s.loading = false
	if err != nil {
		s.lastErr = err.Error()
	}
	s.mu.Unlock()
}

// FetchProviders replaces the provider list with the server's
func (s *Store) FetchProviders(ctx context.Context) ([]model.Provider, error) {
	s.begin()
	providers, err := s.auth.Providers(ctx)
	s.finish(err)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.providers = providers
	s.mu.Unlock()
	return providers, nil
}

// LoginURL returns the authorization URL for a provider. The provider
// list and session are left untouched.
func (s *Store) LoginURL(ctx context.Context, provider string) (string, error) {
	s.begin()
	authURL, err := s.auth.LoginURL(ctx, provider)
	s.finish(err)
	if err != nil {
		return "", err
	}
	return authURL, nil
}

// HandleCallback exchanges the authorization code/state pair for a
// token and user, then sets both atomically and persists them.
func (s *Store) HandleCallback(ctx context.Context, provider, code, state string) (*api.CallbackResult, error) {
	s.begin()
	result, err := s.auth.ExchangeCallback(ctx, provider, code, state)
	s.finish(err)
	if err != nil {
		return nil, err
	}

	s.SetAuth(result.Token, &result.User)
	return result, nil
}

// VerifyCode exchanges a client-received authorization code for a token
// and user. Used when the redirect lands on the CLI's own listener and
// the server-side state round trip is not available.
func (s *Store) VerifyCode(ctx context.Context, provider, code string) (*api.CallbackResult, error) {
	s.begin()
	result, err := s.auth.VerifyCode(ctx, provider, code)
	s.finish(err)
	if err != nil {
		return nil, err
	}

	s.SetAuth(result.Token, &result.User)
	return result, nil
}

// FetchProfile refreshes the user profile from the server. Returns nil
// without a network call when the session is unauthenticated.
func (s *Store) FetchProfile(ctx context.Context) (*model.User, error) {
	if !s.IsAuthenticated() {
		return nil, nil
	}

	s.begin()
	user, err := s.auth.Profile(ctx)
	s.finish(err)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
	s.persistUser(user)
	return user, nil
}

// SetAuth sets the token and user together and persists both. It never
// fails; persistence problems are logged and the in-memory session
// still takes effect.
func (s *Store) SetAuth(token string, user *model.User) {
	s.mu.Lock()
	s.token = token
	s.user = user
	s.mu.Unlock()

	if err := s.kv.Set(storage.KeyToken, token); err != nil {
		s.logger.Warn("persisting token failed", "error", err)
	}
	s.persistUser(user)
}

// Logout clears the session and the persisted entries. No network call
// is made; it never fails.
func (s *Store) Logout() {
	s.clear()
	s.logger.Debug("logged out")
}

// InvalidateSession is the forced-invalidation path registered as the
// gateway's unauthorized observer. It clears the same state as Logout.
func (s *Store) InvalidateSession() {
	s.clear()
	s.logger.Debug("session invalidated by server")
}

func (s *Store) clear() {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	if err := s.kv.Remove(storage.KeyToken); err != nil {
		s.logger.Warn("removing persisted token failed", "error", err)
	}
	if err := s.kv.Remove(storage.KeyUser); err != nil {
		s.logger.Warn("removing persisted user failed", "error", err)
	}
}

func (s *Store) persistUser(user *model.User) {
	if user == nil {
		if err := s.kv.Remove(storage.KeyUser); err != nil {
			s.logger.Warn("removing persisted user failed", "error", err)
		}
		return
	}
	raw, err := json.Marshal(user)
	if err != nil {
		s.logger.Warn("serializing user profile failed", "error", err)
		return
	}
	if err := s.kv.Set(storage.KeyUser, string(raw)); err != nil {
		s.logger.Warn("persisting user profile failed", "error", err)
	}
}
