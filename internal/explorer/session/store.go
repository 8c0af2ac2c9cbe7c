package session

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/country-explorer/internal/domain"
)

// Authenticator - the backend auth operations the store depends on.
type Authenticator interface {
	Register(ctx context.Context, username, email, password string) (*domain.Session, error)
	Login(ctx context.Context, email, password string) (*domain.Session, error)
}

// Store holds the single active session for this client instance. It
// rehydrates from persisted storage at startup and never validates the
// credential proactively: an Unauthorized response on a later authenticated
// call triggers Invalidate, which performs the same cleanup as Logout.
type Store struct {
	auth    Authenticator
	storage *Storage
	logger  *zap.Logger

	mu        sync.Mutex
	current   *domain.Session
	listeners []func(*domain.Session)
}

func NewStore(auth Authenticator, storage *Storage, logger *zap.Logger) *Store {
	s := &Store{
		auth:    auth,
		storage: storage,
		logger:  logger,
	}

	if sess := storage.LoadSession(); sess != nil {
		s.current = sess
		logger.Info("Session rehydrated", zap.String("username", sess.User.Username))
	}

	return s
}

// Current returns the active session, or nil when signed out.
func (s *Store) Current() *domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// OnChange registers a listener invoked after every session transition,
// including logout (nil session). Listeners run synchronously so consumers
// never observe state from a previous session.
func (s *Store) OnChange(fn func(*domain.Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Register creates an account; on success the session is active immediately,
// no separate login step.
func (s *Store) Register(ctx context.Context, username, email, password string) (*domain.Session, error) {
	sess, err := s.auth.Register(ctx, username, email, password)
	if err != nil {
		return nil, err
	}

	s.activate(sess)
	return sess, nil
}

func (s *Store) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	sess, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	s.activate(sess)
	return sess, nil
}

// Logout always succeeds locally, whether or not the backend is reachable.
func (s *Store) Logout() {
	s.mu.Lock()
	if err := s.storage.ClearSession(); err != nil {
		s.logger.Warn("Failed to clear persisted session", zap.Error(err))
	}
	s.current = nil
	listeners := s.listeners
	s.mu.Unlock()

	s.logger.Info("Logged out")
	for _, fn := range listeners {
		fn(nil)
	}
}

// Invalidate - reactive credential invalidation: the backend rejected the
// token, so discard it exactly as Logout does.
func (s *Store) Invalidate() {
	s.logger.Warn("Session credential rejected by backend, clearing")
	s.Logout()
}

// DarkMode reads the persisted preference slot.
func (s *Store) DarkMode() bool {
	return s.storage.LoadDarkMode()
}

func (s *Store) SetDarkMode(enabled bool) {
	if err := s.storage.SaveDarkMode(enabled); err != nil {
		s.logger.Warn("Failed to persist dark mode preference", zap.Error(err))
	}
}

func (s *Store) activate(sess *domain.Session) {
	s.mu.Lock()
	if err := s.storage.SaveSession(sess); err != nil {
		s.logger.Warn("Failed to persist session", zap.Error(err))
	}
	s.current = sess
	listeners := s.listeners
	s.mu.Unlock()

	s.logger.Info("Session active", zap.String("username", sess.User.Username))
	for _, fn := range listeners {
		fn(sess)
	}
}
