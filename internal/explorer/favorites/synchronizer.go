package favorites

import (
	"context"
	stderrors "errors"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/country-explorer/internal/domain"
	"github.com/country-explorer/internal/pkg/errors"
)

// ErrTogglePending - a toggle for this code is already in flight. The caller
// ignores it; the first toggle's resolution wins.
var ErrTogglePending = stderrors.New("favorites: toggle already pending for code")

// Backend - the favorites operations of the API client.
type Backend interface {
	GetFavorites(ctx context.Context, token string) ([]string, error)
	AddFavorite(ctx context.Context, token, code string) error
	RemoveFavorite(ctx context.Context, token, code string) error
}

// SessionSource - what the synchronizer needs from the session store.
type SessionSource interface {
	Current() *domain.Session
	Invalidate()
	OnChange(func(*domain.Session))
}

// Snapshot - read-only view of the local favorite set for consumers. Loaded
// distinguishes "not fetched yet" from "fetched and empty".
type Snapshot struct {
	Active bool
	Loaded bool
	Codes  map[string]struct{}
}

// Synchronizer mirrors the server-side favorite set for the active session.
// The mirror may diverge from the server only while a toggle is in flight:
// the local flag flips optimistically and reverts if the call fails. Toggles
// on the same code serialize; a second one is rejected while the first is
// pending.
type Synchronizer struct {
	backend  Backend
	sessions SessionSource
	logger   *zap.Logger

	mu      sync.Mutex
	set     map[string]struct{}
	loaded  bool
	epoch   uint64
	pending map[string]struct{}
}

func NewSynchronizer(backend Backend, sessions SessionSource, logger *zap.Logger) *Synchronizer {
	s := &Synchronizer{
		backend:  backend,
		sessions: sessions,
		logger:   logger,
		set:      make(map[string]struct{}),
		pending:  make(map[string]struct{}),
	}

	// Any session transition discards the set so a new session never sees the
	// previous user's favorites, even transiently. The new session's set
	// arrives with the next Refresh.
	sessions.OnChange(func(*domain.Session) {
		s.Clear()
	})

	return s
}

// Refresh fully replaces the local set with the server's. Called whenever a
// session becomes active, including after rehydration.
func (s *Synchronizer) Refresh(ctx context.Context) error {
	sess := s.sessions.Current()
	if sess == nil {
		return nil
	}

	s.mu.Lock()
	epoch := s.epoch
	s.mu.Unlock()

	codes, err := s.backend.GetFavorites(ctx, sess.Token)
	if err != nil {
		if stderrors.Is(err, errors.ErrUnauthorized) {
			s.sessions.Invalidate()
		}
		s.logger.Warn("Failed to fetch favorites", zap.Error(err))
		return err
	}

	set := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		set[code] = struct{}{}
	}

	s.mu.Lock()
	if s.epoch != epoch {
		// The session changed while the fetch was in flight; this result
		// belongs to the previous session.
		s.mu.Unlock()
		s.logger.Debug("Discarding stale favorites fetch")
		return nil
	}
	s.set = set
	s.loaded = true
	s.mu.Unlock()

	s.logger.Debug("Favorites refreshed", zap.Int("count", len(codes)))
	return nil
}

// Toggle optimistically flips the favorite flag for code, then confirms with
// the backend. On failure the flag reverts to its pre-toggle state and the
// error is returned for a transient notice; there is no automatic retry.
// Without an active session Toggle is a no-op.
func (s *Synchronizer) Toggle(ctx context.Context, code string) error {
	sess := s.sessions.Current()
	if sess == nil {
		return nil
	}

	s.mu.Lock()
	if _, inFlight := s.pending[code]; inFlight {
		s.mu.Unlock()
		return ErrTogglePending
	}
	_, wasFavorite := s.set[code]
	target := !wasFavorite
	if target {
		s.set[code] = struct{}{}
	} else {
		delete(s.set, code)
	}
	s.pending[code] = struct{}{}
	epoch := s.epoch
	s.mu.Unlock()

	var err error
	if target {
		err = s.backend.AddFavorite(ctx, sess.Token, code)
	} else {
		err = s.backend.RemoveFavorite(ctx, sess.Token, code)
	}

	s.mu.Lock()
	if s.epoch != epoch {
		// The session changed while the call was in flight. Clear already
		// reset the set and the pending map, so neither a revert nor an
		// invalidation may touch the new session's state.
		s.mu.Unlock()
		s.logger.Debug("Discarding stale toggle result", zap.String("code", code))
		return nil
	}
	delete(s.pending, code)
	if err != nil {
		// Revert the optimistic flip.
		if wasFavorite {
			s.set[code] = struct{}{}
		} else {
			delete(s.set, code)
		}
	}
	s.mu.Unlock()

	if err != nil {
		if stderrors.Is(err, errors.ErrUnauthorized) {
			s.sessions.Invalidate()
		}
		s.logger.Warn("Favorite toggle failed, reverted",
			zap.String("code", code),
			zap.Bool("target", target),
			zap.Error(err))
		return err
	}

	return nil
}

func (s *Synchronizer) IsFavorite(code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.set[code]
	return ok
}

// Codes returns the current set, sorted for stable rendering.
func (s *Synchronizer) Codes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.set))
	for code := range s.set {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

func (s *Synchronizer) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Clear discards the set, its loaded flag and any pending toggles. Bumping
// the epoch orphans in-flight calls: their results are dropped on arrival so
// the previous session cannot write into the new one.
func (s *Synchronizer) Clear() {
	s.mu.Lock()
	s.set = make(map[string]struct{})
	s.loaded = false
	s.epoch++
	s.pending = make(map[string]struct{})
	s.mu.Unlock()
}

// Snapshot captures the inputs the view engine needs in one locked read.
func (s *Synchronizer) Snapshot() Snapshot {
	active := s.sessions.Current() != nil

	s.mu.Lock()
	defer s.mu.Unlock()
	codes := make(map[string]struct{}, len(s.set))
	for code := range s.set {
		codes[code] = struct{}{}
	}
	return Snapshot{
		Active: active,
		Loaded: s.loaded,
		Codes:  codes,
	}
}
