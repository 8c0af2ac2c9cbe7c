package favorites_test

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/country-explorer/internal/domain"
	"github.com/country-explorer/internal/explorer/favorites"
	"github.com/country-explorer/internal/pkg/errors"
)

type fakeBackend struct {
	favorites []string
	fetchErr  error
	addErr    error
	removeErr error

	addCalls    []string
	removeCalls []string
	lastToken   string
}

func (b *fakeBackend) GetFavorites(_ context.Context, token string) ([]string, error) {
	b.lastToken = token
	if b.fetchErr != nil {
		return nil, b.fetchErr
	}
	return b.favorites, nil
}

func (b *fakeBackend) AddFavorite(_ context.Context, token, code string) error {
	b.lastToken = token
	b.addCalls = append(b.addCalls, code)
	return b.addErr
}

func (b *fakeBackend) RemoveFavorite(_ context.Context, token, code string) error {
	b.lastToken = token
	b.removeCalls = append(b.removeCalls, code)
	return b.removeErr
}

type fakeSessions struct {
	current     *domain.Session
	invalidated bool
	listeners   []func(*domain.Session)
}

func (s *fakeSessions) Current() *domain.Session { return s.current }

func (s *fakeSessions) Invalidate() {
	s.invalidated = true
	s.switchTo(nil)
}

func (s *fakeSessions) OnChange(fn func(*domain.Session)) {
	s.listeners = append(s.listeners, fn)
}

func (s *fakeSessions) switchTo(sess *domain.Session) {
	s.current = sess
	for _, fn := range s.listeners {
		fn(sess)
	}
}

func activeSession(token string) *domain.Session {
	return &domain.Session{
		Token: token,
		User:  domain.UserInfo{ID: "u-" + token, Username: "user", Email: "user@example.com"},
	}
}

func TestSynchronizerRefresh(t *testing.T) {
	t.Run("replaces the local set with the server's", func(t *testing.T) {
		backend := &fakeBackend{favorites: []string{"FRA", "JPN"}}
		sessions := &fakeSessions{current: activeSession("tok")}
		sync := favorites.NewSynchronizer(backend, sessions, zap.NewNop())

		require.NoError(t, sync.Refresh(context.Background()))

		assert.True(t, sync.Loaded())
		assert.Equal(t, []string{"FRA", "JPN"}, sync.Codes())
		assert.Equal(t, "tok", backend.lastToken)
	})

	t.Run("no-op without a session", func(t *testing.T) {
		backend := &fakeBackend{favorites: []string{"FRA"}}
		sessions := &fakeSessions{}
		sync := favorites.NewSynchronizer(backend, sessions, zap.NewNop())

		require.NoError(t, sync.Refresh(context.Background()))

		assert.False(t, sync.Loaded())
		assert.Empty(t, sync.Codes())
	})

	t.Run("rejected token invalidates the session", func(t *testing.T) {
		backend := &fakeBackend{fetchErr: errors.ErrUnauthorized}
		sessions := &fakeSessions{current: activeSession("stale")}
		sync := favorites.NewSynchronizer(backend, sessions, zap.NewNop())

		err := sync.Refresh(context.Background())

		require.Error(t, err)
		assert.True(t, sessions.invalidated)
		assert.Nil(t, sessions.Current())
		assert.False(t, sync.Loaded())
	})
}

func TestSynchronizerToggle(t *testing.T) {
	t.Run("toggling twice restores the original set", func(t *testing.T) {
		backend := &fakeBackend{}
		sessions := &fakeSessions{current: activeSession("tok")}
		sync := favorites.NewSynchronizer(backend, sessions, zap.NewNop())
		require.NoError(t, sync.Refresh(context.Background()))

		require.NoError(t, sync.Toggle(context.Background(), "FRA"))
		assert.True(t, sync.IsFavorite("FRA"))

		require.NoError(t, sync.Toggle(context.Background(), "FRA"))
		assert.False(t, sync.IsFavorite("FRA"))

		assert.Equal(t, []string{"FRA"}, backend.addCalls)
		assert.Equal(t, []string{"FRA"}, backend.removeCalls)
	})

	t.Run("failed toggle reverts the optimistic flip", func(t *testing.T) {
		backend := &fakeBackend{addErr: errors.ErrNetworkFailure}
		sessions := &fakeSessions{current: activeSession("tok")}
		sync := favorites.NewSynchronizer(backend, sessions, zap.NewNop())
		require.NoError(t, sync.Refresh(context.Background()))

		err := sync.Toggle(context.Background(), "FRA")

		require.Error(t, err)
		assert.False(t, sync.IsFavorite("FRA"))
		assert.Empty(t, sync.Codes())
	})

	t.Run("failed removal puts the code back", func(t *testing.T) {
		backend := &fakeBackend{favorites: []string{"FRA"}, removeErr: errors.ErrNetworkFailure}
		sessions := &fakeSessions{current: activeSession("tok")}
		sync := favorites.NewSynchronizer(backend, sessions, zap.NewNop())
		require.NoError(t, sync.Refresh(context.Background()))

		err := sync.Toggle(context.Background(), "FRA")

		require.Error(t, err)
		assert.True(t, sync.IsFavorite("FRA"))
	})

	t.Run("no-op without a session", func(t *testing.T) {
		backend := &fakeBackend{}
		sessions := &fakeSessions{}
		sync := favorites.NewSynchronizer(backend, sessions, zap.NewNop())

		require.NoError(t, sync.Toggle(context.Background(), "FRA"))

		assert.Empty(t, backend.addCalls)
		assert.False(t, sync.IsFavorite("FRA"))
	})

	t.Run("rejected token invalidates the session", func(t *testing.T) {
		backend := &fakeBackend{addErr: errors.ErrUnauthorized}
		sessions := &fakeSessions{current: activeSession("stale")}
		sync := favorites.NewSynchronizer(backend, sessions, zap.NewNop())

		err := sync.Toggle(context.Background(), "FRA")

		require.Error(t, err)
		assert.True(t, sessions.invalidated)
	})
}

// blockingBackend parks AddFavorite until released so a second toggle can race
// the first.
type blockingBackend struct {
	fakeBackend
	entered chan struct{}
	release chan struct{}
}

func (b *blockingBackend) AddFavorite(_ context.Context, token, code string) error {
	close(b.entered)
	<-b.release
	return nil
}

func TestSynchronizerTogglesSerializePerCode(t *testing.T) {
	backend := &blockingBackend{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	sessions := &fakeSessions{current: activeSession("tok")}
	sync := favorites.NewSynchronizer(backend, sessions, zap.NewNop())

	done := make(chan error, 1)
	go func() {
		done <- sync.Toggle(context.Background(), "FRA")
	}()
	<-backend.entered

	err := sync.Toggle(context.Background(), "FRA")
	assert.True(t, stderrors.Is(err, favorites.ErrTogglePending))

	close(backend.release)
	require.NoError(t, <-done)
	assert.True(t, sync.IsFavorite("FRA"))
}

// blockingRemoveBackend parks RemoveFavorite until released so the session
// can change underneath an in-flight toggle.
type blockingRemoveBackend struct {
	fakeBackend
	entered chan struct{}
	release chan struct{}
	err     error
}

func (b *blockingRemoveBackend) RemoveFavorite(_ context.Context, _, _ string) error {
	close(b.entered)
	<-b.release
	return b.err
}

func TestSynchronizerStaleToggleDoesNotLeakAcrossSessions(t *testing.T) {
	backend := &blockingRemoveBackend{
		fakeBackend: fakeBackend{favorites: []string{"FRA"}},
		entered:     make(chan struct{}),
		release:     make(chan struct{}),
		err:         errors.ErrUnauthorized,
	}
	sessions := &fakeSessions{current: activeSession("alice")}
	sync := favorites.NewSynchronizer(backend, sessions, zap.NewNop())
	require.NoError(t, sync.Refresh(context.Background()))

	done := make(chan error, 1)
	go func() {
		done <- sync.Toggle(context.Background(), "FRA")
	}()
	<-backend.entered

	// Alice signs out mid-call; Bob signs in with no favorites.
	sessions.switchTo(activeSession("bob"))
	backend.favorites = nil
	require.NoError(t, sync.Refresh(context.Background()))

	// The failed removal must not revert into Bob's set, and the stale 401
	// must not invalidate Bob's session.
	close(backend.release)
	require.NoError(t, <-done)
	assert.False(t, sync.IsFavorite("FRA"))
	assert.Empty(t, sync.Codes())
	assert.False(t, sessions.invalidated)

	// Nor may Alice's abandoned call keep Bob's first toggle pending.
	require.NoError(t, sync.Toggle(context.Background(), "FRA"))
	assert.True(t, sync.IsFavorite("FRA"))
	assert.Equal(t, []string{"FRA"}, backend.addCalls)
}

// blockingFetchBackend parks GetFavorites the same way.
type blockingFetchBackend struct {
	fakeBackend
	entered chan struct{}
	release chan struct{}
}

func (b *blockingFetchBackend) GetFavorites(_ context.Context, _ string) ([]string, error) {
	close(b.entered)
	<-b.release
	return b.favorites, nil
}

func TestSynchronizerStaleRefreshIsDiscarded(t *testing.T) {
	backend := &blockingFetchBackend{
		fakeBackend: fakeBackend{favorites: []string{"FRA", "DEU"}},
		entered:     make(chan struct{}),
		release:     make(chan struct{}),
	}
	sessions := &fakeSessions{current: activeSession("alice")}
	sync := favorites.NewSynchronizer(backend, sessions, zap.NewNop())

	done := make(chan error, 1)
	go func() {
		done <- sync.Refresh(context.Background())
	}()
	<-backend.entered

	sessions.switchTo(activeSession("bob"))

	close(backend.release)
	require.NoError(t, <-done)
	assert.False(t, sync.Loaded())
	assert.Empty(t, sync.Codes())
}

func TestSynchronizerSessionChangeClearsSet(t *testing.T) {
	backend := &fakeBackend{favorites: []string{"FRA", "DEU"}}
	sessions := &fakeSessions{current: activeSession("alice")}
	sync := favorites.NewSynchronizer(backend, sessions, zap.NewNop())
	require.NoError(t, sync.Refresh(context.Background()))
	require.Equal(t, []string{"DEU", "FRA"}, sync.Codes())

	// Switching users must not leave the previous set visible, not even
	// before the new session's first refresh completes.
	sessions.switchTo(activeSession("bob"))

	assert.Empty(t, sync.Codes())
	assert.False(t, sync.Loaded())

	backend.favorites = []string{"JPN"}
	require.NoError(t, sync.Refresh(context.Background()))
	assert.Equal(t, []string{"JPN"}, sync.Codes())
}

func TestSynchronizerSnapshot(t *testing.T) {
	backend := &fakeBackend{favorites: []string{"FRA"}}
	sessions := &fakeSessions{current: activeSession("tok")}
	sync := favorites.NewSynchronizer(backend, sessions, zap.NewNop())
	require.NoError(t, sync.Refresh(context.Background()))

	snap := sync.Snapshot()

	assert.True(t, snap.Active)
	assert.True(t, snap.Loaded)
	assert.Contains(t, snap.Codes, "FRA")

	// The snapshot is a copy; mutating it leaves the synchronizer untouched.
	delete(snap.Codes, "FRA")
	assert.True(t, sync.IsFavorite("FRA"))
}
