// internal/client/session/manager.go
package session

import (
	"context"
	"sync"

	"tracksafe-service/internal/client/backend"
	"tracksafe-service/internal/domain/auth"
	wstypes "tracksafe-service/internal/domain/websocket"
	xerrors "tracksafe-service/internal/pkg/errors"

	"go.uber.org/zap"
)

// Snapshot is the externally visible auth state at one point in time.
// IsLoading is true only between startup and the end of the first
// restore attempt.
type Snapshot struct {
	User      *auth.UserInfo
	Profile   *auth.Profile
	IsLoading bool
	// Configured is false when no backend was wired at all; the UI shows
	// a setup notice instead of a login screen.
	Configured bool
}

// SignedIn reports whether the snapshot carries a live session.
func (s Snapshot) SignedIn() bool {
	return s.User != nil
}

// Listener receives a snapshot after every auth state change.
type Listener func(Snapshot)

// Manager owns the client's session and profile state. All operations
// are safe for concurrent use; listeners observe each state change
// exactly once, in order.
type Manager struct {
	backend backend.Backend
	logger  *zap.Logger

	mu      sync.Mutex
	user    *auth.UserInfo
	profile *auth.Profile
	loading bool
	subs    map[int]Listener
	nextSub int
}

// NewManager starts in the loading state: callers cannot tell whether a
// session exists until Restore has run once.
func NewManager(b backend.Backend, logger *zap.Logger) *Manager {
	return &Manager{
		backend: b,
		logger:  logger,
		loading: true,
		subs:    make(map[int]Listener),
	}
}

// Restore probes the cached session token against the backend. A dead or
// missing session resolves to signed-out without error: only the caller's
// UI cares about the difference, and it learns it from the snapshot.
// Restore flips IsLoading to false exactly once, whatever the outcome.
func (m *Manager) Restore(ctx context.Context) error {
	if m.backend == nil {
		m.setState(nil, nil, false)
		return nil
	}

	info, err := m.backend.GetSession(ctx)
	if err != nil {
		if !xerrors.Is(err, xerrors.ErrNotAuthenticated) && !xerrors.Is(err, xerrors.ErrSessionExpired) {
			m.logger.Warn("session restore probe failed", zap.Error(err))
		}
		m.setState(nil, nil, false)
		return nil
	}

	profile := m.fetchProfile(ctx)
	m.setState(info, profile, false)
	return nil
}

// Login exchanges credentials for a session. IsLoading is raised for the
// duration of the exchange. On failure the signed-out state is unchanged
// and the taxonomy error is returned as-is.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	if m.backend == nil {
		return xerrors.ErrBackendNotConfigured
	}

	m.setLoading(true)
	resp, err := m.backend.SignIn(ctx, email, password)
	if err != nil {
		m.setLoading(false)
		return err
	}

	profile := m.fetchProfile(ctx)
	m.setState(&resp.User, profile, false)
	return nil
}

// Signup registers a new account and signs it in. When the backend
// reports ErrProfileWriteFailed the account exists but has no profile;
// the error is surfaced so the caller can tell the user, and no session
// is established.
func (m *Manager) Signup(ctx context.Context, req *auth.RegisterRequest) error {
	if m.backend == nil {
		return xerrors.ErrBackendNotConfigured
	}

	m.setLoading(true)
	resp, err := m.backend.SignUp(ctx, req)
	if err != nil {
		m.setLoading(false)
		return err
	}

	profile := m.fetchProfile(ctx)
	m.setState(&resp.User, profile, false)
	return nil
}

// Logout ends the session. It never fails the caller: the remote
// invalidation is best-effort and local state always clears. Logging out
// while already signed out is a no-op and emits no event.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	signedIn := m.user != nil
	m.mu.Unlock()

	if !signedIn {
		return
	}

	if m.backend != nil {
		if err := m.backend.SignOut(ctx); err != nil {
			m.logger.Warn("remote sign-out failed, clearing local session anyway", zap.Error(err))
		}
	}

	m.setState(nil, nil, false)
}

// UpdateProfile applies a partial update to the signed-in user's profile
// and refreshes the cached copy with the merged result.
func (m *Manager) UpdateProfile(ctx context.Context, patch auth.ProfilePatch) (*auth.Profile, error) {
	if m.backend == nil {
		return nil, xerrors.ErrBackendNotConfigured
	}

	m.mu.Lock()
	user := m.user
	current := m.profile
	m.mu.Unlock()

	if user == nil {
		return nil, xerrors.ErrNotAuthenticated
	}
	if patch.Empty() {
		return current, nil
	}

	updated, err := m.backend.UpdateProfile(ctx, patch)
	if err != nil {
		return nil, err
	}

	m.setState(user, updated, false)
	return updated, nil
}

// Subscribe registers a listener and immediately delivers the current
// snapshot to it. The returned cancel func is idempotent.
func (m *Manager) Subscribe(l Listener) (cancel func()) {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = l
	snap := m.snapshotLocked()
	m.mu.Unlock()

	l(snap)

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs, id)
			m.mu.Unlock()
		})
	}
}

// Snapshot returns the current auth state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// HandleEvent reconciles a server-pushed session event into local state.
// A signed-out or force-logout event for the current account clears the
// session; everything else is ignored.
func (m *Manager) HandleEvent(evt backend.AuthEvent) {
	m.mu.Lock()
	user := m.user
	m.mu.Unlock()

	if user == nil {
		return
	}

	switch evt.Type {
	case wstypes.EventTypeSignedOut, wstypes.EventTypeForceLogout:
		if evt.Data.AccountID == "" || evt.Data.AccountID == user.AccountID {
			m.logger.Info("session ended remotely", zap.String("reason", evt.Data.Reason))
			m.setState(nil, nil, false)
		}
	}
}

// Pump feeds server-pushed session events into the manager until the
// channel closes or ctx ends. Run it in its own goroutine.
func (m *Manager) Pump(ctx context.Context, events <-chan backend.AuthEvent) {
	for {
		select {
		case evt, ok := <-events:
			if !ok {
				return
			}
			m.HandleEvent(evt)
		case <-ctx.Done():
			return
		}
	}
}

// fetchProfile loads the profile without failing the auth flow. A login
// with an unreadable profile is still a login.
func (m *Manager) fetchProfile(ctx context.Context) *auth.Profile {
	profile, err := m.backend.GetProfile(ctx)
	if err != nil {
		m.logger.Warn("failed to load profile", zap.Error(err))
		return nil
	}
	return profile
}

func (m *Manager) snapshotLocked() Snapshot {
	return Snapshot{
		User:       m.user,
		Profile:    m.profile,
		IsLoading:  m.loading,
		Configured: m.backend != nil,
	}
}

// setState commits a state transition and notifies listeners exactly
// once, outside the lock.
// setLoading flips the loading flag without touching user or profile.
func (m *Manager) setLoading(loading bool) {
	m.mu.Lock()
	m.loading = loading
	snap := m.snapshotLocked()
	listeners := make([]Listener, 0, len(m.subs))
	for _, l := range m.subs {
		listeners = append(listeners, l)
	}
	m.mu.Unlock()

	for _, l := range listeners {
		l(snap)
	}
}

func (m *Manager) setState(user *auth.UserInfo, profile *auth.Profile, loading bool) {
	m.mu.Lock()
	m.user = user
	m.profile = profile
	m.loading = loading
	snap := m.snapshotLocked()
	listeners := make([]Listener, 0, len(m.subs))
	for _, l := range m.subs {
		listeners = append(listeners, l)
	}
	m.mu.Unlock()

	for _, l := range listeners {
		l(snap)
	}
}
