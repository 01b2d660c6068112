// internal/client/session/manager_test.go
package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"tracksafe-service/internal/client/backend"
	"tracksafe-service/internal/domain/auth"
	"tracksafe-service/internal/domain/location"
	wstypes "tracksafe-service/internal/domain/websocket"
	xerrors "tracksafe-service/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeBackend struct {
	mu sync.Mutex

	user    auth.UserInfo
	profile auth.Profile

	signInErr  error
	signUpErr  error
	sessionErr error
	signOutErr error
	updateErr  error

	signOutCalls int
	lastPatch    *auth.ProfilePatch
}

func (f *fakeBackend) SignIn(ctx context.Context, email, password string) (*auth.LoginResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return &auth.LoginResponse{AccessToken: "tok", User: f.user}, nil
}

func (f *fakeBackend) SignUp(ctx context.Context, req *auth.RegisterRequest) (*auth.LoginResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.signUpErr != nil {
		return nil, f.signUpErr
	}
	return &auth.LoginResponse{AccessToken: "tok", User: f.user}, nil
}

func (f *fakeBackend) SignOut(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signOutCalls++
	return f.signOutErr
}

func (f *fakeBackend) GetSession(ctx context.Context) (*auth.UserInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sessionErr != nil {
		return nil, f.sessionErr
	}
	u := f.user
	return &u, nil
}

func (f *fakeBackend) GetProfile(ctx context.Context) (*auth.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.profile
	return &p, nil
}

func (f *fakeBackend) UpdateProfile(ctx context.Context, patch auth.ProfilePatch) (*auth.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.lastPatch = &patch
	patch.Apply(&f.profile)
	p := f.profile
	return &p, nil
}

func (f *fakeBackend) RecordLocation(ctx context.Context, req *location.RecordRequest) (*location.Sample, error) {
	return &location.Sample{ID: "s1"}, nil
}

func (f *fakeBackend) NearbyServices(ctx context.Context, lat, lon float64, kind location.ServiceKind) ([]location.NearbyService, error) {
	return nil, xerrors.ErrNotFound
}

func newTestBackend() *fakeBackend {
	return &fakeBackend{
		user:    auth.UserInfo{AccountID: "acc-1", Email: "jane@example.com", FullName: "Jane Doe"},
		profile: auth.Profile{AccountID: "acc-1", Email: "jane@example.com", FullName: "Jane Doe"},
	}
}

func TestManagerStartsLoading(t *testing.T) {
	m := NewManager(newTestBackend(), zap.NewNop())

	snap := m.Snapshot()
	assert.True(t, snap.IsLoading)
	assert.False(t, snap.SignedIn())
}

func TestRestoreLiveSession(t *testing.T) {
	m := NewManager(newTestBackend(), zap.NewNop())

	require.NoError(t, m.Restore(context.Background()))

	snap := m.Snapshot()
	assert.False(t, snap.IsLoading)
	require.True(t, snap.SignedIn())
	assert.Equal(t, "acc-1", snap.User.AccountID)
	require.NotNil(t, snap.Profile)
	assert.Equal(t, "Jane Doe", snap.Profile.FullName)
}

func TestRestoreDeadSessionResolvesSignedOut(t *testing.T) {
	b := newTestBackend()
	b.sessionErr = xerrors.ErrSessionExpired
	m := NewManager(b, zap.NewNop())

	// A dead session is a normal outcome, not an error
	require.NoError(t, m.Restore(context.Background()))

	snap := m.Snapshot()
	assert.False(t, snap.IsLoading)
	assert.False(t, snap.SignedIn())
}

func TestRestoreWithoutBackend(t *testing.T) {
	m := NewManager(nil, zap.NewNop())

	require.NoError(t, m.Restore(context.Background()))

	snap := m.Snapshot()
	assert.False(t, snap.IsLoading)
	assert.False(t, snap.SignedIn())
}

func TestLoginSuccess(t *testing.T) {
	m := NewManager(newTestBackend(), zap.NewNop())

	require.NoError(t, m.Login(context.Background(), "jane@example.com", "hunter22"))

	snap := m.Snapshot()
	require.True(t, snap.SignedIn())
	assert.Equal(t, "jane@example.com", snap.User.Email)
}

func TestLoginInvalidCredentials(t *testing.T) {
	b := newTestBackend()
	b.signInErr = xerrors.ErrInvalidCredentials
	m := NewManager(b, zap.NewNop())

	err := m.Login(context.Background(), "jane@example.com", "wrong")
	require.Error(t, err)
	assert.True(t, xerrors.Is(err, xerrors.ErrInvalidCredentials))
	assert.False(t, m.Snapshot().SignedIn())
}

func TestLoginWithoutBackend(t *testing.T) {
	m := NewManager(nil, zap.NewNop())

	err := m.Login(context.Background(), "jane@example.com", "hunter22")
	assert.True(t, xerrors.Is(err, xerrors.ErrBackendNotConfigured))
}

func TestSignupProfileWriteFailure(t *testing.T) {
	b := newTestBackend()
	b.signUpErr = xerrors.ErrProfileWriteFailed
	m := NewManager(b, zap.NewNop())

	err := m.Signup(context.Background(), &auth.RegisterRequest{
		Email:    "jane@example.com",
		Password: "hunter22",
	})
	require.Error(t, err)
	assert.True(t, xerrors.Is(err, xerrors.ErrProfileWriteFailed))
	assert.False(t, m.Snapshot().SignedIn())
}

func TestLogoutIdempotent(t *testing.T) {
	b := newTestBackend()
	m := NewManager(b, zap.NewNop())

	// Signed out already: logout is a no-op and hits no network
	m.Logout(context.Background())
	assert.Equal(t, 0, b.signOutCalls)

	require.NoError(t, m.Login(context.Background(), "jane@example.com", "hunter22"))
	m.Logout(context.Background())
	assert.Equal(t, 1, b.signOutCalls)
	assert.False(t, m.Snapshot().SignedIn())

	m.Logout(context.Background())
	assert.Equal(t, 1, b.signOutCalls)
}

func TestLogoutClearsStateOnRemoteFailure(t *testing.T) {
	b := newTestBackend()
	b.signOutErr = xerrors.ErrBackendUnreachable
	m := NewManager(b, zap.NewNop())

	require.NoError(t, m.Login(context.Background(), "jane@example.com", "hunter22"))
	m.Logout(context.Background())

	assert.False(t, m.Snapshot().SignedIn())
}

func TestUpdateProfileRequiresAuth(t *testing.T) {
	m := NewManager(newTestBackend(), zap.NewNop())

	full := "Janet Doe"
	_, err := m.UpdateProfile(context.Background(), auth.ProfilePatch{FullName: &full})
	assert.True(t, xerrors.Is(err, xerrors.ErrNotAuthenticated))
}

func TestUpdateProfilePartialMerge(t *testing.T) {
	b := newTestBackend()
	b.profile.Phone = "+254700000000"
	m := NewManager(b, zap.NewNop())
	require.NoError(t, m.Login(context.Background(), "jane@example.com", "hunter22"))

	full := "Janet Doe"
	updated, err := m.UpdateProfile(context.Background(), auth.ProfilePatch{FullName: &full})
	require.NoError(t, err)

	// Only the submitted field changed; the rest survived the merge
	assert.Equal(t, "Janet Doe", updated.FullName)
	assert.Equal(t, "+254700000000", updated.Phone)

	require.NotNil(t, b.lastPatch)
	assert.Nil(t, b.lastPatch.Phone)

	snap := m.Snapshot()
	require.NotNil(t, snap.Profile)
	assert.Equal(t, "Janet Doe", snap.Profile.FullName)
}

func TestUpdateProfileEmptyPatchIsNoop(t *testing.T) {
	b := newTestBackend()
	m := NewManager(b, zap.NewNop())
	require.NoError(t, m.Login(context.Background(), "jane@example.com", "hunter22"))

	_, err := m.UpdateProfile(context.Background(), auth.ProfilePatch{})
	require.NoError(t, err)
	assert.Nil(t, b.lastPatch)
}

func TestSubscribeDeliversCurrentSnapshotAndChanges(t *testing.T) {
	m := NewManager(newTestBackend(), zap.NewNop())

	var mu sync.Mutex
	var seen []Snapshot
	cancel := m.Subscribe(func(s Snapshot) {
		mu.Lock()
		seen = append(seen, s)
		mu.Unlock()
	})
	defer cancel()

	require.NoError(t, m.Restore(context.Background()))
	require.NoError(t, m.Login(context.Background(), "jane@example.com", "hunter22"))

	mu.Lock()
	defer mu.Unlock()
	// Initial snapshot, restore completion, login start, login completion
	require.Len(t, seen, 4)
	assert.True(t, seen[0].IsLoading)
	assert.False(t, seen[1].IsLoading)
	assert.True(t, seen[2].IsLoading)
	assert.False(t, seen[2].SignedIn())
	assert.True(t, seen[3].SignedIn())
	assert.False(t, seen[3].IsLoading)
}

func TestLoginRaisesLoadingWhileInFlight(t *testing.T) {
	b := newTestBackend()
	b.signInErr = xerrors.ErrInvalidCredentials
	m := NewManager(b, zap.NewNop())
	require.NoError(t, m.Restore(context.Background()))

	var mu sync.Mutex
	var seen []Snapshot
	cancel := m.Subscribe(func(s Snapshot) {
		mu.Lock()
		seen = append(seen, s)
		mu.Unlock()
	})
	defer cancel()

	err := m.Login(context.Background(), "jane@example.com", "wrong")
	require.ErrorIs(t, err, xerrors.ErrInvalidCredentials)

	mu.Lock()
	defer mu.Unlock()
	// Immediate delivery, loading on, loading off. The failed login
	// leaves the snapshot signed out and not loading.
	require.Len(t, seen, 3)
	assert.True(t, seen[1].IsLoading)
	assert.False(t, seen[2].IsLoading)
	assert.False(t, m.Snapshot().SignedIn())
}

func TestSubscribeCancelIsIdempotent(t *testing.T) {
	m := NewManager(newTestBackend(), zap.NewNop())

	var mu sync.Mutex
	count := 0
	cancel := m.Subscribe(func(Snapshot) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	cancel()
	cancel() // second cancel must not panic or unregister someone else

	require.NoError(t, m.Login(context.Background(), "jane@example.com", "hunter22"))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, count) // only the immediate delivery
}

func TestHandleEventForceLogout(t *testing.T) {
	m := NewManager(newTestBackend(), zap.NewNop())
	require.NoError(t, m.Login(context.Background(), "jane@example.com", "hunter22"))

	m.HandleEvent(eventFor(wstypes.EventTypeForceLogout, "acc-1"))
	assert.False(t, m.Snapshot().SignedIn())
}

func TestHandleEventIgnoresOtherAccounts(t *testing.T) {
	m := NewManager(newTestBackend(), zap.NewNop())
	require.NoError(t, m.Login(context.Background(), "jane@example.com", "hunter22"))

	m.HandleEvent(eventFor(wstypes.EventTypeSignedOut, "someone-else"))
	assert.True(t, m.Snapshot().SignedIn())
}

func TestHandleEventDuplicateSignedOutIsNoop(t *testing.T) {
	m := NewManager(newTestBackend(), zap.NewNop())
	require.NoError(t, m.Login(context.Background(), "jane@example.com", "hunter22"))

	var mu sync.Mutex
	events := 0
	cancel := m.Subscribe(func(Snapshot) {
		mu.Lock()
		events++
		mu.Unlock()
	})
	defer cancel()

	m.HandleEvent(eventFor(wstypes.EventTypeSignedOut, "acc-1"))
	m.HandleEvent(eventFor(wstypes.EventTypeSignedOut, "acc-1"))

	assert.False(t, m.Snapshot().SignedIn())
	mu.Lock()
	defer mu.Unlock()
	// Immediate delivery plus exactly one signed-out transition
	assert.Equal(t, 2, events)
}

func TestPumpAppliesStreamedEvents(t *testing.T) {
	m := NewManager(newTestBackend(), zap.NewNop())
	require.NoError(t, m.Login(context.Background(), "jane@example.com", "hunter22"))

	events := make(chan backend.AuthEvent, 1)
	done := make(chan struct{})
	go func() {
		m.Pump(context.Background(), events)
		close(done)
	}()

	events <- eventFor(wstypes.EventTypeSignedOut, "acc-1")
	close(events)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("pump did not stop after the stream closed")
	}
	assert.False(t, m.Snapshot().SignedIn())
}

func TestPumpStopsOnContextCancel(t *testing.T) {
	m := NewManager(newTestBackend(), zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan backend.AuthEvent)
	done := make(chan struct{})
	go func() {
		m.Pump(ctx, events)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("pump did not honor context cancellation")
	}
}

func eventFor(eventType wstypes.EventType, accountID string) backend.AuthEvent {
	return backend.AuthEvent{
		Type: eventType,
		Data: wstypes.SessionEventData{AccountID: accountID},
	}
}
