// internal/client/location/workflow_test.go
package location

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"tracksafe-service/internal/domain/location"
	"tracksafe-service/internal/geo"
	xerrors "tracksafe-service/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeLocator struct {
	pos   *Position
	err   error
	delay time.Duration
	calls int32
}

func (f *fakeLocator) CurrentPosition(ctx context.Context) (*Position, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.pos, nil
}

type fakeDirectory struct {
	services []location.NearbyService
}

func (f *fakeDirectory) Nearby(origin geo.Location, kind location.ServiceKind) []location.NearbyService {
	return f.services
}

type fakeRecorder struct {
	err   error
	calls int
	last  *location.RecordRequest
}

func (f *fakeRecorder) RecordLocation(ctx context.Context, req *location.RecordRequest) (*location.Sample, error) {
	f.calls++
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return &location.Sample{ID: "s1"}, nil
}

func goodFix() *Position {
	return &Position{
		Latitude:       -1.286389,
		Longitude:      36.817223,
		AccuracyMeters: 12.5,
		Timestamp:      time.Now(),
	}
}

func TestCurrentReturnsFix(t *testing.T) {
	loc := &fakeLocator{pos: goodFix()}
	w := NewWorkflow(loc, nil, nil, zap.NewNop())

	pos, err := w.Current(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, -1.286389, pos.Latitude, 1e-9)
}

func TestCurrentWithoutLocator(t *testing.T) {
	w := NewWorkflow(nil, nil, nil, zap.NewNop())

	_, err := w.Current(context.Background())
	assert.True(t, xerrors.Is(err, xerrors.ErrUnsupportedPlatform))
}

func TestCurrentMapsPlatformErrors(t *testing.T) {
	cases := []struct {
		name string
		code int
		want error
	}{
		{"permission denied", CodePermissionDenied, xerrors.ErrPermissionDenied},
		{"position unavailable", CodePositionUnavailable, xerrors.ErrPositionUnavailable},
		{"timeout", CodeTimeout, xerrors.ErrAcquisitionTimeout},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			loc := &fakeLocator{err: &PlatformError{Code: tc.code, Message: tc.name}}
			w := NewWorkflow(loc, nil, nil, zap.NewNop())

			_, err := w.Current(context.Background())
			require.Error(t, err)
			assert.True(t, xerrors.Is(err, tc.want))
		})
	}
}

func TestCurrentEnforcesBudget(t *testing.T) {
	loc := &fakeLocator{pos: goodFix(), delay: time.Second}
	w := NewWorkflow(loc, nil, nil, zap.NewNop())
	w.AcquireTimeout = 20 * time.Millisecond

	start := time.Now()
	_, err := w.Current(context.Background())
	require.Error(t, err)
	assert.True(t, xerrors.Is(err, xerrors.ErrAcquisitionTimeout))
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestCurrentRejectsInvalidCoordinate(t *testing.T) {
	loc := &fakeLocator{pos: &Position{Latitude: 120, Longitude: 10, Timestamp: time.Now()}}
	w := NewWorkflow(loc, nil, nil, zap.NewNop())

	_, err := w.Current(context.Background())
	assert.True(t, xerrors.Is(err, xerrors.ErrPositionUnavailable))
}

func TestCurrentSingleFlight(t *testing.T) {
	loc := &fakeLocator{pos: goodFix(), delay: 50 * time.Millisecond}
	w := NewWorkflow(loc, nil, nil, zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pos, err := w.Current(context.Background())
			assert.NoError(t, err)
			assert.NotNil(t, pos)
		}()
	}
	wg.Wait()

	// One platform acquisition served all concurrent callers
	assert.Equal(t, int32(1), atomic.LoadInt32(&loc.calls))
}

func TestNearbySortedAndTyped(t *testing.T) {
	dir := &fakeDirectory{services: []location.NearbyService{
		{ID: "h1", Name: "City General Hospital", Kind: location.KindHospital, DistanceKm: 0.4},
		{ID: "h2", Name: "Memorial Medical Center", Kind: location.KindHospital, DistanceKm: 1.1},
	}}
	w := NewWorkflow(nil, dir, nil, zap.NewNop())

	services, err := w.Nearby(geo.Location{Latitude: 1, Longitude: 1}, location.KindHospital)
	require.NoError(t, err)
	require.Len(t, services, 2)
	assert.Equal(t, "h1", services[0].ID)
}

func TestNearbyUnknownKind(t *testing.T) {
	dir := &fakeDirectory{}
	w := NewWorkflow(nil, dir, nil, zap.NewNop())

	_, err := w.Nearby(geo.Location{Latitude: 1, Longitude: 1}, location.ServiceKind("library"))
	assert.True(t, xerrors.Is(err, xerrors.ErrNotFound))
}

func TestRecordBestEffort(t *testing.T) {
	rec := &fakeRecorder{}
	w := NewWorkflow(nil, nil, rec, zap.NewNop())

	ok := w.Record(context.Background(), goodFix())
	assert.True(t, ok)
	require.NotNil(t, rec.last)
	require.NotNil(t, rec.last.AccuracyMeters)
	assert.InDelta(t, 12.5, *rec.last.AccuracyMeters, 1e-9)
}

func TestRecordFailureReturnsFalse(t *testing.T) {
	rec := &fakeRecorder{err: xerrors.ErrBackendUnreachable}
	w := NewWorkflow(nil, nil, rec, zap.NewNop())

	assert.False(t, w.Record(context.Background(), goodFix()))
}

func TestRecordWithoutRecorder(t *testing.T) {
	w := NewWorkflow(nil, nil, nil, zap.NewNop())
	assert.False(t, w.Record(context.Background(), goodFix()))
}
