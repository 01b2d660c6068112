// internal/client/location/workflow.go
package location

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"tracksafe-service/internal/domain/location"
	"tracksafe-service/internal/geo"
	xerrors "tracksafe-service/internal/pkg/errors"

	"go.uber.org/zap"
)

// DefaultAcquireTimeout bounds one GPS acquisition. The fix must arrive
// within this budget or the attempt fails with a timeout error.
const DefaultAcquireTimeout = 5000 * time.Millisecond

// Position is one platform GPS fix.
type Position struct {
	Latitude       float64
	Longitude      float64
	AccuracyMeters float64
	Timestamp      time.Time
}

// Location returns the position's coordinate.
func (p Position) Location() geo.Location {
	return geo.Location{Latitude: p.Latitude, Longitude: p.Longitude}
}

// Platform failure codes, matching the W3C geolocation numbering.
const (
	CodePermissionDenied    = 1
	CodePositionUnavailable = 2
	CodeTimeout             = 3
)

// PlatformError is a failure reported by the underlying positioning
// platform. The workflow maps each code to exactly one taxonomy error.
type PlatformError struct {
	Code    int
	Message string
}

func (e *PlatformError) Error() string {
	return fmt.Sprintf("platform error %d: %s", e.Code, e.Message)
}

// Locator produces GPS fixes. A nil Locator means the platform has no
// positioning capability at all.
type Locator interface {
	CurrentPosition(ctx context.Context) (*Position, error)
}

// Directory resolves points of interest around a coordinate. Results are
// deterministic for equal inputs and sorted nearest first.
type Directory interface {
	Nearby(origin geo.Location, kind location.ServiceKind) []location.NearbyService
}

// Recorder persists samples to the user's location log.
type Recorder interface {
	RecordLocation(ctx context.Context, req *location.RecordRequest) (*location.Sample, error)
}

type acquisition struct {
	done chan struct{}
	pos  *Position
	err  error
}

// Workflow drives location acquisition, nearby lookup and best-effort
// recording for the client.
type Workflow struct {
	locator   Locator
	directory Directory
	recorder  Recorder
	logger    *zap.Logger

	// AcquireTimeout bounds one fix. Zero means DefaultAcquireTimeout.
	AcquireTimeout time.Duration

	mu       sync.Mutex
	inflight *acquisition
}

func NewWorkflow(locator Locator, directory Directory, recorder Recorder, logger *zap.Logger) *Workflow {
	return &Workflow{
		locator:   locator,
		directory: directory,
		recorder:  recorder,
		logger:    logger,
	}
}

// Current returns a fresh GPS fix. Failures map 1:1 onto the taxonomy:
// permission refusal, no fix, timeout, and missing platform support each
// produce their own error. Concurrent callers share one acquisition.
func (w *Workflow) Current(ctx context.Context) (*Position, error) {
	if w.locator == nil {
		return nil, xerrors.ErrUnsupportedPlatform
	}

	w.mu.Lock()
	if w.inflight != nil {
		a := w.inflight
		w.mu.Unlock()
		select {
		case <-a.done:
			return a.pos, a.err
		case <-ctx.Done():
			return nil, xerrors.Wrap(xerrors.ErrAcquisitionTimeout, ctx.Err().Error())
		}
	}

	a := &acquisition{done: make(chan struct{})}
	w.inflight = a
	w.mu.Unlock()

	a.pos, a.err = w.acquire(ctx)
	close(a.done)

	w.mu.Lock()
	w.inflight = nil
	w.mu.Unlock()

	return a.pos, a.err
}

func (w *Workflow) acquire(ctx context.Context) (*Position, error) {
	timeout := w.AcquireTimeout
	if timeout <= 0 {
		timeout = DefaultAcquireTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		pos *Position
		err error
	}
	ch := make(chan result, 1)

	// The locator may ignore ctx; the budget is enforced here either way.
	go func() {
		pos, err := w.locator.CurrentPosition(ctx)
		ch <- result{pos, err}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			return nil, mapPlatformError(r.err)
		}
		if !geo.Valid(r.pos.Location()) {
			return nil, xerrors.Wrap(xerrors.ErrPositionUnavailable, "coordinate out of range")
		}
		return r.pos, nil
	case <-ctx.Done():
		return nil, xerrors.ErrAcquisitionTimeout
	}
}

// Nearby resolves services of the given kind around the origin.
func (w *Workflow) Nearby(origin geo.Location, kind location.ServiceKind) ([]location.NearbyService, error) {
	if w.directory == nil {
		return nil, xerrors.ErrBackendNotConfigured
	}
	if !kind.Valid() {
		return nil, xerrors.Wrap(xerrors.ErrNotFound, fmt.Sprintf("unknown service kind %q", kind))
	}
	if !geo.Valid(origin) {
		return nil, xerrors.Wrap(xerrors.ErrPositionUnavailable, "coordinate out of range")
	}

	services := w.directory.Nearby(origin, kind)
	if len(services) == 0 {
		return nil, xerrors.ErrNotFound
	}
	return services, nil
}

// Record persists a fix to the user's log. It is best-effort: the bool
// is the only signal, and a false return never interrupts the caller.
func (w *Workflow) Record(ctx context.Context, pos *Position) bool {
	if w.recorder == nil || pos == nil {
		return false
	}

	req := &location.RecordRequest{
		Latitude:     pos.Latitude,
		Longitude:    pos.Longitude,
		CapturedAtMs: pos.Timestamp.UnixMilli(),
	}
	if pos.AccuracyMeters > 0 {
		acc := pos.AccuracyMeters
		req.AccuracyMeters = &acc
	}

	if _, err := w.recorder.RecordLocation(ctx, req); err != nil {
		w.logger.Warn("failed to record location sample", zap.Error(err))
		return false
	}
	return true
}

// mapPlatformError turns a platform failure into its taxonomy error.
// Unknown codes degrade to position-unavailable rather than a generic
// internal error: the user still gets an actionable message.
func mapPlatformError(err error) error {
	var perr *PlatformError
	if errors.As(err, &perr) {
		switch perr.Code {
		case CodePermissionDenied:
			return xerrors.Wrap(xerrors.ErrPermissionDenied, perr.Message)
		case CodePositionUnavailable:
			return xerrors.Wrap(xerrors.ErrPositionUnavailable, perr.Message)
		case CodeTimeout:
			return xerrors.Wrap(xerrors.ErrAcquisitionTimeout, perr.Message)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return xerrors.ErrAcquisitionTimeout
	}
	return xerrors.Wrap(xerrors.ErrPositionUnavailable, err.Error())
}
