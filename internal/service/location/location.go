// internal/service/location/location.go
package location

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"tracksafe-service/internal/domain/location"
	wstypes "tracksafe-service/internal/domain/websocket"
	"tracksafe-service/internal/geo"
	xerrors "tracksafe-service/internal/pkg/errors"
	"tracksafe-service/internal/repository/postgres"
	ws "tracksafe-service/internal/websocket"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

type LocationService struct {
	locationRepo *postgres.LocationRepository
	directory    *StaticDirectory
	hub          *ws.Hub
	logger       *zap.Logger
}

func NewLocationService(locationRepo *postgres.LocationRepository, directory *StaticDirectory, hub *ws.Hub, logger *zap.Logger) *LocationService {
	return &LocationService{
		locationRepo: locationRepo,
		directory:    directory,
		hub:          hub,
		logger:       logger,
	}
}

// RecordSample appends a reading to the account's location log. Recording
// is best-effort for callers: the boolean tells them whether the sample
// was stored, and a failed write never aborts the caller's flow.
func (s *LocationService) RecordSample(ctx context.Context, accountID string, req *location.RecordRequest) (*location.Sample, bool) {
	sample := &location.Sample{
		ID:         ulid.Make().String(),
		AccountID:  accountID,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
		CapturedAt: time.Now(),
	}
	if req.AccuracyMeters != nil {
		sample.AccuracyMeters = sql.NullFloat64{Float64: *req.AccuracyMeters, Valid: true}
	}
	if req.CapturedAtMs > 0 {
		sample.CapturedAt = time.UnixMilli(req.CapturedAtMs)
	}

	if err := s.locationRepo.AppendSample(ctx, sample); err != nil {
		s.logger.Error("failed to record location sample",
			zap.String("account_id", accountID),
			zap.Error(err),
		)
		return nil, false
	}

	s.hub.EmitLocationRecorded(accountID, &wstypes.LocationEventData{
		AccountID:  accountID,
		SampleID:   sample.ID,
		Latitude:   sample.Latitude,
		Longitude:  sample.Longitude,
		CapturedAt: sample.CapturedAt.UnixMilli(),
	})

	return sample, true
}

// ListHistory returns the account's recent samples, newest first
func (s *LocationService) ListHistory(ctx context.Context, accountID string, limit int) ([]*location.Sample, error) {
	samples, err := s.locationRepo.ListSamples(ctx, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list location history: %w", err)
	}
	return samples, nil
}

// FindNearby resolves points of interest around the given coordinate.
func (s *LocationService) FindNearby(ctx context.Context, origin geo.Location, kind location.ServiceKind) ([]location.NearbyService, error) {
	if !kind.Valid() {
		return nil, xerrors.Wrap(xerrors.ErrNotFound, fmt.Sprintf("unknown service kind %q", kind))
	}
	if !geo.Valid(origin) {
		return nil, xerrors.Wrap(xerrors.ErrPositionUnavailable, "coordinate out of range")
	}

	services := s.directory.Nearby(origin, kind)
	if len(services) == 0 {
		return nil, xerrors.ErrNotFound
	}

	return services, nil
}
