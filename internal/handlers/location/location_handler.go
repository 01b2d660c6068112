// internal/handlers/location/location_handler.go
package location

import (
	"net/http"

	"tracksafe-service/internal/domain/location"
	"tracksafe-service/internal/geo"
	"tracksafe-service/internal/middleware"
	xerrors "tracksafe-service/internal/pkg/errors"
	"tracksafe-service/internal/pkg/response"
	locationUsecase "tracksafe-service/internal/service/location"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type LocationHandler struct {
	locationService *locationUsecase.LocationService
	logger          *zap.Logger
}

func NewLocationHandler(locationService *locationUsecase.LocationService, logger *zap.Logger) *LocationHandler {
	return &LocationHandler{
		locationService: locationService,
		logger:          logger,
	}
}

// Record appends a GPS sample to the caller's location log (requires auth).
// The response carries recorded=false instead of an error status when the
// write fails: recording is best-effort and must not break the caller.
func (h *LocationHandler) Record(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)

	var req location.RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	sample, ok := h.locationService.RecordSample(c.Request.Context(), accountID, &req)
	if !ok {
		response.Success(c, http.StatusOK, "sample not recorded", gin.H{"recorded": false})
		return
	}

	response.Success(c, http.StatusCreated, "sample recorded", gin.H{
		"recorded": true,
		"sample":   sample,
	})
}

// History lists the caller's recent samples, newest first (requires auth)
func (h *LocationHandler) History(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)

	var query location.HistoryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid query", err)
		return
	}

	samples, err := h.locationService.ListHistory(c.Request.Context(), accountID, query.Limit)
	if err != nil {
		h.logger.Error("history listing failed",
			zap.String("account_id", accountID),
			zap.Error(err),
		)
		response.Error(c, http.StatusInternalServerError, "failed to list history", err)
		return
	}

	response.Success(c, http.StatusOK, "history retrieved", samples)
}

// Nearby resolves hospitals or police stations around a coordinate
func (h *LocationHandler) Nearby(c *gin.Context) {
	var query location.NearbyQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid query", err)
		return
	}

	origin := geo.Location{Latitude: query.Latitude, Longitude: query.Longitude}
	services, err := h.locationService.FindNearby(c.Request.Context(), origin, query.Kind)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "no services for that kind")
			return
		}
		response.Error(c, http.StatusBadRequest, "nearby lookup failed", err)
		return
	}

	response.Success(c, http.StatusOK, "services found", services)
}
