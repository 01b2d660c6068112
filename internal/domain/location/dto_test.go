// internal/domain/location/dto_test.go
package location_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tracksafe-service/internal/domain/location"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func bindJSON(t *testing.T, body string, out interface{}) error {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/locations", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c.ShouldBindJSON(out)
}

func TestRecordRequestAcceptsZeroCoordinates(t *testing.T) {
	var req location.RecordRequest
	err := bindJSON(t, `{"latitude":0,"longitude":36.8219,"captured_at_ms":1756600000000}`, &req)
	require.NoError(t, err)
	require.Zero(t, req.Latitude)

	err = bindJSON(t, `{"latitude":51.4779,"longitude":0,"captured_at_ms":1756600000000}`, &req)
	require.NoError(t, err)
	require.Zero(t, req.Longitude)
}

func TestRecordRequestRejectsOutOfRange(t *testing.T) {
	var req location.RecordRequest
	require.Error(t, bindJSON(t, `{"latitude":91,"longitude":0,"captured_at_ms":1}`, &req))
	require.Error(t, bindJSON(t, `{"latitude":0,"longitude":-181,"captured_at_ms":1}`, &req))
	require.Error(t, bindJSON(t, `{"latitude":0,"longitude":0,"captured_at_ms":-1}`, &req))
}

func TestHistoryQueryRejectsNegativeLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/locations/history?limit=-5", nil)

	var q location.HistoryQuery
	require.Error(t, c.ShouldBindQuery(&q))

	c.Request = httptest.NewRequest(http.MethodGet, "/locations/history?limit=25", nil)
	require.NoError(t, c.ShouldBindQuery(&q))
	require.Equal(t, 25, q.Limit)
}
