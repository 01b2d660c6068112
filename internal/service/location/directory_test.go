// internal/service/location/directory_test.go
package location

import (
	"testing"

	"tracksafe-service/internal/domain/location"
	"tracksafe-service/internal/geo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticDirectoryDeterministic(t *testing.T) {
	d := NewStaticDirectory()
	origin := geo.Location{Latitude: -1.286389, Longitude: 36.817223}

	first := d.Nearby(origin, location.KindHospital)
	second := d.Nearby(origin, location.KindHospital)

	require.NotEmpty(t, first)
	assert.Equal(t, first, second)
}

func TestStaticDirectorySortedByDistance(t *testing.T) {
	d := NewStaticDirectory()
	origin := geo.Location{Latitude: 51.5074, Longitude: -0.1278}

	for _, kind := range []location.ServiceKind{location.KindHospital, location.KindPolice} {
		services := d.Nearby(origin, kind)
		require.NotEmpty(t, services)

		for i := 1; i < len(services); i++ {
			assert.LessOrEqual(t, services[i-1].DistanceKm, services[i].DistanceKm)
		}
		for _, svc := range services {
			assert.Equal(t, kind, svc.Kind)
			assert.Greater(t, svc.DistanceKm, 0.0)
			assert.NotEmpty(t, svc.Name)
			assert.NotEmpty(t, svc.Phone)
		}
	}
}

func TestStaticDirectoryStableUnderJitter(t *testing.T) {
	d := NewStaticDirectory()

	a := d.Nearby(geo.Location{Latitude: 40.4168, Longitude: -3.7038}, location.KindPolice)
	b := d.Nearby(geo.Location{Latitude: 40.41681, Longitude: -3.70381}, location.KindPolice)

	require.Len(t, b, len(a))
	for i := range a {
		assert.Equal(t, a[i].ID, b[i].ID)
		assert.Equal(t, a[i].Name, b[i].Name)
	}
}

func TestStaticDirectoryUnknownKind(t *testing.T) {
	d := NewStaticDirectory()
	assert.Nil(t, d.Nearby(geo.Location{Latitude: 1, Longitude: 1}, location.ServiceKind("firestation")))
}
