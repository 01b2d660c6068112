package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// reference is an independent rendering of the haversine formula with the
// same Earth radius, used to cross-check Distance.
func reference(lat1, lon1, lat2, lon2 float64) float64 {
	const r = 6371.0
	toRad := func(d float64) float64 { return d * math.Pi / 180 }
	phi1, phi2 := toRad(lat1), toRad(lat2)
	dPhi := phi2 - phi1
	dLambda := toRad(lon2 - lon1)
	h := math.Pow(math.Sin(dPhi/2), 2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Pow(math.Sin(dLambda/2), 2)
	return 2 * r * math.Asin(math.Sqrt(h))
}

func TestDistanceIdenticalPointsIsZero(t *testing.T) {
	points := []Location{
		{0, 0},
		{51.5074, -0.1278},
		{-33.8688, 151.2093},
		{90, 0},
		{-90, 180},
	}
	for _, p := range points {
		require.Zero(t, Distance(p.Latitude, p.Longitude, p.Latitude, p.Longitude))
	}
}

func TestDistanceSymmetry(t *testing.T) {
	pairs := [][2]Location{
		{{48.8566, 2.3522}, {51.5074, -0.1278}},
		{{-1.2921, 36.8219}, {0.3476, 32.5825}},
		{{89.9, -179.9}, {-89.9, 179.9}},
		{{10.5, 20.25}, {10.5, 20.26}},
	}
	for _, p := range pairs {
		ab := Distance(p[0].Latitude, p[0].Longitude, p[1].Latitude, p[1].Longitude)
		ba := Distance(p[1].Latitude, p[1].Longitude, p[0].Latitude, p[0].Longitude)
		require.InDelta(t, ab, ba, 1e-9)
	}
}

func TestDistanceMatchesReference(t *testing.T) {
	cases := [][4]float64{
		{48.8566, 2.3522, 51.5074, -0.1278},
		{0, 0, 0, 180},
		{-45.0, -170.0, 45.0, 170.0},
		{37.7749, -122.4194, 40.7128, -74.0060},
		{12.3456, 78.9012, 12.3457, 78.9013},
	}
	for _, c := range cases {
		got := Distance(c[0], c[1], c[2], c[3])
		want := reference(c[0], c[1], c[2], c[3])
		require.InDelta(t, want, got, 1e-6)
	}
}

func TestDistanceKnownValue(t *testing.T) {
	// Paris to London, roughly 344 km.
	d := Distance(48.8566, 2.3522, 51.5074, -0.1278)
	require.InDelta(t, 344, d, 5)
}

func TestRoundStableUnderJitter(t *testing.T) {
	a := Round(Location{Latitude: 51.50741, Longitude: -0.12782})
	b := Round(Location{Latitude: 51.50739, Longitude: -0.12779})
	require.Equal(t, a, b)
}

func TestValid(t *testing.T) {
	require.True(t, Valid(Location{Latitude: 90, Longitude: -180}))
	require.True(t, Valid(Location{}))
	require.False(t, Valid(Location{Latitude: 90.01}))
	require.False(t, Valid(Location{Longitude: 180.5}))
}
