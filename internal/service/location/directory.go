// internal/service/location/directory.go
package location

import (
	"fmt"
	"sort"

	"tracksafe-service/internal/domain/location"
	"tracksafe-service/internal/geo"
)

// directoryEntry is a point of interest defined relative to the caller's
// position. Until a real places provider is wired in, the directory is
// synthesized from fixed offsets so that results stay stable between calls.
type directoryEntry struct {
	slug      string
	name      string
	latOffset float64
	lonOffset float64
	phone     string
	address   string
}

var hospitalEntries = []directoryEntry{
	{slug: "h1", name: "City General Hospital", latOffset: 0.002, lonOffset: 0.003, phone: "+1 555-123-4567", address: "123 Health Avenue"},
	{slug: "h2", name: "Memorial Medical Center", latOffset: -0.004, lonOffset: -0.001, phone: "+1 555-987-6543", address: "456 Care Street"},
	{slug: "h3", name: "University Hospital", latOffset: 0.007, lonOffset: -0.008, phone: "+1 555-246-8135", address: "789 Treatment Road"},
}

var policeEntries = []directoryEntry{
	{slug: "p1", name: "Central Police Station", latOffset: -0.003, lonOffset: 0.005, phone: "+1 555-911-0000", address: "100 Protection Ave"},
	{slug: "p2", name: "Westside Police Department", latOffset: 0.006, lonOffset: -0.004, phone: "+1 555-911-1111", address: "200 Safety Street"},
}

// StaticDirectory synthesizes nearby services from a fixed offset table.
// Equal inputs produce equal outputs, the result is never empty for a
// known kind, and entries come back sorted nearest first.
type StaticDirectory struct{}

func NewStaticDirectory() *StaticDirectory {
	return &StaticDirectory{}
}

func (d *StaticDirectory) Nearby(origin geo.Location, kind location.ServiceKind) []location.NearbyService {
	var entries []directoryEntry
	switch kind {
	case location.KindHospital:
		entries = hospitalEntries
	case location.KindPolice:
		entries = policeEntries
	default:
		return nil
	}

	// Anchor to the rounded coordinate so GPS jitter within ~100m does
	// not move the results.
	anchor := geo.Round(origin)

	services := make([]location.NearbyService, 0, len(entries))
	for _, e := range entries {
		lat := anchor.Latitude + e.latOffset
		lon := anchor.Longitude + e.lonOffset
		services = append(services, location.NearbyService{
			ID:         fmt.Sprintf("%s-%.3f-%.3f", e.slug, anchor.Latitude, anchor.Longitude),
			Name:       e.name,
			Kind:       kind,
			Latitude:   lat,
			Longitude:  lon,
			DistanceKm: geo.Distance(origin.Latitude, origin.Longitude, lat, lon),
			Phone:      e.phone,
			Address:    e.address,
		})
	}

	sort.Slice(services, func(i, j int) bool {
		return services[i].DistanceKm < services[j].DistanceKm
	})

	return services
}
