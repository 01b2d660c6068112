// internal/domain/location/entity.go
package location

import (
	"database/sql"
	"time"

	"tracksafe-service/internal/geo"
)

// Sample is one GPS reading. Immutable once created: it is either appended
// to the user's location log or discarded after display.
type Sample struct {
	ID             string          `json:"id" db:"id"`
	AccountID      string          `json:"account_id,omitempty" db:"account_id"`
	Latitude       float64         `json:"latitude" db:"latitude"`
	Longitude      float64         `json:"longitude" db:"longitude"`
	AccuracyMeters sql.NullFloat64 `json:"accuracy_m" db:"accuracy_m"`
	CapturedAt     time.Time       `json:"captured_at" db:"captured_at"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}

// Location returns the sample's coordinate.
func (s Sample) Location() geo.Location {
	return geo.Location{Latitude: s.Latitude, Longitude: s.Longitude}
}

// ServiceKind is a nearby point-of-interest category.
type ServiceKind string

const (
	KindHospital ServiceKind = "hospital"
	KindPolice   ServiceKind = "police"
)

// Valid reports whether k is a known category.
func (k ServiceKind) Valid() bool {
	return k == KindHospital || k == KindPolice
}

// NearbyService is a point of interest relative to a reference sample.
type NearbyService struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Kind       ServiceKind `json:"kind"`
	Latitude   float64     `json:"latitude"`
	Longitude  float64     `json:"longitude"`
	DistanceKm float64     `json:"distance_km"`
	Phone      string      `json:"phone"`
	Address    string      `json:"address"`
}
