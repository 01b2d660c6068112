// internal/domain/location/dto.go
package location

// RecordRequest appends one sample to the caller's location log.
// Zero is a legal coordinate (equator, prime meridian), so range
// checks must not imply presence. A missing captured_at_ms means
// "stamp it on arrival".
type RecordRequest struct {
	Latitude       float64  `json:"latitude" binding:"min=-90,max=90"`
	Longitude      float64  `json:"longitude" binding:"min=-180,max=180"`
	AccuracyMeters *float64 `json:"accuracy_m"`
	CapturedAtMs   int64    `json:"captured_at_ms" binding:"min=0"`
}

// HistoryQuery bounds a location log listing, newest first.
type HistoryQuery struct {
	Limit int `form:"limit" binding:"min=0"`
}

// NearbyQuery asks for points of interest around a coordinate.
type NearbyQuery struct {
	Kind      ServiceKind `form:"kind" binding:"required"`
	Latitude  float64     `form:"lat" binding:"min=-90,max=90"`
	Longitude float64     `form:"lon" binding:"min=-180,max=180"`
}
