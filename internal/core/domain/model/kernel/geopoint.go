package kernel

import (
	"fmt"

	"driverapp/internal/pkg/errs"
)

// Latitude and longitude bounds for WGS-84 coordinates.
const (
	minLatitude  = -90.0
	maxLatitude  = 90.0
	minLongitude = -180.0
	maxLongitude = 180.0
)

// ErrGeoPointIsNotConstructed is returned when validating a GeoPoint that was
// not created through NewGeoPoint.
var ErrGeoPointIsNotConstructed = errs.NewValueIsRequiredError(
	"GeoPoint must be created via NewGeoPoint")

// GeoPoint is an immutable WGS-84 coordinate pair. It represents store
// positions, client destinations, and driver locations.
//
// The zero value is invalid; use NewGeoPoint, which validates that both
// components fall within their geographic bounds.
type GeoPoint struct {
	lat float64
	lng float64

	// isSet distinguishes a constructed point from the zero value, since
	// (0, 0) is itself a valid coordinate.
	isSet bool
}

// NewGeoPoint creates a validated GeoPoint from latitude and longitude.
// Returns an error if either component is outside its WGS-84 range.
func NewGeoPoint(lat, lng float64) (GeoPoint, error) {
	if lat < minLatitude || lat > maxLatitude {
		return GeoPoint{}, errs.NewValueIsOutOfRangeError("lat", lat, minLatitude, maxLatitude)
	}
	if lng < minLongitude || lng > maxLongitude {
		return GeoPoint{}, errs.NewValueIsOutOfRangeError("lng", lng, minLongitude, maxLongitude)
	}

	return GeoPoint{lat: lat, lng: lng, isSet: true}, nil
}

// Lat returns the latitude component.
func (p GeoPoint) Lat() float64 {
	return p.lat
}

// Lng returns the longitude component.
func (p GeoPoint) Lng() float64 {
	return p.lng
}

// IsEqual compares two points by value.
func (p GeoPoint) IsEqual(other GeoPoint) bool {
	return p.isSet == other.isSet && p.lat == other.lat && p.lng == other.lng
}

// String renders the point as "lat,lng", the form consumed by navigation
// provider URLs.
func (p GeoPoint) String() string {
	return fmt.Sprintf("%g,%g", p.lat, p.lng)
}

// Validate ensures the point was created through NewGeoPoint.
func (p GeoPoint) Validate() error {
	if !p.isSet {
		return ErrGeoPointIsNotConstructed
	}
	return nil
}
