package services

import (
	"net/url"
	"strings"

	"driverapp/internal/core/domain/model/kernel"
)

// Navigation provider endpoints. The composer only builds deep links; it
// never calls them.
const (
	directionsBaseURL = "https://www.google.com/maps/dir/?api=1"
	searchBaseURL     = "https://www.google.com/maps/search/?api=1"
)

// BuildRoute composes a multi-waypoint navigation deep link from the
// GPS-enabled store groups and the client destination.
//
// Rules:
//   - only groups whose StoreInfo carries coordinates qualify
//   - origin is the first qualifying group, in insertion order
//   - destination is the client point when supplied, otherwise the last
//     qualifying group, so a route with only store stops still resolves
//   - intermediate waypoints are the qualifying coordinates between origin
//     and destination; the parameter is omitted entirely when fewer than
//     two stores qualify
//   - travel mode is always driving
//
// Returns ok=false when no group qualifies and no destination was supplied.
func BuildRoute(groups []StoreGroup, dest *kernel.GeoPoint) (string, bool) {
	stops := make([]string, 0, len(groups))
	for _, group := range groups {
		if group.StoreInfo == nil {
			continue
		}
		if err := group.StoreInfo.Location.Validate(); err != nil {
			continue
		}
		stops = append(stops, group.StoreInfo.Location.String())
	}

	if len(stops) == 0 && dest == nil {
		return "", false
	}

	var origin, destination string
	var waypoints []string

	switch {
	case dest != nil && len(stops) > 0:
		origin = stops[0]
		destination = dest.String()
		waypoints = stops[1:]
	case dest != nil:
		destination = dest.String()
	default:
		origin = stops[0]
		destination = stops[len(stops)-1]
		if len(stops) > 2 {
			waypoints = stops[1 : len(stops)-1]
		}
	}

	params := url.Values{}
	if origin != "" {
		params.Set("origin", origin)
	}
	params.Set("destination", destination)
	params.Set("travelmode", "driving")
	if len(stops) >= 2 && len(waypoints) > 0 {
		params.Set("waypoints", strings.Join(waypoints, "|"))
	}

	return directionsBaseURL + "&" + params.Encode(), true
}

// PointLink builds a single-point navigation link: by coordinates when a
// point is available, by free-text address otherwise.
func PointLink(address string, pt *kernel.GeoPoint) string {
	params := url.Values{}
	if pt != nil {
		params.Set("query", pt.String())
	} else {
		params.Set("query", address)
	}
	return searchBaseURL + "&" + params.Encode()
}
