// Package location has small helpers for coordinate math used by place search.
package location

import "math"

// EarthRadiusMeters is the mean Earth radius used by Haversine.
const EarthRadiusMeters = 6371000.0

const (
	// Shortest meridian degree (at the equator) and longest parallel degree
	// (equatorial), so the box never undershoots the radius.
	minMetersPerDegreeLat = 110574.0
	maxMetersPerDegreeLng = 111320.0
	// Projected distances carry scale error (k0 and off-meridian growth).
	boxMargin = 1.02
)

// HaversineMeters returns the great-circle distance in meters between two points (degrees).
func HaversineMeters(lat1, lng1, lat2, lng2 float64) float64 {
	rad := func(d float64) float64 { return d * math.Pi / 180 }
	φ1, φ2 := rad(lat1), rad(lat2)
	Δφ := rad(lat2 - lat1)
	Δλ := rad(lng2 - lng1)
	a := math.Sin(Δφ/2)*math.Sin(Δφ/2) +
		math.Cos(φ1)*math.Cos(φ2)*math.Sin(Δλ/2)*math.Sin(Δλ/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusMeters * c
}

// Box is a latitude/longitude bounding box in degrees.
type Box struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// BoundingBox returns a box containing every point within meters of (lat, lng).
// It is meant as a SQL prefilter; callers still check the exact distance.
func BoundingBox(lat, lng, meters float64) Box {
	meters *= boxMargin
	dLat := meters / minMetersPerDegreeLat
	cos := math.Cos(lat * math.Pi / 180)
	dLng := 180.0
	if cos > 1e-6 {
		dLng = math.Min(180, meters/(maxMetersPerDegreeLng*cos))
	}
	return Box{
		MinLat: lat - dLat,
		MaxLat: lat + dLat,
		MinLng: lng - dLng,
		MaxLng: lng + dLng,
	}
}

// ValidCoordinates reports whether lat and lng are in WGS84 range.
func ValidCoordinates(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
