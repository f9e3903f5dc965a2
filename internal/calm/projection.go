package calm

import "math"

// WGS84 ellipsoid and UTM grid constants.
const (
	wgs84SemiMajorAxis = 6378137.0
	wgs84Eccentricity  = 0.081819191
	utmScaleFactor     = 0.9996
	utmFalseEasting    = 500000.0
	utmZoneWidth       = 6
	utmZoneOrigin      = -183
	defaultUTMZone     = 29
)

// Projector converts WGS84 coordinates to a transverse Mercator grid in meters.
// The zero value is not usable; build one with UTM.
type Projector struct {
	CentralMeridian float64 // degrees
	ScaleFactor     float64
	FalseEasting    float64
	FalseNorthing   float64
}

// UTM returns the projector for a northern-hemisphere UTM zone.
func UTM(zone int) Projector {
	return Projector{
		CentralMeridian: float64(zone*utmZoneWidth + utmZoneOrigin),
		ScaleFactor:     utmScaleFactor,
		FalseEasting:    utmFalseEasting,
	}
}

// DefaultProjector is UTM zone 29N (central meridian 9°W), covering western Morocco.
var DefaultProjector = UTM(defaultUTMZone)

// Project returns easting x and northing y in meters.
func (p Projector) Project(lat, lon float64) (x, y float64) {
	const (
		a  = wgs84SemiMajorAxis
		e  = wgs84Eccentricity
		e2 = e * e
		e4 = e2 * e2
		e6 = e4 * e2
	)

	phi := lat * math.Pi / 180
	lambda := lon * math.Pi / 180
	lambda0 := p.CentralMeridian * math.Pi / 180

	sinPhi, cosPhi, tanPhi := math.Sin(phi), math.Cos(phi), math.Tan(phi)

	n := a / math.Sqrt(1-e2*sinPhi*sinPhi)
	t := tanPhi * tanPhi
	c := e2 * cosPhi * cosPhi / (1 - e2)
	A := (lambda - lambda0) * cosPhi

	m := a * ((1-e2/4-3*e4/64-5*e6/256)*phi -
		(3*e2/8+3*e4/32+45*e6/1024)*math.Sin(2*phi) +
		(15*e4/256+45*e6/1024)*math.Sin(4*phi) -
		(35*e6/3072)*math.Sin(6*phi))

	A2 := A * A
	A3 := A2 * A
	A4 := A3 * A
	A5 := A4 * A
	A6 := A5 * A

	x = p.FalseEasting + p.ScaleFactor*n*(A+
		(1-t+c)*A3/6+
		(5-18*t+t*t+72*c-58*e2)*A5/120)

	y = p.FalseNorthing + p.ScaleFactor*(m+n*tanPhi*(A2/2+
		(5-t+9*c+4*c*c)*A4/24+
		(61-58*t+t*t+600*c-330*e2)*A6/720))

	return x, y
}

// Distance returns the planar distance in meters between two points once projected.
func (p Projector) Distance(a, b Point) float64 {
	x1, y1 := p.Project(a.Latitude, a.Longitude)
	x2, y2 := p.Project(b.Latitude, b.Longitude)
	return math.Hypot(x2-x1, y2-y1)
}
