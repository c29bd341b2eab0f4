package routing

import "math"

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371.0

// Distance returns the great-circle distance in km between the centroids of
// two countries. Distance(x, x) is 0. Unknown codes yield +Inf, a
// "cannot route" sentinel that downstream scoring maps to its own fallback.
func (d *Directory) Distance(a, b string) float64 {
	ca, okA := d.Lookup(a)
	cb, okB := d.Lookup(b)
	if !okA || !okB {
		return math.Inf(1)
	}
	if ca.Code == cb.Code {
		return 0
	}
	return haversineKm(ca.Latitude, ca.Longitude, cb.Latitude, cb.Longitude)
}

// haversineKm computes the great-circle distance between two points given in
// degrees.
func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	sinPhi := math.Sin(dPhi / 2)
	sinLambda := math.Sin(dLambda / 2)

	a := sinPhi*sinPhi + math.Cos(phi1)*math.Cos(phi2)*sinLambda*sinLambda
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}
