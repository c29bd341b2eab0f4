package routing

import "math"

const (
	// deliveryBase is the starting score for any cross-border route.
	deliveryBase = 0.7
	// deliveryDistanceWeight scales the proximity factor.
	deliveryDistanceWeight = 0.2
	// deliveryContinentBonus applies when both countries share a continent.
	deliveryContinentBonus = 0.1
	// deliveryUnknownScore is the fallback when either country is unknown.
	deliveryUnknownScore = 0.1
	// maxRouteDistanceKm caps the distance factor; roughly antipodal.
	maxRouteDistanceKm = 20000.0
)

// DeliveryScorer estimates delivery quality for an origin→destination pair
// as a normalized [0,1] score.
type DeliveryScorer struct {
	dir *Directory
}

// NewDeliveryScorer builds a scorer over a directory.
func NewDeliveryScorer(dir *Directory) *DeliveryScorer {
	return &DeliveryScorer{dir: dir}
}

// Score returns the delivery score for a country pair. Domestic routes score
// exactly 1.0. Unknown pairs score deliveryUnknownScore.
func (s *DeliveryScorer) Score(origin, destination string) float64 {
	oInfo, okO := s.dir.Lookup(origin)
	dInfo, okD := s.dir.Lookup(destination)
	if !okO || !okD {
		return deliveryUnknownScore
	}
	if oInfo.Code == dInfo.Code {
		return 1.0
	}

	dist := s.dir.Distance(oInfo.Code, dInfo.Code)
	if math.IsInf(dist, 1) {
		return deliveryUnknownScore
	}

	distanceFactor := math.Max(0, 1-dist/maxRouteDistanceKm)
	score := deliveryBase + distanceFactor*deliveryDistanceWeight
	if oInfo.Continent == dInfo.Continent {
		score += deliveryContinentBonus
	}
	return clamp01(score)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
