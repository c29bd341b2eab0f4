package routing

import "math"

// Weights are the scoring policy constants for candidate evaluation. They
// are deliberately configuration, not derived values, so routing behavior
// can be tuned without touching the algorithm.
type Weights struct {
	Delivery  float64 `json:"delivery"`
	Cost      float64 `json:"cost"`
	Distance  float64 `json:"distance"`
	Ownership float64 `json:"ownership"`

	// OwnershipBonus is the raw bonus an owned number earns before the
	// Ownership weight is applied.
	OwnershipBonus float64 `json:"ownership_bonus"`
	// CostCeiling is the assumed worst-case per-SMS rate used to normalize
	// the cost score.
	CostCeiling float64 `json:"cost_ceiling"`
	// DistanceCapKm normalizes the distance score; roughly antipodal.
	DistanceCapKm float64 `json:"distance_cap_km"`
	// AcquisitionMonthlyCost is the assumed monthly cost of provisioning a
	// number the user does not yet own.
	AcquisitionMonthlyCost float64 `json:"acquisition_monthly_cost"`
}

// DefaultWeights returns the production scoring policy.
func DefaultWeights() Weights {
	return Weights{
		Delivery:               0.4,
		Cost:                   0.3,
		Distance:               0.2,
		Ownership:              0.1,
		OwnershipBonus:         0.2,
		CostCeiling:            0.10,
		DistanceCapKm:          maxRouteDistanceKm,
		AcquisitionMonthlyCost: 1.00,
	}
}

// Capabilities flags what a number can carry.
type Capabilities struct {
	SMS   bool `json:"sms"`
	Voice bool `json:"voice"`
	MMS   bool `json:"mms"`
}

// NumberOption is one candidate sending number evaluated against a
// destination. Recomputed per request; it has no lifecycle of its own.
type NumberOption struct {
	PhoneNumber        string       `json:"phone_number"`
	CountryCode        string       `json:"country_code"`
	CountryName        string       `json:"country_name"`
	IsOwned            bool         `json:"is_owned"`
	MonthlyCost        float64      `json:"monthly_cost"`
	SMSCost            float64      `json:"sms_cost"`
	VoiceCostPerMinute float64      `json:"voice_cost_per_minute"`
	DistanceKm         float64      `json:"distance_km"`
	DeliveryScore      float64      `json:"delivery_score"`
	TotalScore         float64      `json:"total_score"`
	Capabilities       Capabilities `json:"capabilities"`
}

// LandedCost is the total dollar cost of sending messageCount SMS and
// callMinutes voice minutes through this option, including any monthly
// acquisition cost.
func (o NumberOption) LandedCost(messageCount int, callMinutes float64) float64 {
	return o.MonthlyCost + o.SMSCost*float64(messageCount) + o.VoiceCostPerMinute*callMinutes
}

// NumberEvaluator scores one candidate number against one destination. It is
// a pure function over the static tables: no I/O, no shared mutable state,
// safe for concurrent callers.
type NumberEvaluator struct {
	dir      *Directory
	costs    *CostModel
	delivery *DeliveryScorer
	weights  Weights
}

// NewNumberEvaluator builds an evaluator over shared static tables.
func NewNumberEvaluator(dir *Directory, costs *CostModel, delivery *DeliveryScorer, weights Weights) *NumberEvaluator {
	return &NumberEvaluator{dir: dir, costs: costs, delivery: delivery, weights: weights}
}

// Evaluate produces the scored NumberOption for a candidate sending number
// in originCountry against destinationCountry. Unknown countries degrade the
// scores rather than failing.
func (e *NumberEvaluator) Evaluate(phoneNumber, originCountry, destinationCountry string, isOwned bool) NumberOption {
	info, known := e.dir.Lookup(originCountry)

	perSMS, perMinute := e.costs.Rates(originCountry, destinationCountry)
	dist := e.dir.Distance(originCountry, destinationCountry)
	deliveryScore := e.delivery.Score(originCountry, destinationCountry)

	monthlyCost := 0.0
	if !isOwned {
		monthlyCost = e.weights.AcquisitionMonthlyCost
	}

	costScore := math.Max(0, 1-perSMS/e.weights.CostCeiling)
	distanceScore := 0.0
	if !math.IsInf(dist, 1) {
		distanceScore = math.Max(0, 1-dist/e.weights.DistanceCapKm)
	}
	ownershipBonus := 0.0
	if isOwned {
		ownershipBonus = e.weights.OwnershipBonus
	}

	total := deliveryScore*e.weights.Delivery +
		costScore*e.weights.Cost +
		distanceScore*e.weights.Distance +
		ownershipBonus*e.weights.Ownership

	option := NumberOption{
		PhoneNumber:        phoneNumber,
		CountryCode:        originCountry,
		IsOwned:            isOwned,
		MonthlyCost:        monthlyCost,
		SMSCost:            perSMS,
		VoiceCostPerMinute: perMinute,
		DistanceKm:         dist,
		DeliveryScore:      deliveryScore,
		TotalScore:         clamp01(total),
		Capabilities:       Capabilities{SMS: true, Voice: true, MMS: false},
	}
	if known {
		option.CountryCode = info.Code
		option.CountryName = info.Name
	}
	return option
}
