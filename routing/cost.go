package routing

// RateTable holds the tiered per-unit prices the cost model works from.
// These are policy constants; override them instead of editing the model.
type RateTable struct {
	DomesticSMS      float64         `json:"domestic_sms"`
	DomesticVoice    float64         `json:"domestic_voice"` // per minute
	StandardSMS      float64         `json:"standard_sms"`
	StandardVoice    float64         `json:"standard_voice"`
	PremiumSMS       float64         `json:"premium_sms"`
	PremiumVoice     float64         `json:"premium_voice"`
	PremiumCountries map[string]bool `json:"premium_countries"`
}

// DefaultRateTable returns the platform's standard rate card. Domestic is
// strictly cheaper than standard international, which is strictly cheaper
// than premium.
func DefaultRateTable() RateTable {
	return RateTable{
		DomesticSMS:   0.0075,
		DomesticVoice: 0.013,
		StandardSMS:   0.05,
		StandardVoice: 0.10,
		PremiumSMS:    0.09,
		PremiumVoice:  0.25,
		PremiumCountries: map[string]bool{
			"CU": true,
			"SO": true,
		},
	}
}

// CostBreakdown is the priced result of one (origin, destination) pair for a
// projected volume.
type CostBreakdown struct {
	SMSCost       float64 `json:"sms_cost"`
	VoiceCost     float64 `json:"voice_cost"`
	TotalCost     float64 `json:"total_cost"`
	PerSMSRate    float64 `json:"per_sms_rate"`
	PerMinuteRate float64 `json:"per_minute_rate"`
}

// CostModel prices SMS and voice traffic between country pairs using the
// tiering rule: domestic, premium destination, or standard international.
type CostModel struct {
	dir   *Directory
	rates RateTable
}

// NewCostModel builds a CostModel over a directory and rate table.
func NewCostModel(dir *Directory, rates RateTable) *CostModel {
	return &CostModel{dir: dir, rates: rates}
}

// Rates returns the per-SMS and per-minute rates for a country pair. If
// either side is unknown both rates are 0 ("no route priced"); callers that
// need to distinguish that from a free route must check country validity
// first.
func (m *CostModel) Rates(origin, destination string) (perSMS, perMinute float64) {
	oInfo, okO := m.dir.Lookup(origin)
	dInfo, okD := m.dir.Lookup(destination)
	if !okO || !okD {
		return 0, 0
	}

	switch {
	case oInfo.Code == dInfo.Code:
		return m.rates.DomesticSMS, m.rates.DomesticVoice
	case m.rates.PremiumCountries[dInfo.Code]:
		return m.rates.PremiumSMS, m.rates.PremiumVoice
	default:
		return m.rates.StandardSMS, m.rates.StandardVoice
	}
}

// Cost prices messageCount SMS and callMinutes voice minutes from origin to
// destination.
func (m *CostModel) Cost(origin, destination string, messageCount int, callMinutes float64) CostBreakdown {
	perSMS, perMinute := m.Rates(origin, destination)
	smsCost := perSMS * float64(messageCount)
	voiceCost := perMinute * callMinutes
	return CostBreakdown{
		SMSCost:       smsCost,
		VoiceCost:     voiceCost,
		TotalCost:     smsCost + voiceCost,
		PerSMSRate:    perSMS,
		PerMinuteRate: perMinute,
	}
}
