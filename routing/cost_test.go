package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRateTiering(t *testing.T) {
	rates := DefaultRateTable()
	assert.Less(t, rates.DomesticSMS, rates.StandardSMS)
	assert.Less(t, rates.StandardSMS, rates.PremiumSMS)
	assert.Less(t, rates.DomesticVoice, rates.StandardVoice)
	assert.Less(t, rates.StandardVoice, rates.PremiumVoice)
}

func TestCostDomestic(t *testing.T) {
	m := NewCostModel(NewDirectory(), DefaultRateTable())

	b := m.Cost("US", "US", 10, 5)
	assert.Equal(t, DefaultRateTable().DomesticSMS, b.PerSMSRate)
	assert.Equal(t, DefaultRateTable().DomesticVoice, b.PerMinuteRate)
	assert.InDelta(t, b.SMSCost+b.VoiceCost, b.TotalCost, 1e-9)
	assert.InDelta(t, 10*b.PerSMSRate, b.SMSCost, 1e-9)
	assert.InDelta(t, 5*b.PerMinuteRate, b.VoiceCost, 1e-9)
}

func TestCostStandardInternational(t *testing.T) {
	m := NewCostModel(NewDirectory(), DefaultRateTable())
	b := m.Cost("US", "GB", 1, 0)
	assert.Equal(t, DefaultRateTable().StandardSMS, b.PerSMSRate)
}

func TestCostPremiumDestination(t *testing.T) {
	m := NewCostModel(NewDirectory(), DefaultRateTable())
	b := m.Cost("US", "CU", 1, 0)
	assert.Equal(t, DefaultRateTable().PremiumSMS, b.PerSMSRate)
	assert.Equal(t, DefaultRateTable().PremiumVoice, b.PerMinuteRate)

	// Premium applies to the destination only.
	b = m.Cost("CU", "US", 1, 0)
	assert.Equal(t, DefaultRateTable().StandardSMS, b.PerSMSRate)
}

func TestCostMonotonicity(t *testing.T) {
	dir := NewDirectory()
	m := NewCostModel(dir, DefaultRateTable())

	for _, origin := range dir.Codes() {
		domestic := m.Cost(origin, origin, 10, 5).TotalCost
		for _, dest := range dir.Codes() {
			if origin == dest {
				continue
			}
			international := m.Cost(origin, dest, 10, 5).TotalCost
			assert.GreaterOrEqual(t, international, domestic,
				"international %s->%s should cost at least domestic %s", origin, dest, origin)
		}
	}
}

func TestCostUnknownCountry(t *testing.T) {
	m := NewCostModel(NewDirectory(), DefaultRateTable())

	for _, b := range []CostBreakdown{
		m.Cost("XX", "US", 10, 5),
		m.Cost("US", "XX", 10, 5),
	} {
		require.Zero(t, b.TotalCost)
		assert.Zero(t, b.SMSCost)
		assert.Zero(t, b.VoiceCost)
		assert.Zero(t, b.PerSMSRate)
		assert.Zero(t, b.PerMinuteRate)
	}
}

func TestCostNonNegative(t *testing.T) {
	dir := NewDirectory()
	m := NewCostModel(dir, DefaultRateTable())
	for _, origin := range dir.Codes() {
		for _, dest := range dir.Codes() {
			b := m.Cost(origin, dest, 1, 1)
			assert.GreaterOrEqual(t, b.SMSCost, 0.0)
			assert.GreaterOrEqual(t, b.VoiceCost, 0.0)
		}
	}
}
