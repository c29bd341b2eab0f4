package routing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEvaluator() *NumberEvaluator {
	dir := NewDirectory()
	costs := NewCostModel(dir, DefaultRateTable())
	return NewNumberEvaluator(dir, costs, NewDeliveryScorer(dir), DefaultWeights())
}

func TestEvaluateOwnedDomestic(t *testing.T) {
	e := newTestEvaluator()
	opt := e.Evaluate("+447700900123", "GB", "GB", true)

	assert.Equal(t, "GB", opt.CountryCode)
	assert.Equal(t, "United Kingdom", opt.CountryName)
	assert.True(t, opt.IsOwned)
	assert.Zero(t, opt.MonthlyCost, "owned numbers carry no acquisition cost")
	assert.Equal(t, 1.0, opt.DeliveryScore)
	assert.Zero(t, opt.DistanceKm)
	assert.Equal(t, DefaultRateTable().DomesticSMS, opt.SMSCost)
}

func TestEvaluateUnownedCarriesAcquisitionCost(t *testing.T) {
	e := newTestEvaluator()
	opt := e.Evaluate("+445550100", "GB", "GB", false)
	assert.Equal(t, DefaultWeights().AcquisitionMonthlyCost, opt.MonthlyCost)
}

func TestEvaluateScoreComposition(t *testing.T) {
	e := newTestEvaluator()
	w := DefaultWeights()
	opt := e.Evaluate("+14155552671", "US", "GB", true)

	costScore := math.Max(0, 1-opt.SMSCost/w.CostCeiling)
	distanceScore := math.Max(0, 1-opt.DistanceKm/w.DistanceCapKm)
	expected := opt.DeliveryScore*w.Delivery + costScore*w.Cost + distanceScore*w.Distance + w.OwnershipBonus*w.Ownership
	assert.InDelta(t, expected, opt.TotalScore, 1e-9)
}

func TestEvaluateTotalScoreBounds(t *testing.T) {
	e := newTestEvaluator()
	dir := NewDirectory()
	for _, origin := range dir.Codes() {
		for _, owned := range []bool{true, false} {
			opt := e.Evaluate("+0", origin, "GB", owned)
			assert.GreaterOrEqual(t, opt.TotalScore, 0.0)
			assert.LessOrEqual(t, opt.TotalScore, 1.0)
		}
	}
}

func TestEvaluateUnknownOriginDegrades(t *testing.T) {
	e := newTestEvaluator()
	opt := e.Evaluate("+0", "XX", "GB", false)

	require.True(t, math.IsInf(opt.DistanceKm, 1))
	assert.Equal(t, deliveryUnknownScore, opt.DeliveryScore)
	assert.Zero(t, opt.SMSCost)
	// Degraded, not failed: the option still gets a finite score.
	assert.False(t, math.IsInf(opt.TotalScore, 0))
	assert.GreaterOrEqual(t, opt.TotalScore, 0.0)
}

func TestEvaluateOwnershipTiebreak(t *testing.T) {
	e := newTestEvaluator()
	owned := e.Evaluate("+14155552671", "US", "GB", true)
	unowned := e.Evaluate("+14155552672", "US", "GB", false)
	assert.Greater(t, owned.TotalScore, unowned.TotalScore,
		"ownership should beat an otherwise identical candidate")
}

func TestLandedCost(t *testing.T) {
	opt := NumberOption{MonthlyCost: 1.0, SMSCost: 0.05, VoiceCostPerMinute: 0.10}
	assert.InDelta(t, 1.0+0.05*10+0.10*3, opt.LandedCost(10, 3), 1e-9)
}
