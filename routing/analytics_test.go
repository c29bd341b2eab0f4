package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeFrequentUncoveredCountry(t *testing.T) {
	engine := NewDefaultEngine()

	report := engine.Analyze(
		[]string{"+14155552671"},
		[]string{"+33612345671", "+33612345672", "+33612345673", "+33612345674"},
	)

	assert.Equal(t, []string{"US"}, report.CountriesCovered)
	require.Len(t, report.OptimizationOpportunities, 1)

	opp := report.OptimizationOpportunities[0]
	assert.Equal(t, OpportunityLocalNumber, opp.Type)
	assert.Equal(t, "FR", opp.Country)
	assert.Equal(t, "France", opp.CountryName)
	assert.Equal(t, 4, opp.Frequency)
	assert.InDelta(t, 4*0.04, opp.PotentialSavings, 1e-9)
	assert.Contains(t, opp.Reason, "France")
}

func TestAnalyzeThreshold(t *testing.T) {
	engine := NewDefaultEngine()

	// Two FR contacts: below the threshold, no opportunity.
	report := engine.Analyze(nil, []string{"+33612345671", "+33612345672"})
	assert.Empty(t, report.OptimizationOpportunities)
	assert.Equal(t, 2, report.DestinationCountries["FR"])

	// Exactly three: at the threshold, opportunity emitted.
	report = engine.Analyze(nil, []string{"+33612345671", "+33612345672", "+33612345673"})
	require.Len(t, report.OptimizationOpportunities, 1)
	assert.Equal(t, "FR", report.OptimizationOpportunities[0].Country)
}

func TestAnalyzeCoveredCountryExcluded(t *testing.T) {
	engine := NewDefaultEngine()

	report := engine.Analyze(
		[]string{"+33698765432"},
		[]string{"+33612345671", "+33612345672", "+33612345673", "+33612345674"},
	)
	assert.Empty(t, report.OptimizationOpportunities,
		"no opportunity for a country already covered by an owned number")
	assert.Equal(t, 4, report.DestinationCountries["FR"])
}

func TestAnalyzeDropsUnresolvableNumbers(t *testing.T) {
	engine := NewDefaultEngine()

	report := engine.Analyze(
		[]string{"garbage", "+14155552671"},
		[]string{"junk", "+33612345671", "+33612345672", "+33612345673"},
	)

	assert.Equal(t, []string{"US"}, report.CountriesCovered)
	assert.Equal(t, 3, report.DestinationCountries["FR"])
	require.Len(t, report.OptimizationOpportunities, 1)
}

func TestAnalyzeOpportunityOrdering(t *testing.T) {
	engine := NewDefaultEngine()

	recent := []string{
		"+33612345671", "+33612345672", "+33612345673", // FR x3
		"+4915112345671", "+4915112345672", "+4915112345673", "+4915112345674", // DE x4
		"+447700900121", "+447700900122", "+447700900123", // GB x3
	}
	report := engine.Analyze(nil, recent)
	require.Len(t, report.OptimizationOpportunities, 3)

	// Descending frequency, ties broken by country code.
	assert.Equal(t, "DE", report.OptimizationOpportunities[0].Country)
	assert.Equal(t, "FR", report.OptimizationOpportunities[1].Country)
	assert.Equal(t, "GB", report.OptimizationOpportunities[2].Country)
}

func TestAnalyzeEmptyInputs(t *testing.T) {
	engine := NewDefaultEngine()
	report := engine.Analyze(nil, nil)
	assert.Empty(t, report.CountriesCovered)
	assert.Empty(t, report.DestinationCountries)
	assert.Empty(t, report.OptimizationOpportunities)
}
