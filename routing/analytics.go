package routing

import (
	"fmt"
	"sort"
)

// AnalyticsConfig holds the policy constants for portfolio analysis.
type AnalyticsConfig struct {
	// MinFrequency is how often a country must appear in recent
	// destinations before a local number is suggested.
	MinFrequency int `json:"min_frequency"`
	// PerMessageSavings is the assumed saving per message from acquiring a
	// destination-local number.
	PerMessageSavings float64 `json:"per_message_savings"`
}

// DefaultAnalyticsConfig returns the production analysis policy.
func DefaultAnalyticsConfig() AnalyticsConfig {
	return AnalyticsConfig{
		MinFrequency:      3,
		PerMessageSavings: 0.04,
	}
}

// OptimizationOpportunity is one suggested portfolio improvement.
type OptimizationOpportunity struct {
	Type             string  `json:"type"`
	Country          string  `json:"country"`
	CountryName      string  `json:"country_name"`
	Frequency        int     `json:"frequency"`
	PotentialSavings float64 `json:"potential_savings"`
	Reason           string  `json:"reason"`
}

// OpportunityLocalNumber is the only opportunity type currently emitted.
const OpportunityLocalNumber = "local_number_suggestion"

// AnalyticsReport summarizes coverage and optimization opportunities for one
// user's number portfolio against their recent destinations.
type AnalyticsReport struct {
	CountriesCovered          []string                  `json:"countries_covered"`
	DestinationCountries      map[string]int            `json:"destination_countries"`
	OptimizationOpportunities []OptimizationOpportunity `json:"optimization_opportunities"`
}

// Analyze tallies recent destination countries against the countries the
// owned numbers cover and emits a local-number suggestion for every
// frequently contacted, uncovered country. Numbers that fail to resolve are
// dropped from the respective tally rather than failing the report.
// Opportunities are ordered by descending frequency, ties broken by country
// code, so reports are stable across runs.
func (e *Engine) Analyze(ownedNumbers, recentDestinations []string) AnalyticsReport {
	coveredSet := make(map[string]bool)
	for _, number := range ownedNumbers {
		country, err := e.dir.ResolveCountry(number)
		if err != nil {
			continue
		}
		coveredSet[country] = true
	}

	frequency := make(map[string]int)
	for _, number := range recentDestinations {
		country, err := e.dir.ResolveCountry(number)
		if err != nil {
			continue
		}
		frequency[country]++
	}

	covered := make([]string, 0, len(coveredSet))
	for country := range coveredSet {
		covered = append(covered, country)
	}
	sort.Strings(covered)

	var opportunities []OptimizationOpportunity
	for country, count := range frequency {
		if count < e.analytics.MinFrequency || coveredSet[country] {
			continue
		}
		info, _ := e.dir.Lookup(country)
		opportunities = append(opportunities, OptimizationOpportunity{
			Type:             OpportunityLocalNumber,
			Country:          country,
			CountryName:      info.Name,
			Frequency:        count,
			PotentialSavings: float64(count) * e.analytics.PerMessageSavings,
			Reason: fmt.Sprintf("you contacted %s %d times recently; a local number would cut per-message costs",
				info.Name, count),
		})
	}
	sort.Slice(opportunities, func(i, j int) bool {
		if opportunities[i].Frequency != opportunities[j].Frequency {
			return opportunities[i].Frequency > opportunities[j].Frequency
		}
		return opportunities[i].Country < opportunities[j].Country
	})

	return AnalyticsReport{
		CountriesCovered:          covered,
		DestinationCountries:      frequency,
		OptimizationOpportunities: opportunities,
	}
}
