package routing

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// maxAlternatives caps how many runner-up options a recommendation
	// carries.
	maxAlternatives = 4
	// closestSyntheticCandidates is how many nearby countries get a
	// synthetic "what if you bought a number here" candidate.
	closestSyntheticCandidates = 3
	// nearbyRouteKm marks a route as geographically close in the reason
	// string.
	nearbyRouteKm = 2000.0
	// savingsMentionFloor keeps sub-cent savings out of the reason string.
	savingsMentionFloor = 0.01
	// deliveryMentionFloor keeps marginal delivery gains out of the reason
	// string.
	deliveryMentionFloor = 0.1
)

// RoutingRecommendation is the ranked outcome of one routing decision.
type RoutingRecommendation struct {
	DestinationNumber   string         `json:"destination_number"`
	DestinationCountry  string         `json:"destination_country"`
	PrimaryOption       NumberOption   `json:"primary_option"`
	AlternativeOptions  []NumberOption `json:"alternative_options"`
	CostSavings         float64        `json:"cost_savings"`
	DeliveryImprovement float64        `json:"delivery_improvement"`
	Reason              string         `json:"recommendation_reason"`
}

// Engine drives candidate enumeration, scoring, and ranking. It is stateless
// over the immutable tables it was built with, so one Engine serves
// unlimited concurrent callers.
type Engine struct {
	dir       *Directory
	costs     *CostModel
	delivery  *DeliveryScorer
	evaluator *NumberEvaluator
	weights   Weights
	analytics AnalyticsConfig
	printer   *message.Printer
}

// NewEngine wires the routing core over its static tables.
func NewEngine(dir *Directory, rates RateTable, weights Weights, analytics AnalyticsConfig) *Engine {
	costs := NewCostModel(dir, rates)
	delivery := NewDeliveryScorer(dir)
	return &Engine{
		dir:       dir,
		costs:     costs,
		delivery:  delivery,
		evaluator: NewNumberEvaluator(dir, costs, delivery, weights),
		weights:   weights,
		analytics: analytics,
		printer:   message.NewPrinter(language.AmericanEnglish),
	}
}

// NewDefaultEngine builds an Engine with the production policy constants.
func NewDefaultEngine() *Engine {
	return NewEngine(NewDirectory(), DefaultRateTable(), DefaultWeights(), DefaultAnalyticsConfig())
}

// Directory exposes the engine's country table for lookup endpoints.
func (e *Engine) Directory() *Directory { return e.dir }

// Costs exposes the engine's cost model for estimate endpoints.
func (e *Engine) Costs() *CostModel { return e.costs }

// Suggest picks the best sending number for destinationNumber from the
// caller's owned numbers plus synthetic acquisition candidates, for a
// projected volume of messageCount SMS and callMinutes voice minutes.
func (e *Engine) Suggest(destinationNumber string, ownedNumbers []string, messageCount int, callMinutes float64) (*RoutingRecommendation, error) {
	destCountry, err := e.dir.ResolveCountry(destinationNumber)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnresolvableDestination, err)
	}

	covered := make(map[string]bool)
	var candidates []NumberOption

	// Owned numbers whose country resolves. A single bad number degrades
	// gracefully instead of aborting the request.
	for _, number := range ownedNumbers {
		country, err := e.dir.ResolveCountry(number)
		if err != nil {
			continue
		}
		covered[country] = true
		candidates = append(candidates, e.evaluator.Evaluate(number, country, destCountry, true))
	}

	// Synthetic destination-local candidate, unless already covered.
	if !covered[destCountry] {
		candidates = append(candidates, e.syntheticCandidate(destCountry, destCountry))
		covered[destCountry] = true
	}

	// Synthetic candidates for the geographically closest countries.
	added := 0
	for _, neighbor := range e.dir.Closest(destCountry, 0) {
		if added == closestSyntheticCandidates {
			break
		}
		if covered[neighbor.Code] {
			continue
		}
		candidates = append(candidates, e.syntheticCandidate(neighbor.Code, destCountry))
		covered[neighbor.Code] = true
		added++
	}

	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: destination %s", ErrNoRoutingOptions, destCountry)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].TotalScore > candidates[j].TotalScore
	})

	primary := candidates[0]
	alternatives := make([]NumberOption, 0, maxAlternatives)
	for _, option := range candidates[1:] {
		if len(alternatives) == maxAlternatives {
			break
		}
		alternatives = append(alternatives, option)
	}

	// Savings and delivery spread are computed over the full candidate set,
	// not just the reported top options.
	bestLanded := candidates[0].LandedCost(messageCount, callMinutes)
	worstLanded := bestLanded
	minDelivery := candidates[0].DeliveryScore
	for _, option := range candidates[1:] {
		landed := option.LandedCost(messageCount, callMinutes)
		if landed < bestLanded {
			bestLanded = landed
		}
		if landed > worstLanded {
			worstLanded = landed
		}
		if option.DeliveryScore < minDelivery {
			minDelivery = option.DeliveryScore
		}
	}

	rec := &RoutingRecommendation{
		DestinationNumber:   destinationNumber,
		DestinationCountry:  destCountry,
		PrimaryOption:       primary,
		AlternativeOptions:  alternatives,
		CostSavings:         worstLanded - bestLanded,
		DeliveryImprovement: primary.DeliveryScore - minDelivery,
	}
	rec.Reason = e.buildReason(rec)
	return rec, nil
}

// syntheticCandidate builds the hypothetical "acquire a number in country"
// option using a representative placeholder number.
func (e *Engine) syntheticCandidate(country, destCountry string) NumberOption {
	info, _ := e.dir.Lookup(country)
	placeholder := info.CallingCode + "5550100"
	return e.evaluator.Evaluate(placeholder, country, destCountry, false)
}

// buildReason assembles the deterministic, rule-based justification string.
func (e *Engine) buildReason(rec *RoutingRecommendation) string {
	var parts []string

	if rec.PrimaryOption.CountryCode == rec.DestinationCountry {
		parts = append(parts, "domestic number provides best delivery rates")
	}
	if rec.PrimaryOption.DistanceKm < nearbyRouteKm {
		parts = append(parts, "geographically close for optimal routing")
	}
	if rec.CostSavings > savingsMentionFloor {
		parts = append(parts, e.printer.Sprintf("saves $%.2f versus the most expensive option", rec.CostSavings))
	}
	if rec.DeliveryImprovement > deliveryMentionFloor {
		parts = append(parts, e.printer.Sprintf("improves delivery likelihood by %.0f%%", rec.DeliveryImprovement*100))
	}
	if rec.PrimaryOption.MonthlyCost == 0 {
		parts = append(parts, "uses existing owned number")
	}

	if len(parts) == 0 {
		return "balanced cost and delivery performance"
	}
	return strings.Join(parts, ", ")
}
