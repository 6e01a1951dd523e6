package valuation

import (
	"math"

	"tasador/server/internal/models"
)

// Scoring weights per tier. Basic fields are required for any valuation at
// all, so their weight dominates; secondary fields refine the adjustment
// rules; tertiary fields only add context.
const (
	basicFieldPoints     = 15
	secondaryFieldPoints = 7
	tertiaryFieldPoints  = 3
	photoPoints          = 4
	photoCountCap       = 5

	maxSuggestions = 3
	maxMissing     = 3
)

// Level thresholds over the summed score. The margin labels here are
// informational guidance only; the calculator applies its own independent
// uncertainty constants.
const (
	veryHighThreshold = 85
	highThreshold     = 65
	mediumThreshold   = 40
)

// maxPrecisionScore is the total with every field declared and a full photo
// set: 3 basic + 5 secondary + 3 tertiary fields plus capped photos.
const maxPrecisionScore = 3*basicFieldPoints + 5*secondaryFieldPoints + 3*tertiaryFieldPoints + photoCountCap*photoPoints

// ScorePrecision grades how complete the declared input was and suggests what
// to add. Pure and deterministic; never wired into the price computation.
func ScorePrecision(property models.PropertyData, photoCount int) models.PrecisionScore {
	score := 0

	// Basic tier. Validation guarantees these for any accepted request, but
	// the scorer is also usable on drafts.
	if property.PostalCode != "" {
		score += basicFieldPoints
	}
	if property.Area > 0 {
		score += basicFieldPoints
	}
	if property.Bedrooms > 0 {
		score += basicFieldPoints
	}

	// Secondary tier.
	if property.Bathrooms != nil {
		score += secondaryFieldPoints
	}
	if property.Floor != nil {
		score += secondaryFieldPoints
	}
	if property.HasElevator != nil {
		score += secondaryFieldPoints
	}
	if property.Age != nil {
		score += secondaryFieldPoints
	}
	if property.Type != nil {
		score += secondaryFieldPoints
	}

	// Tertiary tier.
	if property.Municipality != "" {
		score += tertiaryFieldPoints
	}
	if property.Street != "" {
		score += tertiaryFieldPoints
	}
	if property.LandArea != nil {
		score += tertiaryFieldPoints
	}

	photos := photoCount
	if photos > photoCountCap {
		photos = photoCountCap
	}
	if photos > 0 {
		score += photos * photoPoints
	}

	level, margin := confidenceLevel(score)

	return models.PrecisionScore{
		Score:         score,
		MaxScore:      maxPrecisionScore,
		Completeness:  int(math.Round(float64(score) / maxPrecisionScore * 100)),
		Level:         level,
		Margin:        margin,
		MissingFields: missingFields(property),
		Suggestions:   suggestions(property, photoCount),
	}
}

func confidenceLevel(score int) (models.ConfidenceLevel, string) {
	switch {
	case score >= veryHighThreshold:
		return models.ConfidenceVeryHigh, "±2%"
	case score >= highThreshold:
		return models.ConfidenceHigh, "±8%"
	case score >= mediumThreshold:
		return models.ConfidenceMedium, "±12%"
	default:
		return models.ConfidenceLow, "±20%"
	}
}

// missingFields lists up to maxMissing absent fields in fixed priority order.
func missingFields(property models.PropertyData) []string {
	var missing []string
	add := func(name string) {
		if len(missing) < maxMissing {
			missing = append(missing, name)
		}
	}

	if property.Bathrooms == nil {
		add("bathrooms")
	}
	if property.Floor == nil {
		add("floor")
	}
	if property.HasElevator == nil {
		add("has_elevator")
	}
	if property.Age == nil {
		add("age")
	}
	if property.Type == nil {
		add("type")
	}
	if property.Municipality == "" {
		add("municipality")
	}
	return missing
}

// suggestions emits up to maxSuggestions guidance strings in fixed priority
// order.
func suggestions(property models.PropertyData, photoCount int) []string {
	var out []string
	add := func(s string) {
		if len(out) < maxSuggestions {
			out = append(out, s)
		}
	}

	if photoCount < 3 {
		add("Add at least 3 photos to narrow the estimate range")
	}
	if property.Floor == nil || property.HasElevator == nil {
		add("Declare the floor level and whether the building has an elevator")
	}
	if property.Age == nil {
		add("Declare the building age bracket")
	}
	if property.Bathrooms == nil {
		add("Declare the number of bathrooms")
	}
	return out
}
