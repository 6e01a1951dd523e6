package valuation

import (
	"fmt"
	"strconv"

	"tasador/server/internal/models"
)

// Area thresholds. Small dwellings trade at a premium per square meter,
// large ones at a discount; anything between is neutral.
const (
	smallAreaSqm         = 50.0
	largeAreaSqm         = 150.0
	smallAreaPercent     = 5.0
	largeAreaPercent     = -5.0
	bathroomsPercent     = 3.0
	minBathroomsForBonus = 2
	minBedroomsForBonus  = 3
)

// Absolute add-ons for parking and storage, keyed by coarse postal ranges.
// City-center codes carry substantially higher parking values.
const (
	garagePercent         = 2.0
	garageAdditionCenter  = 25000.0
	garageAddition        = 12000.0
	storageAdditionCenter = 6000.0
	storageAddition       = 3000.0
)

// floorPercent returns the floor adjustment for the combination of floor
// level and elevator presence. Two disjoint tables: without an elevator,
// higher floors are penalized progressively; the ground floor is penalized
// in both.
func floorPercent(floor models.FloorLevel, hasElevator bool) float64 {
	if hasElevator {
		switch floor {
		case models.FloorGround:
			return -3
		case models.FloorMezzanine:
			return -2
		case models.FloorLowMid:
			return 0
		case models.FloorMidHigh:
			return 2
		case models.FloorHigh:
			return 4
		case models.FloorAttic:
			return 5
		}
		return 0
	}
	switch floor {
	case models.FloorGround:
		return -5
	case models.FloorMezzanine:
		return -3
	case models.FloorLowMid:
		return -6
	case models.FloorMidHigh:
		return -12
	case models.FloorHigh:
		return -18
	case models.FloorAttic:
		return -20
	}
	return 0
}

// agePercent rewards newer construction brackets and penalizes older ones.
func agePercent(age models.AgeBracket) float64 {
	switch age {
	case models.AgeNew:
		return 10
	case models.AgeRecent:
		return 5
	case models.AgeModern:
		return 0
	case models.AgeOld:
		return -2
	case models.AgeVeryOld:
		return -5
	}
	return 0
}

func orientationPercent(o models.Orientation) float64 {
	switch o {
	case models.OrientationSouth:
		return 3
	case models.OrientationEast, models.OrientationWest:
		return 1
	case models.OrientationNorth:
		return -2
	}
	return 0
}

func conditionPercent(c models.Condition) float64 {
	switch c {
	case models.ConditionExcellent:
		return 5
	case models.ConditionGood:
		return 0
	case models.ConditionNeedsRefresh:
		return -8
	case models.ConditionToRenovate:
		return -15
	}
	return 0
}

func finishPercent(f models.FinishQuality) float64 {
	switch f {
	case models.FinishLuxury:
		return 8
	case models.FinishHigh:
		return 4
	case models.FinishStandard:
		return 0
	case models.FinishBasic:
		return -4
	}
	return 0
}

// isCityCenter marks the coarse postal ranges where parking and storage carry
// premium absolute values (central Madrid and Barcelona bands).
func isCityCenter(postalCode string) bool {
	code, err := strconv.Atoi(postalCode)
	if err != nil {
		return false
	}
	return (code >= 28001 && code <= 28080) || (code >= 8001 && code <= 8040)
}

func percentAdjustment(label string, percent float64, description string) models.Adjustment {
	return models.Adjustment{
		Label:       label,
		Display:     fmt.Sprintf("%+g%%", percent),
		Percent:     percent,
		Description: description,
	}
}

func absoluteAdjustment(label string, amount float64, description string) models.Adjustment {
	return models.Adjustment{
		Label:       label,
		Display:     fmt.Sprintf("%+.0f €", amount),
		Description: description,
		Absolute:    true,
		Amount:      amount,
	}
}

// ComputeAdjustments evaluates the applicable rules in fixed order and
// returns the adjustment list plus the combined percentage-only factor.
// Percentage rules compose multiplicatively as (1+p1/100)*(1+p2/100)*...;
// absolute add-ons are listed with their flat amounts and applied additively
// by the calculator after the factor. A nil detail runs the basic rule set
// only. Rules that do not fire contribute nothing to the list.
func ComputeAdjustments(property models.PropertyData, detail *models.DetailAttributes) ([]models.Adjustment, float64) {
	var adjustments []models.Adjustment

	if property.Area < smallAreaSqm {
		adjustments = append(adjustments,
			percentAdjustment("Compact size", smallAreaPercent,
				fmt.Sprintf("Dwellings under %.0f m² trade at a premium per square meter", smallAreaSqm)))
	} else if property.Area > largeAreaSqm {
		adjustments = append(adjustments,
			percentAdjustment("Large size", largeAreaPercent,
				fmt.Sprintf("Dwellings over %.0f m² trade at a discount per square meter", largeAreaSqm)))
	}

	if property.Floor != nil && property.HasElevator != nil {
		if p := floorPercent(*property.Floor, *property.HasElevator); p != 0 {
			label := fmt.Sprintf("Floor %s with elevator", property.Floor)
			if !*property.HasElevator {
				label = fmt.Sprintf("Floor %s without elevator", property.Floor)
			}
			adjustments = append(adjustments, percentAdjustment(label, p, ""))
		}
	}

	if property.Age != nil {
		if p := agePercent(*property.Age); p != 0 {
			adjustments = append(adjustments,
				percentAdjustment(fmt.Sprintf("Building age: %s", property.Age), p, ""))
		}
	}

	if property.Bathrooms != nil &&
		*property.Bathrooms >= minBathroomsForBonus &&
		property.Bedrooms >= minBedroomsForBonus {
		adjustments = append(adjustments,
			percentAdjustment("Multiple bathrooms", bathroomsPercent,
				"Two or more bathrooms in a family-sized dwelling"))
	}

	if detail != nil {
		adjustments = append(adjustments, detailAdjustments(property, detail)...)
	}

	factor := 1.0
	for _, adj := range adjustments {
		if !adj.Absolute {
			factor *= 1 + adj.Percent/100
		}
	}
	return adjustments, factor
}

// detailAdjustments evaluates the extended rule set of the detailed variant.
func detailAdjustments(property models.PropertyData, detail *models.DetailAttributes) []models.Adjustment {
	var adjustments []models.Adjustment

	if detail.Orientation != nil {
		if p := orientationPercent(*detail.Orientation); p != 0 {
			adjustments = append(adjustments,
				percentAdjustment(fmt.Sprintf("Orientation: %s", detail.Orientation), p, ""))
		}
	}

	if detail.Condition != nil {
		if p := conditionPercent(*detail.Condition); p != 0 {
			adjustments = append(adjustments,
				percentAdjustment(fmt.Sprintf("Condition: %s", detail.Condition), p, ""))
		}
	}

	if detail.TerraceSqm != nil && *detail.TerraceSqm > 0 {
		if *detail.TerraceSqm >= 15 {
			adjustments = append(adjustments,
				percentAdjustment("Large terrace", 4, "Terrace of 15 m² or more"))
		} else {
			adjustments = append(adjustments, percentAdjustment("Terrace", 2, ""))
		}
	}

	center := isCityCenter(property.PostalCode)

	if detail.HasGarage {
		adjustments = append(adjustments, percentAdjustment("Garage", garagePercent, ""))
		amount := garageAddition
		if center {
			amount = garageAdditionCenter
		}
		adjustments = append(adjustments,
			absoluteAdjustment("Garage parking space", amount,
				"Flat addition for the parking space, by postal range"))
	}

	if detail.HasStorage {
		amount := storageAddition
		if center {
			amount = storageAdditionCenter
		}
		adjustments = append(adjustments,
			absoluteAdjustment("Storage room", amount,
				"Flat addition for the storage room, by postal range"))
	}

	if detail.Finish != nil {
		if p := finishPercent(*detail.Finish); p != 0 {
			adjustments = append(adjustments,
				percentAdjustment(fmt.Sprintf("Finish quality: %s", detail.Finish), p, ""))
		}
	}

	return adjustments
}

// SumAbsolute totals the flat currency add-ons in an adjustment list.
func SumAbsolute(adjustments []models.Adjustment) float64 {
	var sum float64
	for _, adj := range adjustments {
		if adj.Absolute {
			sum += adj.Amount
		}
	}
	return sum
}

// CombinedFactor recomputes the percentage-only multiplicative factor of an
// adjustment list.
func CombinedFactor(adjustments []models.Adjustment) float64 {
	factor := 1.0
	for _, adj := range adjustments {
		if !adj.Absolute {
			factor *= 1 + adj.Percent/100
		}
	}
	return factor
}
