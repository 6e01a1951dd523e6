package models

import "fmt"

// Orientation is the main facade orientation declared by the user.
type Orientation int

const (
	OrientationNorth Orientation = iota
	OrientationSouth
	OrientationEast
	OrientationWest
)

func (o Orientation) String() string {
	switch o {
	case OrientationNorth:
		return "north"
	case OrientationSouth:
		return "south"
	case OrientationEast:
		return "east"
	case OrientationWest:
		return "west"
	default:
		return "unknown"
	}
}

// ParseOrientation maps a wire value back to an Orientation.
func ParseOrientation(s string) (Orientation, error) {
	switch s {
	case "north":
		return OrientationNorth, nil
	case "south":
		return OrientationSouth, nil
	case "east":
		return OrientationEast, nil
	case "west":
		return OrientationWest, nil
	default:
		return 0, fmt.Errorf("unknown orientation: %q", s)
	}
}

// Condition is the declared state of conservation.
type Condition int

const (
	ConditionExcellent Condition = iota
	ConditionGood
	ConditionNeedsRefresh
	ConditionToRenovate
)

func (c Condition) String() string {
	switch c {
	case ConditionExcellent:
		return "excellent"
	case ConditionGood:
		return "good"
	case ConditionNeedsRefresh:
		return "needs-refresh"
	case ConditionToRenovate:
		return "to-renovate"
	default:
		return "unknown"
	}
}

// ParseCondition maps a wire value back to a Condition.
func ParseCondition(s string) (Condition, error) {
	switch s {
	case "excellent":
		return ConditionExcellent, nil
	case "good":
		return ConditionGood, nil
	case "needs-refresh":
		return ConditionNeedsRefresh, nil
	case "to-renovate":
		return ConditionToRenovate, nil
	default:
		return 0, fmt.Errorf("unknown condition: %q", s)
	}
}

// FinishQuality is the declared quality of finishes and materials.
type FinishQuality int

const (
	FinishLuxury FinishQuality = iota
	FinishHigh
	FinishStandard
	FinishBasic
)

func (f FinishQuality) String() string {
	switch f {
	case FinishLuxury:
		return "luxury"
	case FinishHigh:
		return "high"
	case FinishStandard:
		return "standard"
	case FinishBasic:
		return "basic"
	default:
		return "unknown"
	}
}

// ParseFinishQuality maps a wire value back to a FinishQuality.
func ParseFinishQuality(s string) (FinishQuality, error) {
	switch s {
	case "luxury":
		return FinishLuxury, nil
	case "high":
		return FinishHigh, nil
	case "standard":
		return FinishStandard, nil
	case "basic":
		return FinishBasic, nil
	default:
		return 0, fmt.Errorf("unknown finish quality: %q", s)
	}
}

// DetailAttributes carries the extra declarations accepted by the detailed
// valuation variant. All fields are optional.
type DetailAttributes struct {
	Orientation *Orientation   `json:"orientation,omitempty"`
	Condition   *Condition     `json:"condition,omitempty"`
	TerraceSqm  *float64       `json:"terrace_sqm,omitempty"`
	HasGarage   bool           `json:"has_garage,omitempty"`
	HasStorage  bool           `json:"has_storage,omitempty"`
	Finish      *FinishQuality `json:"finish,omitempty"`
	PhotoCount  int            `json:"photo_count,omitempty"`
}
