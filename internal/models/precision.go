package models

import (
	"encoding/json"
	"fmt"
)

// ConfidenceLevel is the discrete reliability bucket of a precision score.
type ConfidenceLevel int

const (
	ConfidenceLow ConfidenceLevel = iota
	ConfidenceMedium
	ConfidenceHigh
	ConfidenceVeryHigh
)

func (c ConfidenceLevel) String() string {
	switch c {
	case ConfidenceLow:
		return "low"
	case ConfidenceMedium:
		return "medium"
	case ConfidenceHigh:
		return "high"
	case ConfidenceVeryHigh:
		return "very-high"
	default:
		return "unknown"
	}
}

// ParseConfidenceLevel maps a wire value back to a ConfidenceLevel.
func ParseConfidenceLevel(s string) (ConfidenceLevel, error) {
	switch s {
	case "low":
		return ConfidenceLow, nil
	case "medium":
		return ConfidenceMedium, nil
	case "high":
		return ConfidenceHigh, nil
	case "very-high":
		return ConfidenceVeryHigh, nil
	default:
		return 0, fmt.Errorf("unknown confidence level: %q", s)
	}
}

func (c ConfidenceLevel) MarshalJSON() ([]byte, error) { return marshalString(c.String()) }

func (c *ConfidenceLevel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := ParseConfidenceLevel(s)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// PrecisionScore grades how complete the declared input was. Informational
// only: its margin label is independent from the uncertainty the calculator
// actually applies.
type PrecisionScore struct {
	Score         int             `json:"score"`
	MaxScore      int             `json:"max_score"`
	Completeness  int             `json:"completeness_percent"`
	Level         ConfidenceLevel `json:"level"`
	Margin        string          `json:"margin"`
	MissingFields []string        `json:"missing_fields,omitempty"`
	Suggestions   []string        `json:"suggestions,omitempty"`
}
