package models

import (
	"errors"
	"fmt"
)

// FloorLevel represents the floor bracket a dwelling sits on.
type FloorLevel int

const (
	FloorGround FloorLevel = iota
	FloorMezzanine
	FloorLowMid
	FloorMidHigh
	FloorHigh
	FloorAttic
)

// String returns the string representation of a FloorLevel
func (f FloorLevel) String() string {
	switch f {
	case FloorGround:
		return "ground"
	case FloorMezzanine:
		return "mezzanine"
	case FloorLowMid:
		return "low-mid"
	case FloorMidHigh:
		return "mid-high"
	case FloorHigh:
		return "high"
	case FloorAttic:
		return "attic"
	default:
		return "unknown"
	}
}

// ParseFloorLevel maps a wire value back to a FloorLevel.
func ParseFloorLevel(s string) (FloorLevel, error) {
	switch s {
	case "ground":
		return FloorGround, nil
	case "mezzanine":
		return FloorMezzanine, nil
	case "low-mid":
		return FloorLowMid, nil
	case "mid-high":
		return FloorMidHigh, nil
	case "high":
		return FloorHigh, nil
	case "attic":
		return FloorAttic, nil
	default:
		return 0, fmt.Errorf("unknown floor level: %q", s)
	}
}

// AgeBracket represents the construction-age bracket of the building.
type AgeBracket int

const (
	AgeNew AgeBracket = iota
	AgeRecent
	AgeModern
	AgeOld
	AgeVeryOld
)

func (a AgeBracket) String() string {
	switch a {
	case AgeNew:
		return "new"
	case AgeRecent:
		return "recent"
	case AgeModern:
		return "modern"
	case AgeOld:
		return "old"
	case AgeVeryOld:
		return "very-old"
	default:
		return "unknown"
	}
}

// ParseAgeBracket maps a wire value back to an AgeBracket.
func ParseAgeBracket(s string) (AgeBracket, error) {
	switch s {
	case "new":
		return AgeNew, nil
	case "recent":
		return AgeRecent, nil
	case "modern":
		return AgeModern, nil
	case "old":
		return AgeOld, nil
	case "very-old":
		return AgeVeryOld, nil
	default:
		return 0, fmt.Errorf("unknown age bracket: %q", s)
	}
}

// PropertyType distinguishes the kind of dwelling being valued.
type PropertyType int

const (
	TypeFlat PropertyType = iota
	TypeHouse
	TypePenthouse
	TypeDuplex
)

func (p PropertyType) String() string {
	switch p {
	case TypeFlat:
		return "flat"
	case TypeHouse:
		return "house"
	case TypePenthouse:
		return "penthouse"
	case TypeDuplex:
		return "duplex"
	default:
		return "unknown"
	}
}

// ParsePropertyType maps a wire value back to a PropertyType.
func ParsePropertyType(s string) (PropertyType, error) {
	switch s {
	case "flat":
		return TypeFlat, nil
	case "house":
		return TypeHouse, nil
	case "penthouse":
		return TypePenthouse, nil
	case "duplex":
		return TypeDuplex, nil
	default:
		return 0, fmt.Errorf("unknown property type: %q", s)
	}
}

// PropertyData holds the user-declared facts about one property.
// Immutable once constructed; owned by the caller for one valuation request.
type PropertyData struct {
	PostalCode   string        `json:"postal_code"`
	Municipality string        `json:"municipality,omitempty"`
	Street       string        `json:"street,omitempty"`
	Area         float64       `json:"area"`
	LandArea     *float64      `json:"land_area,omitempty"`
	Bedrooms     int           `json:"bedrooms"`
	Bathrooms    *int          `json:"bathrooms,omitempty"`
	Floor        *FloorLevel   `json:"floor,omitempty"`
	HasElevator  *bool         `json:"has_elevator,omitempty"`
	Age          *AgeBracket   `json:"age,omitempty"`
	Type         *PropertyType `json:"type,omitempty"`
}

var (
	ErrInvalidPostalCode = errors.New("postal code must be a 5-digit numeric code")
	ErrInvalidArea       = errors.New("area must be a positive number")
	ErrInvalidBedrooms   = errors.New("bedroom count must be positive")
	ErrInvalidBathrooms  = errors.New("bathroom count must be positive")
)

// Validate checks the structural invariants of the declared data. The
// valuation pipeline must never run on input that fails here.
func (p *PropertyData) Validate() error {
	if len(p.PostalCode) != 5 {
		return ErrInvalidPostalCode
	}
	for _, c := range p.PostalCode {
		if c < '0' || c > '9' {
			return ErrInvalidPostalCode
		}
	}
	if p.Area <= 0 {
		return ErrInvalidArea
	}
	if p.Bedrooms <= 0 {
		return ErrInvalidBedrooms
	}
	if p.Bathrooms != nil && *p.Bathrooms <= 0 {
		return ErrInvalidBathrooms
	}
	return nil
}
