package registry

import (
	"strconv"
	"strings"
)

// ParseLocalePrice normalizes a locale-formatted registry price string into a
// plain number. The registry formats figures with "." as thousands separator
// and "," as decimal separator, often followed by unit annotations
// ("1.866", "2.015,50 €/m²"). Returns false for empty, non-numeric or
// non-positive input.
func ParseLocalePrice(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}

	// Cut trailing annotations: keep the leading run of digits and separators.
	end := 0
	for end < len(s) {
		c := s[end]
		if (c < '0' || c > '9') && c != '.' && c != ',' {
			break
		}
		end++
	}
	s = s[:end]
	if s == "" {
		return 0, false
	}

	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}
