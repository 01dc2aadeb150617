package extract

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/codeGROOVE-dev/fundscrape/pkg/fund"
)

// numericNoise matches currency symbols, thousands separators, percent signs,
// ASCII and Unicode spaces (including U+00A0) and a trailing crore unit.
// The unit is stripped for every field; only AUM is quoted in crore.
var numericNoise = regexp.MustCompile(`[₹$€£,%\s\p{Zs}]|(?i:cr(?:ore)?s?\.?)$`)

// Normalize parses a free-form numeric string such as "₹1,234.56 Cr" or "-2.3%".
// It reports false when the input is empty or does not parse to a finite number.
func Normalize(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	cleaned := numericNoise.ReplaceAllString(raw, "")
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// normalizeValue is Normalize shaped for record fields.
func normalizeValue(raw string) *float64 {
	v, ok := Normalize(raw)
	if !ok {
		return nil
	}
	return fund.Value(v)
}
