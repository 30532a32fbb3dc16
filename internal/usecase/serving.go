package usecase

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/nutriscan/backend/internal/domain"
)

// Package-level compiled regex patterns for performance
var (
	// Matches serving text like "200 ml", "200ml", "33,3 cl", "1.5l"; the unit
	// is optional so bare numbers still parse.
	servingPattern = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(g|ml|l|kg|cl)?`)

	// Matches a size embedded in a product title, e.g. "Cola 500ml Bottle".
	nameSizePattern = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(ml|g|l)\b`)
)

// defaultServingText is assumed when no serving field carries a value,
// matching the per-100-unit convention of the upstream nutriment data.
const defaultServingText = "100g"

// ServingNormalizer derives a usable serving size from the unreliable
// free-text fields of an upstream product payload. Extraction runs as an
// ordered chain of strategies; the first one that yields a value wins.
type ServingNormalizer struct{}

// NewServingNormalizer creates a new serving normalizer.
func NewServingNormalizer() *ServingNormalizer {
	return &ServingNormalizer{}
}

// Normalize produces the (value, unit, grams-equivalent) triple for a payload.
// Value and Unit are kept as matched for display; all downstream nutrition
// math uses Grams exclusively.
func (n *ServingNormalizer) Normalize(product *domain.RawProduct) domain.ServingInfo {
	raw := firstServingField(product)
	info := parseServingText(raw)

	// A grams-equivalent of exactly 100 means no specific size was found.
	// Product titles like "500ml Bottle" often carry the real size, so try
	// to recover it from the name before settling for the default.
	if info.Grams == 100 && product != nil && product.ProductName != "" {
		if grams, ok := sizeFromName(product.ProductName); ok {
			info.Grams = grams
		}
	}

	return info
}

// firstServingField walks the serving-size field chain in priority order and
// returns the first non-empty value, or defaultServingText if none is set.
func firstServingField(product *domain.RawProduct) string {
	if product == nil {
		return defaultServingText
	}
	for _, field := range []string{
		product.ServingSize.String(),
		product.NetQuantity.String(),
		product.ProductQuantity.String(),
		product.Quantity.String(),
	} {
		if strings.TrimSpace(field) != "" {
			return field
		}
	}
	return defaultServingText
}

// parseServingText parses free text into a serving triple. Unparseable text
// falls back to 100g.
func parseServingText(raw string) domain.ServingInfo {
	info := domain.ServingInfo{
		Value:       100,
		Unit:        "g",
		Description: raw,
	}

	if m := servingPattern.FindStringSubmatch(raw); m != nil {
		if v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64); err == nil {
			info.Value = v
			info.Unit = "g"
			if m[2] != "" {
				info.Unit = strings.ToLower(m[2])
			}
		}
	}

	info.Grams = gramsEquivalent(info.Value, info.Unit)
	return info
}

// sizeFromName scans a product title for an embedded size and returns its
// grams-equivalent.
func sizeFromName(name string) (float64, bool) {
	m := nameSizePattern.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return gramsEquivalent(v, strings.ToLower(m[2])), true
}

// gramsEquivalent converts a (value, unit) pair to grams. Milliliters are
// treated as mass-equivalent to grams for nutrition scaling purposes; this is
// an approximation, not a physical conversion.
func gramsEquivalent(value float64, unit string) float64 {
	switch strings.ToLower(unit) {
	case "l", "kg":
		return value * 1000
	case "cl":
		return value * 10
	default: // ml, g
		return value
	}
}
