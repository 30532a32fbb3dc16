package usecase

import (
	"math"
	"strings"

	"github.com/nutriscan/backend/internal/domain"
)

// unitMultipliers maps meal units to dimensionless multipliers relative to
// one serving. Applied only when the base profile's reference unit is a
// serving; gram-based profiles scale by direct ratio instead.
var unitMultipliers = map[string]float64{
	"serving": 1,
	"cup":     1.2,
	"piece":   0.8,
	"slice":   0.6,
	"bowl":    1.5,
	"plate":   2,
	"gram":    0.01,
	"ounce":   0.28,
}

// UnitMultiplier returns the serving multiplier for a unit name. Unknown
// units scale as one serving.
func UnitMultiplier(unit string) float64 {
	if m, ok := unitMultipliers[strings.ToLower(strings.TrimSpace(unit))]; ok {
		return m
	}
	return 1
}

// QuantityScaler rescales nutrition values linearly when the user changes
// target quantity or unit. Scaling is a pure function of the base profile;
// the profile itself is never overwritten by a scaled result, so rescaling
// is idempotent and order-independent.
type QuantityScaler struct{}

// NewQuantityScaler creates a new quantity scaler.
func NewQuantityScaler() *QuantityScaler {
	return &QuantityScaler{}
}

// Scale computes the nutrition values for a target quantity and unit.
// For serving-based profiles the factor is quantity x unit multiplier; for
// gram-based profiles the quantity is a target gram amount and the factor is
// the direct ratio against the profile's reference grams. A quantity of zero
// or less is rejected before any value is computed.
func (s *QuantityScaler) Scale(profile *domain.BaseNutritionProfile, quantity float64, unit string) (*domain.NutritionRecord, error) {
	if profile == nil {
		return nil, domain.ErrInvalidRequest
	}
	if quantity <= 0 {
		return nil, domain.ErrInvalidServingSize
	}

	var factor float64
	switch profile.ReferenceUnit {
	case domain.ReferenceGrams:
		if profile.ReferenceGrams <= 0 {
			return nil, domain.ErrInvalidRequest
		}
		factor = quantity / profile.ReferenceGrams
	default:
		factor = quantity * UnitMultiplier(unit)
	}

	return &domain.NutritionRecord{
		Calories:    roundTenth(profile.Calories * factor),
		Protein:     roundTenth(profile.Protein * factor),
		Carbs:       roundTenth(profile.Carbs * factor),
		Fat:         roundTenth(profile.Fat * factor),
		Fiber:       scaleOptional(profile.Fiber, factor),
		Sugar:       scaleOptional(profile.Sugar, factor),
		Sodium:      scaleOptional(profile.Sodium, factor),
		ServingSize: quantity,
		ServingUnit: unit,
	}, nil
}

// ScaleByGrams scales a gram-based profile to a target gram amount.
func (s *QuantityScaler) ScaleByGrams(profile *domain.BaseNutritionProfile, targetGrams float64) (*domain.NutritionRecord, error) {
	if profile == nil || profile.ReferenceUnit != domain.ReferenceGrams {
		return nil, domain.ErrInvalidRequest
	}
	return s.Scale(profile, targetGrams, domain.ReferenceGrams)
}

// SetAsBase recovers a per-one-serving base profile from currently-displayed
// (already-scaled) values by dividing out the current quantity and unit
// multiplier. This inverts Scale exactly, letting the user redefine the
// reference point at any time.
func (s *QuantityScaler) SetAsBase(displayed *domain.NutritionRecord, quantity float64, unit string) (*domain.BaseNutritionProfile, error) {
	if displayed == nil {
		return nil, domain.ErrInvalidRequest
	}
	if quantity <= 0 {
		return nil, domain.ErrInvalidServingSize
	}

	factor := quantity * UnitMultiplier(unit)

	return &domain.BaseNutritionProfile{
		Calories:      displayed.Calories / factor,
		Protein:       displayed.Protein / factor,
		Carbs:         displayed.Carbs / factor,
		Fat:           displayed.Fat / factor,
		Fiber:         divideOptional(displayed.Fiber, factor),
		Sugar:         divideOptional(displayed.Sugar, factor),
		Sodium:        divideOptional(displayed.Sodium, factor),
		ReferenceUnit: domain.ReferenceServing,
	}, nil
}

// ProfileFromRecord builds a gram-based profile from a resolved product
// record, using the record's serving size converted to grams as the
// reference. Used for barcode products whose serving is an absolute amount.
func ProfileFromRecord(record *domain.NutritionRecord) *domain.BaseNutritionProfile {
	grams := gramsEquivalent(record.ServingSize, record.ServingUnit)
	return &domain.BaseNutritionProfile{
		Calories:       record.Calories,
		Protein:        record.Protein,
		Carbs:          record.Carbs,
		Fat:            record.Fat,
		Fiber:          copyOptional(record.Fiber),
		Sugar:          copyOptional(record.Sugar),
		Sodium:         copyOptional(record.Sodium),
		ReferenceUnit:  domain.ReferenceGrams,
		ReferenceGrams: grams,
	}
}

func scaleOptional(v *float64, factor float64) *float64 {
	if v == nil {
		return nil
	}
	scaled := roundTenth(*v * factor)
	return &scaled
}

// divideOptional divides without rounding so the recovered base keeps full
// precision for later rescaling.
func divideOptional(v *float64, factor float64) *float64 {
	if v == nil {
		return nil
	}
	d := *v / factor
	return &d
}

func copyOptional(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
