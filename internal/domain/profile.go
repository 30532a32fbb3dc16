package domain

// Reference units a BaseNutritionProfile can be expressed in. A profile is
// either per one dimensionless serving (scaled through the unit-multiplier
// table) or per an absolute number of grams (scaled by direct ratio). The two
// modes are never mixed.
const (
	ReferenceServing = "serving"
	ReferenceGrams   = "g"
)

// BaseNutritionProfile holds nutrition values normalized to exactly one
// reference unit. It is immutable once created; scaling never overwrites it,
// only an explicit set-as-base operation produces a new profile.
type BaseNutritionProfile struct {
	Calories float64  `json:"calories"`
	Protein  float64  `json:"protein"`
	Carbs    float64  `json:"carbs"`
	Fat      float64  `json:"fat"`
	Fiber    *float64 `json:"fiber,omitempty"`
	Sugar    *float64 `json:"sugar,omitempty"`
	Sodium   *float64 `json:"sodium,omitempty"`

	// ReferenceUnit is ReferenceServing or ReferenceGrams.
	ReferenceUnit string `json:"referenceUnit"`
	// ReferenceGrams is the base serving in grams when ReferenceUnit is
	// ReferenceGrams; ignored in serving mode.
	ReferenceGrams float64 `json:"referenceGrams,omitempty"`
}
