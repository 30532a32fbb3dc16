package domain

import (
	"encoding/json"
	"time"
)

// Source values recorded on a ScannedProduct.
const (
	SourceOpenFoodFacts = "openfoodfacts"
	SourceCache         = "cache"
	SourceManual        = "manual"
)

// NutritionRecord holds nutrition content for one concrete serving size.
// All present values are non-negative; ServingSize is strictly positive.
type NutritionRecord struct {
	Calories float64  `json:"calories"` // kcal
	Protein  float64  `json:"protein"`  // grams
	Carbs    float64  `json:"carbs"`    // grams
	Fat      float64  `json:"fat"`      // grams
	Fiber    *float64 `json:"fiber,omitempty"`  // grams
	Sugar    *float64 `json:"sugar,omitempty"`  // grams
	Sodium   *float64 `json:"sodium,omitempty"` // milligrams

	ServingSize        float64 `json:"servingSize"`
	ServingUnit        string  `json:"servingUnit"`
	ServingDescription string  `json:"servingDescription"`
}

// ScannedProduct is the resolved result for one barcode.
type ScannedProduct struct {
	Barcode   string          `json:"barcode"`
	Name      string          `json:"name"`
	Brand     string          `json:"brand,omitempty"`
	ImageURL  string          `json:"imageUrl,omitempty"`
	Nutrition NutritionRecord `json:"nutrition"`
	Source    string          `json:"source"`
}

// CachedProduct wraps a resolved product with its cache lifecycle timestamps.
type CachedProduct struct {
	Barcode   string         `json:"barcode"`
	Product   ScannedProduct `json:"product"`
	CachedAt  time.Time      `json:"cachedAt"`
	ExpiresAt time.Time      `json:"expiresAt"`
}

// Expired reports whether the entry should be treated as absent at the given time.
func (c *CachedProduct) Expired(now time.Time) bool {
	return !c.ExpiresAt.After(now)
}

// ServingInfo is the normalized serving size derived from upstream text fields.
// Unit and Value are kept as matched for display; all nutrition math uses Grams.
type ServingInfo struct {
	Value       float64 `json:"value"`
	Unit        string  `json:"unit"`
	Grams       float64 `json:"grams"`
	Description string  `json:"description"`
}

// LookupStatusNotFound is the upstream status discriminator for an
// unregistered barcode, distinct from transport failure.
const LookupStatusNotFound = 0

// LookupResponse is the envelope returned by the Open Food Facts product endpoint.
type LookupResponse struct {
	Status  int         `json:"status"`
	Code    string      `json:"code"`
	Product *RawProduct `json:"product"`
}

// RawProduct is the upstream product payload. Serving-size fields are
// unreliable free text and go through the serving normalizer.
type RawProduct struct {
	ProductName     string     `json:"product_name"`
	Brands          string     `json:"brands"`
	ImageURL        string     `json:"image_url"`
	ServingSize     FlexString `json:"serving_size"`
	NetQuantity     FlexString `json:"net_quantity"`
	ProductQuantity FlexString `json:"product_quantity"`
	Quantity        FlexString `json:"quantity"`
	Nutriments      Nutriments `json:"nutriments"`
}

// Nutriments are per-100-unit nutrition values. Upstream spells the energy
// key two ways depending on the product, so both are mapped.
type Nutriments struct {
	EnergyKcal    float64  `json:"energy-kcal_100g"`
	EnergyKcalAlt float64  `json:"energy_kcal_100g"`
	Proteins      float64  `json:"proteins_100g"`
	Carbohydrates float64  `json:"carbohydrates_100g"`
	Fat           float64  `json:"fat_100g"`
	Fiber         *float64 `json:"fiber_100g"`
	Sugars        *float64 `json:"sugars_100g"`
	Sodium        *float64 `json:"sodium_100g"` // grams, converted to mg during mapping
}

// Energy returns the per-100-unit kcal value, accepting either upstream spelling.
func (n Nutriments) Energy() float64 {
	if n.EnergyKcal != 0 {
		return n.EnergyKcal
	}
	return n.EnergyKcalAlt
}

// FlexString decodes JSON fields that upstream serves inconsistently as
// either a string or a bare number.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	if string(b) == "null" {
		return nil
	}
	*f = FlexString(b)
	return nil
}

func (f FlexString) String() string {
	return string(f)
}
