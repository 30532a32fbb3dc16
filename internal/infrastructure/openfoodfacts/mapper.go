package openfoodfacts

import (
	"math"

	"github.com/nutriscan/backend/internal/domain"
)

// fallbackProductName is used when the upstream payload has no product name.
const fallbackProductName = "Unknown Product"

// MapToProduct converts a raw upstream payload into a resolved product.
// Upstream nutriments are per 100 g/ml; every present value is scaled by
// gramsEquivalent/100 to the normalized serving. Calories round to the
// nearest whole kcal and gram quantities to one decimal place. Sodium
// arrives in grams and converts to milligrams before the decimal rounding.
func MapToProduct(raw *domain.RawProduct, barcode string, serving domain.ServingInfo) *domain.ScannedProduct {
	factor := serving.Grams / 100
	n := raw.Nutriments

	name := raw.ProductName
	if name == "" {
		name = fallbackProductName
	}

	return &domain.ScannedProduct{
		Barcode:  barcode,
		Name:     name,
		Brand:    raw.Brands,
		ImageURL: raw.ImageURL,
		Nutrition: domain.NutritionRecord{
			Calories: math.Round(n.Energy() * factor),
			Protein:  roundTenth(n.Proteins * factor),
			Carbs:    roundTenth(n.Carbohydrates * factor),
			Fat:      roundTenth(n.Fat * factor),
			Fiber:    scaleGrams(n.Fiber, factor),
			Sugar:    scaleGrams(n.Sugars, factor),
			Sodium:   scaleToMilligrams(n.Sodium, factor),

			ServingSize:        serving.Value,
			ServingUnit:        serving.Unit,
			ServingDescription: serving.Description,
		},
		Source: domain.SourceOpenFoodFacts,
	}
}

func scaleGrams(v *float64, factor float64) *float64 {
	if v == nil {
		return nil
	}
	scaled := roundTenth(*v * factor)
	return &scaled
}

func scaleToMilligrams(grams *float64, factor float64) *float64 {
	if grams == nil {
		return nil
	}
	mg := roundTenth(*grams * factor * 1000)
	return &mg
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
