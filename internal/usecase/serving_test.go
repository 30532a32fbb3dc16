package usecase

import (
	"testing"

	"github.com/nutriscan/backend/internal/domain"
)

func TestNormalize_FieldChain(t *testing.T) {
	normalizer := NewServingNormalizer()

	tests := []struct {
		name      string
		product   *domain.RawProduct
		wantValue float64
		wantUnit  string
		wantGrams float64
	}{
		{
			name:      "explicit serving size with space",
			product:   &domain.RawProduct{ServingSize: "200 ml"},
			wantValue: 200,
			wantUnit:  "ml",
			wantGrams: 200,
		},
		{
			name:      "serving size without space",
			product:   &domain.RawProduct{ServingSize: "330ml"},
			wantValue: 330,
			wantUnit:  "ml",
			wantGrams: 330,
		},
		{
			name:      "comma decimal separator",
			product:   &domain.RawProduct{ServingSize: "33,3 cl"},
			wantValue: 33.3,
			wantUnit:  "cl",
			wantGrams: 333,
		},
		{
			name:      "liters convert to grams equivalent",
			product:   &domain.RawProduct{ServingSize: "1.5l"},
			wantValue: 1.5,
			wantUnit:  "l",
			wantGrams: 1500,
		},
		{
			name:      "kilograms convert to grams",
			product:   &domain.RawProduct{NetQuantity: "2 kg"},
			wantValue: 2,
			wantUnit:  "kg",
			wantGrams: 2000,
		},
		{
			name:      "net quantity used when serving size empty",
			product:   &domain.RawProduct{NetQuantity: "250 g"},
			wantValue: 250,
			wantUnit:  "g",
			wantGrams: 250,
		},
		{
			name:      "product quantity third in chain",
			product:   &domain.RawProduct{ProductQuantity: "500"},
			wantValue: 500,
			wantUnit:  "g",
			wantGrams: 500,
		},
		{
			name:      "generic quantity last in chain",
			product:   &domain.RawProduct{Quantity: "75 cl"},
			wantValue: 75,
			wantUnit:  "cl",
			wantGrams: 750,
		},
		{
			name:      "serving size wins over later fields",
			product:   &domain.RawProduct{ServingSize: "30 g", Quantity: "400 g"},
			wantValue: 30,
			wantUnit:  "g",
			wantGrams: 30,
		},
		{
			name:      "no fields defaults to 100g",
			product:   &domain.RawProduct{},
			wantValue: 100,
			wantUnit:  "g",
			wantGrams: 100,
		},
		{
			name:      "unparseable text falls back to 100g",
			product:   &domain.RawProduct{ServingSize: "one portion"},
			wantValue: 100,
			wantUnit:  "g",
			wantGrams: 100,
		},
		{
			name:      "missing unit defaults to grams",
			product:   &domain.RawProduct{ServingSize: "45"},
			wantValue: 45,
			wantUnit:  "g",
			wantGrams: 45,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizer.Normalize(tt.product)
			if got.Value != tt.wantValue {
				t.Errorf("Value = %v, want %v", got.Value, tt.wantValue)
			}
			if got.Unit != tt.wantUnit {
				t.Errorf("Unit = %v, want %v", got.Unit, tt.wantUnit)
			}
			if got.Grams != tt.wantGrams {
				t.Errorf("Grams = %v, want %v", got.Grams, tt.wantGrams)
			}
		})
	}
}

func TestNormalize_NameFallback(t *testing.T) {
	normalizer := NewServingNormalizer()

	t.Run("recovers size from product name when fields absent", func(t *testing.T) {
		got := normalizer.Normalize(&domain.RawProduct{ProductName: "Cola 500ml Bottle"})
		if got.Grams != 500 {
			t.Errorf("Grams = %v, want 500", got.Grams)
		}
	})

	t.Run("liters in product name convert to grams", func(t *testing.T) {
		got := normalizer.Normalize(&domain.RawProduct{ProductName: "Spring Water 2l"})
		if got.Grams != 2000 {
			t.Errorf("Grams = %v, want 2000", got.Grams)
		}
	})

	t.Run("name ignored when a field yields a non-default size", func(t *testing.T) {
		got := normalizer.Normalize(&domain.RawProduct{
			ServingSize: "250 ml",
			ProductName: "Cola 500ml Bottle",
		})
		if got.Grams != 250 {
			t.Errorf("Grams = %v, want 250", got.Grams)
		}
	})

	t.Run("name without a size keeps the default", func(t *testing.T) {
		got := normalizer.Normalize(&domain.RawProduct{ProductName: "Plain Oatmeal"})
		if got.Grams != 100 {
			t.Errorf("Grams = %v, want 100", got.Grams)
		}
	})

	t.Run("nil payload yields the default", func(t *testing.T) {
		got := normalizer.Normalize(nil)
		if got.Grams != 100 {
			t.Errorf("Grams = %v, want 100", got.Grams)
		}
	})
}

func TestParseServingText(t *testing.T) {
	info := parseServingText("200 ml")
	if info.Description != "200 ml" {
		t.Errorf("Description = %q, want original text retained", info.Description)
	}
}

func TestGramsEquivalent(t *testing.T) {
	tests := []struct {
		value float64
		unit  string
		want  float64
	}{
		{100, "g", 100},
		{100, "ml", 100},
		{1, "l", 1000},
		{1, "kg", 1000},
		{50, "cl", 500},
		{10, "ML", 10},
	}

	for _, tt := range tests {
		if got := gramsEquivalent(tt.value, tt.unit); got != tt.want {
			t.Errorf("gramsEquivalent(%v, %q) = %v, want %v", tt.value, tt.unit, got, tt.want)
		}
	}
}
