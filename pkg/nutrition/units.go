package nutrition

import (
	"math"
	"strings"

	"Nutrilog-Backend/domain"
)

// DefaultPortionGrams is assumed when a unit is unknown or item-count based.
const DefaultPortionGrams = 100

var gramsPerUnit = map[string]float64{
	"g":          1,
	"gram":       1,
	"grams":      1,
	"oz":         28.35,
	"ounce":      28.35,
	"ounces":     28.35,
	"lb":         453.59,
	"pound":      453.59,
	"pounds":     453.59,
	"cup":        240,
	"cups":       240,
	"tbsp":       15,
	"tablespoon": 15,
	"tsp":        5,
	"teaspoon":   5,
	"slice":      30,
	"slices":     30,
	"piece":      DefaultPortionGrams,
	"pieces":     DefaultPortionGrams,
	"serving":    DefaultPortionGrams,
	"servings":   DefaultPortionGrams,

	// named foods used by the estimator path
	"egg":    50,
	"eggs":   50,
	"banana": 120,
	"apple":  180,
}

// ToGrams converts a quantity and unit to grams using the fixed table.
// Unknown units fall back to the default portion estimate.
func ToGrams(qty float64, unit string) float64 {
	if qty <= 0 {
		qty = 1
	}
	unit = strings.ToLower(strings.TrimSpace(unit))
	if unit == "" {
		return DefaultPortionGrams * qty
	}
	if g, ok := gramsPerUnit[unit]; ok {
		return g * qty
	}
	return DefaultPortionGrams * qty
}

func round1(n float64) float64 {
	return math.Round(n*10) / 10
}

// ScaleMacros linearly scales a base macro vector from baseGrams to
// targetGrams, rounding each field to one decimal. A zero base is treated
// as a zero ratio rather than a division by zero.
func ScaleMacros(base domain.Macros, baseGrams, targetGrams float64) domain.Macros {
	ratio := 0.0
	if baseGrams > 0 {
		ratio = targetGrams / baseGrams
	}
	return domain.Macros{
		Kcal:     round1(base.Kcal * ratio),
		ProteinG: round1(base.ProteinG * ratio),
		CarbsG:   round1(base.CarbsG * ratio),
		FatG:     round1(base.FatG * ratio),
		FiberG:   round1(base.FiberG * ratio),
	}
}
