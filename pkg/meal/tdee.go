package meal

import (
	"fmt"
	"math"

	"Nutrilog-Backend/domain"
)

const (
	defaultKcalTarget    = 2000
	defaultProteinTarget = 150

	// proteinSlack is how far short of the protein target still counts as
	// on track for the day.
	proteinSlack = 0.3
)

// CompareTDEE reconciles an in-progress meal against the user's daily
// target and what was already consumed today. The judgment is advisory
// only and never blocks logging.
func CompareTDEE(mealTotals domain.Macros, consumedKcal, consumedProtein, kcalTarget, proteinTarget float64) domain.TDEEComparison {
	if kcalTarget <= 0 {
		kcalTarget = defaultKcalTarget
	}
	if proteinTarget <= 0 {
		proteinTarget = defaultProteinTarget
	}

	remaining := kcalTarget - (consumedKcal + mealTotals.Kcal)
	proteinRemaining := proteinTarget - (consumedProtein + mealTotals.ProteinG)
	mealPct := int(math.Round(mealTotals.Kcal / kcalTarget * 100))
	onTrack := remaining >= 0 && proteinRemaining <= proteinTarget*proteinSlack

	var message string
	switch {
	case onTrack:
		message = fmt.Sprintf("On track! %d kcal and %dg protein remaining.",
			int(math.Round(remaining)), int(math.Round(proteinRemaining)))
	case remaining < 0:
		message = fmt.Sprintf("Over budget by %d kcal. Consider lighter choices for remaining meals.",
			int(math.Abs(math.Round(remaining))))
	default:
		message = fmt.Sprintf("Need %dg more protein today. Add a protein source to your next meal.",
			int(math.Round(proteinRemaining)))
	}

	return domain.TDEEComparison{
		MealKcal:           mealTotals.Kcal,
		DailyKcalConsumed:  consumedKcal + mealTotals.Kcal,
		DailyKcalTarget:    kcalTarget,
		DailyKcalRemaining: remaining,
		MealAsPctOfDaily:   mealPct,
		ProteinConsumed:    consumedProtein + mealTotals.ProteinG,
		ProteinTarget:      proteinTarget,
		ProteinRemaining:   proteinRemaining,
		OnTrack:            onTrack,
		Message:            message,
	}
}
