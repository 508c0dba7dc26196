package meal

import (
	"testing"

	"Nutrilog-Backend/domain"

	"github.com/stretchr/testify/assert"
)

func TestCompareTDEE_OnTrack(t *testing.T) {
	mealTotals := domain.Macros{Kcal: 600, ProteinG: 45}

	got := CompareTDEE(mealTotals, 900, 80, 2000, 150)

	assert.True(t, got.OnTrack)
	assert.Equal(t, 500.0, got.DailyKcalRemaining)
	assert.Equal(t, 25.0, got.ProteinRemaining)
	assert.Equal(t, 30, got.MealAsPctOfDaily)
	assert.Equal(t, "On track! 500 kcal and 25g protein remaining.", got.Message)
}

func TestCompareTDEE_OverBudget(t *testing.T) {
	mealTotals := domain.Macros{Kcal: 900, ProteinG: 40}

	got := CompareTDEE(mealTotals, 1400, 100, 2000, 150)

	assert.False(t, got.OnTrack)
	assert.Equal(t, -300.0, got.DailyKcalRemaining)
	assert.Equal(t, "Over budget by 300 kcal. Consider lighter choices for remaining meals.", got.Message)
}

func TestCompareTDEE_ProteinShortfall(t *testing.T) {
	mealTotals := domain.Macros{Kcal: 400, ProteinG: 10}

	got := CompareTDEE(mealTotals, 600, 30, 2000, 150)

	assert.False(t, got.OnTrack)
	assert.Equal(t, 1000.0, got.DailyKcalRemaining)
	assert.Equal(t, 110.0, got.ProteinRemaining)
	assert.Equal(t, "Need 110g more protein today. Add a protein source to your next meal.", got.Message)
}

func TestCompareTDEE_ProteinSlackBoundary(t *testing.T) {
	// 45g remaining equals exactly 30% of a 150g target: still on track
	got := CompareTDEE(domain.Macros{Kcal: 500, ProteinG: 55}, 500, 50, 2000, 150)
	assert.True(t, got.OnTrack)

	// one more gram short tips it over
	got = CompareTDEE(domain.Macros{Kcal: 500, ProteinG: 54}, 500, 50, 2000, 150)
	assert.False(t, got.OnTrack)
}

func TestCompareTDEE_MissingTargetsUseDefaults(t *testing.T) {
	got := CompareTDEE(domain.Macros{Kcal: 500, ProteinG: 30}, 0, 0, 0, 0)

	assert.Equal(t, 2000.0, got.DailyKcalTarget)
	assert.Equal(t, 150.0, got.ProteinTarget)
	assert.Equal(t, 1500.0, got.DailyKcalRemaining)
}
