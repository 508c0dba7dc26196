package meal

import (
	"testing"
	"time"

	"Nutrilog-Backend/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chickenAndRiceAnalysis() domain.AnalysisResult {
	return domain.AnalysisResult{
		Items: []domain.ResolvedFoodItem{
			{
				Name: "chicken breast",
				Candidates: []domain.FoodCandidate{
					{Name: "chicken breast", Macros: domain.Macros{Kcal: 165, ProteinG: 31, FatG: 3.6}, Confidence: 0.9},
					{Name: "fried chicken", Macros: domain.Macros{Kcal: 246, ProteinG: 19, CarbsG: 8, FatG: 15}, Confidence: 0.7},
				},
				Qty:    1,
				Unit:   "serving",
				Grams:  100,
				Macros: domain.Macros{Kcal: 165, ProteinG: 31, FatG: 3.6},
			},
			{
				Name: "white rice",
				Candidates: []domain.FoodCandidate{
					{Name: "white rice", Macros: domain.Macros{Kcal: 130, ProteinG: 2.7, CarbsG: 28, FatG: 0.3}, Confidence: 0.8},
				},
				Qty:    1,
				Unit:   "cup",
				Grams:  240,
				Macros: domain.Macros{Kcal: 312, ProteinG: 6.5, CarbsG: 67.2, FatG: 0.7},
			},
		},
		MealSlot: "lunch",
		Source:   "text",
	}
}

func TestNewVerificationSession_Defaults(t *testing.T) {
	session := NewVerificationSession(chickenAndRiceAnalysis())

	items := session.Items()
	require.Len(t, items, 2)
	for _, item := range items {
		assert.True(t, item.Include)
		assert.Equal(t, 0, item.ChosenCandidateIndex)
	}
	assert.Equal(t, 100.0, items[0].CurrentGrams)
	assert.Equal(t, 240.0, items[1].CurrentGrams)
}

func TestVerificationSession_PortionEditIsIdempotent(t *testing.T) {
	session := NewVerificationSession(chickenAndRiceAnalysis())

	require.NoError(t, session.SetPortionGrams(0, 150))
	first := session.Items()[0].CurrentMacros

	require.NoError(t, session.SetPortionGrams(0, 150))
	second := session.Items()[0].CurrentMacros

	assert.Equal(t, first, second)
	assert.Equal(t, 247.5, first.Kcal)
	assert.Equal(t, 46.5, first.ProteinG)

	// returning to the base portion restores the base vector exactly
	require.NoError(t, session.SetPortionGrams(0, 100))
	assert.Equal(t, domain.Macros{Kcal: 165, ProteinG: 31, FatG: 3.6}, session.Items()[0].CurrentMacros)
}

func TestVerificationSession_PortionPresetScalesBaseServing(t *testing.T) {
	session := NewVerificationSession(chickenAndRiceAnalysis())

	require.NoError(t, session.SetPortionPreset(1, 0.5))
	assert.Equal(t, 120.0, session.Items()[1].CurrentGrams)

	// presets always multiply the base serving, not the previous edit
	require.NoError(t, session.SetPortionPreset(1, 2))
	assert.Equal(t, 480.0, session.Items()[1].CurrentGrams)
}

func TestVerificationSession_PortionUnitsReconvert(t *testing.T) {
	session := NewVerificationSession(chickenAndRiceAnalysis())

	require.NoError(t, session.SetPortionUnits(0, 6, "oz"))
	assert.InDelta(t, 170.1, session.Items()[0].CurrentGrams, 0.0001)
}

func TestVerificationSession_SelectCandidateResetsPortion(t *testing.T) {
	session := NewVerificationSession(chickenAndRiceAnalysis())

	require.NoError(t, session.SetPortionGrams(0, 200))
	require.NoError(t, session.SelectCandidate(0, 1))

	item := session.Items()[0]
	assert.Equal(t, 1, item.ChosenCandidateIndex)
	assert.Equal(t, 100.0, item.CurrentGrams, "candidate switch resets to the base serving")
	assert.Equal(t, domain.Macros{Kcal: 246, ProteinG: 19, CarbsG: 8, FatG: 15}, item.CurrentMacros)

	assert.Error(t, session.SelectCandidate(0, 5))
}

func TestVerificationSession_ToggleIncludePreservesEdits(t *testing.T) {
	session := NewVerificationSession(chickenAndRiceAnalysis())

	require.NoError(t, session.SetPortionGrams(0, 150))
	require.NoError(t, session.ToggleInclude(0))
	assert.False(t, session.Items()[0].Include)

	require.NoError(t, session.ToggleInclude(0))
	item := session.Items()[0]
	assert.True(t, item.Include)
	assert.Equal(t, 150.0, item.CurrentGrams)
}

func TestVerificationSession_TotalsExcludeToggledItems(t *testing.T) {
	session := NewVerificationSession(chickenAndRiceAnalysis())

	require.NoError(t, session.ToggleInclude(1))
	totals := session.Totals()
	assert.Equal(t, 165.0, totals.Kcal)
	assert.Equal(t, 31.0, totals.ProteinG)
}

func TestComputeTEF(t *testing.T) {
	got := ComputeTEF(domain.Macros{ProteinG: 50, CarbsG: 50, FatG: 20})
	assert.Equal(t, 59.0, got)

	assert.Equal(t, 0.0, ComputeTEF(domain.Macros{}))
}

func TestVerificationSession_TotalsDeriveTEFAndNet(t *testing.T) {
	session := NewVerificationSession(domain.AnalysisResult{
		Items: []domain.ResolvedFoodItem{{
			Name: "bowl",
			Candidates: []domain.FoodCandidate{
				{Name: "bowl", Macros: domain.Macros{Kcal: 600, ProteinG: 50, CarbsG: 50, FatG: 20}, Confidence: 0.9},
			},
			Grams:  100,
			Macros: domain.Macros{Kcal: 600, ProteinG: 50, CarbsG: 50, FatG: 20},
		}},
		Source: "text",
	})

	totals := session.Totals()
	assert.Equal(t, 59.0, totals.TefKcal)
	assert.Equal(t, 541.0, totals.NetKcal)
}

func TestVerificationSession_NormalizeRequiresAnItem(t *testing.T) {
	session := NewVerificationSession(chickenAndRiceAnalysis())
	require.NoError(t, session.ToggleInclude(0))
	require.NoError(t, session.ToggleInclude(1))

	_, err := session.Normalize(time.Now())
	assert.ErrorIs(t, err, domain.ErrNoItemsSelected)
}

func TestVerificationSession_Normalize(t *testing.T) {
	session := NewVerificationSession(chickenAndRiceAnalysis())
	session.SetNote("post workout")
	require.NoError(t, session.ToggleInclude(0))

	ts := time.Date(2025, 3, 10, 12, 30, 0, 0, time.UTC)
	got, err := session.Normalize(ts)
	require.NoError(t, err)

	assert.Equal(t, ts, got.MealLog.Ts)
	assert.Equal(t, "lunch", got.MealLog.MealSlot)
	assert.Equal(t, "text", got.MealLog.Source)
	assert.Equal(t, "post workout", got.MealLog.Note)
	assert.Equal(t, 0.8, got.MealLog.ClientConfidence)

	require.Len(t, got.MealItems, 1)
	assert.Equal(t, 0, got.MealItems[0].Position, "positions are re-indexed over included items")
	assert.Equal(t, "white rice", got.MealItems[0].Name)
	assert.Equal(t, 240.0, got.MealItems[0].Grams)
	assert.Equal(t, got.MealLog.Totals.Kcal, got.MealItems[0].Macros.Kcal)
}
