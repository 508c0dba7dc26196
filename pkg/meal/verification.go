package meal

import (
	"fmt"
	"math"
	"time"

	"Nutrilog-Backend/domain"
	"Nutrilog-Backend/pkg/nutrition"
)

// TEF rates applied to the kcal contribution of each macro.
const (
	tefProteinRate = 0.20
	tefCarbRate    = 0.07
	tefFatRate     = 0.03
)

// PortionPresets are the multiplier choices offered on the verification
// screen, applied against the item's base serving.
var PortionPresets = []float64{0.5, 1, 1.5, 2}

type (
	// SelectedItemState is the per-item verification state. CurrentMacros
	// is always recomputed from the chosen candidate's base vector, never
	// rescaled from a previous edit.
	SelectedItemState struct {
		Include              bool          `json:"include"`
		ChosenCandidateIndex int           `json:"chosen_candidate_index"`
		CurrentGrams         float64       `json:"current_grams"`
		CurrentMacros        domain.Macros `json:"current_macros"`
		Position             int           `json:"position"`
	}

	// MealTotals is the derived sum over included items plus the TEF and
	// net-calorie values computed from it.
	MealTotals struct {
		domain.Macros
		TefKcal float64 `json:"tef_kcal"`
		NetKcal float64 `json:"net_kcal"`
	}

	// VerificationSession runs the human-in-the-loop adjustment step on
	// already-resolved in-memory data. No network calls happen here.
	VerificationSession struct {
		analysis domain.AnalysisResult
		items    []SelectedItemState
		mealSlot string
		note     string
	}
)

func NewVerificationSession(analysis domain.AnalysisResult) *VerificationSession {
	items := make([]SelectedItemState, len(analysis.Items))
	for i, item := range analysis.Items {
		grams := item.Grams
		if grams <= 0 {
			grams = nutrition.DefaultPortionGrams
		}
		items[i] = SelectedItemState{
			Include:              true,
			ChosenCandidateIndex: 0,
			CurrentGrams:         grams,
			CurrentMacros:        item.Macros,
			Position:             i,
		}
	}

	slot := analysis.MealSlot
	if slot == "" {
		slot = domain.MealSlotUnknown
	}

	return &VerificationSession{
		analysis: analysis,
		items:    items,
		mealSlot: slot,
	}
}

func (s *VerificationSession) Items() []SelectedItemState {
	return s.items
}

func (s *VerificationSession) SetMealSlot(slot string) {
	s.mealSlot = slot
}

func (s *VerificationSession) SetNote(note string) {
	s.note = note
}

// ToggleInclude flips an item's contribution to totals. The item's portion
// and candidate choice survive exclusion, so re-inclusion restores them.
func (s *VerificationSession) ToggleInclude(index int) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	s.items[index].Include = !s.items[index].Include
	return nil
}

// SelectCandidate switches an item to a different resolution candidate,
// resetting grams to the item's base serving. Candidate switches are never
// additive with prior portion edits.
func (s *VerificationSession) SelectCandidate(index, candidateIndex int) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	original := s.analysis.Items[index]
	if candidateIndex < 0 || candidateIndex >= len(original.Candidates) {
		return fmt.Errorf("candidate index %d out of range for %q", candidateIndex, original.Name)
	}

	baseGrams := original.Grams
	if baseGrams <= 0 {
		baseGrams = nutrition.DefaultPortionGrams
	}

	s.items[index].ChosenCandidateIndex = candidateIndex
	s.items[index].CurrentGrams = baseGrams
	s.items[index].CurrentMacros = s.scaledMacros(index, baseGrams)
	return nil
}

// SetPortionPreset applies one of the preset multipliers against the
// item's base serving.
func (s *VerificationSession) SetPortionPreset(index int, multiplier float64) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	baseGrams := s.analysis.Items[index].Grams
	if baseGrams <= 0 {
		baseGrams = nutrition.DefaultPortionGrams
	}
	return s.SetPortionGrams(index, baseGrams*multiplier)
}

// SetPortionUnits re-runs the unit converter for a custom quantity entry.
func (s *VerificationSession) SetPortionUnits(index int, qty float64, unit string) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	return s.SetPortionGrams(index, nutrition.ToGrams(qty, unit))
}

// SetPortionGrams is the single funnel for all three portion input modes.
func (s *VerificationSession) SetPortionGrams(index int, grams float64) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	if grams < 0 {
		grams = 0
	}
	s.items[index].CurrentGrams = grams
	s.items[index].CurrentMacros = s.scaledMacros(index, grams)
	return nil
}

// scaledMacros recomputes an item's macros from the chosen candidate's
// per-base-serving vector. Scaling always starts from the original vector
// so repeated edits cannot drift.
func (s *VerificationSession) scaledMacros(index int, grams float64) domain.Macros {
	candidate := s.analysis.Items[index].Candidates[s.items[index].ChosenCandidateIndex]
	return nutrition.ScaleMacros(candidate.Macros, nutrition.DefaultPortionGrams, grams)
}

// Totals folds the included items. TEF and net calories are derived here
// on every call and never stored.
func (s *VerificationSession) Totals() MealTotals {
	var totals MealTotals
	for _, item := range s.items {
		if !item.Include {
			continue
		}
		totals.Kcal += item.CurrentMacros.Kcal
		totals.ProteinG += item.CurrentMacros.ProteinG
		totals.CarbsG += item.CurrentMacros.CarbsG
		totals.FatG += item.CurrentMacros.FatG
		totals.FiberG += item.CurrentMacros.FiberG
	}
	totals.TefKcal = ComputeTEF(totals.Macros)
	totals.NetKcal = totals.Kcal - totals.TefKcal
	return totals
}

// ComputeTEF returns the thermic effect of food for a macro total.
func ComputeTEF(m domain.Macros) float64 {
	proteinKcal := m.ProteinG * 4
	carbKcal := m.CarbsG * 4
	fatKcal := m.FatG * 9
	return math.Round(tefProteinRate*proteinKcal + tefCarbRate*carbKcal + tefFatRate*fatKcal)
}

// Normalize builds the commit-ready meal from the session. It fails when
// zero items are included; nothing is persisted here.
func (s *VerificationSession) Normalize(ts time.Time) (domain.ConfirmMealRequest, error) {
	var included []SelectedItemState
	for _, item := range s.items {
		if item.Include {
			included = append(included, item)
		}
	}
	if len(included) == 0 {
		return domain.ConfirmMealRequest{}, domain.ErrNoItemsSelected
	}

	totals := s.Totals()

	confidenceSum := 0.0
	mealItems := make([]domain.NormalizedMealItem, len(included))
	for i, item := range included {
		original := s.analysis.Items[item.Position]
		candidate := original.Candidates[item.ChosenCandidateIndex]
		confidenceSum += candidate.Confidence

		mealItems[i] = domain.NormalizedMealItem{
			Position:    i,
			Name:        candidate.Name,
			Brand:       candidate.Brand,
			Qty:         original.Qty,
			Unit:        original.Unit,
			Grams:       item.CurrentGrams,
			Macros:      item.CurrentMacros,
			Confidence:  candidate.Confidence,
			SourceHints: original.SourceHints,
		}
	}

	return domain.ConfirmMealRequest{
		MealLog: domain.NormalizedMealLog{
			Ts:       ts,
			MealSlot: s.mealSlot,
			Source:   s.analysis.Source,
			Totals: domain.NormalizedMealTotals{
				Kcal:     totals.Kcal,
				ProteinG: totals.ProteinG,
				CarbsG:   totals.CarbsG,
				FatG:     totals.FatG,
				FiberG:   totals.FiberG,
				TefKcal:  totals.TefKcal,
			},
			Note:             s.note,
			ClientConfidence: confidenceSum / float64(len(included)),
		},
		MealItems: mealItems,
	}, nil
}

func (s *VerificationSession) checkIndex(index int) error {
	if index < 0 || index >= len(s.items) {
		return fmt.Errorf("item index %d out of range", index)
	}
	return nil
}
