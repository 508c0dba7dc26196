package meal

import (
	"fmt"
	"math"
	"strings"

	"Nutrilog-Backend/domain"
)

func formatRound(n float64) string {
	return fmt.Sprintf("%d", int(math.Round(n)))
}

func formatRound1(n float64) string {
	s := fmt.Sprintf("%.1f", n)
	return strings.TrimSuffix(s, ".0")
}

// BuildReviewText renders the deterministic confirmation block shown
// while a meal awaits verification.
func BuildReviewText(session *VerificationSession, tdee *domain.TDEEComparison) string {
	var lines []string

	lines = append(lines, "Review and confirm:", "")

	for _, state := range session.Items() {
		if !state.Include {
			continue
		}
		original := session.analysis.Items[state.Position]
		candidate := original.Candidates[state.ChosenCandidateIndex]

		header := fmt.Sprintf("%s %s %s (%sg)",
			formatRound1(original.Qty), original.Unit, candidate.Name, formatRound(state.CurrentGrams))
		if original.Unit == "" {
			header = fmt.Sprintf("%s %s (%sg)",
				formatRound1(original.Qty), candidate.Name, formatRound(state.CurrentGrams))
		}

		lines = append(lines,
			header,
			fmt.Sprintf("- Calories: %s kcal", formatRound(state.CurrentMacros.Kcal)),
			fmt.Sprintf("- Protein: %s g", formatRound1(state.CurrentMacros.ProteinG)),
			fmt.Sprintf("- Carbs: %s g", formatRound1(state.CurrentMacros.CarbsG)),
			fmt.Sprintf("- Fat: %s g", formatRound1(state.CurrentMacros.FatG)),
		)
		if state.CurrentMacros.FiberG > 0 {
			lines = append(lines, fmt.Sprintf("- Fiber: %s g", formatRound1(state.CurrentMacros.FiberG)))
		}
		lines = append(lines, "")
	}

	totals := session.Totals()
	lines = append(lines, fmt.Sprintf("Total: %s kcal", formatRound(totals.Kcal)))
	if totals.FiberG > 0 {
		lines = append(lines, fmt.Sprintf("Total fiber: %s g", formatRound1(totals.FiberG)))
	}
	lines = append(lines,
		fmt.Sprintf("TEF: %s kcal", formatRound(totals.TefKcal)),
		fmt.Sprintf("Net: %s kcal", formatRound(totals.NetKcal)),
		"",
	)

	if tdee != nil {
		lines = append(lines, fmt.Sprintf("Remaining today: %s kcal", formatRound(tdee.DailyKcalRemaining)))
		if tdee.OnTrack {
			lines = append(lines, "On track")
		} else {
			lines = append(lines, tdee.Message)
		}
		lines = append(lines, "")
	}

	lines = append(lines, "[Confirm & Log]")

	return strings.Join(lines, "\n")
}
