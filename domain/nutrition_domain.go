package domain

import (
	"errors"
)

var (
	ErrExtractionUnavailable = errors.New("extraction service unavailable")
	ErrMacroShapeUnknown     = errors.New("nutrition response shape not recognized")
)

const (
	SourceCache     = "cache"
	SourceExternal  = "USDA"
	SourceEstimated = "estimated"
)

type (
	Macros struct {
		Kcal     float64 `json:"kcal"`
		ProteinG float64 `json:"protein_g"`
		CarbsG   float64 `json:"carbs_g"`
		FatG     float64 `json:"fat_g"`
		FiberG   float64 `json:"fiber_g,omitempty"`
	}

	// ParsedFoodItem is one food mention extracted from free text. It lives
	// only for the duration of a single parse call.
	ParsedFoodItem struct {
		Name         string  `json:"name"`
		Brand        string  `json:"brand,omitempty"`
		Qty          float64 `json:"qty"`
		Unit         string  `json:"unit"`
		PrepMethod   string  `json:"prep_method,omitempty"`
		OriginalText string  `json:"originalText"`
	}

	MealParseResult struct {
		Items                []ParsedFoodItem `json:"items"`
		MealSlot             string           `json:"meal_slot"`
		Confidence           float64          `json:"confidence"`
		ClarificationsNeeded []string         `json:"clarifications_needed"`
	}

	FoodCandidate struct {
		Name       string  `json:"name"`
		Brand      string  `json:"brand,omitempty"`
		Macros     Macros  `json:"macros"`
		Confidence float64 `json:"confidence"`
	}

	// FoodResolution is the resolver's answer for one parsed item. Candidate
	// index 0 is the default selection on the verification screen.
	FoodResolution struct {
		Candidates []FoodCandidate `json:"candidates"`
		CacheHit   bool            `json:"cache_hit"`
		SourceDB   string          `json:"source_db"`
	}

	// ResolvedFoodItem tracks the currently selected candidate scaled to the
	// currently selected portion.
	ResolvedFoodItem struct {
		Name        string            `json:"name"`
		Brand       string            `json:"brand,omitempty"`
		Candidates  []FoodCandidate   `json:"candidates"`
		Qty         float64           `json:"qty"`
		Unit        string            `json:"unit"`
		Grams       float64           `json:"grams"`
		Macros      Macros            `json:"macros"`
		Confidence  float64           `json:"confidence"`
		SourceHints map[string]string `json:"source_hints,omitempty"`
	}

	AnalysisResult struct {
		Items         []ResolvedFoodItem `json:"items"`
		MealSlot      string             `json:"meal_slot"`
		Source        string             `json:"source"`
		OriginalInput string             `json:"originalInput"`
	}

	TDEEComparison struct {
		MealKcal           float64 `json:"meal_kcal"`
		DailyKcalConsumed  float64 `json:"daily_kcal_consumed"`
		DailyKcalTarget    float64 `json:"daily_kcal_target"`
		DailyKcalRemaining float64 `json:"daily_kcal_remaining"`
		MealAsPctOfDaily   int     `json:"meal_as_pct_of_daily"`
		ProteinConsumed    float64 `json:"protein_consumed"`
		ProteinTarget      float64 `json:"protein_target"`
		ProteinRemaining   float64 `json:"protein_remaining"`
		OnTrack            bool    `json:"on_track"`
		Message            string  `json:"message"`
	}

	// NamedMacroItem is what the follow-up intent cache remembers from a
	// macro-bearing assistant answer.
	NamedMacroItem struct {
		Name   string  `json:"name"`
		Qty    float64 `json:"qty"`
		Unit   string  `json:"unit"`
		Macros Macros  `json:"macros"`
	}
)
