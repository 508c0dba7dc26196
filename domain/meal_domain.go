package domain

import (
	"errors"
	"mime/multipart"
	"time"
)

var (
	MessageSuccessAnalyzeMeal        = "meal analyzed, ready for verification"
	MessageSuccessConfirmMeal        = "meal logged successfully"
	MessageSuccessFollowupLog        = "follow-up meal analyzed, ready for verification"
	MessageSuccessUndoMeal           = "last meal removed"
	MessageSuccessGetDailyTotals     = "daily totals retrieved successfully"
	MessageSuccessUploadPhoto        = "photo uploaded, describe the meal to continue"
	MessageSuccessRememberDiscussion = "discussion items remembered"

	MessageFailedAnalyzeMeal    = "failed to analyze meal"
	MessageFailedConfirmMeal    = "failed to log meal"
	MessageFailedFollowupLog    = "failed to log follow-up meal"
	MessageFailedUndoMeal       = "failed to undo last meal"
	MessageFailedGetDailyTotals = "failed to retrieve daily totals"
	MessageFailedUploadPhoto    = "failed to upload meal photo"

	ErrAccessDenied      = errors.New("meal logging not available for your account tier")
	ErrNoItemsSelected   = errors.New("no items selected")
	ErrNoItemsDetected   = errors.New("no food items detected")
	ErrMealLogNotFound   = errors.New("meal log not found")
	ErrSaveMealFailed    = errors.New("failed to save meal")
	ErrNoFollowupContext = errors.New("nothing recent to log, tell me what you ate")
	ErrUnsupportedSource = errors.New("unsupported input source")
)

// Pipeline step tags, reported alongside failures for telemetry.
const (
	StepRoleCheck         = "role_check"
	StepParsing           = "parsing"
	StepResolution        = "resolution"
	StepVerificationReady = "verification_ready"
	StepUnknown           = "unknown"
)

// PipelineError localizes a pipeline failure to the step that produced it.
type PipelineError struct {
	Step string
	Err  error
}

func (e *PipelineError) Error() string {
	return e.Step + ": " + e.Err.Error()
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

func NewPipelineError(step string, err error) *PipelineError {
	return &PipelineError{Step: step, Err: err}
}

const (
	MealSlotBreakfast = "breakfast"
	MealSlotLunch     = "lunch"
	MealSlotDinner    = "dinner"
	MealSlotSnack     = "snack"
	MealSlotUnknown   = "unknown"
)

type (
	AnalyzeMealRequest struct {
		Message  string `json:"message" validate:"required"`
		Source   string `json:"source" validate:"required,oneof=text voice photo barcode"`
		MealSlot string `json:"meal_slot" validate:"omitempty,oneof=breakfast lunch dinner snack"`
	}

	AnalyzeMealResponse struct {
		AnalysisResult AnalysisResult  `json:"analysis_result"`
		TdeeComparison *TDEEComparison `json:"tdee_comparison,omitempty"`
		Step           string          `json:"step"`
	}

	UploadMealPhotoRequest struct {
		Photo   *multipart.FileHeader `json:"photo" form:"photo" validate:"required"`
		Caption string                `json:"caption" form:"caption"`
	}

	FollowupLogRequest struct {
		Command string `json:"command" validate:"required"`
	}

	// RememberDiscussionRequest is posted by the chat layer whenever a
	// macro-bearing answer is produced, so a later "log that" can resolve
	// against it.
	RememberDiscussionRequest struct {
		Items []NamedMacroItem `json:"items" validate:"required,min=1,dive"`
	}

	NormalizedMealTotals struct {
		Kcal     float64 `json:"kcal"`
		ProteinG float64 `json:"protein_g"`
		CarbsG   float64 `json:"carbs_g"`
		FatG     float64 `json:"fat_g"`
		FiberG   float64 `json:"fiber_g"`
		TefKcal  float64 `json:"tef_kcal"`
	}

	NormalizedMealLog struct {
		Ts               time.Time            `json:"ts"`
		MealSlot         string               `json:"meal_slot" validate:"required,oneof=breakfast lunch dinner snack unknown"`
		Source           string               `json:"source" validate:"required,oneof=text voice photo barcode"`
		Totals           NormalizedMealTotals `json:"totals"`
		Note             string               `json:"note,omitempty"`
		ClientConfidence float64              `json:"client_confidence"`
	}

	NormalizedMealItem struct {
		Position    int               `json:"position"`
		Name        string            `json:"name" validate:"required"`
		Brand       string            `json:"brand,omitempty"`
		Qty         float64           `json:"qty"`
		Unit        string            `json:"unit"`
		Grams       float64           `json:"grams"`
		Macros      Macros            `json:"macros"`
		Confidence  float64           `json:"confidence"`
		SourceHints map[string]string `json:"source_hints,omitempty"`
	}

	ConfirmMealRequest struct {
		MealLog   NormalizedMealLog    `json:"meal_log" validate:"required"`
		MealItems []NormalizedMealItem `json:"meal_items" validate:"required,min=1,dive"`
	}

	ConfirmMealResponse struct {
		MealLogID  string               `json:"meal_log_id"`
		ItemsCount int                  `json:"items_count"`
		Totals     NormalizedMealTotals `json:"totals"`
	}

	UndoMealResponse struct {
		Removed   bool   `json:"removed"`
		MealLogID string `json:"meal_log_id,omitempty"`
	}

	DailyTotalsResponse struct {
		Date          string  `json:"date"`
		EnergyKcal    float64 `json:"energy_kcal"`
		ProteinG      float64 `json:"protein_g"`
		CarbsG        float64 `json:"carbs_g"`
		FatG          float64 `json:"fat_g"`
		FiberG        float64 `json:"fiber_g"`
		MealCount     int     `json:"meal_count"`
		KcalTarget    float64 `json:"kcal_target"`
		ProteinTarget float64 `json:"protein_target"`
	}
)
