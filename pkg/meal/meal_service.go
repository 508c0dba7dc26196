package meal

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"Nutrilog-Backend/domain"
	"Nutrilog-Backend/entities"
	"Nutrilog-Backend/internal/utils/storage"
	"Nutrilog-Backend/pkg/nutrition"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	MealService interface {
		RunPipeline(ctx context.Context, req domain.AnalyzeMealRequest, userID string) (domain.AnalyzeMealResponse, error)
		AnalyzePhoto(ctx context.Context, req domain.UploadMealPhotoRequest, userID string) (domain.AnalyzeMealResponse, error)
		ConfirmAndSave(ctx context.Context, req domain.ConfirmMealRequest, userID string) (domain.ConfirmMealResponse, error)
		LogFollowup(ctx context.Context, req domain.FollowupLogRequest, userID string) (domain.AnalyzeMealResponse, error)
		RememberDiscussion(userID string, items []domain.NamedMacroItem)
		UndoLastMeal(ctx context.Context, userID string) (domain.UndoMealResponse, error)
		GetDailyTotals(ctx context.Context, userID string) (domain.DailyTotalsResponse, error)
	}

	mealService struct {
		mealRepository MealRepository
		parser         nutrition.ParserService
		resolver       nutrition.ResolverService
		followups      nutrition.FollowupCache
		s3             storage.AwsS3
		now            func() time.Time
	}
)

// pipelineTiers lists the account tiers with meal logging enabled.
var pipelineTiers = map[string]bool{
	domain.TierPlus: true,
	domain.TierPro:  true,
}

func NewMealService(
	mealRepository MealRepository,
	parser nutrition.ParserService,
	resolver nutrition.ResolverService,
	followups nutrition.FollowupCache,
	s3 storage.AwsS3,
) MealService {
	return &mealService{
		mealRepository: mealRepository,
		parser:         parser,
		resolver:       resolver,
		followups:      followups,
		s3:             s3,
		now:            time.Now,
	}
}

// RunPipeline is the caller-facing entrypoint: tier check, parse, resolve
// every item, assemble the analysis, and compare against the daily target.
// The result is handed to the verification layer; nothing is persisted.
func (s *mealService) RunPipeline(ctx context.Context, req domain.AnalyzeMealRequest, userID string) (domain.AnalyzeMealResponse, error) {
	if err := s.checkAccess(ctx, userID); err != nil {
		return domain.AnalyzeMealResponse{}, err
	}

	switch req.Source {
	case "text", "voice":
	case "photo", "barcode":
		return s.stubAnalysis(ctx, req, userID, nil)
	default:
		return domain.AnalyzeMealResponse{}, domain.NewPipelineError(domain.StepParsing, domain.ErrUnsupportedSource)
	}

	parsed, err := s.parser.ParseMealText(ctx, req.Message)
	if err != nil {
		return domain.AnalyzeMealResponse{}, domain.NewPipelineError(domain.StepParsing, err)
	}
	if len(parsed.Items) == 0 {
		return domain.AnalyzeMealResponse{}, domain.NewPipelineError(domain.StepParsing, domain.ErrNoItemsDetected)
	}

	resolved := s.resolveAll(ctx, parsed.Items)

	analysis := domain.AnalysisResult{
		Items:         resolved,
		MealSlot:      s.pickMealSlot(req.MealSlot, parsed.MealSlot),
		Source:        req.Source,
		OriginalInput: req.Message,
	}

	comparison := s.compareTDEE(ctx, userID, analysis)

	return domain.AnalyzeMealResponse{
		AnalysisResult: analysis,
		TdeeComparison: comparison,
		Step:           domain.StepVerificationReady,
	}, nil
}

// resolveAll resolves every parsed item concurrently. Item resolutions are
// independent; order is preserved by index.
func (s *mealService) resolveAll(ctx context.Context, items []domain.ParsedFoodItem) []domain.ResolvedFoodItem {
	resolved := make([]domain.ResolvedFoodItem, len(items))

	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		go func(i int, item domain.ParsedFoodItem) {
			defer wg.Done()
			resolved[i] = s.resolveOne(ctx, item)
		}(i, item)
	}
	wg.Wait()

	return resolved
}

func (s *mealService) resolveOne(ctx context.Context, item domain.ParsedFoodItem) domain.ResolvedFoodItem {
	resolution := s.resolver.ResolveFoodItem(ctx, item.Name, item.Brand)
	grams := nutrition.ToGrams(item.Qty, item.Unit)

	candidate := resolution.Candidates[0]
	return domain.ResolvedFoodItem{
		Name:       item.Name,
		Brand:      item.Brand,
		Candidates: resolution.Candidates,
		Qty:        item.Qty,
		Unit:       item.Unit,
		Grams:      grams,
		Macros:     nutrition.ScaleMacros(candidate.Macros, nutrition.DefaultPortionGrams, grams),
		Confidence: candidate.Confidence,
		SourceHints: map[string]string{
			"originalText": item.OriginalText,
			"cache_hit":    strconv.FormatBool(resolution.CacheHit),
			"source_db":    resolution.SourceDB,
		},
	}
}

// AnalyzePhoto stores the photo and produces the stub analysis that sends
// the user to manual entry. Food recognition from images is not attempted.
func (s *mealService) AnalyzePhoto(ctx context.Context, req domain.UploadMealPhotoRequest, userID string) (domain.AnalyzeMealResponse, error) {
	if err := s.checkAccess(ctx, userID); err != nil {
		return domain.AnalyzeMealResponse{}, err
	}

	fileName := fmt.Sprintf("meal-photo-%s", uuid.New().String())
	objectKey, err := s.s3.UploadFile(fileName, req.Photo, "meal-photos", storage.AllowImage...)
	if err != nil {
		return domain.AnalyzeMealResponse{}, domain.NewPipelineError(domain.StepParsing, err)
	}

	hints := map[string]string{"image_url": s.s3.GetPublicLinkKey(objectKey)}
	analyzeReq := domain.AnalyzeMealRequest{Message: req.Caption, Source: "photo"}
	return s.stubAnalysis(ctx, analyzeReq, userID, hints)
}

// stubAnalysis covers the photo/barcode sources: one low-confidence item
// prompting the user to describe the meal instead.
func (s *mealService) stubAnalysis(ctx context.Context, req domain.AnalyzeMealRequest, userID string, hints map[string]string) (domain.AnalyzeMealResponse, error) {
	name := "Unknown food from photo"
	clarification := "Please describe what you ate or search manually"
	confidence := 0.3
	if req.Source == "barcode" {
		name = "Unknown barcode product"
		clarification = "Could not read barcode. Please enter manually."
		confidence = 0.5
	}

	macros, _ := nutrition.EstimateMacros(name)
	sourceHints := map[string]string{"clarification": clarification}
	for k, v := range hints {
		sourceHints[k] = v
	}

	analysis := domain.AnalysisResult{
		Items: []domain.ResolvedFoodItem{{
			Name: name,
			Candidates: []domain.FoodCandidate{{
				Name:       name,
				Macros:     macros,
				Confidence: confidence,
			}},
			Qty:         1,
			Unit:        "serving",
			Grams:       nutrition.DefaultPortionGrams,
			Macros:      macros,
			Confidence:  confidence,
			SourceHints: sourceHints,
		}},
		MealSlot:      s.pickMealSlot(req.MealSlot, ""),
		Source:        req.Source,
		OriginalInput: req.Message,
	}

	return domain.AnalyzeMealResponse{
		AnalysisResult: analysis,
		TdeeComparison: s.compareTDEE(ctx, userID, analysis),
		Step:           domain.StepVerificationReady,
	}, nil
}

// ConfirmAndSave persists a verified meal. Totals are recomputed from the
// submitted items so a stale client total can never drift from its lines.
func (s *mealService) ConfirmAndSave(ctx context.Context, req domain.ConfirmMealRequest, userID string) (domain.ConfirmMealResponse, error) {
	if len(req.MealItems) == 0 {
		return domain.ConfirmMealResponse{}, domain.ErrNoItemsSelected
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.ConfirmMealResponse{}, domain.ErrParseUUID
	}

	var totals domain.Macros
	confidenceSum := 0.0
	for _, item := range req.MealItems {
		totals.Kcal += item.Macros.Kcal
		totals.ProteinG += item.Macros.ProteinG
		totals.CarbsG += item.Macros.CarbsG
		totals.FatG += item.Macros.FatG
		totals.FiberG += item.Macros.FiberG
		confidenceSum += item.Confidence
	}
	tefKcal := ComputeTEF(totals)

	ts := req.MealLog.Ts
	if ts.IsZero() {
		ts = s.now()
	}

	mealLog := &entities.MealLog{
		ID:               uuid.New(),
		UserID:           userUUID,
		Ts:               ts,
		MealSlot:         req.MealLog.MealSlot,
		Source:           req.MealLog.Source,
		EnergyKcal:       totals.Kcal,
		ProteinG:         totals.ProteinG,
		CarbsG:           totals.CarbsG,
		FatG:             totals.FatG,
		FiberG:           totals.FiberG,
		TefKcal:          tefKcal,
		Note:             req.MealLog.Note,
		ClientConfidence: confidenceSum / float64(len(req.MealItems)),
	}

	items := make([]*entities.MealItem, len(req.MealItems))
	for i, item := range req.MealItems {
		items[i] = &entities.MealItem{
			ID:          uuid.New(),
			Position:    i,
			Name:        item.Name,
			Brand:       item.Brand,
			Qty:         item.Qty,
			Unit:        item.Unit,
			Grams:       item.Grams,
			EnergyKcal:  item.Macros.Kcal,
			ProteinG:    item.Macros.ProteinG,
			CarbsG:      item.Macros.CarbsG,
			FatG:        item.Macros.FatG,
			FiberG:      item.Macros.FiberG,
			Confidence:  item.Confidence,
			SourceHints: encodeSourceHints(item.SourceHints),
		}
	}

	mealLogID, err := s.mealRepository.SaveMeal(ctx, mealLog, items)
	if err != nil {
		return domain.ConfirmMealResponse{}, fmt.Errorf("%w: %v", domain.ErrSaveMealFailed, err)
	}

	return domain.ConfirmMealResponse{
		MealLogID:  mealLogID.String(),
		ItemsCount: len(items),
		Totals: domain.NormalizedMealTotals{
			Kcal:     totals.Kcal,
			ProteinG: totals.ProteinG,
			CarbsG:   totals.CarbsG,
			FatG:     totals.FatG,
			FiberG:   totals.FiberG,
			TefKcal:  tefKcal,
		},
	}, nil
}

// LogFollowup resolves a terse "log ..." command against the most recent
// unconsumed macro discussion and re-enters the pipeline with a synthesized
// sentence. The source discussion is consumed so repeating the command
// cannot double-log it.
func (s *mealService) LogFollowup(ctx context.Context, req domain.FollowupLogRequest, userID string) (domain.AnalyzeMealResponse, error) {
	cached, ok := s.followups.Recall(userID)
	if !ok {
		return domain.AnalyzeMealResponse{}, domain.ErrNoFollowupContext
	}

	matched := nutrition.MatchFollowupSubset(req.Command, cached)
	if len(matched) == 0 {
		return domain.AnalyzeMealResponse{}, domain.ErrNoFollowupContext
	}

	resp, err := s.RunPipeline(ctx, domain.AnalyzeMealRequest{
		Message: nutrition.BuildFollowupSentence(matched),
		Source:  "text",
	}, userID)
	if err != nil {
		// the discussion stays recallable so a retry can still log it
		return domain.AnalyzeMealResponse{}, err
	}

	s.followups.Consume(userID)
	return resp, nil
}

func (s *mealService) RememberDiscussion(userID string, items []domain.NamedMacroItem) {
	s.followups.Remember(userID, items)
}

// UndoLastMeal removes the user's most recent meal log and its items.
func (s *mealService) UndoLastMeal(ctx context.Context, userID string) (domain.UndoMealResponse, error) {
	mealLog, err := s.mealRepository.GetLatestMealLog(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UndoMealResponse{Removed: false}, nil
		}
		return domain.UndoMealResponse{}, err
	}

	if err := s.mealRepository.DeleteMeal(ctx, mealLog.ID); err != nil {
		return domain.UndoMealResponse{}, err
	}

	return domain.UndoMealResponse{Removed: true, MealLogID: mealLog.ID.String()}, nil
}

func (s *mealService) GetDailyTotals(ctx context.Context, userID string) (domain.DailyTotalsResponse, error) {
	today := s.now()
	response := domain.DailyTotalsResponse{
		Date:          today.Format("2006-01-02"),
		KcalTarget:    defaultKcalTarget,
		ProteinTarget: defaultProteinTarget,
	}

	if rollup, err := s.mealRepository.GetDayRollup(ctx, userID, today); err == nil {
		response.EnergyKcal = rollup.EnergyKcal
		response.ProteinG = rollup.ProteinG
		response.CarbsG = rollup.CarbsG
		response.FatG = rollup.FatG
		response.FiberG = rollup.FiberG
		response.MealCount = rollup.MealCount
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.DailyTotalsResponse{}, err
	}

	if metrics, err := s.mealRepository.GetUserMetrics(ctx, userID); err == nil {
		if metrics.Tdee > 0 {
			response.KcalTarget = metrics.Tdee
		}
		if metrics.ProteinTargetG > 0 {
			response.ProteinTarget = metrics.ProteinTargetG
		}
	}

	return response, nil
}

func (s *mealService) checkAccess(ctx context.Context, userID string) error {
	tier, err := s.mealRepository.GetUserTier(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.NewPipelineError(domain.StepRoleCheck, domain.ErrNotAuthenticated)
		}
		return domain.NewPipelineError(domain.StepRoleCheck, err)
	}
	if !pipelineTiers[tier] {
		return domain.NewPipelineError(domain.StepRoleCheck, domain.ErrAccessDenied)
	}
	return nil
}

// compareTDEE is advisory; failures to load metrics or rollups degrade to
// defaults rather than failing the pipeline.
func (s *mealService) compareTDEE(ctx context.Context, userID string, analysis domain.AnalysisResult) *domain.TDEEComparison {
	var mealTotals domain.Macros
	for _, item := range analysis.Items {
		mealTotals.Kcal += item.Macros.Kcal
		mealTotals.ProteinG += item.Macros.ProteinG
		mealTotals.CarbsG += item.Macros.CarbsG
		mealTotals.FatG += item.Macros.FatG
	}

	kcalTarget, proteinTarget := float64(defaultKcalTarget), float64(defaultProteinTarget)
	if metrics, err := s.mealRepository.GetUserMetrics(ctx, userID); err == nil {
		if metrics.Tdee > 0 {
			kcalTarget = metrics.Tdee
		}
		if metrics.ProteinTargetG > 0 {
			proteinTarget = metrics.ProteinTargetG
		}
	}

	consumedKcal, consumedProtein := 0.0, 0.0
	if rollup, err := s.mealRepository.GetDayRollup(ctx, userID, s.now()); err == nil {
		consumedKcal = rollup.EnergyKcal
		consumedProtein = rollup.ProteinG
	}

	comparison := CompareTDEE(mealTotals, consumedKcal, consumedProtein, kcalTarget, proteinTarget)
	return &comparison
}

func (s *mealService) pickMealSlot(explicit, parsed string) string {
	if explicit != "" {
		return explicit
	}
	if parsed != "" && parsed != domain.MealSlotUnknown {
		return parsed
	}
	return SlotForHour(s.now().Hour())
}

// SlotForHour buckets a wall-clock hour into a meal slot: 4-10 breakfast,
// 11-15 lunch, 16-21 dinner, everything else snack.
func SlotForHour(hour int) string {
	switch {
	case hour >= 4 && hour <= 10:
		return domain.MealSlotBreakfast
	case hour >= 11 && hour <= 15:
		return domain.MealSlotLunch
	case hour >= 16 && hour <= 21:
		return domain.MealSlotDinner
	default:
		return domain.MealSlotSnack
	}
}

func encodeSourceHints(hints map[string]string) string {
	if len(hints) == 0 {
		return ""
	}
	parts := make([]string, 0, len(hints))
	for k, v := range hints {
		parts = append(parts, fmt.Sprintf("%s=%s", k, v))
	}
	// stable order keeps stored hints diffable
	sort.Strings(parts)
	return strings.Join(parts, ";")
}
