package nutrition

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"

	"Nutrilog-Backend/domain"
)

type (
	ParserService interface {
		ParseMealText(ctx context.Context, message string) (domain.MealParseResult, error)
	}

	parserService struct {
		extraction ExtractionClient
	}
)

func NewParserService(extraction ExtractionClient) ParserService {
	return &parserService{extraction: extraction}
}

func (s *parserService) ParseMealText(ctx context.Context, message string) (domain.MealParseResult, error) {
	result, err := s.extraction.ExtractMeal(ctx, message)
	if err != nil {
		return domain.MealParseResult{}, fmt.Errorf("meal extraction failed: %w", err)
	}

	var parsed domain.MealParseResult
	switch result.Kind {
	case extractionKindStructured:
		parsed = result.Data
	case extractionKindRaw:
		log.Printf("extraction returned prose, falling back to line parser: %.80s", result.Text)
		parsed = FallbackParse(result.Text, message)
	default:
		parsed = FallbackParse(result.Text, message)
	}

	return normalizeParseResult(parsed, message), nil
}

// fallbackLinePattern matches an optional leading quantity, an optional
// unit, and the remainder as the food name.
var fallbackLinePattern = regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)?\s*(cups?|oz|ounces?|g|grams?|slices?|pieces?|servings?|tbsp|tsp)?\b\s*(.+)$`)

// FallbackParse extracts a best-effort item list from prose when the
// extraction service degraded to text. It never returns zero items: when
// nothing is recognizable a single low-confidence item is synthesized from
// the original message so the pipeline still reaches verification.
func FallbackParse(text, originalMessage string) domain.MealParseResult {
	var items []domain.ParsedFoodItem

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		if strings.Contains(lower, "meal") || strings.Contains(lower, "breakfast") {
			// section headers, not food
			continue
		}

		m := fallbackLinePattern.FindStringSubmatch(line)
		if m == nil {
			items = append(items, domain.ParsedFoodItem{
				Name:         line,
				Qty:          1,
				Unit:         "serving",
				OriginalText: line,
			})
			continue
		}

		qty := 1.0
		if m[1] != "" {
			if parsed, err := strconv.ParseFloat(m[1], 64); err == nil {
				qty = parsed
			}
		}
		unit := strings.ToLower(m[2])
		if unit == "" {
			unit = "serving"
		}
		name := strings.TrimSpace(m[3])
		if len(name) < 2 {
			continue
		}

		items = append(items, domain.ParsedFoodItem{
			Name:         name,
			Qty:          qty,
			Unit:         unit,
			OriginalText: line,
		})
	}

	if len(items) == 0 {
		return domain.MealParseResult{
			Items: []domain.ParsedFoodItem{{
				Name:         truncate(originalMessage, 50),
				Qty:          1,
				Unit:         "serving",
				OriginalText: originalMessage,
			}},
			MealSlot:             domain.MealSlotUnknown,
			Confidence:           0.3,
			ClarificationsNeeded: []string{"Unable to parse meal details automatically"},
		}
	}

	return domain.MealParseResult{
		Items:      items,
		MealSlot:   domain.MealSlotUnknown,
		Confidence: 0.5,
	}
}

func normalizeParseResult(parsed domain.MealParseResult, message string) domain.MealParseResult {
	for i := range parsed.Items {
		if parsed.Items[i].Qty <= 0 {
			parsed.Items[i].Qty = 1
		}
		if parsed.Items[i].Unit == "" {
			parsed.Items[i].Unit = "serving"
		}
		if parsed.Items[i].OriginalText == "" {
			parsed.Items[i].OriginalText = parsed.Items[i].Name
		}
	}
	if parsed.MealSlot == "" {
		parsed.MealSlot = domain.MealSlotUnknown
	}
	if len(parsed.Items) == 0 {
		parsed = FallbackParse("", message)
	}
	return parsed
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n]
}
