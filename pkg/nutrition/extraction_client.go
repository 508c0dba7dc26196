package nutrition

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"Nutrilog-Backend/domain"
	"Nutrilog-Backend/internal/utils"
)

const mealExtractionPrompt = `Parse food items from this meal description.

EXTRACT:
- name: Food item name
- qty: Numeric quantity (if specified)
- unit: Unit of measurement (g, oz, cup, piece, serving)
- brand: Brand name (if mentioned)
- prep_method: Cooking method (grilled, fried, raw, baked)

RULES:
- Split compound items: "burger and fries" is 2 items
- Default qty to 1 if not specified
- Default unit to "serving" if not specified
- Detect meal slot from time/context (breakfast, lunch, dinner, snack)

OUTPUT JSON:
{
  "items": [{"name": "string", "qty": number, "unit": "string", "brand": "string", "prep_method": "string", "originalText": "string"}],
  "meal_slot": "breakfast|lunch|dinner|snack|unknown",
  "confidence": 0.0-1.0,
  "clarifications_needed": []
}`

const (
	extractionKindStructured = "structured"
	extractionKindRaw        = "raw"
)

type (
	// ExtractionResult is the tagged response shape of the extraction
	// service: either a parse result matching the schema, or the prose the
	// service degraded to.
	ExtractionResult struct {
		Kind string
		Data domain.MealParseResult
		Text string
	}

	ExtractionClient interface {
		ExtractMeal(ctx context.Context, userText string) (ExtractionResult, error)
	}

	extractionClient struct {
		httpClient *http.Client
	}
)

func NewExtractionClient() ExtractionClient {
	return &extractionClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *extractionClient) ExtractMeal(ctx context.Context, userText string) (ExtractionResult, error) {
	apiURL := utils.GetConfig("EXTRACTION_API_URL")
	apiKey := utils.GetConfig("EXTRACTION_API_KEY")
	model := utils.GetConfig("EXTRACTION_MODEL")
	if apiURL == "" || apiKey == "" {
		return ExtractionResult{}, domain.ErrExtractionUnavailable
	}

	requestBody := map[string]interface{}{
		"model": model,
		"messages": []map[string]string{
			{"role": "system", "content": mealExtractionPrompt},
			{"role": "user", "content": userText},
		},
		"temperature":       0.1,
		"max_output_tokens": 400,
	}

	requestJSON, err := json.Marshal(requestBody)
	if err != nil {
		return ExtractionResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", apiURL, bytes.NewBuffer(requestJSON))
	if err != nil {
		return ExtractionResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ExtractionResult{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return ExtractionResult{}, fmt.Errorf("extraction API error: %s - %s", resp.Status, string(bodyBytes))
	}

	var chatResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return ExtractionResult{}, err
	}
	if len(chatResp.Choices) == 0 {
		return ExtractionResult{}, domain.ErrExtractionUnavailable
	}

	return TagExtractionContent(chatResp.Choices[0].Message.Content), nil
}

var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// TagExtractionContent classifies raw model output as a structured parse
// result or prose. Markdown fences and surrounding commentary are stripped
// before the structured attempt.
func TagExtractionContent(content string) ExtractionResult {
	candidate := strings.TrimSpace(content)
	if strings.HasPrefix(candidate, "```json") {
		candidate = strings.TrimPrefix(candidate, "```json")
		candidate = strings.TrimSuffix(candidate, "```")
	} else if strings.HasPrefix(candidate, "```") {
		candidate = strings.TrimPrefix(candidate, "```")
		candidate = strings.TrimSuffix(candidate, "```")
	}
	candidate = strings.TrimSpace(candidate)

	if match := jsonObjectPattern.FindString(candidate); match != "" {
		var parsed domain.MealParseResult
		if err := json.Unmarshal([]byte(match), &parsed); err == nil && len(parsed.Items) > 0 {
			return ExtractionResult{Kind: extractionKindStructured, Data: parsed}
		}
	}

	return ExtractionResult{Kind: extractionKindRaw, Text: content}
}
