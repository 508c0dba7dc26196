package nutrition

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"Nutrilog-Backend/domain"
	"Nutrilog-Backend/internal/utils"
)

type (
	// MacroClient resolves one food name to macro values through the
	// external nutrition-resolution service.
	MacroClient interface {
		FetchFoodMacros(ctx context.Context, foodName string) (domain.Macros, float64, error)
	}

	macroClient struct {
		httpClient *http.Client
	}
)

func NewMacroClient() MacroClient {
	return &macroClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *macroClient) FetchFoodMacros(ctx context.Context, foodName string) (domain.Macros, float64, error) {
	serviceURL := utils.GetConfig("NUTRITION_API_URL")
	if serviceURL == "" {
		return domain.Macros{}, 0, fmt.Errorf("NUTRITION_API_URL not configured")
	}

	requestJSON, err := json.Marshal(map[string]string{"foodName": foodName})
	if err != nil {
		return domain.Macros{}, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", serviceURL, bytes.NewBuffer(requestJSON))
	if err != nil {
		return domain.Macros{}, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey := utils.GetConfig("NUTRITION_API_KEY"); apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Macros{}, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return domain.Macros{}, 0, fmt.Errorf("nutrition API error: %s - %s", resp.Status, string(bodyBytes))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Macros{}, 0, err
	}

	return DecodeMacroResponse(body)
}

// DecodeMacroResponse accepts the two shapes the service legally returns:
// a flat {kcal, protein_g, ...} object or a nested {macros: {...}} one.
// Anything else is a resolution failure.
func DecodeMacroResponse(body []byte) (domain.Macros, float64, error) {
	var flat struct {
		domain.Macros
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal(body, &flat); err == nil && flat.Kcal > 0 {
		return flat.Macros, defaultConfidence(flat.Confidence), nil
	}

	var nested struct {
		Macros     domain.Macros `json:"macros"`
		Confidence float64       `json:"confidence"`
	}
	if err := json.Unmarshal(body, &nested); err == nil && nested.Macros.Kcal > 0 {
		return nested.Macros, defaultConfidence(nested.Confidence), nil
	}

	return domain.Macros{}, 0, domain.ErrMacroShapeUnknown
}

func defaultConfidence(c float64) float64 {
	if c <= 0 || c > 1 {
		return 0.9
	}
	return c
}
