package nutrition

import (
	"context"
	"errors"
	"testing"

	"Nutrilog-Backend/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubExtractionClient struct {
	result ExtractionResult
	err    error
}

func (c *stubExtractionClient) ExtractMeal(_ context.Context, _ string) (ExtractionResult, error) {
	return c.result, c.err
}

func TestParseMealText_StructuredResult(t *testing.T) {
	client := &stubExtractionClient{
		result: ExtractionResult{
			Kind: extractionKindStructured,
			Data: domain.MealParseResult{
				Items: []domain.ParsedFoodItem{
					{Name: "chicken breast", Qty: 6, Unit: "oz"},
					{Name: "rice"},
				},
				MealSlot:   "lunch",
				Confidence: 0.9,
			},
		},
	}
	service := NewParserService(client)

	got, err := service.ParseMealText(context.Background(), "6 oz chicken and rice")
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "lunch", got.MealSlot)

	// missing qty and unit are defaulted, original text backfilled
	assert.Equal(t, 1.0, got.Items[1].Qty)
	assert.Equal(t, "serving", got.Items[1].Unit)
	assert.Equal(t, "rice", got.Items[1].OriginalText)
}

func TestParseMealText_ExtractionErrorPropagates(t *testing.T) {
	wantErr := errors.New("upstream timeout")
	service := NewParserService(&stubExtractionClient{err: wantErr})

	_, err := service.ParseMealText(context.Background(), "2 eggs")
	require.Error(t, err)
	assert.ErrorIs(t, err, wantErr)
}

func TestParseMealText_ProseFallsBack(t *testing.T) {
	client := &stubExtractionClient{
		result: ExtractionResult{
			Kind: extractionKindRaw,
			Text: "2 cups rice\n6 oz chicken",
		},
	}
	service := NewParserService(client)

	got, err := service.ParseMealText(context.Background(), "I had rice and chicken")
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "rice", got.Items[0].Name)
	assert.Equal(t, 2.0, got.Items[0].Qty)
	assert.Equal(t, "cups", got.Items[0].Unit)
	assert.Equal(t, "chicken", got.Items[1].Name)
	assert.Equal(t, "oz", got.Items[1].Unit)
}

func TestFallbackParse(t *testing.T) {
	t.Run("skips section headers", func(t *testing.T) {
		got := FallbackParse("Your meal today:\n2 eggs\ntoast", "breakfast stuff")
		require.Len(t, got.Items, 2)
		assert.Equal(t, "eggs", got.Items[0].Name)
		assert.Equal(t, 2.0, got.Items[0].Qty)
		assert.Equal(t, "toast", got.Items[1].Name)
	})

	t.Run("line without quantity defaults to one serving", func(t *testing.T) {
		got := FallbackParse("grilled salmon", "grilled salmon")
		require.Len(t, got.Items, 1)
		assert.Equal(t, "grilled salmon", got.Items[0].Name)
		assert.Equal(t, 1.0, got.Items[0].Qty)
		assert.Equal(t, "serving", got.Items[0].Unit)
	})

	t.Run("never returns zero items", func(t *testing.T) {
		got := FallbackParse("", "something I could not describe")
		require.Len(t, got.Items, 1)
		assert.Equal(t, "something I could not describe", got.Items[0].Name)
		assert.Equal(t, 0.3, got.Confidence)
		assert.NotEmpty(t, got.ClarificationsNeeded)
	})

	t.Run("synthesized item truncates long messages", func(t *testing.T) {
		long := "this is a very long meal description that goes on well past the cutoff point"
		got := FallbackParse("", long)
		require.Len(t, got.Items, 1)
		assert.Len(t, got.Items[0].Name, 50)
		assert.Equal(t, long, got.Items[0].OriginalText)
	})
}

func TestTagExtractionContent(t *testing.T) {
	t.Run("fenced json is structured", func(t *testing.T) {
		content := "```json\n{\"items\":[{\"name\":\"oatmeal\",\"qty\":1,\"unit\":\"cup\"}],\"meal_slot\":\"breakfast\",\"confidence\":0.92}\n```"
		got := TagExtractionContent(content)
		assert.Equal(t, extractionKindStructured, got.Kind)
		require.Len(t, got.Data.Items, 1)
		assert.Equal(t, "oatmeal", got.Data.Items[0].Name)
		assert.Equal(t, "breakfast", got.Data.MealSlot)
	})

	t.Run("json buried in commentary is structured", func(t *testing.T) {
		content := "Here is what I found: {\"items\":[{\"name\":\"banana\"}],\"confidence\":0.8} hope that helps"
		got := TagExtractionContent(content)
		assert.Equal(t, extractionKindStructured, got.Kind)
	})

	t.Run("json with no items is raw", func(t *testing.T) {
		got := TagExtractionContent("{\"items\":[],\"confidence\":0.1}")
		assert.Equal(t, extractionKindRaw, got.Kind)
	})

	t.Run("prose is raw", func(t *testing.T) {
		got := TagExtractionContent("Sounds like a tasty lunch!")
		assert.Equal(t, extractionKindRaw, got.Kind)
		assert.Equal(t, "Sounds like a tasty lunch!", got.Text)
	})
}
