package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealcatalog/internal/model"
)

func TestIntentParser_WithoutAI(t *testing.T) {
	parser := NewIntentParser(nil, nil, nil)

	tests := []struct {
		name  string
		query string
	}{
		{name: "Simple query", query: "pizza"},
		{name: "Complex query", query: "vegetarian curry under $15 delivered fast"},
		{name: "Padded query", query: "  biryani  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parser.Parse(context.Background(), tt.query)
			require.NotNil(t, result.Slots)
			require.NotNil(t, result.Slots.SearchTerm)

			assert.Equal(t, 0.0, result.Confidence)
			assert.Equal(t, []string{*result.Slots.SearchTerm}, result.Keywords)
			assert.NotContains(t, *result.Slots.SearchTerm, "  ")
		})
	}
}

func TestIntentParser_EmptyQuery(t *testing.T) {
	result := NewIntentParser(&fakeAI{enabled: true}, nil, nil).Parse(context.Background(), "   ")
	require.NotNil(t, result.Slots)
	assert.Nil(t, result.Slots.SearchTerm)
	assert.NotNil(t, result.Keywords)
	assert.Equal(t, 0.0, result.Confidence)
}

func TestIntentParser_DisabledClient(t *testing.T) {
	result := NewIntentParser(&fakeAI{enabled: false}, nil, nil).Parse(context.Background(), "ramen")
	require.NotNil(t, result.Slots.SearchTerm)
	assert.Equal(t, "ramen", *result.Slots.SearchTerm)
}

func TestIntentParser_WithAI(t *testing.T) {
	ai := &fakeAI{enabled: true, intent: &AIIntentResponse{
		SearchTerm: model.StringPtr(" curry "),
		Category:   model.StringPtr("veg"),
		PriceMax:   model.Float64Ptr(15),
		Keywords:   []string{"spicy"},
	}}
	categories := func() []string { return []string{"Italian", "Vegetarian"} }

	result := NewIntentParser(ai, categories, nil).Parse(context.Background(), "spicy veg curry under 15")

	require.NotNil(t, result.Slots.SearchTerm)
	assert.Equal(t, "curry", *result.Slots.SearchTerm)
	require.NotNil(t, result.Slots.Category)
	assert.Equal(t, "Vegetarian", *result.Slots.Category)
	assert.Equal(t, 15.0, *result.Slots.PriceMax)
	assert.Equal(t, []string{"spicy", "spicy veg curry under 15"}, result.Keywords)
	assert.Equal(t, aiConfidence, result.Confidence)
}

func TestIntentParser_AIFailureFallsBack(t *testing.T) {
	ai := &fakeAI{enabled: true, err: errors.New("upstream 503")}
	result := NewIntentParser(ai, nil, nil).Parse(context.Background(), "tacos")

	require.NotNil(t, result.Slots.SearchTerm)
	assert.Equal(t, "tacos", *result.Slots.SearchTerm)
	assert.Equal(t, 0.0, result.Confidence)
}

func TestIntentParser_ParseStream(t *testing.T) {
	ai := &fakeAI{
		enabled:  true,
		thinking: []string{"the shopper wants ", "pizza"},
		intent:   &AIIntentResponse{SearchTerm: model.StringPtr("pizza")},
	}

	var thinking, content string
	result, err := NewIntentParser(ai, nil, nil).ParseStream(context.Background(), "pizza please", func(th, c string) error {
		thinking += th
		content += c
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "the shopper wants pizza", thinking)
	assert.Equal(t, `{"ok":true}`, content)
	assert.Equal(t, "pizza", *result.Slots.SearchTerm)
}

func TestIntentParser_ParseStreamFallback(t *testing.T) {
	ai := &fakeAI{enabled: true, err: errors.New("bad json")}
	result, err := NewIntentParser(ai, nil, nil).ParseStream(context.Background(), "soup", func(string, string) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, "soup", *result.Slots.SearchTerm)
}

func TestBuildFilters(t *testing.T) {
	slots := &model.IntentSlots{
		SearchTerm:    model.StringPtr("pizza"),
		Category:      model.StringPtr("Italian"),
		PriceMax:      model.Float64Ptr(20),
		RatingMin:     model.Float64Ptr(4.2),
		DeliveryMax:   model.IntPtr(40),
		ExperienceMin: model.IntPtr(4),
		SortBy:        model.StringPtr("rating"),
		SortOrder:     model.StringPtr("desc"),
	}

	got := BuildFilters(nil, slots)
	assert.Equal(t, "pizza", got.SearchTerm)
	assert.Equal(t, "Italian", *got.Category)
	assert.Equal(t, 20.0, *got.PriceRange.Max)
	assert.Nil(t, got.PriceRange.Min)
	assert.Equal(t, 4.5, *got.RatingFloor)
	assert.Equal(t, 30, *got.DeliveryCeiling)
	assert.Equal(t, 5, *got.ExperienceFloor)
	assert.Equal(t, model.SortByRating, got.SortKey)
	assert.Equal(t, model.SortDesc, got.SortDirection)
}

func TestBuildFilters_ExplicitWins(t *testing.T) {
	explicit := &model.FilterState{
		Category:      model.StringPtr("Indian"),
		SortKey:       model.SortByPrice,
		SortDirection: model.SortAsc,
	}
	slots := &model.IntentSlots{
		Category: model.StringPtr("Italian"),
		SortBy:   model.StringPtr("rating"),
	}

	got := BuildFilters(explicit, slots)
	assert.Equal(t, "Indian", *got.Category)
	assert.Equal(t, model.SortByPrice, got.SortKey)
}

func TestBuildFilters_InvalidMergeKeepsSearchTerm(t *testing.T) {
	explicit := &model.FilterState{PriceRange: model.PriceRange{Min: model.Float64Ptr(30)}}
	slots := &model.IntentSlots{
		SearchTerm: model.StringPtr("cake"),
		PriceMax:   model.Float64Ptr(10),
	}

	got := BuildFilters(explicit, slots)
	assert.Equal(t, "cake", got.SearchTerm)
	assert.Equal(t, 30.0, *got.PriceRange.Min)
	assert.Nil(t, got.PriceRange.Max)
	assert.NoError(t, got.Validate())
}

func TestBuildFilters_NoSlots(t *testing.T) {
	assert.Equal(t, model.DefaultFilterState(), BuildFilters(nil, nil))
}
