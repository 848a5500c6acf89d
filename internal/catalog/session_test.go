package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealcatalog/internal/model"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s, err := NewSession("s1", model.DefaultFilterState())
	require.NoError(t, err)
	return s
}

func TestSession_LoadMoreExample(t *testing.T) {
	s := newTestSession(t)
	meals := fiveMeals()
	engine := NewEngine(Options{PageSize: 2})

	view := engine.ComputeView(meals, s.Filters, s.LoadedPages, 0)
	assert.Len(t, view.Visible, 2)
	assert.True(t, view.HasMore)

	require.True(t, s.LoadMore(view.TotalFiltered, 2))
	assert.Equal(t, 2, s.LoadedPages)
	view = engine.ComputeView(meals, s.Filters, s.LoadedPages, 0)
	assert.Len(t, view.Visible, 4)
	assert.True(t, view.HasMore)

	require.True(t, s.LoadMore(view.TotalFiltered, 2))
	view = engine.ComputeView(meals, s.Filters, s.LoadedPages, 0)
	assert.Len(t, view.Visible, 5)
	assert.False(t, view.HasMore)

	assert.False(t, s.LoadMore(view.TotalFiltered, 2), "load more is a no-op once everything is shown")
	assert.Equal(t, 3, s.LoadedPages)
}

func TestSession_ResetLaw(t *testing.T) {
	mutations := map[string]func(*Session) error{
		"search term": func(s *Session) error { s.SetSearchTerm("pizza"); return nil },
		"same search term": func(s *Session) error {
			s.SetSearchTerm(s.Filters.SearchTerm)
			return nil
		},
		"category": func(s *Session) error { s.SetCategory(model.StringPtr("Italian")); return nil },
		"price": func(s *Session) error {
			return s.SetPriceRange(model.PriceRange{Max: model.Float64Ptr(20)})
		},
		"rating":     func(s *Session) error { return s.SetRatingFloor(model.Float64Ptr(4.5)) },
		"delivery":   func(s *Session) error { return s.SetDeliveryCeiling(model.IntPtr(45)) },
		"experience": func(s *Session) error { return s.SetExperienceFloor(model.IntPtr(3)) },
		"sort":       func(s *Session) error { return s.SetSort(model.SortByPrice, model.SortDesc) },
		"replace":    func(s *Session) error { return s.ReplaceFilters(model.DefaultFilterState()) },
		"clear one":  func(s *Session) error { return s.ClearFilter(model.FilterRating) },
		"clear all":  func(s *Session) error { return s.ClearFilter(model.FilterAll) },
	}

	for name, mutate := range mutations {
		for _, prior := range []int{1, 2, 7} {
			s := newTestSession(t)
			s.LoadedPages = prior
			require.NoError(t, mutate(s), name)
			assert.Equal(t, 1, s.LoadedPages, "%s from page %d", name, prior)
		}
	}
}

func TestSession_RejectsInvalidValues(t *testing.T) {
	s := newTestSession(t)
	s.LoadedPages = 3

	err := s.SetRatingFloor(model.Float64Ptr(4.2))
	assert.ErrorIs(t, err, model.ErrInvalidFilter)
	assert.Nil(t, s.Filters.RatingFloor)
	assert.Equal(t, 3, s.LoadedPages, "rejected mutation leaves pagination alone")

	assert.ErrorIs(t, s.SetDeliveryCeiling(model.IntPtr(20)), model.ErrInvalidFilter)
	assert.ErrorIs(t, s.SetExperienceFloor(model.IntPtr(2)), model.ErrInvalidFilter)
	assert.ErrorIs(t, s.SetSort("calories", model.SortAsc), model.ErrInvalidFilter)
	assert.ErrorIs(t, s.SetPriceRange(model.PriceRange{
		Min: model.Float64Ptr(30),
		Max: model.Float64Ptr(10),
	}), model.ErrInvalidFilter)
	assert.ErrorIs(t, s.ClearFilter("colour"), model.ErrInvalidFilter)
}

func TestSession_ClearFilter(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.ReplaceFilters(model.FilterState{
		SearchTerm:      "rice",
		Category:        model.StringPtr("Japanese"),
		PriceRange:      model.PriceRange{Min: model.Float64Ptr(5)},
		RatingFloor:     model.Float64Ptr(4.0),
		DeliveryCeiling: model.IntPtr(60),
		ExperienceFloor: model.IntPtr(5),
		SortKey:         model.SortByRating,
		SortDirection:   model.SortDesc,
	}))

	require.NoError(t, s.ClearFilter(model.FilterCategory))
	assert.Nil(t, s.Filters.Category)
	assert.Equal(t, "rice", s.Filters.SearchTerm)

	require.NoError(t, s.ClearFilter(model.FilterSort))
	assert.Equal(t, model.SortByName, s.Filters.SortKey)
	assert.Equal(t, model.SortAsc, s.Filters.SortDirection)

	require.NoError(t, s.ClearFilter(model.FilterAll))
	assert.Equal(t, model.DefaultFilterState(), s.Filters)
}

func TestNewSession_NormalizesCategory(t *testing.T) {
	s, err := NewSession("s2", model.FilterState{Category: model.StringPtr("All")})
	require.NoError(t, err)
	assert.Nil(t, s.Filters.Category)
	assert.Equal(t, model.SortByName, s.Filters.SortKey)
	assert.Equal(t, 1, s.LoadedPages)

	_, err = NewSession("s3", model.FilterState{RatingFloor: model.Float64Ptr(1)})
	assert.ErrorIs(t, err, model.ErrInvalidFilter)
}
