package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mealcatalog/internal/model"
)

func TestFilter_RatingFloorExample(t *testing.T) {
	meals := []model.Meal{
		meal("pizza", "Pizza", 10, rating(4.0)),
		meal("pasta", "Pasta", 15, rating(4.8)),
	}
	f := model.DefaultFilterState()
	f.RatingFloor = model.Float64Ptr(4.5)

	assert.Equal(t, []string{"pasta"}, ids(Filter(meals, f, DefaultOptions())))
}

func TestFilter_Predicates(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.FilterState)
		opts   Options
		want   []string
	}{
		{
			name:   "no active filters keeps everything",
			mutate: func(*model.FilterState) {},
			opts:   DefaultOptions(),
			want:   []string{"m1", "m2", "m3", "m4", "m5", "m6", "m7", "m8", "m9", "m10", "m11", "m12"},
		},
		{
			name:   "category equality ignores case",
			mutate: func(f *model.FilterState) { f.Category = model.StringPtr("ITALIAN") },
			opts:   Options{},
			want:   []string{"m1", "m2", "m9"},
		},
		{
			name:   "category falls back to name substring",
			mutate: func(f *model.FilterState) { f.Category = model.StringPtr("Mexican") },
			opts:   DefaultOptions(),
			want:   []string{"m4", "m5"},
		},
		{
			name:   "category fallback disabled",
			mutate: func(f *model.FilterState) { f.Category = model.StringPtr("Mexican") },
			opts:   Options{CategoryNameFallback: false},
			want:   []string{"m5"},
		},
		{
			name:   "All category is inactive",
			mutate: func(f *model.FilterState) { f.Category = model.StringPtr("All") },
			opts:   DefaultOptions(),
			want:   []string{"m1", "m2", "m3", "m4", "m5", "m6", "m7", "m8", "m9", "m10", "m11", "m12"},
		},
		{
			name: "price range is inclusive",
			mutate: func(f *model.FilterState) {
				f.PriceRange = model.PriceRange{Min: model.Float64Ptr(10), Max: model.Float64Ptr(13)}
			},
			opts: DefaultOptions(),
			want: []string{"m1", "m5", "m7", "m8"},
		},
		{
			name:   "price min only",
			mutate: func(f *model.FilterState) { f.PriceRange.Min = model.Float64Ptr(16) },
			opts:   DefaultOptions(),
			want:   []string{"m6", "m10"},
		},
		{
			name:   "price max only",
			mutate: func(f *model.FilterState) { f.PriceRange.Max = model.Float64Ptr(7) },
			opts:   DefaultOptions(),
			want:   []string{"m11", "m12"},
		},
		{
			name:   "missing rating counts as 4.0",
			mutate: func(f *model.FilterState) { f.RatingFloor = model.Float64Ptr(4.0) },
			opts:   DefaultOptions(),
			want:   []string{"m1", "m2", "m3", "m5", "m6", "m7", "m10", "m11", "m12"},
		},
		{
			name:   "missing delivery counts as 30 minutes",
			mutate: func(f *model.FilterState) { f.DeliveryCeiling = model.IntPtr(30) },
			opts:   DefaultOptions(),
			want:   []string{"m1", "m4", "m5", "m7", "m9", "m10", "m11"},
		},
		{
			name:   "missing experience counts as 1 year",
			mutate: func(f *model.FilterState) { f.ExperienceFloor = model.IntPtr(1) },
			opts:   DefaultOptions(),
			want:   []string{"m1", "m2", "m3", "m4", "m5", "m6", "m7", "m8", "m9", "m10", "m11", "m12"},
		},
		{
			name:   "experience floor",
			mutate: func(f *model.FilterState) { f.ExperienceFloor = model.IntPtr(10) },
			opts:   DefaultOptions(),
			want:   []string{"m2", "m6", "m12"},
		},
		{
			name: "predicates combine with AND",
			mutate: func(f *model.FilterState) {
				f.Category = model.StringPtr("Italian")
				f.RatingFloor = model.Float64Ptr(4.0)
				f.DeliveryCeiling = model.IntPtr(30)
			},
			opts: DefaultOptions(),
			want: []string{"m1"},
		},
		{
			name: "over-constrained",
			mutate: func(f *model.FilterState) {
				f.RatingFloor = model.Float64Ptr(4.5)
				f.DeliveryCeiling = model.IntPtr(15)
			},
			opts: DefaultOptions(),
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := model.DefaultFilterState()
			tt.mutate(&f)
			assert.Equal(t, tt.want, ids(Filter(sampleMeals(), f, tt.opts)))
		})
	}
}

func TestFilter_SearchTermIgnored(t *testing.T) {
	f := model.DefaultFilterState()
	f.SearchTerm = "sushi"
	assert.Len(t, Filter(sampleMeals(), f, DefaultOptions()), len(sampleMeals()))
}

func TestFilter_Subset(t *testing.T) {
	meals := sampleMeals()
	all := make(map[string]bool)
	for _, m := range meals {
		all[m.ID] = true
	}

	for _, floor := range model.RatingFloors {
		for _, ceiling := range model.DeliveryCeilings {
			f := model.DefaultFilterState()
			f.RatingFloor = model.Float64Ptr(floor)
			f.DeliveryCeiling = model.IntPtr(ceiling)
			for _, m := range Filter(meals, f, DefaultOptions()) {
				assert.True(t, all[m.ID])
			}
		}
	}
}

func TestFilter_Monotonic(t *testing.T) {
	meals := sampleMeals()
	opts := DefaultOptions()

	prev := len(meals)
	for _, floor := range model.RatingFloors {
		f := model.DefaultFilterState()
		f.RatingFloor = model.Float64Ptr(floor)
		n := len(Filter(meals, f, opts))
		assert.LessOrEqual(t, n, prev, "rating floor %.1f", floor)
		prev = n
	}

	prev = len(meals)
	for _, floor := range model.ExperienceFloors {
		f := model.DefaultFilterState()
		f.ExperienceFloor = model.IntPtr(floor)
		n := len(Filter(meals, f, opts))
		assert.LessOrEqual(t, n, prev, "experience floor %d", floor)
		prev = n
	}

	// Lowering the delivery ceiling restricts, so walk the ceilings downwards.
	prev = len(meals)
	for i := len(model.DeliveryCeilings) - 1; i >= 0; i-- {
		f := model.DefaultFilterState()
		f.DeliveryCeiling = model.IntPtr(model.DeliveryCeilings[i])
		n := len(Filter(meals, f, opts))
		assert.LessOrEqual(t, n, prev, "delivery ceiling %d", model.DeliveryCeilings[i])
		prev = n
	}
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	meals := sampleMeals()
	before := ids(meals)
	f := model.DefaultFilterState()
	f.Category = model.StringPtr("Japanese")
	_ = Filter(meals, f, DefaultOptions())
	assert.Equal(t, before, ids(meals))
}
