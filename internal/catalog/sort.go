package catalog

import (
	"cmp"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"mealcatalog/internal/model"
)

// Sort returns a stably sorted copy of meals. Descending order flips the
// comparator, so ties keep their input order in both directions. An unknown
// key leaves the order unchanged.
func Sort(meals []model.Meal, key model.SortKey, dir model.SortDirection, opts Options) []model.Meal {
	out := make([]model.Meal, 0, len(meals))
	out = append(out, meals...)

	compare := comparator(key, opts)
	if compare == nil {
		return out
	}
	if dir == model.SortDesc {
		asc := compare
		compare = func(a, b model.Meal) int { return asc(b, a) }
	}
	slices.SortStableFunc(out, compare)
	return out
}

func comparator(key model.SortKey, opts Options) func(a, b model.Meal) int {
	switch key {
	case model.SortByName:
		// Collators keep scratch buffers, so each sort gets its own.
		col := collate.New(language.English, collate.IgnoreCase)
		return func(a, b model.Meal) int {
			return col.CompareString(a.Name, b.Name)
		}
	case model.SortByPrice:
		return func(a, b model.Meal) int { return cmp.Compare(a.Price, b.Price) }
	case model.SortByRating:
		return func(a, b model.Meal) int {
			return cmp.Compare(sortRating(a, opts), sortRating(b, opts))
		}
	case model.SortByDelivery:
		return func(a, b model.Meal) int {
			return cmp.Compare(sortDelivery(a, opts), sortDelivery(b, opts))
		}
	}
	return nil
}

func sortRating(m model.Meal, opts Options) float64 {
	if opts.UnifiedDefaults {
		return m.FilterRating()
	}
	if m.Rating == nil {
		return 0
	}
	return *m.Rating
}

func sortDelivery(m model.Meal, opts Options) int {
	if opts.UnifiedDefaults {
		return m.FilterDeliveryMinutes()
	}
	if m.DeliveryMinutes == nil {
		return 0
	}
	return *m.DeliveryMinutes
}
