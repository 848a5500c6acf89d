package catalog

import (
	"slices"
	"strings"

	"mealcatalog/internal/model"
)

// Metadata describes the filter options the collection supports. Category
// counts only include meals with an explicit category; names are grouped
// case-insensitively and keep the first spelling seen.
func Metadata(meals []model.Meal) model.FilterMetadata {
	meta := model.FilterMetadata{
		TotalMeals:       len(meals),
		Categories:       []model.CategoryCount{},
		RatingFloors:     slices.Clone(model.RatingFloors),
		DeliveryCeilings: slices.Clone(model.DeliveryCeilings),
		ExperienceFloors: slices.Clone(model.ExperienceFloors),
		SortKeys:         []model.SortKey{model.SortByName, model.SortByPrice, model.SortByRating, model.SortByDelivery},
	}

	index := make(map[string]int)
	for i, m := range meals {
		if i == 0 || m.Price < meta.PriceRange.Min {
			meta.PriceRange.Min = m.Price
		}
		if i == 0 || m.Price > meta.PriceRange.Max {
			meta.PriceRange.Max = m.Price
		}

		if m.Category == nil {
			continue
		}
		name := strings.TrimSpace(*m.Category)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if pos, ok := index[key]; ok {
			meta.Categories[pos].Count++
			continue
		}
		index[key] = len(meta.Categories)
		meta.Categories = append(meta.Categories, model.CategoryCount{Name: name, Count: 1})
	}

	slices.SortFunc(meta.Categories, func(a, b model.CategoryCount) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return meta
}
