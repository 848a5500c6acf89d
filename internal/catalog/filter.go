package catalog

import (
	"strings"

	"mealcatalog/internal/model"
)

// Filter applies every active predicate of f as a logical AND, keeping the
// input order. Search term and sort order are not considered here.
func Filter(meals []model.Meal, f model.FilterState, opts Options) []model.Meal {
	out := make([]model.Meal, 0, len(meals))
	for _, m := range meals {
		if Matches(m, f, opts) {
			out = append(out, m)
		}
	}
	return out
}

// Matches reports whether m satisfies every active filter of f.
func Matches(m model.Meal, f model.FilterState, opts Options) bool {
	if f.Category != nil && !matchesCategory(m, *f.Category, opts.CategoryNameFallback) {
		return false
	}
	if f.PriceRange.Min != nil && m.Price < *f.PriceRange.Min {
		return false
	}
	if f.PriceRange.Max != nil && m.Price > *f.PriceRange.Max {
		return false
	}
	if f.RatingFloor != nil && m.FilterRating() < *f.RatingFloor {
		return false
	}
	if f.DeliveryCeiling != nil && m.FilterDeliveryMinutes() > *f.DeliveryCeiling {
		return false
	}
	if f.ExperienceFloor != nil && m.FilterExperienceYears() < *f.ExperienceFloor {
		return false
	}
	return true
}

// matchesCategory treats a blank or "All" category as inactive.
func matchesCategory(m model.Meal, category string, nameFallback bool) bool {
	category = strings.TrimSpace(category)
	if category == "" || strings.EqualFold(category, model.CategoryAll) {
		return true
	}
	if m.Category != nil && strings.EqualFold(strings.TrimSpace(*m.Category), category) {
		return true
	}
	return nameFallback && containsFold(m.Name, strings.ToLower(category))
}
