package utils

import (
	"strings"
)

// categoryAliases maps words shoppers type to the canonical category names
// used by the storefront.
var categoryAliases = map[string]string{
	"veg":         "Vegetarian",
	"veggie":      "Vegetarian",
	"vegetarian":  "Vegetarian",
	"plant based": "Vegan",
	"plant-based": "Vegan",
	"vegan":       "Vegan",
	"sweet":       "Dessert",
	"sweets":      "Dessert",
	"desserts":    "Dessert",
	"cake":        "Dessert",
	"brunch":      "Breakfast",
	"morning":     "Breakfast",
	"noodle":      "Noodles",
	"ramen":       "Noodles",
	"pasta":       "Italian",
	"pizza":       "Italian",
	"curry":       "Indian",
	"biryani":     "Indian",
	"sushi":       "Japanese",
	"taco":        "Mexican",
	"tacos":       "Mexican",
	"burger":      "Fast Food",
	"burgers":     "Fast Food",
	"snack":       "Snacks",
	"drink":       "Beverages",
	"drinks":      "Beverages",
	"juice":       "Beverages",
	"seafood":     "Seafood",
	"fish":        "Seafood",
}

// ResolveCategory maps a free-form category onto one of the known catalog
// categories. It tries an exact match, then the alias table, then a
// substring match in either direction. ok is false when nothing fits.
func ResolveCategory(term string, known []string) (string, bool) {
	t := strings.ToLower(strings.TrimSpace(term))
	if t == "" {
		return "", false
	}

	for _, k := range known {
		if strings.EqualFold(k, t) {
			return k, true
		}
	}

	if canonical, found := categoryAliases[t]; found {
		for _, k := range known {
			if strings.EqualFold(k, canonical) {
				return k, true
			}
		}
		if len(known) == 0 {
			return canonical, true
		}
	}

	for _, k := range known {
		kl := strings.ToLower(k)
		if strings.Contains(kl, t) || strings.Contains(t, kl) {
			return k, true
		}
	}
	return "", false
}

// NormalizeCategory resolves term against known and falls back to the
// trimmed input, title-cased on its first letter.
func NormalizeCategory(term string, known []string) string {
	if resolved, ok := ResolveCategory(term, known); ok {
		return resolved
	}
	t := strings.TrimSpace(term)
	if t == "" {
		return ""
	}
	return strings.ToUpper(t[:1]) + t[1:]
}
