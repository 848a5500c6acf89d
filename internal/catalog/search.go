package catalog

import (
	"strings"

	"mealcatalog/internal/model"
)

// Search keeps the meals whose name, chef name or joined ingredient list
// contains term, ignoring case. A blank term keeps every meal.
func Search(meals []model.Meal, term string) []model.Meal {
	needle := normalizeTerm(term)
	out := make([]model.Meal, 0, len(meals))
	if needle == "" {
		return append(out, meals...)
	}
	for _, m := range meals {
		if matchesNeedle(m, needle) {
			out = append(out, m)
		}
	}
	return out
}

// MatchesSearch reports whether a single meal passes the search stage.
func MatchesSearch(m model.Meal, term string) bool {
	needle := normalizeTerm(term)
	return needle == "" || matchesNeedle(m, needle)
}

func normalizeTerm(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

func matchesNeedle(m model.Meal, needle string) bool {
	return containsFold(m.Name, needle) ||
		containsFold(m.ChefName, needle) ||
		containsFold(m.IngredientText(), needle)
}

// containsFold expects needle to be lower case already.
func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}
