package service

import (
	"strings"

	"mealcatalog/internal/model"
)

// Match reason constants
const (
	ReasonCategoryMatch   = "Category match"
	ReasonWithinBudget    = "Within budget"
	ReasonHighlyRated     = "Highly rated"
	ReasonFastDelivery    = "Fast delivery"
	ReasonExperiencedChef = "Experienced chef"
	ReasonNameMatch       = "Name match"
	ReasonChefMatch       = "Chef match"
	ReasonIngredientMatch = "Ingredient match"
	ReasonGeneralMatch    = "General match"
)

// MatchedReasons explains why a visible meal satisfied f. The meal is
// assumed to have passed the pipeline already.
func MatchedReasons(meal model.Meal, f model.FilterState) []string {
	reasons := []string{}

	if f.Category != nil {
		reasons = append(reasons, ReasonCategoryMatch)
	}
	if f.PriceRange.Active() {
		reasons = append(reasons, ReasonWithinBudget)
	}
	if f.RatingFloor != nil {
		reasons = append(reasons, ReasonHighlyRated)
	}
	if f.DeliveryCeiling != nil {
		reasons = append(reasons, ReasonFastDelivery)
	}
	if f.ExperienceFloor != nil {
		reasons = append(reasons, ReasonExperiencedChef)
	}

	if term := strings.ToLower(strings.TrimSpace(f.SearchTerm)); term != "" {
		switch {
		case strings.Contains(strings.ToLower(meal.Name), term):
			reasons = append(reasons, ReasonNameMatch)
		case strings.Contains(strings.ToLower(meal.ChefName), term):
			reasons = append(reasons, ReasonChefMatch)
		case strings.Contains(strings.ToLower(meal.IngredientText()), term):
			reasons = append(reasons, ReasonIngredientMatch)
		}
	}

	if len(reasons) == 0 {
		reasons = append(reasons, ReasonGeneralMatch)
	}
	return reasons
}

// ToSearchResults decorates visible meals for a natural-language response
func ToSearchResults(meals []model.Meal, f model.FilterState) []model.MealSearchResult {
	results := make([]model.MealSearchResult, 0, len(meals))
	for _, m := range meals {
		results = append(results, model.MealSearchResult{
			Meal:            m,
			DisplayedRating: m.DisplayRating(),
			MatchedReasons:  MatchedReasons(m, f),
		})
	}
	return results
}
