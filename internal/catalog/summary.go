package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"mealcatalog/internal/model"
)

// Summarize lists the active constraints of f as removable chips, in the
// order the filter panel shows them.
func Summarize(f model.FilterState) []model.ActiveFilter {
	f = f.Normalize()
	chips := make([]model.ActiveFilter, 0, 6)

	if term := strings.TrimSpace(f.SearchTerm); term != "" {
		chips = append(chips, model.ActiveFilter{Kind: model.FilterSearch, Label: fmt.Sprintf("Search: %q", term)})
	}
	if f.Category != nil {
		chips = append(chips, model.ActiveFilter{Kind: model.FilterCategory, Label: "Category: " + *f.Category})
	}
	if label := priceLabel(f.PriceRange); label != "" {
		chips = append(chips, model.ActiveFilter{Kind: model.FilterPrice, Label: label})
	}
	if f.RatingFloor != nil {
		chips = append(chips, model.ActiveFilter{
			Kind:  model.FilterRating,
			Label: fmt.Sprintf("Rating %.1f+", *f.RatingFloor),
		})
	}
	if f.DeliveryCeiling != nil {
		chips = append(chips, model.ActiveFilter{
			Kind:  model.FilterDelivery,
			Label: fmt.Sprintf("Within %d min", *f.DeliveryCeiling),
		})
	}
	if f.ExperienceFloor != nil {
		unit := "yrs"
		if *f.ExperienceFloor == 1 {
			unit = "yr"
		}
		chips = append(chips, model.ActiveFilter{
			Kind:  model.FilterExperience,
			Label: fmt.Sprintf("%d+ %s experience", *f.ExperienceFloor, unit),
		})
	}
	return chips
}

func priceLabel(r model.PriceRange) string {
	switch {
	case r.Min != nil && r.Max != nil:
		return formatPrice(*r.Min) + " - " + formatPrice(*r.Max)
	case r.Min != nil:
		return "From " + formatPrice(*r.Min)
	case r.Max != nil:
		return "Up to " + formatPrice(*r.Max)
	}
	return ""
}

func formatPrice(v float64) string {
	if v == float64(int64(v)) {
		return "$" + strconv.FormatInt(int64(v), 10)
	}
	return "$" + strconv.FormatFloat(v, 'f', 2, 64)
}
