package catalog

import "mealcatalog/internal/model"

// Paginate returns the first loadedPages*pageSize meals. The window always
// starts at index 0: each "load more" appends a page instead of replacing it.
func Paginate(meals []model.Meal, loadedPages, pageSize int) ([]model.Meal, bool) {
	loadedPages, pageSize = clampPaging(loadedPages, pageSize)
	limit := windowSize(loadedPages, pageSize)
	if limit > len(meals) {
		limit = len(meals)
	}
	visible := make([]model.Meal, limit)
	copy(visible, meals[:limit])
	return visible, HasMore(len(meals), loadedPages, pageSize)
}

// HasMore reports whether another "load more" would reveal more meals.
func HasMore(total, loadedPages, pageSize int) bool {
	loadedPages, pageSize = clampPaging(loadedPages, pageSize)
	return windowSize(loadedPages, pageSize) < total
}

func clampPaging(loadedPages, pageSize int) (int, int) {
	if loadedPages < 1 {
		loadedPages = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return loadedPages, pageSize
}

// windowSize guards against overflow when a client sends a huge page count.
func windowSize(loadedPages, pageSize int) int {
	const maxInt = int(^uint(0) >> 1)
	if loadedPages > maxInt/pageSize {
		return maxInt
	}
	return loadedPages * pageSize
}
