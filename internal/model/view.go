package model

// View is the displayed window of the catalog for one filter state
type View struct {
	Visible       []Meal         `json:"visible"`
	TotalFiltered int            `json:"total_filtered"`
	HasMore       bool           `json:"has_more"`
	LoadedPages   int            `json:"loaded_pages"`
	PageSize      int            `json:"page_size"`
	ActiveFilters []ActiveFilter `json:"active_filters"`
}

// ActiveFilter is one removable filter chip
type ActiveFilter struct {
	Kind  FilterKind `json:"kind"`
	Label string     `json:"label"`
}

// CategoryCount is a category offered in the filter panel
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// PriceBounds is the cheapest and most expensive meal in the catalog
type PriceBounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// FilterMetadata describes the options available to the filter panel
type FilterMetadata struct {
	TotalMeals       int             `json:"total_meals"`
	Categories       []CategoryCount `json:"categories"`
	PriceRange       PriceBounds     `json:"price_range"`
	RatingFloors     []float64       `json:"rating_floors"`
	DeliveryCeilings []int           `json:"delivery_ceilings"`
	ExperienceFloors []int           `json:"experience_floors"`
	SortKeys         []SortKey       `json:"sort_keys"`
}
