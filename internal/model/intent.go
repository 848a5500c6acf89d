package model

// IntentResult represents the parsed intent from a natural language query
type IntentResult struct {
	Slots      *IntentSlots `json:"slots"`
	Keywords   []string     `json:"keywords,omitempty"`
	Confidence float64      `json:"confidence"`
}

// IntentSlots represents structured conditions extracted from a query
type IntentSlots struct {
	SearchTerm    *string  `json:"search_term,omitempty"` // dish, ingredient or chef named in the query
	Category      *string  `json:"category,omitempty"`
	PriceMin      *float64 `json:"price_min,omitempty"`
	PriceMax      *float64 `json:"price_max,omitempty"`
	RatingMin     *float64 `json:"rating_min,omitempty"`
	DeliveryMax   *int     `json:"delivery_max,omitempty"`
	ExperienceMin *int     `json:"experience_min,omitempty"`
	SortBy        *string  `json:"sort_by,omitempty"`
	SortOrder     *string  `json:"sort_order,omitempty"`
}
