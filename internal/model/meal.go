package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Defaults substituted by the filter stage when a meal omits the field.
const (
	DefaultFilterRating          = 4.0
	DefaultFilterDeliveryMinutes = 30
	DefaultFilterExperienceYears = 1

	// DisplayRatingFallback is what storefront cards show for unrated meals.
	DisplayRatingFallback = "4.5"
)

// Meal represents a sellable dish as returned by the storefront backend.
// Meals are read-only once fetched.
type Meal struct {
	ID                  string     `json:"id" db:"id"`
	Name                string     `json:"name" db:"name"`
	ChefID              *string    `json:"chefId,omitempty" db:"chef_id"`
	ChefName            string     `json:"chefName" db:"chef_name"`
	Ingredients         JSONArray  `json:"ingredients" db:"ingredients"`
	Price               float64    `json:"price" db:"price"`
	Rating              *float64   `json:"rating,omitempty" db:"rating"`
	DeliveryMinutes     *int       `json:"deliveryMinutes,omitempty" db:"delivery_minutes"`
	ChefExperienceYears *int       `json:"chefExperienceYears,omitempty" db:"chef_experience_years"`
	Category            *string    `json:"category,omitempty" db:"category"`
	Cuisine             *string    `json:"cuisine,omitempty" db:"cuisine"`
	ImageURL            *string    `json:"imageUrl,omitempty" db:"image_url"`
	Description         *string    `json:"description,omitempty" db:"description"`
	CreatedAt           *time.Time `json:"createdAt,omitempty" db:"created_at"`
}

// DisplayRating formats the rating for a meal card.
func (m Meal) DisplayRating() string {
	if m.Rating == nil {
		return DisplayRatingFallback
	}
	return strconv.FormatFloat(*m.Rating, 'f', 1, 64)
}

// FilterRating is the rating used by the rating-floor filter.
func (m Meal) FilterRating() float64 {
	if m.Rating == nil {
		return DefaultFilterRating
	}
	return *m.Rating
}

// FilterDeliveryMinutes is the delivery time used by the delivery-ceiling filter.
func (m Meal) FilterDeliveryMinutes() int {
	if m.DeliveryMinutes == nil || *m.DeliveryMinutes <= 0 {
		return DefaultFilterDeliveryMinutes
	}
	return *m.DeliveryMinutes
}

// FilterExperienceYears is the chef experience used by the experience-floor filter.
func (m Meal) FilterExperienceYears() int {
	if m.ChefExperienceYears == nil || *m.ChefExperienceYears <= 0 {
		return DefaultFilterExperienceYears
	}
	return *m.ChefExperienceYears
}

// IngredientText joins the ingredient list the way the search stage matches it.
func (m Meal) IngredientText() string {
	return strings.Join(m.Ingredients, ", ")
}

// MealSearchResult is a meal returned by natural-language search
type MealSearchResult struct {
	Meal
	DisplayedRating string   `json:"displayRating"`
	MatchedReasons  []string `json:"matched_reasons"`
}

// JSONArray represents a JSON array column
type JSONArray []string

// Value implements driver.Valuer interface
func (j JSONArray) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements sql.Scanner interface
func (j *JSONArray) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*j = nil
		return nil
	case []byte:
		return json.Unmarshal(v, j)
	case string:
		return json.Unmarshal([]byte(v), j)
	default:
		return fmt.Errorf("unsupported ingredients column type %T", value)
	}
}
