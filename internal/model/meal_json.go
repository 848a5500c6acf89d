package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// rawMeal accepts the field spellings the storefront backend has used over time.
// Numeric fields may arrive as numbers or numeric strings.
type rawMeal struct {
	ID                    json.RawMessage `json:"id"`
	MongoID               json.RawMessage `json:"_id"`
	Name                  string          `json:"name"`
	FoodName              string          `json:"foodName"`
	ChefID                *string         `json:"chefId"`
	ChefName              string          `json:"chefName"`
	Ingredients           json.RawMessage `json:"ingredients"`
	Price                 flexNumber      `json:"price"`
	Rating                flexNumber      `json:"rating"`
	DeliveryMinutes       flexNumber      `json:"deliveryMinutes"`
	DeliveryTime          flexNumber      `json:"deliveryTime"`
	EstimatedDeliveryTime flexNumber      `json:"estimatedDeliveryTime"`
	ChefExperienceYears   flexNumber      `json:"chefExperienceYears"`
	ChefExperience        flexNumber      `json:"chefExperience"`
	Category              *string         `json:"category"`
	Cuisine               *string         `json:"cuisine"`
	ImageURL              *string         `json:"imageUrl"`
	FoodImage             *string         `json:"foodImage"`
	Description           *string         `json:"description"`
	CreatedAt             *time.Time      `json:"createdAt"`
}

// UnmarshalJSON decodes a meal, tolerating missing or malformed fields.
func (m *Meal) UnmarshalJSON(data []byte) error {
	var raw rawMeal
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*m = Meal{
		ID:          firstID(raw.ID, raw.MongoID),
		Name:        firstNonEmpty(raw.Name, raw.FoodName),
		ChefID:      raw.ChefID,
		ChefName:    raw.ChefName,
		Ingredients: decodeIngredients(raw.Ingredients),
		Category:    nonBlank(raw.Category),
		Cuisine:     nonBlank(raw.Cuisine),
		ImageURL:    nonBlank(firstString(raw.ImageURL, raw.FoodImage)),
		Description: raw.Description,
		CreatedAt:   raw.CreatedAt,
	}

	if raw.Price.valid {
		m.Price = math.Max(raw.Price.value, 0)
	}
	if raw.Rating.valid {
		r := raw.Rating.value
		m.Rating = &r
	}
	m.DeliveryMinutes = firstInt(raw.DeliveryMinutes, raw.DeliveryTime, raw.EstimatedDeliveryTime)
	m.ChefExperienceYears = firstInt(raw.ChefExperienceYears, raw.ChefExperience)
	return nil
}

// flexNumber is a JSON number that may also be encoded as a string.
type flexNumber struct {
	value float64
	valid bool
}

func (n *flexNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		data = []byte(strings.TrimSpace(s))
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	n.value, n.valid = v, true
	return nil
}

func firstInt(candidates ...flexNumber) *int {
	for _, c := range candidates {
		if c.valid && c.value > 0 {
			v := int(math.Round(c.value))
			return &v
		}
	}
	return nil
}

func firstID(candidates ...json.RawMessage) string {
	for _, c := range candidates {
		if len(c) == 0 || bytes.Equal(c, []byte("null")) {
			continue
		}
		var s string
		if err := json.Unmarshal(c, &s); err == nil {
			if s != "" {
				return s
			}
			continue
		}
		// Mongo extended JSON: {"$oid": "..."}
		var oid struct {
			OID string `json:"$oid"`
		}
		if err := json.Unmarshal(c, &oid); err == nil && oid.OID != "" {
			return oid.OID
		}
		return string(bytes.Trim(c, `"`))
	}
	return ""
}

func decodeIngredients(data json.RawMessage) JSONArray {
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		return list
	}
	// Some records store ingredients as one comma separated string.
	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return nil
	}
	var out JSONArray
	for _, part := range strings.Split(joined, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstString(values ...*string) *string {
	for _, v := range values {
		if v != nil && *v != "" {
			return v
		}
	}
	return nil
}

func nonBlank(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
