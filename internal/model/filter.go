package model

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrInvalidFilter is returned when a filter state fails validation
var ErrInvalidFilter = errors.New("invalid filter")

// SortKey selects the field meals are ordered by
type SortKey string

const (
	SortByName     SortKey = "name"
	SortByPrice    SortKey = "price"
	SortByRating   SortKey = "rating"
	SortByDelivery SortKey = "deliveryMinutes"
)

// SortDirection is asc or desc
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// CategoryAll is the storefront's "no category" option.
const CategoryAll = "All"

// Bucketed filter options offered by the storefront.
var (
	RatingFloors     = []float64{3.0, 3.5, 4.0, 4.5}
	DeliveryCeilings = []int{15, 30, 45, 60}
	ExperienceFloors = []int{1, 3, 5, 10}
)

// FilterKind names one removable constraint of a FilterState
type FilterKind string

const (
	FilterSearch     FilterKind = "search"
	FilterCategory   FilterKind = "category"
	FilterPrice      FilterKind = "price"
	FilterRating     FilterKind = "rating"
	FilterDelivery   FilterKind = "delivery"
	FilterExperience FilterKind = "experience"
	FilterSort       FilterKind = "sort"
	FilterAll        FilterKind = "all"
)

// ParseFilterKind validates a kind coming from a URL or CLI flag.
func ParseFilterKind(s string) (FilterKind, error) {
	k := FilterKind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case FilterSearch, FilterCategory, FilterPrice, FilterRating,
		FilterDelivery, FilterExperience, FilterSort, FilterAll:
		return k, nil
	}
	return "", fmt.Errorf("%w: unknown filter kind %q", ErrInvalidFilter, s)
}

// PriceRange is an inclusive price interval; nil bounds are open.
type PriceRange struct {
	Min *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max *float64 `json:"max,omitempty" yaml:"max,omitempty"`
}

// Active reports whether either bound is set
func (p PriceRange) Active() bool {
	return p.Min != nil || p.Max != nil
}

// FilterState holds the search, filter and sort criteria of a browsing session.
// Nil pointers mean the constraint is not active.
type FilterState struct {
	SearchTerm      string        `json:"search_term" yaml:"search_term"`
	Category        *string       `json:"category,omitempty" yaml:"category,omitempty"`
	PriceRange      PriceRange    `json:"price_range" yaml:"price_range"`
	RatingFloor     *float64      `json:"rating_floor,omitempty" yaml:"rating_floor,omitempty"`
	DeliveryCeiling *int          `json:"delivery_ceiling,omitempty" yaml:"delivery_ceiling,omitempty"`
	ExperienceFloor *int          `json:"experience_floor,omitempty" yaml:"experience_floor,omitempty"`
	SortKey         SortKey       `json:"sort_key" yaml:"sort_key"`
	SortDirection   SortDirection `json:"sort_direction" yaml:"sort_direction"`
}

// DefaultFilterState is the state a new session starts with
func DefaultFilterState() FilterState {
	return FilterState{
		SortKey:       SortByName,
		SortDirection: SortAsc,
	}
}

// Normalize maps storefront conventions onto explicit unset values:
// a blank or "All" category becomes nil and an empty sort order takes the defaults.
func (f FilterState) Normalize() FilterState {
	if f.Category != nil {
		c := strings.TrimSpace(*f.Category)
		if c == "" || strings.EqualFold(c, CategoryAll) {
			f.Category = nil
		} else {
			f.Category = &c
		}
	}
	if f.SortKey == "" {
		f.SortKey = SortByName
	}
	if f.SortDirection == "" {
		f.SortDirection = SortAsc
	}
	return f
}

// Validate checks enum membership and bound consistency.
func (f FilterState) Validate() error {
	if f.RatingFloor != nil && !slices.Contains(RatingFloors, *f.RatingFloor) {
		return fmt.Errorf("%w: rating floor %.1f is not one of %v", ErrInvalidFilter, *f.RatingFloor, RatingFloors)
	}
	if f.DeliveryCeiling != nil && !slices.Contains(DeliveryCeilings, *f.DeliveryCeiling) {
		return fmt.Errorf("%w: delivery ceiling %d is not one of %v", ErrInvalidFilter, *f.DeliveryCeiling, DeliveryCeilings)
	}
	if f.ExperienceFloor != nil && !slices.Contains(ExperienceFloors, *f.ExperienceFloor) {
		return fmt.Errorf("%w: experience floor %d is not one of %v", ErrInvalidFilter, *f.ExperienceFloor, ExperienceFloors)
	}
	if f.PriceRange.Min != nil && *f.PriceRange.Min < 0 {
		return fmt.Errorf("%w: min price cannot be negative", ErrInvalidFilter)
	}
	if f.PriceRange.Max != nil && *f.PriceRange.Max < 0 {
		return fmt.Errorf("%w: max price cannot be negative", ErrInvalidFilter)
	}
	if f.PriceRange.Min != nil && f.PriceRange.Max != nil && *f.PriceRange.Min > *f.PriceRange.Max {
		return fmt.Errorf("%w: min price (%.2f) cannot be greater than max price (%.2f)",
			ErrInvalidFilter, *f.PriceRange.Min, *f.PriceRange.Max)
	}
	if _, err := ParseSortKey(string(f.SortKey)); err != nil {
		return err
	}
	if _, err := ParseSortDirection(string(f.SortDirection)); err != nil {
		return err
	}
	return nil
}

// ParseSortKey accepts the canonical keys plus the aliases the storefront sends.
func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "name":
		return SortByName, nil
	case "price":
		return SortByPrice, nil
	case "rating":
		return SortByRating, nil
	case "deliveryminutes", "delivery", "deliverytime", "delivery_minutes":
		return SortByDelivery, nil
	}
	return "", fmt.Errorf("%w: unknown sort key %q", ErrInvalidFilter, s)
}

// ParseSortDirection accepts asc/desc in any case
func ParseSortDirection(s string) (SortDirection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending":
		return SortAsc, nil
	case "desc", "descending":
		return SortDesc, nil
	}
	return "", fmt.Errorf("%w: unknown sort direction %q", ErrInvalidFilter, s)
}

// SnapRatingFloor maps a free-form minimum rating onto the offered floors,
// rounding up so the user's bound is respected. Values above the top floor
// clamp to it.
func SnapRatingFloor(v float64) float64 {
	for _, floor := range RatingFloors {
		if floor >= v {
			return floor
		}
	}
	return RatingFloors[len(RatingFloors)-1]
}

// SnapDeliveryCeiling rounds a maximum delivery time down to an offered ceiling.
// Values below the lowest ceiling clamp to it.
func SnapDeliveryCeiling(v int) int {
	best := DeliveryCeilings[0]
	for _, ceiling := range DeliveryCeilings {
		if ceiling <= v {
			best = ceiling
		}
	}
	return best
}

// SnapExperienceFloor rounds a minimum experience up to an offered floor.
func SnapExperienceFloor(v int) int {
	for _, floor := range ExperienceFloors {
		if floor >= v {
			return floor
		}
	}
	return ExperienceFloors[len(ExperienceFloors)-1]
}

// Float64Ptr returns a pointer to v
func Float64Ptr(v float64) *float64 { return &v }

// IntPtr returns a pointer to v
func IntPtr(v int) *int { return &v }

// StringPtr returns a pointer to v
func StringPtr(v string) *string { return &v }
