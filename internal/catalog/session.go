package catalog

import (
	"fmt"
	"time"

	"mealcatalog/internal/model"
)

// Session is the mutable state of one browsing session: the filter state and
// how many pages have been loaded. Any change to the filters or sort order
// resets LoadedPages to 1, even when the new value equals the old one.
type Session struct {
	ID          string            `json:"id"`
	Filters     model.FilterState `json:"filters"`
	LoadedPages int               `json:"loaded_pages"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// NewSession starts a session on page 1 with the given filters.
func NewSession(id string, initial model.FilterState) (*Session, error) {
	initial = initial.Normalize()
	if err := initial.Validate(); err != nil {
		return nil, err
	}
	now := time.Now()
	return &Session{
		ID:          id,
		Filters:     initial,
		LoadedPages: 1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// ReplaceFilters swaps in a whole new filter state.
func (s *Session) ReplaceFilters(f model.FilterState) error {
	f = f.Normalize()
	if err := f.Validate(); err != nil {
		return err
	}
	s.Filters = f
	s.reset()
	return nil
}

// SetSearchTerm updates the search box
func (s *Session) SetSearchTerm(term string) {
	s.Filters.SearchTerm = term
	s.reset()
}

// SetCategory sets or clears the category filter
func (s *Session) SetCategory(category *string) {
	s.Filters.Category = category
	s.Filters = s.Filters.Normalize()
	s.reset()
}

// SetPriceRange sets both price bounds
func (s *Session) SetPriceRange(r model.PriceRange) error {
	return s.apply(func(f *model.FilterState) { f.PriceRange = r })
}

// SetRatingFloor sets or clears the minimum rating
func (s *Session) SetRatingFloor(floor *float64) error {
	return s.apply(func(f *model.FilterState) { f.RatingFloor = floor })
}

// SetDeliveryCeiling sets or clears the maximum delivery time
func (s *Session) SetDeliveryCeiling(minutes *int) error {
	return s.apply(func(f *model.FilterState) { f.DeliveryCeiling = minutes })
}

// SetExperienceFloor sets or clears the minimum chef experience
func (s *Session) SetExperienceFloor(years *int) error {
	return s.apply(func(f *model.FilterState) { f.ExperienceFloor = years })
}

// SetSort changes the sort order
func (s *Session) SetSort(key model.SortKey, dir model.SortDirection) error {
	return s.apply(func(f *model.FilterState) {
		f.SortKey = key
		f.SortDirection = dir
	})
}

// ClearFilter removes one filter chip. FilterSort restores the default sort
// and FilterAll resets the whole state.
func (s *Session) ClearFilter(kind model.FilterKind) error {
	switch kind {
	case model.FilterSearch:
		s.Filters.SearchTerm = ""
	case model.FilterCategory:
		s.Filters.Category = nil
	case model.FilterPrice:
		s.Filters.PriceRange = model.PriceRange{}
	case model.FilterRating:
		s.Filters.RatingFloor = nil
	case model.FilterDelivery:
		s.Filters.DeliveryCeiling = nil
	case model.FilterExperience:
		s.Filters.ExperienceFloor = nil
	case model.FilterSort:
		def := model.DefaultFilterState()
		s.Filters.SortKey, s.Filters.SortDirection = def.SortKey, def.SortDirection
	case model.FilterAll:
		s.ClearAll()
		return nil
	default:
		return fmt.Errorf("%w: unknown filter kind %q", model.ErrInvalidFilter, kind)
	}
	s.reset()
	return nil
}

// LoadMore reveals one more page if the filtered total allows it and reports
// whether anything changed.
func (s *Session) LoadMore(totalFiltered, pageSize int) bool {
	if !HasMore(totalFiltered, s.LoadedPages, pageSize) {
		return false
	}
	s.LoadedPages++
	s.UpdatedAt = time.Now()
	return true
}

// apply validates a candidate state before committing it.
func (s *Session) apply(mutate func(*model.FilterState)) error {
	next := s.Filters
	mutate(&next)
	next = next.Normalize()
	if err := next.Validate(); err != nil {
		return err
	}
	s.Filters = next
	s.reset()
	return nil
}

func (s *Session) reset() {
	s.LoadedPages = 1
	s.UpdatedAt = time.Now()
}

// ClearAll resets every filter and the sort order.
func (s *Session) ClearAll() {
	s.Filters = model.DefaultFilterState()
	s.reset()
}
