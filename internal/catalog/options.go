// Package catalog implements the meal listing pipeline: search, filter, sort
// and cumulative "load more" pagination over an immutable meal collection.
//
// Every stage is a pure function of its inputs. Stages never modify the meals
// they are given and always return a fresh slice.
package catalog

// DefaultPageSize is the number of meal cards added by each "load more".
const DefaultPageSize = 12

// Options tunes the behaviour of the pipeline.
type Options struct {
	// PageSize is used when a caller passes a non-positive page size.
	PageSize int

	// CategoryNameFallback lets a category filter also match meals whose
	// name contains the category word. Many meals have no category field.
	CategoryNameFallback bool

	// UnifiedDefaults makes the sort stage substitute the same defaults as the
	// filter stage for missing numbers (rating 4.0, delivery 30). When false a
	// missing number sorts as 0, which is what the storefront has always done.
	UnifiedDefaults bool
}

// DefaultOptions matches the storefront behaviour.
func DefaultOptions() Options {
	return Options{
		PageSize:             DefaultPageSize,
		CategoryNameFallback: true,
	}
}

func (o Options) pageSize(requested int) int {
	if requested > 0 {
		return requested
	}
	if o.PageSize > 0 {
		return o.PageSize
	}
	return DefaultPageSize
}
