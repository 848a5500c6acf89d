package catalog

import "mealcatalog/internal/model"

// Engine runs the pipeline with a fixed set of options. It holds no state
// besides its options and is safe for concurrent use.
type Engine struct {
	opts Options
}

// NewEngine creates an engine
func NewEngine(opts Options) *Engine {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	return &Engine{opts: opts}
}

// Options returns the engine configuration
func (e *Engine) Options() Options {
	return e.opts
}

// PageSize is the page size used when callers do not ask for one.
func (e *Engine) PageSize() int {
	return e.opts.PageSize
}

// Pipeline runs search, filter and sort and returns the full result set.
func (e *Engine) Pipeline(raw []model.Meal, f model.FilterState) []model.Meal {
	f = f.Normalize()
	found := Search(raw, f.SearchTerm)
	filtered := Filter(found, f, e.opts)
	return Sort(filtered, f.SortKey, f.SortDirection, e.opts)
}

// ComputeView derives the displayed window from the raw collection and the
// session state. It never fails: missing meal fields take their defaults and
// an empty result is an empty, non-nil Visible slice.
func (e *Engine) ComputeView(raw []model.Meal, f model.FilterState, loadedPages, pageSize int) model.View {
	pageSize = e.opts.pageSize(pageSize)
	if loadedPages < 1 {
		loadedPages = 1
	}

	sorted := e.Pipeline(raw, f)
	visible, hasMore := Paginate(sorted, loadedPages, pageSize)

	return model.View{
		Visible:       visible,
		TotalFiltered: len(sorted),
		HasMore:       hasMore,
		LoadedPages:   loadedPages,
		PageSize:      pageSize,
		ActiveFilters: Summarize(f),
	}
}

// ComputeView runs the pipeline with DefaultOptions.
func ComputeView(raw []model.Meal, f model.FilterState, loadedPages, pageSize int) model.View {
	return NewEngine(DefaultOptions()).ComputeView(raw, f, loadedPages, pageSize)
}
