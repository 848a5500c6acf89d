package model

// SearchRequest represents a natural-language search request
type SearchRequest struct {
	Query   string         `json:"query" binding:"required"`
	Filters *FilterState   `json:"filters,omitempty"`
	Options *SearchOptions `json:"options,omitempty"`
}

// SearchOptions controls the window returned by a search
type SearchOptions struct {
	Pages    int `json:"pages"`
	PageSize int `json:"page_size"`
}

// SearchResponse represents a search result response
type SearchResponse struct {
	SearchID      string             `json:"search_id"`
	Results       []MealSearchResult `json:"results"`
	TotalFiltered int                `json:"total_filtered"`
	HasMore       bool               `json:"has_more"`
	LoadedPages   int                `json:"loaded_pages"`
	PageSize      int                `json:"page_size"`
	Filters       FilterState        `json:"filters"`
	ActiveFilters []ActiveFilter     `json:"active_filters"`
	Intent        *IntentResult      `json:"intent,omitempty"`
	Took          int64              `json:"took_ms"`
}

// SessionRequest opens a browsing session, optionally with initial filters
type SessionRequest struct {
	Filters *FilterState `json:"filters,omitempty"`
}

// SearchTermRequest updates only the search box of a session
type SearchTermRequest struct {
	SearchTerm string `json:"search_term"`
}

// SessionResponse is a session id together with its current view
type SessionResponse struct {
	SessionID string      `json:"session_id"`
	Filters   FilterState `json:"filters"`
	View      View        `json:"view"`
}

// RefreshResponse reports the outcome of re-fetching the catalog
type RefreshResponse struct {
	Meals int   `json:"meals"`
	Took  int64 `json:"took_ms"`
}

// EmbeddingBatchRequest represents a batch embedding update request
type EmbeddingBatchRequest struct {
	Embeddings []EmbeddingItem `json:"embeddings" binding:"required"`
}

// EmbeddingItem is one meal embedding
type EmbeddingItem struct {
	MealID    string    `json:"meal_id" binding:"required"`
	Embedding []float32 `json:"embedding" binding:"required"`
	Text      string    `json:"text,omitempty"` // The text used to generate embedding
}

// EmbeddingBatchResponse represents the response for batch embedding update
type EmbeddingBatchResponse struct {
	Success int      `json:"success"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

// FeedbackRequest represents a user action on a search result
type FeedbackRequest struct {
	SearchID string `json:"search_id" binding:"required"`
	MealID   string `json:"meal_id" binding:"required"`
	Action   string `json:"action" binding:"required"` // click, order, favorite
}

// SearchLog is one row of the search_logs table
type SearchLog struct {
	SearchID       string
	Query          string
	Slots          *IntentSlots
	Filters        FilterState
	ResultCount    int
	ReturnedMeals  []string
	ResponseTimeMs int
}
