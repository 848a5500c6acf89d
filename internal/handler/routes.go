package handler

import "github.com/gin-gonic/gin"

// Handlers groups the API handlers mounted under /api/v1
type Handlers struct {
	Meals      *MealHandler
	Sessions   *SessionHandler
	Search     *SearchHandler
	Embeddings *EmbeddingHandler
	Feedback   *FeedbackHandler
}

// RegisterRoutes mounts the API on r. Nil handlers are skipped.
func RegisterRoutes(r gin.IRouter, h Handlers) {
	if h.Meals != nil {
		r.GET("/meals", h.Meals.List)
		r.GET("/meals/filters/metadata", h.Meals.Metadata)
		r.GET("/meals/:id", h.Meals.Get)
		r.POST("/catalog/refresh", h.Meals.Refresh)
	}

	if h.Sessions != nil {
		r.POST("/sessions", h.Sessions.Open)
		r.GET("/sessions/:id", h.Sessions.Get)
		r.PUT("/sessions/:id/filters", h.Sessions.UpdateFilters)
		r.PATCH("/sessions/:id/search", h.Sessions.SetSearchTerm)
		r.POST("/sessions/:id/more", h.Sessions.LoadMore)
		r.DELETE("/sessions/:id/filters/:kind", h.Sessions.ClearFilter)
		r.DELETE("/sessions/:id", h.Sessions.Close)
	}

	if h.Search != nil {
		r.POST("/search", h.Search.Search)
		r.POST("/search/stream", h.Search.SearchStream)
	}

	if h.Embeddings != nil {
		r.POST("/embeddings/batch", h.Embeddings.BatchUpdate)
		r.POST("/embeddings/catalog", h.Embeddings.EmbedCatalog)
	}

	if h.Feedback != nil {
		r.POST("/feedback", h.Feedback.Submit)
	}
}
