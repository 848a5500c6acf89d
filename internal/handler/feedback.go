package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mealcatalog/internal/model"
	"mealcatalog/internal/service"
)

// FeedbackHandler handles feedback-related HTTP requests
type FeedbackHandler struct {
	searchService *service.SearchService
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(searchService *service.SearchService) *FeedbackHandler {
	return &FeedbackHandler{searchService: searchService}
}

// Submit handles POST /api/v1/feedback
func (h *FeedbackHandler) Submit(c *gin.Context) {
	var req model.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	if err := h.searchService.LogFeedback(c.Request.Context(), &req); err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, "Feedback logged successfully", nil)
}
