package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"mealcatalog/internal/model"
	"mealcatalog/internal/service"
)

// SearchHandler handles natural-language search requests
type SearchHandler struct {
	searchService *service.SearchService
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searchService *service.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// Search handles POST /api/v1/search
func (h *SearchHandler) Search(c *gin.Context) {
	var req model.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	response, err := h.searchService.Search(c.Request.Context(), &req)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, "", response)
}

// SearchStream handles POST /api/v1/search/stream - SSE streaming search
func (h *SearchHandler) SearchStream(c *gin.Context) {
	var req model.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		respondError(c, http.StatusInternalServerError, "Streaming not supported")
		return
	}

	c.Header("Content-Type", "text/event-stream; charset=utf-8")
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	emit := func(event string, data any) error {
		if err := sendSSE(c, event, data); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}

	if err := emit("start", map[string]any{"query": req.Query}); err != nil {
		return
	}

	response, err := h.searchService.SearchStream(c.Request.Context(), &req, emit)
	if err != nil {
		_ = emit("error", map[string]any{"error": err.Error()})
		return
	}

	if err := emit("results", response); err != nil {
		return
	}
	_ = emit("done", nil)
}

// sendSSE writes one server-sent event. A nil payload is sent as {}.
func sendSSE(c *gin.Context, event string, data any) error {
	payload := []byte("{}")
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			event = "error"
			b = []byte(`{"error":"JSON marshal failed"}`)
		}
		payload = b
	}
	_, err := fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", event, payload)
	return err
}
