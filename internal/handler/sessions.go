package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"mealcatalog/internal/model"
	"mealcatalog/internal/service"
)

// SessionHandler drives stateful browsing sessions
type SessionHandler struct {
	catalog *service.CatalogService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(catalogService *service.CatalogService) *SessionHandler {
	return &SessionHandler{catalog: catalogService}
}

// Open handles POST /api/v1/sessions. The body is optional.
func (h *SessionHandler) Open(c *gin.Context) {
	var req model.SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	resp, err := h.catalog.OpenSession(c.Request.Context(), req.Filters)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Message: "Session opened", Data: resp})
}

// Get handles GET /api/v1/sessions/:id
func (h *SessionHandler) Get(c *gin.Context) {
	resp, err := h.catalog.SessionView(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, "", resp)
}

// UpdateFilters handles PUT /api/v1/sessions/:id/filters
func (h *SessionHandler) UpdateFilters(c *gin.Context) {
	var f model.FilterState
	if err := c.ShouldBindJSON(&f); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	resp, err := h.catalog.UpdateFilters(c.Request.Context(), c.Param("id"), f)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, "", resp)
}

// SetSearchTerm handles PATCH /api/v1/sessions/:id/search
func (h *SessionHandler) SetSearchTerm(c *gin.Context) {
	var req model.SearchTermRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	resp, err := h.catalog.SetSearchTerm(c.Request.Context(), c.Param("id"), req.SearchTerm)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, "", resp)
}

// LoadMore handles POST /api/v1/sessions/:id/more
func (h *SessionHandler) LoadMore(c *gin.Context) {
	resp, err := h.catalog.LoadMore(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, "", resp)
}

// ClearFilter handles DELETE /api/v1/sessions/:id/filters/:kind
func (h *SessionHandler) ClearFilter(c *gin.Context) {
	kind, err := model.ParseFilterKind(c.Param("kind"))
	if err != nil {
		respondErr(c, err)
		return
	}

	resp, err := h.catalog.ClearFilter(c.Request.Context(), c.Param("id"), kind)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, "", resp)
}

// Close handles DELETE /api/v1/sessions/:id
func (h *SessionHandler) Close(c *gin.Context) {
	if err := h.catalog.CloseSession(c.Request.Context(), c.Param("id")); err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, "Session closed", nil)
}
