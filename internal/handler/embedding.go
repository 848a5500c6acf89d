package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mealcatalog/internal/model"
	"mealcatalog/internal/service"
)

// EmbeddingHandler handles embedding-related HTTP requests
type EmbeddingHandler struct {
	embeddings *service.EmbeddingService
}

// NewEmbeddingHandler creates a new embedding handler
func NewEmbeddingHandler(embeddings *service.EmbeddingService) *EmbeddingHandler {
	return &EmbeddingHandler{embeddings: embeddings}
}

// BatchUpdate handles POST /api/v1/embeddings/batch
func (h *EmbeddingHandler) BatchUpdate(c *gin.Context) {
	var req model.EmbeddingBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	if len(req.Embeddings) == 0 {
		respondError(c, http.StatusBadRequest, "No embeddings provided")
		return
	}

	success, errs, err := h.embeddings.UpdateEmbeddings(c.Request.Context(), req.Embeddings)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			status = http.StatusBadRequest
		}
		respondError(c, status, err.Error())
		return
	}

	writeBatch(c, model.EmbeddingBatchResponse{
		Success: success,
		Failed:  len(req.Embeddings) - success,
		Errors:  errs,
	})
}

// EmbedCatalog handles POST /api/v1/embeddings/catalog
func (h *EmbeddingHandler) EmbedCatalog(c *gin.Context) {
	resp, err := h.embeddings.EmbedCatalog(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	writeBatch(c, *resp)
}

// writeBatch answers 206 when some items failed
func writeBatch(c *gin.Context, resp model.EmbeddingBatchResponse) {
	status := http.StatusOK
	if len(resp.Errors) > 0 {
		status = http.StatusPartialContent
	}
	c.JSON(status, Response{Success: len(resp.Errors) == 0, Data: resp})
}
