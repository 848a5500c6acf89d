package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"mealcatalog/internal/model"
	"mealcatalog/internal/repository"
	"mealcatalog/internal/service"
	"mealcatalog/internal/store"
)

// Response is the envelope every JSON endpoint answers with
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func respondOK(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, Response{Success: true, Message: message, Data: data})
}

func respondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Response{Success: false, Error: message})
}

// respondErr maps service errors onto HTTP status codes
func respondErr(c *gin.Context, err error) {
	respondError(c, statusFor(err), err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrInvalidFilter),
		errors.Is(err, service.ErrInvalidAction):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrSessionNotFound),
		errors.Is(err, service.ErrMealNotFound),
		errors.Is(err, repository.ErrSearchNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrLoggingDisabled),
		errors.Is(err, service.ErrEmbeddingsDisabled),
		errors.Is(err, service.ErrAIDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
