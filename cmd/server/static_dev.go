//go:build !embed

package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mealcatalog/internal/handler"
)

// setupStaticFiles leaves the storefront to its own dev server
func setupStaticFiles(router *gin.Engine, logger *zap.Logger) {
	logger.Info("storefront assets are not embedded, run the web dev server separately")

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, handler.Response{Error: "API endpoint not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "Storefront is running separately",
			"dev_url": "http://localhost:3000",
		})
	})
}
