//go:build embed

package main

import (
	"embed"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mealcatalog/internal/handler"
)

//go:embed web/dist
var webDist embed.FS

// setupStaticFiles serves the storefront bundle compiled into the binary.
// Unknown paths fall back to index.html for client-side routing.
func setupStaticFiles(router *gin.Engine, logger *zap.Logger) {
	logger.Info("using embedded storefront assets")

	distFS, err := fs.Sub(webDist, "web/dist")
	if err != nil {
		logger.Fatal("failed to open embedded dist directory", zap.Error(err))
	}

	router.NoRoute(func(c *gin.Context) {
		urlPath := c.Request.URL.Path
		if strings.HasPrefix(urlPath, "/api") {
			c.JSON(http.StatusNotFound, handler.Response{Error: "API endpoint not found"})
			return
		}

		name := strings.TrimPrefix(path.Clean(urlPath), "/")
		if name == "" {
			name = "index.html"
		}

		content, err := fs.ReadFile(distFS, name)
		if err != nil {
			name = "index.html"
			if content, err = fs.ReadFile(distFS, name); err != nil {
				c.String(http.StatusNotFound, "404 page not found")
				return
			}
		}

		contentType := mime.TypeByExtension(path.Ext(name))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		c.Data(http.StatusOK, contentType, content)
	})
}
