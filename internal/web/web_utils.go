package web

import (
	"bytes"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-while/go-webtoys/internal/models"
)

const (
	contentTypeHTML = "text/html; charset=utf-8"
	allowedMethods  = "GET, HEAD, OPTIONS"
)

// pageHandler renders the template of route. The request itself is never read,
// so the response only depends on the path and the template contents.
func (s *WebServer) pageHandler(route models.Route) gin.HandlerFunc {
	return func(c *gin.Context) {
		var buf bytes.Buffer
		if err := s.Renderer.Render(&buf, route.Template); err != nil {
			s.renderError(c, route, err)
			return
		}
		c.Data(http.StatusOK, contentTypeHTML, buf.Bytes())
	}
}

// renderError hands the failure to gin, which answers with a bare 500
func (s *WebServer) renderError(c *gin.Context, route models.Route, err error) {
	log.Printf("[WEB]: Error rendering template %s for %s: %v", route.Template, route.Path, err)
	_ = c.AbortWithError(http.StatusInternalServerError, err)
}

// optionsHandler answers preflight and capability checks for page routes
func optionsHandler(c *gin.Context) {
	c.Header("Allow", allowedMethods)
	c.Status(http.StatusOK)
}
