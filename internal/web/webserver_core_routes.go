// Package web provides the HTTP server that dispatches page routes to the template renderer
package web

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
	"github.com/go-while/go-webtoys/internal/config"
	"github.com/go-while/go-webtoys/internal/models"
	"github.com/go-while/go-webtoys/internal/render"
)

// WebServer represents the web server
type WebServer struct {
	Router    *gin.Engine
	Config    *config.WebConfig
	Routes    *models.RouteTable
	Renderer  render.Renderer
	StartTime time.Time // Track server start time for uptime calculations

	httpServer *http.Server
}

// NewServer creates a new web server instance serving every entry of routes through renderer.
// The gin mode is left to the caller.
func NewServer(webconfig *config.WebConfig, routes *models.RouteTable, renderer render.Renderer) (*WebServer, error) {
	if webconfig == nil || routes == nil || renderer == nil {
		return nil, errors.New("web: config, routes and renderer are required")
	}

	router := gin.New()
	// exact matching only, unknown paths fall through to the stock 404
	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false
	router.HandleMethodNotAllowed = true

	if err := router.SetTrustedProxies(webconfig.TrustedProxies); err != nil {
		return nil, fmt.Errorf("web: trusted proxies: %w", err)
	}

	// Configure security headers based on SSL setup
	secureConfig := secure.Config{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}
	if webconfig.SSL {
		secureConfig.SSLRedirect = true
		secureConfig.STSSeconds = 31536000
		secureConfig.STSIncludeSubdomains = true
	}

	server := &WebServer{
		Router:    router,
		Config:    webconfig,
		Routes:    routes,
		Renderer:  renderer,
		StartTime: time.Now(),
	}

	router.Use(server.ApacheLogFormat(), gin.Recovery())
	router.Use(secure.New(secureConfig))

	server.setupRoutes()
	server.httpServer = &http.Server{
		Addr:              webconfig.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return server, nil
}

// setupRoutes registers GET, HEAD and OPTIONS for every route table entry
func (s *WebServer) setupRoutes() {
	for _, route := range s.Routes.Routes() {
		page := s.pageHandler(route)
		s.Router.GET(route.Path, page)
		s.Router.HEAD(route.Path, page)
		s.Router.OPTIONS(route.Path, optionsHandler)
	}
	log.Printf("[WEB]: registered %d page routes", s.Routes.Len())
}

// ServeHTTP dispatches a single request
func (s *WebServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

// Start starts the web server with SSL support if configured.
// It blocks until the listener fails or Shutdown is called; the latter returns nil.
func (s *WebServer) Start() error {
	addr := s.Config.Addr()

	var err error
	if s.Config.SSL {
		if s.Config.CertFile == "" || s.Config.KeyFile == "" {
			return errors.New("SSL enabled but cert_file or key_file not specified in config")
		}
		log.Printf("[WEB]: Starting HTTPS server on %s", addr)
		err = s.httpServer.ListenAndServeTLS(s.Config.CertFile, s.Config.KeyFile)
	} else {
		log.Printf("[WEB]: Starting HTTP server on %s", addr)
		err = s.httpServer.ListenAndServe()
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests until ctx expires
func (s *WebServer) Shutdown(ctx context.Context) error {
	log.Printf("[WEB]: Shutting down server (uptime %s)", time.Since(s.StartTime).Round(time.Second))
	return s.httpServer.Shutdown(ctx)
}

func (s *WebServer) ApacheLogFormat() gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf(`%s - - [%s] "%s %s %s" %d %d "%s" "%s"`+"\n",
			param.ClientIP,
			param.TimeStamp.Format("02/Jan/2006:15:04:05 -0700"),
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.BodySize,
			param.Request.Referer(),
			param.Request.UserAgent(),
		)
	})
}
