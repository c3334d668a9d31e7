// Web server for go-webtoys: serves the page templates over HTTP
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	prof "github.com/go-while/go-cpu-mem-profiler"
	"github.com/go-while/go-webtoys/internal/config"
	"github.com/go-while/go-webtoys/internal/models"
	"github.com/go-while/go-webtoys/internal/render"
	"github.com/go-while/go-webtoys/internal/web"
	"github.com/joho/godotenv"
)

var (
	// command-line flags
	envFile     string
	webaddr     string
	webport     int
	webssl      bool
	webcertFile string
	webkeyFile  string
	templateDir string
	static      bool
	debug       bool
	pprofAddr   string
	showVersion bool
)

var appVersion = "-unset-"

var Prof *prof.Profiler

func main() {
	config.AppVersion = appVersion

	flag.StringVar(&envFile, "env", ".env", "optional dotenv file with WEBTOYS_* variables")
	flag.StringVar(&webaddr, "webaddr", "", "Web server listen address (default: all interfaces)")
	flag.IntVar(&webport, "webport", 0, "Web server port (default: 5000)")
	flag.BoolVar(&webssl, "webssl", false, "Enable SSL")
	flag.StringVar(&webcertFile, "websslcert", "", "SSL certificate file (/path/to/fullchain.pem)")
	flag.StringVar(&webkeyFile, "websslkey", "", "SSL key file (/path/to/privkey.pem)")
	flag.StringVar(&templateDir, "templates", "", "serve templates from this directory instead of the embedded set")
	flag.BoolVar(&static, "static", false, "pass template files through unchanged instead of executing them")
	flag.BoolVar(&debug, "debug", false, "reload templates on every request and enable gin debug mode")
	flag.StringVar(&pprofAddr, "pprof", "", "start the pprof web profiler on this address (e.g. localhost:51111)")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Println(appVersion)
		os.Exit(0)
	}
	log.Printf("Starting go-webtoys: Web Server (version: %s)", appVersion)

	if err := loadEnvFile(envFile); err != nil {
		log.Fatalf("[WEB]: Error loading %s: %v", envFile, err)
	}

	webConfig := config.NewDefaultConfig()
	if err := config.LoadEnv(webConfig); err != nil {
		log.Fatalf("[WEB]: Error loading env config: %v", err)
	}
	applyFlags(webConfig)
	if err := webConfig.Validate(); err != nil {
		log.Fatalf("[WEB]: Invalid configuration: %v", err)
	}
	webConfig.LogSummary()

	if pprofAddr != "" {
		Prof = prof.NewProf()
		go Prof.PprofWeb(pprofAddr)
		log.Printf("[WEB]: pprof profiler listening on %s", pprofAddr)
	}

	if webConfig.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	routes := models.DefaultRouteTable()
	renderer, err := newRenderer(webConfig, routes)
	if err != nil {
		log.Fatalf("[WEB]: Error loading templates: %v", err)
	}

	server, err := web.NewServer(webConfig, routes, renderer)
	if err != nil {
		log.Fatalf("[WEB]: Error creating web server: %v", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{})
	go GracefulShutdown(server, webConfig, quit, done)

	if err := server.Start(); err != nil {
		log.Fatalf("[WEB]: %v", err)
	}
	<-done
	log.Printf("[WEB]: Server exiting")
}

// GracefulShutdown waits for a signal and drains the web server
func GracefulShutdown(server *web.WebServer, webConfig *config.WebConfig, quit <-chan os.Signal, done chan<- struct{}) {
	sig := <-quit
	log.Printf("[WEB]: Received %s, shutting down", sig)

	ctx, cancel := context.WithTimeout(context.Background(), webConfig.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("[WEB]: Server forced to shutdown: %v", err)
	}
	close(done)
}

// loadEnvFile loads path into the environment; a missing file is not an error.
// Variables already set in the environment win.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	log.Printf("[WEB]: Loaded environment from %s", path)
	return nil
}

// applyFlags overrides config values with command-line flags that were provided
func applyFlags(webConfig *config.WebConfig) {
	if webaddr != "" {
		webConfig.ListenAddr = webaddr
	}
	if webport > 0 {
		webConfig.ListenPort = webport
		log.Printf("[WEB]: Overriding listen port with command-line flag: %d", webConfig.ListenPort)
	}
	if webssl {
		webConfig.SSL = true
		log.Printf("[WEB]: SSL enabled via command-line flag")
	}
	if webcertFile != "" {
		webConfig.CertFile = webcertFile
	}
	if webkeyFile != "" {
		webConfig.KeyFile = webkeyFile
	}
	if templateDir != "" {
		webConfig.TemplateDir = templateDir
	}
	if static {
		webConfig.Static = true
	}
	if debug {
		webConfig.Debug = true
	}
}

// newRenderer picks the template source and renderer and checks every routed template exists
func newRenderer(webConfig *config.WebConfig, routes *models.RouteTable) (render.Renderer, error) {
	fsys, err := web.OpenTemplates(webConfig.TemplateDir)
	if err != nil {
		return nil, err
	}
	if webConfig.Static {
		for _, name := range routes.Templates() {
			if _, err := fs.Stat(fsys, name); err != nil {
				return nil, fmt.Errorf("%w: %s", render.ErrTemplateNotFound, name)
			}
		}
		return render.NewStaticRenderer(fsys), nil
	}
	tr := render.NewTemplateRenderer(fsys, render.WithReload(webConfig.Debug))
	if err := tr.Preload(routes.Templates()...); err != nil {
		return nil, err
	}
	return tr, nil
}
