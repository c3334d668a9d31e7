// Package config provides configuration management for go-webtoys.
package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
)

var AppVersion = "-unset-" // will be set at build time

const (
	// DefaultListenPort is used unless a flag or WEBTOYS_LISTEN_PORT overrides it
	DefaultListenPort = 5000

	DefaultShutdownTimeout = 5 * time.Second

	// EnvPrefix is prepended to every environment variable name read by LoadEnv
	EnvPrefix = "WEBTOYS_"
)

// WebConfig holds web interface configuration
type WebConfig struct {
	ListenAddr string `json:"listen_addr" env:"LISTEN_ADDR"`
	ListenPort int    `json:"listen_port" env:"LISTEN_PORT"`
	SSL        bool   `json:"ssl" env:"SSL"`
	CertFile   string `json:"cert_file,omitempty" env:"CERT_FILE"`
	KeyFile    string `json:"key_file,omitempty" env:"KEY_FILE"`

	// TemplateDir serves templates from disk instead of the embedded set when not empty
	TemplateDir string `json:"template_dir" env:"TEMPLATE_DIR"`
	// Static passes template files through literally instead of executing them
	Static bool `json:"static" env:"STATIC"`
	// Debug re-reads templates on every request and enables gin debug mode
	Debug bool `json:"debug" env:"DEBUG"`

	TrustedProxies  []string      `json:"trusted_proxies" env:"TRUSTED_PROXIES" envSeparator:","`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

// NewDefaultConfig returns a configuration with sensible defaults
func NewDefaultConfig() *WebConfig {
	return &WebConfig{
		ListenPort:      DefaultListenPort,
		SSL:             false,
		TrustedProxies:  []string{"127.0.0.1", "::1"},
		ShutdownTimeout: DefaultShutdownTimeout,
	}
}

// LoadEnv overrides cfg with any WEBTOYS_* environment variables that are set.
func LoadEnv(cfg *WebConfig) error {
	if cfg == nil {
		return errors.New("nil config")
	}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks the configuration for values the server cannot start with
func (c *WebConfig) Validate() error {
	if c.ListenPort < 1 || c.ListenPort > 65535 {
		return fmt.Errorf("invalid port number: %d (must be between 1 and 65535)", c.ListenPort)
	}
	if c.SSL && (c.CertFile == "" || c.KeyFile == "") {
		return errors.New("SSL enabled but cert_file or key_file not specified in config")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("invalid shutdown timeout: %s", c.ShutdownTimeout)
	}
	return nil
}

// Addr returns the host:port the listener binds to
func (c *WebConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.ListenAddr, c.ListenPort)
}

// LogSummary prints the effective configuration
func (c *WebConfig) LogSummary() {
	templates := "embedded"
	if c.TemplateDir != "" {
		templates = c.TemplateDir
	}
	log.Printf("[CONFIG]: addr=%s ssl=%t templates=%s static=%t debug=%t (version: %s)",
		c.Addr(), c.SSL, templates, c.Static, c.Debug, AppVersion)
}
