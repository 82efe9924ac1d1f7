// Package gin holds the HTTP server plumbing shared by the Regexia API:
// a fluent server builder, standard middleware, health routes and
// graceful shutdown.
package gin

import "time"

const (
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultCORSMaxAge      = 12 * time.Hour
)

// Config holds HTTP server settings.
type Config struct {
	Port            int
	Debug           bool
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	CORS            CORSConfig
	ServiceName     string
	ServiceVersion  string
}

// CORSConfig configures CORSMiddleware.
type CORSConfig struct {
	Enabled          bool
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
	MaxAge           time.Duration
}

// NewConfig returns a Config with defaults applied.
func NewConfig(serviceName string, port int) *Config {
	cfg := &Config{
		Port:        port,
		ServiceName: serviceName,
		CORS:        CORSConfig{Enabled: true, AllowedOrigins: []string{"*"}},
	}
	cfg.SetDefaults()
	return cfg
}

// SetDefaults fills unset timeouts and CORS lists.
func (c *Config) SetDefaults() {
	if c.ReadTimeout == 0 {
		c.ReadTimeout = DefaultReadTimeout
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = DefaultWriteTimeout
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = DefaultIdleTimeout
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = DefaultShutdownTimeout
	}
	c.CORS.SetDefaults()
}

// SetDefaults fills unset CORS lists.
func (c *CORSConfig) SetDefaults() {
	if len(c.AllowedMethods) == 0 {
		c.AllowedMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	if len(c.AllowedHeaders) == 0 {
		c.AllowedHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"}
	}
	if c.MaxAge == 0 {
		c.MaxAge = DefaultCORSMaxAge
	}
}
