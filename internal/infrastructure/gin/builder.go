package gin

import (
	"time"

	"github.com/Ruchi0214/Regexia/internal/infrastructure/jwt"
	"github.com/Ruchi0214/Regexia/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
)

// ServerBuilder assembles a Server fluently.
type ServerBuilder struct {
	config       *Config
	logger       logger.Logger
	setupRoutes  func(*gin.Engine)
	healthChecks map[string]HealthChecker
}

// NewServerBuilder starts a builder with default configuration.
func NewServerBuilder(serviceName string, port int) *ServerBuilder {
	return &ServerBuilder{
		config:       NewConfig(serviceName, port),
		healthChecks: make(map[string]HealthChecker),
	}
}

func (b *ServerBuilder) WithLogger(log logger.Logger) *ServerBuilder {
	b.logger = log
	return b
}

func (b *ServerBuilder) WithDebug(debug bool) *ServerBuilder {
	b.config.Debug = debug
	return b
}

func (b *ServerBuilder) WithVersion(version string) *ServerBuilder {
	b.config.ServiceVersion = version
	return b
}

func (b *ServerBuilder) WithTimeouts(read, write, idle time.Duration) *ServerBuilder {
	b.config.ReadTimeout = read
	b.config.WriteTimeout = write
	b.config.IdleTimeout = idle
	return b
}

// WithHealthCheck registers a named dependency check on /health and /ready.
func (b *ServerBuilder) WithHealthCheck(name string, checker HealthChecker) *ServerBuilder {
	b.healthChecks[name] = checker
	return b
}

func (b *ServerBuilder) WithRoutes(setupRoutes func(*gin.Engine)) *ServerBuilder {
	b.setupRoutes = setupRoutes
	return b
}

// Build creates the server. Health routes are registered before service routes.
func (b *ServerBuilder) Build() *Server {
	if b.logger == nil {
		b.logger = logger.Must(logger.Config{Level: "info", Development: b.config.Debug})
	}

	return NewServer(b.config, b.logger, func(router *gin.Engine) {
		RegisterHealthRoutes(router, b.config.ServiceName, b.config.ServiceVersion, b.healthChecks)
		if b.setupRoutes != nil {
			b.setupRoutes(router)
		}
	})
}

// ProtectedGroup returns a group guarded by JWT auth when jwtSecret is set,
// and an open group otherwise.
func ProtectedGroup(router *gin.Engine, path, jwtSecret string) *gin.RouterGroup {
	group := router.Group(path)
	if jwtSecret != "" {
		group.Use(jwt.Middleware(jwtSecret))
	}
	return group
}
