package gin

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthStatus is the overall or per-check state.
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  HealthStatus           `json:"status"`
	Service string                 `json:"service"`
	Version string                 `json:"version"`
	Uptime  string                 `json:"uptime"`
	Checks  map[string]CheckResult `json:"checks,omitempty"`
}

// CheckResult is one named dependency check.
type CheckResult struct {
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
	Latency string       `json:"latency,omitempty"`
}

// HealthChecker runs one check.
type HealthChecker func() CheckResult

// PingChecker adapts a ping function into a HealthChecker.
func PingChecker(ping func() error) HealthChecker {
	return func() CheckResult {
		start := time.Now()
		if err := ping(); err != nil {
			return CheckResult{Status: HealthStatusUnhealthy, Message: err.Error()}
		}
		return CheckResult{Status: HealthStatusHealthy, Latency: time.Since(start).String()}
	}
}

// RegisterHealthRoutes adds GET/HEAD /health and GET /ready.
// /ready returns 503 while any check is unhealthy.
func RegisterHealthRoutes(router *gin.Engine, serviceName, version string, checks map[string]HealthChecker) {
	started := time.Now()

	handler := func(c *gin.Context) {
		resp := HealthResponse{
			Status:  HealthStatusHealthy,
			Service: serviceName,
			Version: version,
			Uptime:  time.Since(started).Truncate(time.Second).String(),
		}
		if len(checks) > 0 {
			resp.Checks = make(map[string]CheckResult, len(checks))
			for name, check := range checks {
				result := check()
				resp.Checks[name] = result
				if result.Status == HealthStatusUnhealthy {
					resp.Status = HealthStatusUnhealthy
				}
			}
		}

		status := http.StatusOK
		if resp.Status == HealthStatusUnhealthy && c.FullPath() == "/ready" {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, resp)
	}

	router.GET("/health", handler)
	router.HEAD("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/ready", handler)
}
