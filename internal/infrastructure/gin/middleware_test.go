package gin_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	infragin "github.com/Ruchi0214/Regexia/internal/infrastructure/gin"
	"github.com/Ruchi0214/Regexia/internal/infrastructure/logger"
	ginpkg "github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	ginpkg.SetMode(ginpkg.TestMode)
}

func TestRequestIDLoggerMiddleware_GeneratesID(t *testing.T) {
	t.Parallel()

	router := ginpkg.New()
	router.Use(infragin.RequestIDLoggerMiddleware(logger.NewNop()))
	router.GET("/test", func(c *ginpkg.Context) { c.String(http.StatusOK, "ok") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", http.NoBody))

	assert.Len(t, w.Header().Get(infragin.RequestIDHeader), 32)
}

func TestRequestIDLoggerMiddleware_PreservesInboundID(t *testing.T) {
	t.Parallel()

	const inbound = "trace-from-upstream-abc123"

	router := ginpkg.New()
	router.Use(infragin.RequestIDLoggerMiddleware(logger.NewNop()))

	var seen string
	var ctxLogger logger.Logger
	router.GET("/test", func(c *ginpkg.Context) {
		seen = c.GetString("request_id")
		ctxLogger = logger.FromContext(c.Request.Context())
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set(infragin.RequestIDHeader, inbound)
	router.ServeHTTP(w, req)

	assert.Equal(t, inbound, w.Header().Get(infragin.RequestIDHeader))
	assert.Equal(t, inbound, seen)
	assert.NotNil(t, ctxLogger)
}

func TestRecoveryMiddleware_Returns500(t *testing.T) {
	t.Parallel()

	router := ginpkg.New()
	router.Use(infragin.RecoveryMiddleware(logger.NewNop()))
	router.GET("/boom", func(*ginpkg.Context) { panic("boom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", http.NoBody))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	t.Parallel()

	router := ginpkg.New()
	router.Use(infragin.CORSMiddleware(infragin.CORSConfig{Enabled: true, AllowedOrigins: []string{"http://ui.local"}}))
	router.POST("/x", func(c *ginpkg.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/x", http.NoBody)
	req.Header.Set("Origin", "http://ui.local")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://ui.local", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestHealthRoutes_ReadyReflectsChecks(t *testing.T) {
	t.Parallel()

	router := ginpkg.New()
	infragin.RegisterHealthRoutes(router, "regexia", "test", map[string]infragin.HealthChecker{
		"database": infragin.PingChecker(func() error { return errors.New("down") }),
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"unhealthy"`)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", http.NoBody))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
