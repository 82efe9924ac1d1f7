package gin

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Ruchi0214/Regexia/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request id in and out.
const RequestIDHeader = "X-Request-ID"

// RequestIDLoggerMiddleware reuses an inbound X-Request-ID or generates one,
// echoes it on the response, and stores a request-scoped logger carrying it
// in the request context (see logger.FromContext).
func RequestIDLoggerMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = strings.ReplaceAll(uuid.NewString(), "-", "")
		}

		c.Set("request_id", requestID)
		c.Writer.Header().Set(RequestIDHeader, requestID)

		reqLog := log.With(logger.String("request_id", requestID))
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context(), reqLog))

		c.Next()
	}
}

// LoggerMiddleware logs one entry per request.
func LoggerMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		fields := []logger.Field{
			logger.String("method", c.Request.Method),
			logger.String("path", path),
			logger.Int("status", c.Writer.Status()),
			logger.Duration("duration", time.Since(start)),
			logger.String("client_ip", c.ClientIP()),
		}
		if v, ok := c.Get("request_id"); ok {
			if id, isString := v.(string); isString {
				fields = append(fields, logger.String("request_id", id))
			}
		}

		if len(c.Errors) > 0 {
			fields = append(fields, logger.Strings("errors", c.Errors.Errors()))
			log.Error("HTTP request with errors", fields...)
			return
		}
		if strings.HasPrefix(path, "/health") {
			log.Debug("HTTP request", fields...)
			return
		}
		log.Info("HTTP request", fields...)
	}
}

// RecoveryMiddleware turns handler panics into a 500 JSON response.
func RecoveryMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error("Panic recovered",
					logger.Any("error", err),
					logger.String("path", c.Request.URL.Path),
					logger.String("method", c.Request.Method),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
					"code":  "INTERNAL_ERROR",
				})
			}
		}()

		c.Next()
	}
}

// CORSMiddleware applies cfg to every response and answers preflight requests.
func CORSMiddleware(cfg CORSConfig) gin.HandlerFunc {
	cfg.SetDefaults()

	allowedMethods := strings.Join(cfg.AllowedMethods, ", ")
	allowedHeaders := strings.Join(cfg.AllowedHeaders, ", ")
	maxAge := strconv.Itoa(int(cfg.MaxAge.Seconds()))
	allowCredentials := strconv.FormatBool(cfg.AllowCredentials)

	return func(c *gin.Context) {
		if !cfg.Enabled {
			c.Next()
			return
		}

		allowedOrigin := determineAllowedOrigin(c.Request.Header.Get("Origin"), cfg.AllowedOrigins)
		if allowedOrigin == "" {
			c.Next()
			return
		}

		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", allowedOrigin)
		h.Set("Access-Control-Allow-Credentials", allowCredentials)
		h.Set("Access-Control-Allow-Methods", allowedMethods)
		h.Set("Access-Control-Allow-Headers", allowedHeaders)
		h.Set("Access-Control-Max-Age", maxAge)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func determineAllowedOrigin(origin string, allowedOrigins []string) string {
	if origin == "" {
		return "*"
	}
	for _, allowed := range allowedOrigins {
		if allowed == "*" {
			return "*"
		}
		if allowed == origin {
			return origin
		}
	}
	return ""
}
