package telemetry

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequireBearerMiddleware rejects /api/* requests that carry no bearer token.
// Token validation happens at the gateway in front of this service.
func RequireBearerMiddleware(disabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if disabled {
			c.Next()
			return
		}
		p := c.Request.URL.Path
		if strings.HasPrefix(p, "/api/") || strings.HasPrefix(p, "/swagger") || p == "/docs" {
			auth := strings.TrimSpace(c.GetHeader("Authorization"))
			if !strings.HasPrefix(auth, "Bearer ") {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": http.StatusUnauthorized, "message": "missing bearer token"})
				return
			}
		}
		c.Next()
	}
}

// WriteAuditMiddleware records every non-GET /api/* request on the log platform.
func WriteAuditMiddleware(p *Client, logger *zap.Logger) gin.HandlerFunc {
	if p == nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.Request.URL.Path
		method := strings.ToUpper(c.Request.Method)
		if !strings.HasPrefix(path, "/api/") {
			return
		}
		if method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions {
			return
		}

		status := c.Writer.Status()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		err := p.CreateLog(ctx, CreateLogRequest{
			Action: "solarwatch_http_write",
			Level:  levelFromStatus(status),
			Details: map[string]any{
				"method":   method,
				"path":     path,
				"route":    c.FullPath(),
				"status":   status,
				"duration": time.Since(start).String(),
			},
		})
		if err != nil && logger != nil {
			logger.Debug("telemetry audit log failed", zap.Error(err))
		}
	}
}

func levelFromStatus(status int) string {
	if status >= 500 {
		return "error"
	}
	if status >= 400 {
		return "warn"
	}
	return "info"
}
