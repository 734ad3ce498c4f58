package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"interview-summarizer/internal/shared/telemetry"
	"interview-summarizer/internal/shared/util"
)

// Context keys handlers may set for the request log line.
const (
	AnalysisIDKey = "analysisId"
	FileKindKey   = "fileKind"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		telemetry.Info("request.complete", map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"session":     util.ShortHash(SessionIDFromContext(c)),
			"analysis_id": c.GetString(AnalysisIDKey),
			"file_kind":   c.GetString(FileKindKey),
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		})
	}
}
