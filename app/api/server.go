package api

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const apiKeyHeader = "X-API-Key"

// NewServer builds the read-only HTTP surface. The /api group is only
// registered when apiAccessKey is set.
func NewServer(handler *Handler, apiAccessKey string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(requestLogger("/health"), gin.Recovery(), allowReadOnlyCORS())

	r.GET("/", handler.GetIndex(apiAccessKey != ""))
	r.GET("/feed", handler.GetFeed)
	r.GET("/health", handler.GetHealth)
	r.GET("/stats", handler.GetStats)
	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	if apiAccessKey == "" {
		slog.Info("API endpoints disabled (API_ACCESS_KEY not set)")
		return r
	}

	api := r.Group("/api", requireAPIKey(apiAccessKey))
	api.GET("/facts", handler.APIListFacts)
	slog.Info("API endpoints enabled with authentication")

	return r
}

// requestLogger logs one line per request through slog.
func requestLogger(quietPaths ...string) gin.HandlerFunc {
	quiet := make(map[string]bool, len(quietPaths))
	for _, p := range quietPaths {
		quiet[p] = true
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if quiet[c.FullPath()] {
			return
		}

		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"client", c.ClientIP(),
		}
		if msg := c.Errors.String(); msg != "" {
			attrs = append(attrs, "error", msg)
		}
		slog.Debug("HTTP request", attrs...)
	}
}

func allowReadOnlyCORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Accept, Authorization, "+apiKeyHeader)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// apiKeyFromRequest prefers the X-API-Key header over a bearer token.
func apiKeyFromRequest(r *http.Request) string {
	if key := r.Header.Get(apiKeyHeader); key != "" {
		return key
	}
	if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

func requireAPIKey(apiAccessKey string) gin.HandlerFunc {
	expected := []byte(apiAccessKey)

	return func(c *gin.Context) {
		provided := apiKeyFromRequest(c.Request)

		switch {
		case provided == "":
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "API key required"})
		case subtle.ConstantTimeCompare([]byte(provided), expected) != 1:
			slog.Warn("Rejected API request", "path", c.Request.URL.Path, "client", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
		default:
			c.Next()
		}
	}
}
