package httpgin

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kirinyoku/hemolink/internal/domain"
	"github.com/kirinyoku/hemolink/internal/service/auth"
)

const sessionKey = "session"

func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader("X-Request-ID")
		if reqID == "" {
			reqID = uuid.New().String()
		}

		c.Writer.Header().Set("X-Request-ID", reqID)
		c.Set("request_id", reqID)

		c.Next()
	}
}

func CORS() gin.HandlerFunc {
	cfg := cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{
			"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"Authorization",
			"X-Requested-With",
			"X-Request-ID",
			"Idempotency-Key",
			"If-None-Match",
		},
		ExposeHeaders: []string{
			"X-Request-ID",
			"ETag",
			"Cache-Control",
		},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}

	return cors.New(cfg)
}

func LoggingMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery
		c.Next()

		latency := time.Since(start)
		if raw != "" {
			path = path + "?" + raw
		}

		status := c.Writer.Status()
		reqID, _ := c.Get("request_id")

		attrs := []slog.Attr{
			slog.Int("status", status),
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.String("ip", c.ClientIP()),
			slog.String("ua", c.Request.UserAgent()),
			slog.Any("request_id", reqID),
			slog.Duration("latency", latency),
			slog.Int("bytes_out", c.Writer.Size()),
		}

		// convert []slog.Attr to []any for slog.Group variadic parameter
		anyAttrs := make([]any, len(attrs))
		for i := range attrs {
			anyAttrs[i] = attrs[i]
		}

		if len(c.Errors) > 0 {
			logger.Error("http", slog.Group("http", anyAttrs...))
		} else {
			logger.Info("http", slog.Group("http", anyAttrs...))
		}
	}
}

// SessionMiddleware resolves the bearer token into a typed domain.Session and
// injects it into the request context. Requests without a token proceed as
// anonymous; gating happens in RequireAuth / RequireRole.
func SessionMiddleware(authSvc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)

		sess, err := authSvc.Session(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadGateway, ErrorResponse{Error: "session lookup failed"})
			return
		}

		c.Set(sessionKey, sess)
		c.Next()
	}
}

// RequireAuth rejects anonymous or failed sessions.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessionFrom(c)
		if sess.State != domain.SessionAuthenticated {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
			return
		}
		c.Next()
	}
}

// RequireRole rejects authenticated callers whose role differs.
func RequireRole(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessionFrom(c)
		if sess.State != domain.SessionAuthenticated {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
			return
		}
		if sess.Profile.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: "insufficient role"})
			return
		}
		c.Next()
	}
}

func sessionFrom(c *gin.Context) domain.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return domain.Anonymous()
	}

	sess, ok := v.(domain.Session)
	if !ok {
		return domain.Anonymous()
	}

	return sess
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if h == "" {
		return ""
	}

	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
