package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"ghostwood/internal/logging"
)

const requestIDHeader = "X-Request-ID"

// bearerAuth validates bearer tokens. An empty token disables the check.
func bearerAuth(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.Next()
			return
		}
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") || strings.TrimPrefix(auth, "Bearer ") != token {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

// requestContext tags the request context with a request id and logs the
// outcome at debug level.
func (s *Server) requestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)
		ctx := logging.WithRequestID(c.Request.Context(), id)
		if sid := c.Param("id"); sid != "" && strings.HasPrefix(c.FullPath(), "/api/sessions/") {
			ctx = logging.WithSessionID(ctx, sid)
		}
		c.Request = c.Request.WithContext(ctx)

		start := time.Now()
		c.Next()
		logging.WithContext(ctx, s.logger).Debug("api request",
			logging.String("method", c.Request.Method),
			logging.String("route", c.FullPath()),
			logging.Int("status", c.Writer.Status()),
			logging.Duration("elapsed", time.Since(start)),
		)
	}
}
