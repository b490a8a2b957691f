package http

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// IdentityHeader carries the caller's claimed participant name. It is an
// unauthenticated assertion: no credential backs it, which is why handlers
// thread it through as an explicit parameter instead of trusting ambient
// state.
const IdentityHeader = "user"

// claimedIdentity extracts the claimed participant name from the request.
// Empty means the caller supplied no identity.
func claimedIdentity(c *gin.Context) string {
	return c.GetHeader(IdentityHeader)
}

// LoggerMiddleware creates a middleware that logs HTTP requests.
func LoggerMiddleware(logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Process request
		c.Next()

		// Log after request
		logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Msg("http request")
	}
}
