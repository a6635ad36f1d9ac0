package middleware

import (
	"crypto/subtle"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

const internalKeyHeader = "X-Internal-API-Key"

// InternalAuthMiddleware guards service-to-service routes. Callers must
// present the shared key from INTERNAL_API_KEY in the X-Internal-API-Key
// header. Comparison is constant time.
func InternalAuthMiddleware() gin.HandlerFunc {
	expected := []byte(os.Getenv("INTERNAL_API_KEY"))
	if len(expected) == 0 {
		// Refuse every request rather than run an unprotected internal API.
		return func(c *gin.Context) {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "server misconfigured: INTERNAL_API_KEY not set",
			})
		}
	}

	return func(c *gin.Context) {
		presented := []byte(c.GetHeader(internalKeyHeader))
		if subtle.ConstantTimeCompare(presented, expected) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "unauthorized",
			})
			return
		}
		c.Next()
	}
}
