// README: Optional Firebase bearer auth. No header means guest; a bad token is rejected.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"townguide/internal/infra"
)

const callerUIDKey = "caller_uid"

// Auth verifies the bearer token when one is sent. Requests without an
// Authorization header pass through as guests. A nil verifier treats every
// caller as a guest and ignores the header.
func Auth(verifier infra.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if verifier == nil || header == "" {
			c.Next()
			return
		}
		raw, ok := strings.CutPrefix(header, "Bearer ")
		raw = strings.TrimSpace(raw)
		if !ok || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			return
		}
		token, err := verifier.VerifyIDToken(c.Request.Context(), raw)
		if err != nil || token == nil || token.UID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(callerUIDKey, token.UID)
		c.Next()
	}
}

// CallerUID is the verified user id, or "" for guests.
func CallerUID(c *gin.Context) string {
	return c.GetString(callerUIDKey)
}
