package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const ctxCredential = "admin_credential"

// AdminRequired rejects requests whose credential fails the authorizer.
// The credential is read from X-Admin-Auth, falling back to a Bearer token
// in the Authorization header. Missing and invalid credentials are both a
// 401; the API does not distinguish "authenticated but forbidden".
func AdminRequired(authorizer Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		credential := ExtractCredential(c)
		if credential == "" || !authorizer.IsAuthorized(c.Request.Context(), credential) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Not authorized",
			})
			return
		}
		c.Set(ctxCredential, credential)
		c.Next()
	}
}

// ExtractCredential pulls the admin credential off the request.
func ExtractCredential(c *gin.Context) string {
	if v := strings.TrimSpace(c.GetHeader("X-Admin-Auth")); v != "" {
		return v
	}
	bearer := c.GetHeader("Authorization")
	if strings.HasPrefix(bearer, "Bearer ") {
		return strings.TrimSpace(bearer[7:])
	}
	return ""
}

// Credential returns the validated credential stored by AdminRequired.
func Credential(c *gin.Context) string {
	return c.GetString(ctxCredential)
}
