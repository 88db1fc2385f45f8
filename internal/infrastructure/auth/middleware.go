package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const identityKey = "auth.identity"

// RequireIdentity guards request/response endpoints with the same credential
// policy the connection namespaces use. The verified identity is stored on
// the gin context for handlers downstream.
func RequireIdentity(v Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := BearerFromRequest(c.Request)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing credential"})
			return
		}
		identity, err := v.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid credential"})
			return
		}
		c.Set(identityKey, identity)
		c.Next()
	}
}

// IdentityFrom returns the identity stored by RequireIdentity.
func IdentityFrom(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	identity, ok := v.(Identity)
	return identity, ok
}
