package middleware

import (
	"context"
	"net/http"
	"strings"

	"xclone/internal/core/errs"
	userPort "xclone/internal/ports/user"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// Authenticator resolves a bearer token to the caller.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*userPort.Principal, error)
}

// JWTAuthMiddleware rejects requests without a live bearer token and stores the caller in the context.
func JWTAuthMiddleware(authn Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication credentials were not provided"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header format must be Bearer {token}"})
			return
		}

		p, err := authn.Authenticate(c.Request.Context(), strings.TrimSpace(parts[1]))
		if err != nil {
			if errs.KindOf(err) != errs.KindUnauthenticated {
				_ = c.Error(err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(principalKey, p)
		c.Set("userID", p.UserID)
		c.Next()
	}
}

// Principal returns the caller stored by JWTAuthMiddleware.
func Principal(c *gin.Context) *userPort.Principal {
	p, _ := c.MustGet(principalKey).(*userPort.Principal)
	return p
}
