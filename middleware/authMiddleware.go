package middleware

import (
	"context"
	"net/http"

	"campus-canteen/helpers"

	"github.com/gin-gonic/gin"
)

// BootstrapKey is set on the context when a request passed OpenWhileNoUsers
// because no account exists yet.
const BootstrapKey = "bootstrap"

// TokenValidator checks a staff token and returns its claims.
type TokenValidator interface {
	ValidateToken(signedToken string) (*helpers.SignedDetails, error)
}

// UserCounter reports how many staff accounts exist.
type UserCounter interface {
	CountUsers(ctx context.Context) (int64, error)
}

// Authentication requires a valid token in the "token" header. Browsers
// cannot set headers on a websocket upgrade, so the "token" query parameter
// is accepted as well.
func Authentication(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c, tokens) {
			return
		}
		c.Next()
	}
}

// RequireRole lets through only users whose token carries role.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !hasRole(c, role) {
			return
		}
		c.Next()
	}
}

// OpenWhileNoUsers lets anyone through until the first account exists, so
// the first admin can sign up. After that it requires a token carrying role.
func OpenWhileNoUsers(users UserCounter, tokens TokenValidator, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		n, err := users.CountUsers(c.Request.Context())
		if err != nil {
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "error occurred while checking users"})
			return
		}
		if n == 0 {
			c.Set(BootstrapKey, true)
			c.Next()
			return
		}
		if !authenticate(c, tokens) || !hasRole(c, role) {
			return
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, tokens TokenValidator) bool {
	clientToken := c.Request.Header.Get("token")
	if clientToken == "" {
		clientToken = c.Query("token")
	}
	if clientToken == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no authorization token provided"})
		return false
	}
	claims, err := tokens.ValidateToken(clientToken)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return false
	}
	c.Set("email", claims.Email)
	c.Set("name", claims.Name)
	c.Set("uid", claims.Uid)
	c.Set("role", claims.UserRole)
	return true
}

func hasRole(c *gin.Context, role string) bool {
	if c.GetString("role") != role {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "unauthorized to access this resource"})
		return false
	}
	return true
}
