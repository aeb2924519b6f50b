package middleware

import (
	"net/http"

	"campus-canteen/cart"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	SessionCookie = "ccos_session"
	sessionKey    = "session_id"
	sessionMaxAge = 30 * 24 * 60 * 60
)

// StudentSession gives every student browser a session id cookie. Anything
// that is not a uuid is replaced.
func StudentSession(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(SessionCookie)
		if err != nil || uuid.Validate(id) != nil {
			id = cart.NewSessionID()
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, id, sessionMaxAge, "/", "", secure, true)
		c.Set(sessionKey, id)
		c.Next()
	}
}

// SessionID returns the id set by StudentSession.
func SessionID(c *gin.Context) string {
	return c.GetString(sessionKey)
}
