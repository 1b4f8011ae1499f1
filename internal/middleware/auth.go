package middleware

import (
	"net/http"

	"backend/internal/app/session"
	"backend/internal/app/user"

	"github.com/gin-gonic/gin"
)

const currentUserKey = "currentUser"

// Authenticate resolves the presented session key to a user. With required
// set, requests without a valid session are rejected with 401; otherwise
// the request proceeds anonymously and CurrentUser returns nil.
func Authenticate(sessions session.Service, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionKey := session.SessionKeyFromRequest(c)
		if sessionKey == "" {
			if required {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
				return
			}
			c.Next()
			return
		}

		u, err := sessions.GetUserBySessionKey(c.Request.Context(), sessionKey)
		if err != nil {
			if required {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid session"})
				return
			}
			c.Next()
			return
		}

		c.Set(currentUserKey, u)
		c.Next()
	}
}

// CurrentUser returns the authenticated user set by Authenticate, or nil
// for anonymous requests.
func CurrentUser(c *gin.Context) *user.User {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*user.User)
	return u
}
