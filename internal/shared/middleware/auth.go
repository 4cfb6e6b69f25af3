package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"microblog-backend/pkg/jwt"
)

// SessionCookie is the cookie carrying the signed session token.
const SessionCookie = "microblog_session"

// Context keys populated by SessionIdentity.
const (
	CtxUserID   = "userID"
	CtxUsername = "username"
)

// SessionIdentity resolves the requester's identity from the session
// cookie when one is present. It never rejects a request: anonymous
// requests simply carry no identity.
func SessionIdentity(tokens *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err == nil && token != "" {
			if claims, err := tokens.Validate(token); err == nil {
				c.Set(CtxUserID, claims.UserID)
				c.Set(CtxUsername, claims.Username)
			}
		}

		c.Next()
	}
}

// RequireAuth redirects unauthenticated requests to the login page.
// Must run after SessionIdentity.
func RequireAuth(loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := c.Get(CtxUserID); !ok {
			c.Redirect(http.StatusFound, loginPath)
			c.Abort()
			return
		}

		c.Next()
	}
}
