package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	sessionContextKey = "sessionId"
	sessionHeader     = "X-Session-Id"
	sessionCookie     = "session_id"

	// Sessions are anonymous; the cookie only ties a browser to its own
	// uploads and test progress.
	sessionCookieMaxAge = 60 * 60 * 24 * 7
)

// Session resolves the caller's session id from the X-Session-Id header or
// the session_id cookie, minting a new id when neither is present. The id is
// echoed back in both places so clients can persist it.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(sessionHeader))
		if id == "" {
			if cookie, err := c.Cookie(sessionCookie); err == nil {
				id = strings.TrimSpace(cookie)
			}
		}
		if id == "" || uuid.Validate(id) != nil {
			id = uuid.NewString()
		}

		c.Set(sessionContextKey, id)
		c.Writer.Header().Set(sessionHeader, id)
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(sessionCookie, id, sessionCookieMaxAge, "/", "", false, true)
		c.Next()
	}
}

// SessionIDFromContext fetches the session id stored by Session middleware.
func SessionIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(sessionContextKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}
