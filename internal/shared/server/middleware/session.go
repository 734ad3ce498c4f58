package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"interview-summarizer/internal/llm"
	"interview-summarizer/internal/sessions"
)

const (
	// SessionCookieName names the cookie carrying the session ID.
	SessionCookieName = "isum_session"
	sessionIDKey      = "sessionId"
)

// SessionOptions configures the session cookie.
type SessionOptions struct {
	Secure          bool
	DefaultLanguage llm.Language
}

// Session loads the caller's session from its cookie. A session is only
// created by requests that change state, so page views, bots and health
// checkers never take a slot. The cookie is re-issued on every request to
// follow the manager's idle TTL.
func Session(manager *sessions.Manager, opts SessionOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, err := c.Cookie(SessionCookieName); err == nil && id != "" {
			if _, ok := manager.Get(id); ok {
				setSessionCookie(c, manager, id, opts)
				c.Set(sessionIDKey, id)
				c.Next()
				return
			}
		}

		if !createsSession(c.Request.Method) {
			c.Next()
			return
		}
		s := manager.Create(opts.DefaultLanguage)
		setSessionCookie(c, manager, s.ID, opts)
		c.Set(sessionIDKey, s.ID)
		c.Next()
	}
}

func setSessionCookie(c *gin.Context, manager *sessions.Manager, id string, opts SessionOptions) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, id, int(manager.TTL().Seconds()), "/", "", opts.Secure, true)
}

func createsSession(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	default:
		return true
	}
}

// SessionIDFromContext returns the session ID set by Session.
func SessionIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(sessionIDKey)
}
