package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"user-console/internal/adapter/session"
	"user-console/pkg/logger"
)

const sessionKey = "console.session"

// CookieConfig describes the browser session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
	MaxAge int // seconds; zero makes it a browser-session cookie
}

// Session binds every request to a session context, issuing a new session
// cookie when the browser does not present one.
func Session(store session.Store, cfg CookieConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(cfg.Name)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.New().String()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cfg.Name, id, cfg.MaxAge, "/", "", cfg.Secure, true)
		}

		c.Set(sessionKey, session.New(id, store))
		c.Request = c.Request.WithContext(logger.ContextWithSessionID(c.Request.Context(), id))
		c.Next()
	}
}

// SessionFrom returns the session bound by Session, or nil.
func SessionFrom(c *gin.Context) *session.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*session.Session)
	return sess
}
