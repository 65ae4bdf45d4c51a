package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"user-console/internal/usecase/auth"
)

// AuthGate lets a request through only when its session holds a token;
// otherwise the browser is sent to the login view.
func AuthGate(gate *auth.Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		out := gate.Protect(c.Request.Context(), SessionFrom(c), c.FullPath())
		if !out.Allowed() {
			c.Redirect(http.StatusSeeOther, out.Redirect)
			c.Abort()
			return
		}
		c.Next()
	}
}
