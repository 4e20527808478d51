package middleware

import (
	"net/http"

	"github.com/go-authgate/oauth1gate/internal/templates"
	"github.com/go-authgate/oauth1gate/internal/util"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	csrfSessionKey = "csrf_token"
	csrfFormField  = "csrf_token"
	csrfHeader     = "X-CSRF-Token"
	csrfTokenBytes = 32
)

// CSRFMiddleware keeps one random token per session and rejects any
// non-safe request that does not echo it back in the csrf_token form field
// or the X-CSRF-Token header. Signed OAuth endpoints do not use it.
func CSRFMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		expected, err := sessionCSRFToken(sessions.Default(c))
		if err != nil {
			abortWithPage(c, http.StatusInternalServerError, "Failed to start a session. Please try again.")
			return
		}
		c.Set(csrfSessionKey, expected)

		if isSafeMethod(c.Request.Method) {
			c.Next()
			return
		}

		submitted := c.PostForm(csrfFormField)
		if submitted == "" {
			submitted = c.GetHeader(csrfHeader)
		}
		if submitted == "" || !util.SecureCompare(submitted, expected) {
			abortWithPage(c, http.StatusForbidden,
				"CSRF token validation failed. Please refresh the page and try again.")
			return
		}
		c.Next()
	}
}

// sessionCSRFToken returns the session's token, minting and saving one on
// first use.
func sessionCSRFToken(session sessions.Session) (string, error) {
	if token, ok := session.Get(csrfSessionKey).(string); ok && token != "" {
		return token, nil
	}
	token, err := util.CryptoRandomString(2 * csrfTokenBytes)
	if err != nil {
		return "", err
	}
	session.Set(csrfSessionKey, token)
	return token, session.Save()
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

func abortWithPage(c *gin.Context, status int, message string) {
	templates.RenderTempl(c, status, templates.ErrorPage(templates.ErrorPageProps{Error: message}))
	c.Abort()
}

// GetCSRFToken returns the token CSRFMiddleware placed on the request, or
// "" outside of it.
func GetCSRFToken(c *gin.Context) string {
	return c.GetString(csrfSessionKey)
}
