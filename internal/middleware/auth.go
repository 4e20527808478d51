package middleware

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/go-authgate/oauth1gate/internal/models"
	"github.com/go-authgate/oauth1gate/internal/services"
	"github.com/go-authgate/oauth1gate/internal/templates"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	SessionUserID  = "user_id"
	SessionLoginAt = "login_at"
)

// RequireAuth requires a signed-in user. The user is reloaded on every
// request so a suspension or hide ends the browser session immediately.
func RequireAuth(userService *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, _ := session.Get(SessionUserID).(string)

		if userID == "" {
			redirectToLogin(c)
			return
		}

		user, err := userService.GetUserByID(c.Request.Context(), userID)
		if err != nil && !errors.Is(err, services.ErrUserNotFound) {
			zap.S().Errorw("failed to load session user", "user_id", userID, "error", err)
			templates.RenderTempl(c, http.StatusInternalServerError, templates.ErrorPage(templates.ErrorPageProps{
				Error: "Something went wrong. Please try again later.",
			}))
			c.Abort()
			return
		}
		if user == nil || !user.CanLogin() {
			session.Clear()
			_ = session.Save()
			redirectToLogin(c)
			return
		}

		setUser(c, user)
		c.Next()
	}
}

// RequireAdmin requires the signed-in user to have the admin role.
// Use after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := GetUser(c)
		if user == nil || !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":   "forbidden",
				"message": "Admin access required",
			})
			return
		}
		c.Next()
	}
}

func redirectToLogin(c *gin.Context) {
	c.Redirect(http.StatusFound, "/login?redirect="+url.QueryEscape(c.Request.URL.RequestURI()))
	c.Abort()
}

func setUser(c *gin.Context, user *models.User) {
	c.Set(userKey, user)
	c.Request = c.Request.WithContext(models.SetUserContext(c.Request.Context(), user))
}
