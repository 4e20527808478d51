package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-authgate/oauth1gate/internal/core"
	"github.com/go-authgate/oauth1gate/internal/middleware"
	"github.com/go-authgate/oauth1gate/internal/models"
	"github.com/go-authgate/oauth1gate/internal/services"
	"github.com/go-authgate/oauth1gate/internal/templates"
	"github.com/go-authgate/oauth1gate/internal/util"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	userService  *services.UserService
	auditService *services.AuditService
	metrics      core.Recorder
	baseURL      string
}

func NewAuthHandler(
	us *services.UserService,
	auditService *services.AuditService,
	m core.Recorder,
	baseURL string,
) *AuthHandler {
	return &AuthHandler{
		userService:  us,
		auditService: auditService,
		metrics:      m,
		baseURL:      baseURL,
	}
}

// LoginPage renders the login page
func (h *AuthHandler) LoginPage(c *gin.Context) {
	redirectTo := c.Query("redirect")
	if !util.IsRedirectSafe(redirectTo, h.baseURL) {
		redirectTo = ""
	}

	session := sessions.Default(c)
	if id, _ := session.Get(middleware.SessionUserID).(string); id != "" {
		c.Redirect(http.StatusFound, afterLogin(redirectTo))
		return
	}

	templates.RenderTempl(c, http.StatusOK, templates.LoginPage(templates.LoginPageProps{
		BaseProps: templates.BaseProps{CSRFToken: middleware.GetCSRFToken(c)},
		Redirect:  redirectTo,
	}))
}

// Login handles the login form submission
func (h *AuthHandler) Login(c *gin.Context) {
	login := c.PostForm("username")
	password := c.PostForm("password")
	redirectTo := c.PostForm("redirect")

	if !util.IsRedirectSafe(redirectTo, h.baseURL) {
		redirectTo = ""
	}

	user, err := h.userService.Authenticate(c.Request.Context(), login, password)
	if err != nil {
		status := http.StatusUnauthorized
		errorMsg := "Invalid display name, email or password"
		switch {
		case errors.Is(err, services.ErrAccountBlocked):
			status = http.StatusForbidden
			errorMsg = "This account has been suspended"
		case !errors.Is(err, services.ErrInvalidCredentials):
			zap.S().Errorw("login failed", "login", login, "error", err)
			status = http.StatusInternalServerError
			errorMsg = "Something went wrong. Please try again later."
		}

		templates.RenderTempl(c, status, templates.LoginPage(templates.LoginPageProps{
			BaseProps: templates.BaseProps{CSRFToken: middleware.GetCSRFToken(c)},
			Error:     errorMsg,
			Login:     login,
			Redirect:  redirectTo,
		}))
		return
	}

	session := sessions.Default(c)
	session.Clear()
	session.Set(middleware.SessionUserID, user.ID)
	session.Set(middleware.SessionLoginAt, time.Now().Unix())
	if err := session.Save(); err != nil {
		templates.RenderTempl(c, http.StatusInternalServerError, templates.LoginPage(templates.LoginPageProps{
			BaseProps: templates.BaseProps{CSRFToken: middleware.GetCSRFToken(c)},
			Error:     "Failed to create session",
		}))
		return
	}

	c.Redirect(http.StatusFound, afterLogin(redirectTo))
}

// Logout ends the browser session. Access tokens stay valid.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	if loginAt, ok := session.Get(middleware.SessionLoginAt).(int64); ok {
		h.metrics.RecordLogout(time.Since(time.Unix(loginAt, 0)))
	}

	if user := middleware.GetUser(c); user != nil {
		h.auditService.Log(c.Request.Context(), services.AuditLogEntry{
			EventType:     models.EventLogout,
			ActorUserID:   user.ID,
			ActorUsername: user.DisplayName,
			ResourceType:  models.ResourceUser,
			ResourceID:    user.ID,
			Action:        "Logged out",
			Success:       true,
		})
	}

	session.Clear()
	_ = session.Save()
	c.Redirect(http.StatusFound, "/login")
}

func afterLogin(redirectTo string) string {
	if redirectTo == "" {
		return "/"
	}
	return redirectTo
}
