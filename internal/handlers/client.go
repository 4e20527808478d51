package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/go-authgate/oauth1gate/internal/middleware"
	"github.com/go-authgate/oauth1gate/internal/services"
	"github.com/go-authgate/oauth1gate/internal/templates"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ClientHandler serves the signed-in user's view of the applications they
// have authorized.
type ClientHandler struct {
	tokenService *services.TokenService
}

func NewClientHandler(ts *services.TokenService) *ClientHandler {
	return &ClientHandler{tokenService: ts}
}

// Home sends the user to their authorized applications.
func (h *ClientHandler) Home(c *gin.Context) {
	c.Redirect(http.StatusFound, clientsPath(middleware.GetUser(c).DisplayName))
}

// ShowClientsPage lists the user's active access tokens grouped by client.
// Users can only see their own list.
func (h *ClientHandler) ShowClientsPage(c *gin.Context) {
	user := middleware.GetUser(c)
	if c.Param("display_name") != user.DisplayName {
		templates.RenderTempl(c, http.StatusForbidden, templates.ErrorPage(templates.ErrorPageProps{
			Error: "You can only manage your own applications.",
		}))
		return
	}

	clients, err := h.tokenService.ListUserTokens(c.Request.Context(), user.ID)
	if err != nil {
		zap.S().Errorw("failed to list authorized clients", "user_id", user.ID, "error", err)
		templates.RenderTempl(c, http.StatusInternalServerError, templates.ErrorPage(templates.ErrorPageProps{
			Error: "Failed to load authorized applications",
		}))
		return
	}

	session := sessions.Default(c)
	var successMsg string
	if flashes := session.Flashes(); len(flashes) > 0 {
		successMsg, _ = flashes[0].(string)
		_ = session.Save()
	}

	templates.RenderTempl(c, http.StatusOK, templates.ClientsPage(templates.ClientsPageProps{
		BaseProps:   templates.BaseProps{CSRFToken: middleware.GetCSRFToken(c)},
		NavbarProps: navbarProps(user),
		Clients:     clients,
		Success:     successMsg,
	}))
}

// Revoke invalidates one of the user's access tokens.
func (h *ClientHandler) Revoke(c *gin.Context) {
	user := middleware.GetUser(c)

	err := h.tokenService.Revoke(c.Request.Context(), c.PostForm("token"), user)
	switch {
	case err == nil:
	case errors.Is(err, services.ErrNotTokenOwner):
		templates.RenderTempl(c, http.StatusForbidden, templates.ErrorPage(templates.ErrorPageProps{
			Error: "You can only revoke your own applications.",
		}))
		return
	case isTokenNotValid(err):
		templates.RenderTempl(c, http.StatusNotFound, templates.ErrorPage(templates.ErrorPageProps{
			Error: "Access token not found",
		}))
		return
	default:
		zap.S().Errorw("failed to revoke token", "user_id", user.ID, "error", err)
		templates.RenderTempl(c, http.StatusInternalServerError, templates.ErrorPage(templates.ErrorPageProps{
			Error: "Failed to revoke access",
		}))
		return
	}

	session := sessions.Default(c)
	session.AddFlash("Access has been revoked.")
	_ = session.Save()
	c.Redirect(http.StatusFound, clientsPath(user.DisplayName))
}

func clientsPath(displayName string) string {
	return "/user/" + url.PathEscape(displayName) + "/oauth_clients"
}
