package handlers

import (
	"errors"
	"net/http"

	"github.com/go-authgate/oauth1gate/internal/middleware"
	"github.com/go-authgate/oauth1gate/internal/models"
	"github.com/go-authgate/oauth1gate/internal/services"
	"github.com/go-authgate/oauth1gate/internal/templates"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const tokenNotValidMessage = "The authorization token is not valid."

// AuthorizationHandler serves the end-user decision on a request token.
type AuthorizationHandler struct {
	tokenService *services.TokenService
}

func NewAuthorizationHandler(ts *services.TokenService) *AuthorizationHandler {
	return &AuthorizationHandler{tokenService: ts}
}

// ShowAuthorizePage renders the consent page for GET /oauth/authorize.
// Every permission the token may receive starts checked.
func (h *AuthorizationHandler) ShowAuthorizePage(c *gin.Context) {
	user := middleware.GetUser(c)
	token, ok := h.pendingToken(c, c.Query("oauth_token"), user)
	if !ok {
		return
	}

	perms := token.Permissions.List()
	options := make([]templates.PermissionOption, 0, len(perms))
	for _, p := range perms {
		options = append(options, templates.PermissionOption{Permission: p, Checked: true})
	}

	templates.RenderTempl(c, http.StatusOK, templates.AuthorizePage(templates.AuthorizePageProps{
		BaseProps:   templates.BaseProps{CSRFToken: middleware.GetCSRFToken(c)},
		NavbarProps: navbarProps(user),
		ClientName:  token.ClientApplication.Name,
		Token:       token.Token,
		Permissions: options,
	}))
}

// HandleAuthorize processes the consent form. Each checked allow_<perm>
// field grants that permission; a submission without any denies the token.
func (h *AuthorizationHandler) HandleAuthorize(c *gin.Context) {
	user := middleware.GetUser(c)
	ctx := c.Request.Context()
	id := c.PostForm("oauth_token")

	token, ok := h.pendingToken(c, id, user)
	if !ok {
		return
	}

	granted := grantedPermissions(c)
	if granted.IsEmpty() {
		first, err := h.tokenService.Deny(ctx, id, user)
		if err != nil && !isTokenNotValid(err) {
			h.serverError(c, "deny request token", err)
			return
		}
		message := tokenNotValidMessage
		if first {
			message = "You have denied application " + token.ClientApplication.Name + " access to your account."
		}
		h.failure(c, user, message)
		return
	}

	result, err := h.tokenService.Authorize(ctx, id, user, granted, c.PostForm("oauth_callback"))
	switch {
	case err == nil:
	case errors.Is(err, services.ErrInvalidCallback):
		templates.RenderTempl(c, http.StatusBadRequest, templates.ErrorPage(templates.ErrorPageProps{
			Error:   "Invalid callback",
			Message: "The callback must be an absolute http or https URL.",
		}))
		return
	case isTokenNotValid(err):
		h.failure(c, user, tokenNotValidMessage)
		return
	default:
		h.serverError(c, "authorize request token", err)
		return
	}

	if result.RedirectURL != "" {
		c.Redirect(http.StatusFound, result.RedirectURL)
		return
	}

	templates.RenderTempl(c, http.StatusOK, templates.AuthorizeSuccessPage(templates.AuthorizeSuccessPageProps{
		NavbarProps: navbarProps(user),
		ClientName:  result.Client.Name,
		Verifier:    result.Token.Verifier,
	}))
}

// pendingToken loads a token awaiting a decision. Unknown tokens and tokens
// in any other state get the same failure page.
func (h *AuthorizationHandler) pendingToken(
	c *gin.Context,
	id string,
	user *models.User,
) (*models.OAuthToken, bool) {
	token, err := h.tokenService.GetPendingRequestToken(c.Request.Context(), id)
	switch {
	case err == nil:
		return token, true
	case isTokenNotValid(err):
		h.failure(c, user, tokenNotValidMessage)
	default:
		h.serverError(c, "load request token", err)
	}
	return nil, false
}

func (h *AuthorizationHandler) failure(c *gin.Context, user *models.User, message string) {
	templates.RenderTempl(c, http.StatusOK, templates.AuthorizeFailurePage(templates.AuthorizeFailurePageProps{
		NavbarProps: navbarProps(user),
		Message:     message,
	}))
}

func (h *AuthorizationHandler) serverError(c *gin.Context, op string, err error) {
	zap.S().Errorw("authorization failed", "op", op, "error", err)
	templates.RenderTempl(c, http.StatusInternalServerError, templates.ErrorPage(templates.ErrorPageProps{
		Error: "Something went wrong. Please try again later.",
	}))
}

func grantedPermissions(c *gin.Context) models.PermissionSet {
	var granted models.PermissionSet
	for _, p := range models.AllPermissions {
		if c.PostForm("allow_"+string(p)) != "" {
			granted |= models.NewPermissionSet(p)
		}
	}
	return granted
}

func isTokenNotValid(err error) bool {
	return errors.Is(err, services.ErrTokenNotFound) || errors.Is(err, services.ErrInvalidTokenState)
}

func navbarProps(user *models.User) templates.NavbarProps {
	if user == nil {
		return templates.NavbarProps{}
	}
	return templates.NavbarProps{DisplayName: user.DisplayName, IsAdmin: user.IsAdmin()}
}
