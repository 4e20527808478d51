package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-authgate/oauth1gate/internal/middleware"
	"github.com/go-authgate/oauth1gate/internal/models"
	"github.com/go-authgate/oauth1gate/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// APIHandler serves the resources protected by access tokens. Routes are
// mounted behind middleware.RequireAccessToken and RequirePermission, so
// every handler here can rely on an authenticated grant.
type APIHandler struct {
	resources *services.ResourceService
}

func NewAPIHandler(rs *services.ResourceService) *APIHandler {
	return &APIHandler{resources: rs}
}

// UserDetails returns the token owner's account and the permissions the
// token carries.
func (h *APIHandler) UserDetails(c *gin.Context) {
	grant := middleware.GetGrant(c)
	user := grant.Principal

	perms := make([]string, 0)
	for _, p := range grant.Permissions.List() {
		perms = append(perms, string(p))
	}
	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":              user.ID,
			"display_name":    user.DisplayName,
			"account_created": user.CreatedAt,
		},
		"permissions": perms,
	})
}

// ListPreferences returns every preference as a key/value object.
func (h *APIHandler) ListPreferences(c *gin.Context) {
	user := middleware.GetUser(c)
	prefs, err := h.resources.ListPreferences(c.Request.Context(), user.ID)
	if err != nil {
		apiError(c, err)
		return
	}
	out := make(map[string]string, len(prefs))
	for _, p := range prefs {
		out[p.Key] = p.Value
	}
	c.JSON(http.StatusOK, gin.H{"preferences": out})
}

// ReplacePreferences swaps the whole preference set for a JSON object.
func (h *APIHandler) ReplacePreferences(c *gin.Context) {
	var prefs map[string]string
	if err := c.ShouldBindJSON(&prefs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Body must be a JSON object of string values",
		})
		return
	}
	user := middleware.GetUser(c)
	if err := h.resources.ReplacePreferences(c.Request.Context(), user.ID, prefs); err != nil {
		apiError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// GetPreference returns a single value as plain text.
func (h *APIHandler) GetPreference(c *gin.Context) {
	user := middleware.GetUser(c)
	pref, err := h.resources.GetPreference(c.Request.Context(), user.ID, c.Param("key"))
	if err != nil {
		apiError(c, err)
		return
	}
	c.String(http.StatusOK, pref.Value)
}

// SetPreference stores the raw request body as the value of key.
func (h *APIHandler) SetPreference(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, models.MaxPreferenceLength*4+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "Failed to read body"})
		return
	}
	user := middleware.GetUser(c)
	if err := h.resources.SetPreference(c.Request.Context(), user.ID, c.Param("key"), string(body)); err != nil {
		apiError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *APIHandler) DeletePreference(c *gin.Context) {
	user := middleware.GetUser(c)
	if err := h.resources.DeletePreference(c.Request.Context(), user.ID, c.Param("key")); err != nil {
		apiError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// ListTraces returns the token owner's own traces.
func (h *APIHandler) ListTraces(c *gin.Context) {
	user := middleware.GetUser(c)
	traces, err := h.resources.ListTraces(c.Request.Context(), user.ID)
	if err != nil {
		apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"traces": traces})
}

// GetTrace returns trace metadata. Other users' private and trackable
// traces are refused.
func (h *APIHandler) GetTrace(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	trace, err := h.resources.GetTrace(c.Request.Context(), id, middleware.GetUser(c))
	if err != nil {
		apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, trace)
}

// CreateTrace registers trace metadata from the form fields name,
// description and visibility.
func (h *APIHandler) CreateTrace(c *gin.Context) {
	trace, err := h.resources.CreateTrace(
		c.Request.Context(),
		middleware.GetUser(c),
		c.PostForm("name"),
		c.PostForm("description"),
		c.DefaultPostForm("visibility", string(models.TraceVisibilityPrivate)),
	)
	if err != nil {
		apiError(c, err)
		return
	}
	c.JSON(http.StatusCreated, trace)
}

// GetNote is public: no token is needed to read a note.
func (h *APIHandler) GetNote(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	note, err := h.resources.GetNote(c.Request.Context(), id)
	if err != nil {
		apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

// CreateNote opens a note from the form fields lat, lon and text.
func (h *APIHandler) CreateNote(c *gin.Context) {
	lat, latErr := strconv.ParseFloat(c.PostForm("lat"), 64)
	lon, lonErr := strconv.ParseFloat(c.PostForm("lon"), 64)
	if latErr != nil || lonErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "lat and lon must be numbers",
		})
		return
	}
	note, err := h.resources.CreateNote(
		c.Request.Context(), lat, lon, c.PostForm("text"), middleware.GetUser(c), c.ClientIP(),
	)
	if err != nil {
		apiError(c, err)
		return
	}
	c.JSON(http.StatusCreated, note)
}

func (h *APIHandler) CloseNote(c *gin.Context) {
	h.changeNote(c, h.resources.CloseNote)
}

func (h *APIHandler) ReopenNote(c *gin.Context) {
	h.changeNote(c, h.resources.ReopenNote)
}

type noteTransition func(
	ctx context.Context,
	id int64,
	text string,
	actor *models.User,
	ip string,
) (*models.NoteView, error)

func (h *APIHandler) changeNote(c *gin.Context, transition noteTransition) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	note, err := transition(c.Request.Context(), id, c.PostForm("text"), middleware.GetUser(c), c.ClientIP())
	if err != nil {
		apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
		return 0, false
	}
	return id, true
}

// apiError maps resource errors to HTTP statuses.
func apiError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrResourceNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
	case errors.Is(err, services.ErrNotResourceOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, services.ErrNoteClosed):
		c.JSON(http.StatusConflict, gin.H{"error": "conflict", "message": err.Error()})
	case errors.Is(err, services.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": err.Error()})
	default:
		zap.S().Errorw("api request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
	}
}
