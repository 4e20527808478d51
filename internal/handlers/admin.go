package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-authgate/oauth1gate/internal/middleware"
	"github.com/go-authgate/oauth1gate/internal/models"
	"github.com/go-authgate/oauth1gate/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler exposes account moderation and the client registry as JSON.
type AdminHandler struct {
	userService *services.UserService
	registry    *services.ClientRegistry
}

func NewAdminHandler(us *services.UserService, registry *services.ClientRegistry) *AdminHandler {
	return &AdminHandler{userService: us, registry: registry}
}

type clientResponse struct {
	Key         string   `json:"consumer_key"`
	Name        string   `json:"name"`
	CallbackURL string   `json:"callback_url,omitempty"`
	Permissions []string `json:"permissions"`
}

// ListClients returns the registered consumers without their secrets.
func (h *AdminHandler) ListClients(c *gin.Context) {
	clients, err := h.registry.ListClients(c.Request.Context())
	if err != nil {
		zap.S().Errorw("failed to list clients", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list clients"})
		return
	}

	out := make([]clientResponse, 0, len(clients))
	for i := range clients {
		perms := make([]string, 0)
		for _, p := range h.registry.PermissionsOf(&clients[i]).List() {
			perms = append(perms, string(p))
		}
		out = append(out, clientResponse{
			Key:         clients[i].Key,
			Name:        clients[i].Name,
			CallbackURL: clients[i].CallbackURL,
			Permissions: perms,
		})
	}
	c.JSON(http.StatusOK, gin.H{"clients": out})
}

func (h *AdminHandler) SuspendUser(c *gin.Context) {
	h.transition(c, h.userService.Suspend)
}

func (h *AdminHandler) UnsuspendUser(c *gin.Context) {
	h.transition(c, h.userService.Unsuspend)
}

func (h *AdminHandler) HideUser(c *gin.Context) {
	h.transition(c, h.userService.Hide)
}

func (h *AdminHandler) UnhideUser(c *gin.Context) {
	h.transition(c, h.userService.Unhide)
}

func (h *AdminHandler) ConfirmUser(c *gin.Context) {
	h.transition(c, func(ctx context.Context, id string, _ *models.User) (*models.User, error) {
		return h.userService.Confirm(ctx, id)
	})
}

type statusTransition func(ctx context.Context, id string, actor *models.User) (*models.User, error)

func (h *AdminHandler) transition(c *gin.Context, apply statusTransition) {
	user, err := apply(c.Request.Context(), c.Param("id"), middleware.GetUser(c))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{
			"id":           user.ID,
			"display_name": user.DisplayName,
			"status":       user.Status,
		})
	case errors.Is(err, services.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, services.ErrInvalidStatusTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		zap.S().Errorw("user status change failed", "user_id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
	}
}
