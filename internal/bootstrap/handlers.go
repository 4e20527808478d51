package bootstrap

import (
	"github.com/go-authgate/oauth1gate/internal/handlers"
)

// handlerSet holds all HTTP handlers
type handlerSet struct {
	auth          *handlers.AuthHandler
	authorization *handlers.AuthorizationHandler
	token         *handlers.TokenHandler
	client        *handlers.ClientHandler
	api           *handlers.APIHandler
	admin         *handlers.AdminHandler
	audit         *handlers.AuditHandler
}

// initializeHandlers creates all HTTP handlers
func (app *Application) initializeHandlers() handlerSet {
	return handlerSet{
		auth: handlers.NewAuthHandler(
			app.UserService,
			app.AuditService,
			app.MetricsRecorder,
			app.Config.BaseURL,
		),
		authorization: handlers.NewAuthorizationHandler(app.TokenService),
		token:         handlers.NewTokenHandler(app.TokenService),
		client:        handlers.NewClientHandler(app.TokenService),
		api:           handlers.NewAPIHandler(app.ResourceService),
		admin:         handlers.NewAdminHandler(app.UserService, app.ClientRegistry),
		audit:         handlers.NewAuditHandler(app.AuditService),
	}
}
