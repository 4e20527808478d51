package bootstrap

import (
	"github.com/go-authgate/oauth1gate/internal/auth"
	"github.com/go-authgate/oauth1gate/internal/services"
)

// initializeServices creates all business logic services
func (app *Application) initializeServices() {
	localProvider := auth.NewLocalAuthProvider(app.DB)

	app.ClientRegistry = services.NewClientRegistry(app.DB)
	app.UserService = services.NewUserService(
		app.DB,
		localProvider,
		app.AuditService,
		app.MetricsRecorder,
	)
	app.TokenService = services.NewTokenService(
		app.DB,
		app.Config,
		app.ClientRegistry,
		app.AuditService,
		app.MetricsRecorder,
	)
	app.AccessGuard = services.NewAccessGuard(app.DB, app.AuditService, app.MetricsRecorder)
	app.ResourceService = services.NewResourceService(app.DB)
}
